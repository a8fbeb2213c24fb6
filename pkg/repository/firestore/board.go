package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// boardDoc is the Firestore document representation of model.Board
type boardDoc struct {
	ID          string    `firestore:"ID"`
	Name        string    `firestore:"Name"`
	Description string    `firestore:"Description"`
	OwnerID     string    `firestore:"OwnerID"`
	IsPublic    bool      `firestore:"IsPublic"`
	CreatedAt   time.Time `firestore:"CreatedAt"`
	UpdatedAt   time.Time `firestore:"UpdatedAt"`
}

// memberDoc is the Firestore document representation of model.BoardMember.
// Document ID is "{boardID}:{userID}".
type memberDoc struct {
	BoardID  string    `firestore:"BoardID"`
	UserID   string    `firestore:"UserID"`
	Role     string    `firestore:"Role"`
	JoinedAt time.Time `firestore:"JoinedAt"`
}

func toBoardDoc(b *model.Board) *boardDoc {
	return &boardDoc{
		ID:          string(b.ID),
		Name:        b.Name,
		Description: b.Description,
		OwnerID:     string(b.OwnerID),
		IsPublic:    b.IsPublic,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func fromBoardDoc(d *boardDoc) *model.Board {
	return &model.Board{
		ID:          types.BoardID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     types.UserID(d.OwnerID),
		IsPublic:    d.IsPublic,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func fromMemberDoc(d *memberDoc) *model.BoardMember {
	return &model.BoardMember{
		BoardID:  types.BoardID(d.BoardID),
		UserID:   types.UserID(d.UserID),
		Role:     types.MemberRole(d.Role),
		JoinedAt: d.JoinedAt,
	}
}

type boardRepository struct {
	client *firestore.Client
}

func newBoardRepository(client *firestore.Client) *boardRepository {
	return &boardRepository{client: client}
}

func (r *boardRepository) boards() *firestore.CollectionRef {
	return r.client.Collection(collectionBoards)
}

func (r *boardRepository) members() *firestore.CollectionRef {
	return r.client.Collection(collectionMembers)
}

func memberDocID(boardID types.BoardID, userID types.UserID) string {
	return string(boardID) + ":" + string(userID)
}

func (r *boardRepository) Create(ctx context.Context, board *model.Board) (*model.Board, error) {
	created := *board
	if created.ID == "" {
		created.ID = types.NewBoardID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	batch := r.client.Batch()
	batch.Set(r.boards().Doc(string(created.ID)), toBoardDoc(&created))
	batch.Set(r.members().Doc(memberDocID(created.ID, created.OwnerID)), &memberDoc{
		BoardID:  string(created.ID),
		UserID:   string(created.OwnerID),
		Role:     string(types.MemberRoleOwner),
		JoinedAt: now,
	})

	if _, err := batch.Commit(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to create board", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *boardRepository) Get(ctx context.Context, id types.BoardID) (*model.Board, error) {
	doc, err := r.boards().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "board not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get board", goerr.V("id", id))
	}

	var d boardDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal board", goerr.V("id", id))
	}

	return fromBoardDoc(&d), nil
}

func (r *boardRepository) listBoards(ctx context.Context, q firestore.Query) ([]*model.Board, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	boards := make([]*model.Board, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate boards")
		}

		var d boardDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal board")
		}
		boards = append(boards, fromBoardDoc(&d))
	}

	return boards, nil
}

func (r *boardRepository) ListOwned(ctx context.Context, userID types.UserID) ([]*model.Board, error) {
	return r.listBoards(ctx, r.boards().
		Where("OwnerID", "==", string(userID)).
		OrderBy("CreatedAt", firestore.Asc))
}

func (r *boardRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Board, error) {
	owned, err := r.ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[types.BoardID]bool, len(owned))
	for _, b := range owned {
		seen[b.ID] = true
	}

	iter := r.members().Where("UserID", "==", string(userID)).Documents(ctx)
	defer iter.Stop()

	result := owned
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memberships")
		}

		var d memberDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal membership")
		}
		if seen[types.BoardID(d.BoardID)] {
			continue
		}

		board, err := r.Get(ctx, types.BoardID(d.BoardID))
		if err != nil {
			// Membership may outlive a deleted board
			continue
		}
		seen[board.ID] = true
		result = append(result, board)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *boardRepository) Update(ctx context.Context, board *model.Board) (*model.Board, error) {
	docRef := r.boards().Doc(string(board.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "board not found", goerr.V("id", board.ID))
		}
		return nil, goerr.Wrap(err, "failed to get board", goerr.V("id", board.ID))
	}

	var existing boardDoc
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal board", goerr.V("id", board.ID))
	}

	updated := *board
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toBoardDoc(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update board", goerr.V("id", board.ID))
	}

	return &updated, nil
}

func (r *boardRepository) Delete(ctx context.Context, id types.BoardID) error {
	docRef := r.boards().Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "board not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get board", goerr.V("id", id))
	}

	batch := r.client.Batch()
	batch.Delete(docRef)

	iter := r.members().Where("BoardID", "==", string(id)).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate memberships", goerr.V("boardID", id))
		}
		batch.Delete(doc.Ref)
	}

	if _, err := batch.Commit(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete board", goerr.V("id", id))
	}
	return nil
}

func (r *boardRepository) AddMember(ctx context.Context, member *model.BoardMember) error {
	if _, err := r.Get(ctx, member.BoardID); err != nil {
		return err
	}

	added := *member
	if added.JoinedAt.IsZero() {
		added.JoinedAt = time.Now().UTC()
	}

	docRef := r.members().Doc(memberDocID(added.BoardID, added.UserID))
	_, err := docRef.Set(ctx, &memberDoc{
		BoardID:  string(added.BoardID),
		UserID:   string(added.UserID),
		Role:     string(added.Role),
		JoinedAt: added.JoinedAt,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to add member",
			goerr.V("boardID", added.BoardID), goerr.V("userID", added.UserID))
	}
	return nil
}

func (r *boardRepository) RemoveMember(ctx context.Context, boardID types.BoardID, userID types.UserID) error {
	docRef := r.members().Doc(memberDocID(boardID, userID))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "member not found",
				goerr.V("boardID", boardID), goerr.V("userID", userID))
		}
		return goerr.Wrap(err, "failed to get member",
			goerr.V("boardID", boardID), goerr.V("userID", userID))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to remove member",
			goerr.V("boardID", boardID), goerr.V("userID", userID))
	}
	return nil
}

func (r *boardRepository) GetMember(ctx context.Context, boardID types.BoardID, userID types.UserID) (*model.BoardMember, error) {
	doc, err := r.members().Doc(memberDocID(boardID, userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "member not found",
				goerr.V("boardID", boardID), goerr.V("userID", userID))
		}
		return nil, goerr.Wrap(err, "failed to get member",
			goerr.V("boardID", boardID), goerr.V("userID", userID))
	}

	var d memberDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal member")
	}

	return fromMemberDoc(&d), nil
}

func (r *boardRepository) ListMembers(ctx context.Context, boardID types.BoardID) ([]*model.BoardMember, error) {
	iter := r.members().
		Where("BoardID", "==", string(boardID)).
		OrderBy("JoinedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	result := make([]*model.BoardMember, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate members", goerr.V("boardID", boardID))
		}

		var d memberDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal member")
		}
		result = append(result, fromMemberDoc(&d))
	}

	return result, nil
}
