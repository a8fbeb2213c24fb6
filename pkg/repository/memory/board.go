package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

type memberKey struct {
	boardID types.BoardID
	userID  types.UserID
}

type boardRepository struct {
	mu      sync.RWMutex
	boards  map[types.BoardID]*model.Board
	members map[memberKey]*model.BoardMember
}

func newBoardRepository() *boardRepository {
	return &boardRepository{
		boards:  make(map[types.BoardID]*model.Board),
		members: make(map[memberKey]*model.BoardMember),
	}
}

func copyBoard(b *model.Board) *model.Board {
	copied := *b
	return &copied
}

func copyMember(m *model.BoardMember) *model.BoardMember {
	copied := *m
	return &copied
}

func (r *boardRepository) Create(ctx context.Context, board *model.Board) (*model.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyBoard(board)
	if created.ID == "" {
		created.ID = types.NewBoardID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.boards[created.ID] = created

	// The owner is always a member with the owner role
	key := memberKey{boardID: created.ID, userID: created.OwnerID}
	r.members[key] = &model.BoardMember{
		BoardID:  created.ID,
		UserID:   created.OwnerID,
		Role:     types.MemberRoleOwner,
		JoinedAt: now,
	}

	return copyBoard(created), nil
}

func (r *boardRepository) Get(ctx context.Context, id types.BoardID) (*model.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	board, exists := r.boards[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "board not found", goerr.V("id", id))
	}

	return copyBoard(board), nil
}

func (r *boardRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Board, 0)
	for _, board := range r.boards {
		if board.OwnerID == userID {
			result = append(result, copyBoard(board))
			continue
		}
		if _, ok := r.members[memberKey{boardID: board.ID, userID: userID}]; ok {
			result = append(result, copyBoard(board))
		}
	}

	sortBoards(result)
	return result, nil
}

func (r *boardRepository) ListOwned(ctx context.Context, userID types.UserID) ([]*model.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Board, 0)
	for _, board := range r.boards {
		if board.OwnerID == userID {
			result = append(result, copyBoard(board))
		}
	}

	sortBoards(result)
	return result, nil
}

func sortBoards(boards []*model.Board) {
	sort.Slice(boards, func(i, j int) bool {
		if boards[i].CreatedAt.Equal(boards[j].CreatedAt) {
			return boards[i].ID < boards[j].ID
		}
		return boards[i].CreatedAt.Before(boards[j].CreatedAt)
	})
}

func (r *boardRepository) Update(ctx context.Context, board *model.Board) (*model.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.boards[board.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "board not found", goerr.V("id", board.ID))
	}

	updated := copyBoard(board)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.boards[updated.ID] = updated
	return copyBoard(updated), nil
}

func (r *boardRepository) Delete(ctx context.Context, id types.BoardID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[id]; !exists {
		return goerr.Wrap(ErrNotFound, "board not found", goerr.V("id", id))
	}

	delete(r.boards, id)
	for key := range r.members {
		if key.boardID == id {
			delete(r.members, key)
		}
	}
	return nil
}

func (r *boardRepository) AddMember(ctx context.Context, member *model.BoardMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boards[member.BoardID]; !exists {
		return goerr.Wrap(ErrNotFound, "board not found", goerr.V("id", member.BoardID))
	}

	added := copyMember(member)
	if added.JoinedAt.IsZero() {
		added.JoinedAt = time.Now().UTC()
	}

	r.members[memberKey{boardID: added.BoardID, userID: added.UserID}] = added
	return nil
}

func (r *boardRepository) RemoveMember(ctx context.Context, boardID types.BoardID, userID types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey{boardID: boardID, userID: userID}
	if _, exists := r.members[key]; !exists {
		return goerr.Wrap(ErrNotFound, "member not found",
			goerr.V("boardID", boardID), goerr.V("userID", userID))
	}

	delete(r.members, key)
	return nil
}

func (r *boardRepository) GetMember(ctx context.Context, boardID types.BoardID, userID types.UserID) (*model.BoardMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, exists := r.members[memberKey{boardID: boardID, userID: userID}]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "member not found",
			goerr.V("boardID", boardID), goerr.V("userID", userID))
	}

	return copyMember(member), nil
}

func (r *boardRepository) ListMembers(ctx context.Context, boardID types.BoardID) ([]*model.BoardMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.BoardMember, 0)
	for key, member := range r.members {
		if key.boardID == boardID {
			result = append(result, copyMember(member))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result, nil
}
