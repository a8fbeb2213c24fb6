package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// commentDoc is the Firestore document representation of model.Comment
type commentDoc struct {
	ID        string    `firestore:"ID"`
	TaskID    string    `firestore:"TaskID"`
	UserID    string    `firestore:"UserID"`
	Content   string    `firestore:"Content"`
	CreatedAt time.Time `firestore:"CreatedAt"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

func toCommentDoc(c *model.Comment) *commentDoc {
	return &commentDoc{
		ID:        string(c.ID),
		TaskID:    string(c.TaskID),
		UserID:    string(c.UserID),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromCommentDoc(d *commentDoc) *model.Comment {
	return &model.Comment{
		ID:        types.CommentID(d.ID),
		TaskID:    types.TaskID(d.TaskID),
		UserID:    types.UserID(d.UserID),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type commentRepository struct {
	client *firestore.Client
}

func newCommentRepository(client *firestore.Client) *commentRepository {
	return &commentRepository{client: client}
}

func (r *commentRepository) comments() *firestore.CollectionRef {
	return r.client.Collection(collectionComments)
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	created := *comment
	if created.ID == "" {
		created.ID = types.NewCommentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.comments().Doc(string(created.ID)).Set(ctx, toCommentDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *commentRepository) Get(ctx context.Context, id types.CommentID) (*model.Comment, error) {
	doc, err := r.comments().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "comment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get comment", goerr.V("id", id))
	}

	var d commentDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal comment", goerr.V("id", id))
	}

	return fromCommentDoc(&d), nil
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error) {
	iter := r.comments().
		Where("TaskID", "==", string(taskID)).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	comments := make([]*model.Comment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments", goerr.V("taskID", taskID))
		}

		var d commentDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal comment")
		}
		comments = append(comments, fromCommentDoc(&d))
	}

	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id types.CommentID) error {
	docRef := r.comments().Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "comment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get comment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete comment", goerr.V("id", id))
	}
	return nil
}
