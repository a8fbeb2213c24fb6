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

type commentRepository struct {
	mu       sync.RWMutex
	comments map[types.CommentID]*model.Comment
}

func newCommentRepository() *commentRepository {
	return &commentRepository{
		comments: make(map[types.CommentID]*model.Comment),
	}
}

func copyComment(c *model.Comment) *model.Comment {
	copied := *c
	return &copied
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyComment(comment)
	if created.ID == "" {
		created.ID = types.NewCommentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.comments[created.ID] = created
	return copyComment(created), nil
}

func (r *commentRepository) Get(ctx context.Context, id types.CommentID) (*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, exists := r.comments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "comment not found", goerr.V("id", id))
	}

	return copyComment(comment), nil
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Comment, 0)
	for _, comment := range r.comments {
		if comment.TaskID == taskID {
			result = append(result, copyComment(comment))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *commentRepository) Delete(ctx context.Context, id types.CommentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "comment not found", goerr.V("id", id))
	}

	delete(r.comments, id)
	return nil
}
