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

type columnRepository struct {
	mu      sync.RWMutex
	columns map[types.ColumnID]*model.Column
}

func newColumnRepository() *columnRepository {
	return &columnRepository{
		columns: make(map[types.ColumnID]*model.Column),
	}
}

func copyColumn(c *model.Column) *model.Column {
	copied := *c
	return &copied
}

func (r *columnRepository) Create(ctx context.Context, column *model.Column) (*model.Column, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyColumn(column)
	if created.ID == "" {
		created.ID = types.NewColumnID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.columns[created.ID] = created
	return copyColumn(created), nil
}

func (r *columnRepository) Get(ctx context.Context, id types.ColumnID) (*model.Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	column, exists := r.columns[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "column not found", goerr.V("id", id))
	}

	return copyColumn(column), nil
}

func (r *columnRepository) ListByBoard(ctx context.Context, boardID types.BoardID) ([]*model.Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Column, 0)
	for _, column := range r.columns {
		if column.BoardID == boardID {
			result = append(result, copyColumn(column))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Position == result[j].Position {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (r *columnRepository) Update(ctx context.Context, column *model.Column) (*model.Column, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.columns[column.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "column not found", goerr.V("id", column.ID))
	}

	updated := copyColumn(column)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.columns[updated.ID] = updated
	return copyColumn(updated), nil
}

func (r *columnRepository) Delete(ctx context.Context, id types.ColumnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.columns[id]; !exists {
		return goerr.Wrap(ErrNotFound, "column not found", goerr.V("id", id))
	}

	delete(r.columns, id)
	return nil
}
