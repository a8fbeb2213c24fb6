package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[types.TaskID]*model.Task
}

func newTaskRepository() *taskRepository {
	return &taskRepository{
		tasks: make(map[types.TaskID]*model.Task),
	}
}

func copyTask(t *model.Task) *model.Task {
	copied := *t
	if t.DueDate != nil {
		due := *t.DueDate
		copied.DueDate = &due
	}
	return &copied
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyTask(task)
	if created.ID == "" {
		created.ID = types.NewTaskID()
	}
	created.Priority = created.Priority.Normalize()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.tasks[created.ID] = created
	return copyTask(created), nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, exists := r.tasks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	return copyTask(task), nil
}

func (r *taskRepository) ListByBoard(ctx context.Context, boardID types.BoardID) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Task, 0)
	for _, task := range r.tasks {
		if task.BoardID == boardID {
			result = append(result, copyTask(task))
		}
	}

	sortTasks(result)
	return result, nil
}

func (r *taskRepository) ListByColumn(ctx context.Context, columnID types.ColumnID) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Task, 0)
	for _, task := range r.tasks {
		if task.ColumnID == columnID {
			result = append(result, copyTask(task))
		}
	}

	sortTasks(result)
	return result, nil
}

func sortTasks(tasks []*model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Position == tasks[j].Position {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].Position < tasks[j].Position
	})
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.tasks[task.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", task.ID))
	}

	updated := copyTask(task)
	updated.Priority = updated.Priority.Normalize()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.tasks[updated.ID] = updated
	return copyTask(updated), nil
}

func (r *taskRepository) Delete(ctx context.Context, id types.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[id]; !exists {
		return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	delete(r.tasks, id)
	return nil
}

func (r *taskRepository) Search(ctx context.Context, query string, boardID types.BoardID) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	result := make([]*model.Task, 0)
	for _, task := range r.tasks {
		if boardID != "" && task.BoardID != boardID {
			continue
		}
		if strings.Contains(strings.ToLower(task.Title), q) ||
			strings.Contains(strings.ToLower(task.Description), q) {
			result = append(result, copyTask(task))
		}
	}

	sortTasks(result)
	return result, nil
}

func (r *taskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Task, 0)
	for _, task := range r.tasks {
		if task.DueDate == nil {
			continue
		}
		if task.DueDate.Before(from) || !task.DueDate.Before(to) {
			continue
		}
		result = append(result, copyTask(task))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DueDate.Before(*result[j].DueDate)
	})
	return result, nil
}
