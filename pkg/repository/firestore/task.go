package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// taskDoc is the Firestore document representation of model.Task
type taskDoc struct {
	ID          string     `firestore:"ID"`
	BoardID     string     `firestore:"BoardID"`
	ColumnID    string     `firestore:"ColumnID"`
	Title       string     `firestore:"Title"`
	Description string     `firestore:"Description"`
	Priority    string     `firestore:"Priority"`
	Position    int        `firestore:"Position"`
	DueDate     *time.Time `firestore:"DueDate"`
	CreatorID   string     `firestore:"CreatorID"`
	AssigneeID  string     `firestore:"AssigneeID"`
	CreatedAt   time.Time  `firestore:"CreatedAt"`
	UpdatedAt   time.Time  `firestore:"UpdatedAt"`
}

func toTaskDoc(t *model.Task) *taskDoc {
	return &taskDoc{
		ID:          string(t.ID),
		BoardID:     string(t.BoardID),
		ColumnID:    string(t.ColumnID),
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Position:    t.Position,
		DueDate:     t.DueDate,
		CreatorID:   string(t.CreatorID),
		AssigneeID:  string(t.AssigneeID),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromTaskDoc(d *taskDoc) *model.Task {
	return &model.Task{
		ID:          types.TaskID(d.ID),
		BoardID:     types.BoardID(d.BoardID),
		ColumnID:    types.ColumnID(d.ColumnID),
		Title:       d.Title,
		Description: d.Description,
		Priority:    types.Priority(d.Priority),
		Position:    d.Position,
		DueDate:     d.DueDate,
		CreatorID:   types.UserID(d.CreatorID),
		AssigneeID:  types.UserID(d.AssigneeID),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type taskRepository struct {
	client *firestore.Client
}

func newTaskRepository(client *firestore.Client) *taskRepository {
	return &taskRepository{client: client}
}

func (r *taskRepository) tasks() *firestore.CollectionRef {
	return r.client.Collection(collectionTasks)
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	created := *task
	if created.ID == "" {
		created.ID = types.NewTaskID()
	}
	created.Priority = created.Priority.Normalize()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.tasks().Doc(string(created.ID)).Set(ctx, toTaskDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	doc, err := r.tasks().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	var d taskDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal task", goerr.V("id", id))
	}

	return fromTaskDoc(&d), nil
}

func (r *taskRepository) listTasks(ctx context.Context, q firestore.Query) ([]*model.Task, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	tasks := make([]*model.Task, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tasks")
		}

		var d taskDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal task")
		}
		tasks = append(tasks, fromTaskDoc(&d))
	}

	return tasks, nil
}

func (r *taskRepository) ListByBoard(ctx context.Context, boardID types.BoardID) ([]*model.Task, error) {
	return r.listTasks(ctx, r.tasks().
		Where("BoardID", "==", string(boardID)).
		OrderBy("Position", firestore.Asc))
}

func (r *taskRepository) ListByColumn(ctx context.Context, columnID types.ColumnID) ([]*model.Task, error) {
	return r.listTasks(ctx, r.tasks().
		Where("ColumnID", "==", string(columnID)).
		OrderBy("Position", firestore.Asc))
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	docRef := r.tasks().Doc(string(task.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", task.ID))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", task.ID))
	}

	var existing taskDoc
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal task", goerr.V("id", task.ID))
	}

	updated := *task
	updated.Priority = updated.Priority.Normalize()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toTaskDoc(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V("id", task.ID))
	}

	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id types.TaskID) error {
	docRef := r.tasks().Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete task", goerr.V("id", id))
	}
	return nil
}

// Search filters in memory after narrowing by board: Firestore has no
// case-insensitive substring query.
func (r *taskRepository) Search(ctx context.Context, query string, boardID types.BoardID) ([]*model.Task, error) {
	q := r.tasks().Query
	if boardID != "" {
		q = q.Where("BoardID", "==", string(boardID))
	}

	tasks, err := r.listTasks(ctx, q)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matched := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			matched = append(matched, t)
		}
	}

	return matched, nil
}

func (r *taskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*model.Task, error) {
	return r.listTasks(ctx, r.tasks().
		Where("DueDate", ">=", from).
		Where("DueDate", "<", to).
		OrderBy("DueDate", firestore.Asc))
}
