package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/utils/async"
)

type TaskUseCase struct {
	repo     interfaces.Repository
	bus      interfaces.BoardBroadcaster
	notifier interfaces.Notifier
}

func NewTaskUseCase(repo interfaces.Repository, bus interfaces.BoardBroadcaster, notifier interfaces.Notifier) *TaskUseCase {
	return &TaskUseCase{
		repo:     repo,
		bus:      bus,
		notifier: notifier,
	}
}

// publish runs the post-commit side effects: chat notifications off the
// request path, then a live board broadcast. Neither outcome affects the
// caller.
func (uc *TaskUseCase) publish(ctx context.Context, eventType types.EventType, actorID types.UserID, board *model.Board, task *model.Task) {
	if uc.notifier != nil {
		event := &model.NotificationEvent{
			Type:    eventType,
			ActorID: actorID,
			Board:   board,
			Task:    task,
		}
		async.Dispatch(ctx, func(ctx context.Context) error {
			uc.notifier.Notify(ctx, event)
			return nil
		})
	}

	if uc.bus != nil {
		uc.bus.Broadcast(ctx, board.ID, &model.BoardEvent{
			Type:    eventType,
			Payload: task,
		})
	}
}

type TaskInput struct {
	ColumnID    types.ColumnID
	Title       string
	Description string
	Priority    types.Priority
	Position    *int
	DueDate     *time.Time
	AssigneeID  types.UserID
}

func (uc *TaskUseCase) Create(ctx context.Context, userID types.UserID, boardID types.BoardID, input *TaskInput) (*model.Task, error) {
	board, err := requireMember(ctx, uc.repo, boardID, userID)
	if err != nil {
		return nil, err
	}

	column, err := uc.repo.Column().Get(ctx, input.ColumnID)
	if err != nil {
		return nil, err
	}
	if column.BoardID != boardID {
		return nil, goerr.Wrap(model.ErrValidation, "column belongs to another board",
			goerr.V("columnID", column.ID), goerr.V("boardID", boardID))
	}

	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		existing, err := uc.repo.Task().ListByColumn(ctx, column.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list tasks")
		}
		position = len(existing)
	}

	task := &model.Task{
		BoardID:     boardID,
		ColumnID:    column.ID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority.Normalize(),
		Position:    position,
		DueDate:     input.DueDate,
		CreatorID:   userID,
		AssigneeID:  input.AssigneeID,
	}
	task.ID = types.NewTaskID()
	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Task().Create(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task")
	}

	uc.publish(ctx, types.EventTaskCreated, userID, board, created)
	return created, nil
}

func (uc *TaskUseCase) Get(ctx context.Context, userID types.UserID, taskID types.TaskID) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireViewer(ctx, uc.repo, task.BoardID, userID); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *TaskUseCase) ListByBoard(ctx context.Context, userID types.UserID, boardID types.BoardID) ([]*model.Task, error) {
	if _, err := requireViewer(ctx, uc.repo, boardID, userID); err != nil {
		return nil, err
	}
	tasks, err := uc.repo.Task().ListByBoard(ctx, boardID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks")
	}
	return tasks, nil
}

func (uc *TaskUseCase) Update(ctx context.Context, userID types.UserID, taskID types.TaskID, input *TaskInput) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := requireMember(ctx, uc.repo, task.BoardID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Description != "" {
		task.Description = input.Description
	}
	if input.Priority != "" {
		task.Priority = input.Priority.Normalize()
	}
	if input.ColumnID != "" && input.ColumnID != task.ColumnID {
		column, err := uc.repo.Column().Get(ctx, input.ColumnID)
		if err != nil {
			return nil, err
		}
		if column.BoardID != task.BoardID {
			return nil, goerr.Wrap(model.ErrValidation, "column belongs to another board",
				goerr.V("columnID", column.ID))
		}
		task.ColumnID = column.ID
	}
	if input.Position != nil {
		task.Position = *input.Position
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssigneeID != "" {
		task.AssigneeID = input.AssigneeID
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Task().Update(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update task")
	}

	uc.publish(ctx, types.EventTaskUpdated, userID, board, updated)
	return updated, nil
}

func (uc *TaskUseCase) Delete(ctx context.Context, userID types.UserID, taskID types.TaskID) error {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return err
	}
	board, err := requireMember(ctx, uc.repo, task.BoardID, userID)
	if err != nil {
		return err
	}

	if err := uc.repo.Task().Delete(ctx, taskID); err != nil {
		return goerr.Wrap(err, "failed to delete task")
	}

	uc.publish(ctx, types.EventTaskDeleted, userID, board, task)
	return nil
}

// Search matches the query against task titles and descriptions. With a
// board ID the caller must be allowed to view that board; without one only
// boards visible to the caller are searched.
func (uc *TaskUseCase) Search(ctx context.Context, userID types.UserID, query string, boardID types.BoardID) ([]*model.Task, error) {
	if boardID != "" {
		if _, err := requireViewer(ctx, uc.repo, boardID, userID); err != nil {
			return nil, err
		}
		tasks, err := uc.repo.Task().Search(ctx, query, boardID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search tasks")
		}
		return tasks, nil
	}

	boards, err := uc.repo.Board().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list boards")
	}

	var result []*model.Task
	for _, board := range boards {
		tasks, err := uc.repo.Task().Search(ctx, query, board.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search tasks", goerr.V("boardID", board.ID))
		}
		result = append(result, tasks...)
	}
	return result, nil
}
