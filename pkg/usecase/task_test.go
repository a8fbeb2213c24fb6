package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/repository/memory"
	"github.com/secmon-lab/kanbot/pkg/service/session"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

type recordBus struct {
	mu     sync.Mutex
	events []*model.BoardEvent
}

func (b *recordBus) Broadcast(ctx context.Context, boardID types.BoardID, event *model.BoardEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordBus) types(t *testing.T) []types.EventType {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.EventType, len(b.events))
	for i, ev := range b.events {
		out[i] = ev.Type
	}
	return out
}

type recordNotifier struct {
	mu     sync.Mutex
	events []*model.NotificationEvent
	wg     sync.WaitGroup
}

func (n *recordNotifier) Notify(ctx context.Context, event *model.NotificationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	n.wg.Done()
}

type taskFixture struct {
	uc       *usecase.UseCases
	repo     *memory.Memory
	bus      *recordBus
	notifier *recordNotifier
	user     *model.User
	board    *model.Board
	column   *model.Column
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	ctx := context.Background()

	repo := memory.New()
	sessions := session.New()
	t.Cleanup(sessions.Close)

	bus := &recordBus{}
	notifier := &recordNotifier{}
	uc := usecase.New(repo, sessions,
		usecase.WithBroadcaster(bus),
		usecase.WithNotifier(notifier))

	user, err := repo.User().Create(ctx, &model.User{
		Username: "alice",
		Email:    "alice@example.com",
	})
	gt.NoError(t, err).Required()

	board, err := uc.Board.Create(ctx, user.ID, &usecase.BoardInput{Name: "Board"})
	gt.NoError(t, err).Required()

	column, err := uc.Column.Create(ctx, user.ID, board.ID, &usecase.ColumnInput{Name: "To Do"})
	gt.NoError(t, err).Required()

	return &taskFixture{
		uc:       uc,
		repo:     repo,
		bus:      bus,
		notifier: notifier,
		user:     user,
		board:    board,
		column:   column,
	}
}

func TestCreateTaskBroadcastsAndNotifies(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.notifier.wg.Add(1)
	task, err := f.uc.Task.Create(ctx, f.user.ID, f.board.ID, &usecase.TaskInput{
		ColumnID: f.column.ID,
		Title:    "Ship it",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, task.CreatorID).Equal(f.user.ID)
	gt.Value(t, task.Priority).Equal(types.PriorityMedium)

	f.notifier.wg.Wait()
	gt.Value(t, f.bus.types(t)).Equal([]types.EventType{types.EventTaskCreated})

	f.notifier.mu.Lock()
	gt.Array(t, f.notifier.events).Length(1)
	gt.Value(t, f.notifier.events[0].ActorID).Equal(f.user.ID)
	f.notifier.mu.Unlock()
}

func TestUpdateTaskMovesColumns(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	done, err := f.uc.Column.Create(ctx, f.user.ID, f.board.ID, &usecase.ColumnInput{Name: "Done"})
	gt.NoError(t, err).Required()

	f.notifier.wg.Add(1)
	task, err := f.uc.Task.Create(ctx, f.user.ID, f.board.ID, &usecase.TaskInput{
		ColumnID: f.column.ID,
		Title:    "Move me",
	})
	gt.NoError(t, err).Required()
	f.notifier.wg.Wait()

	pos := 0
	f.notifier.wg.Add(1)
	updated, err := f.uc.Task.Update(ctx, f.user.ID, task.ID, &usecase.TaskInput{
		ColumnID: done.ID,
		Position: &pos,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.ColumnID).Equal(done.ID)
	f.notifier.wg.Wait()

	gt.Value(t, f.bus.types(t)).Equal([]types.EventType{
		types.EventTaskCreated, types.EventTaskUpdated,
	})
}

func TestUpdateTaskKeepsAssigneeOnPartialInput(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	assignee, err := f.repo.User().Create(ctx, &model.User{
		Username: "bob",
		Email:    "bob@example.com",
	})
	gt.NoError(t, err).Required()
	gt.NoError(t, f.uc.Board.AddMember(ctx, f.user.ID, f.board.ID, assignee.ID)).Required()

	f.notifier.wg.Add(1)
	task, err := f.uc.Task.Create(ctx, f.user.ID, f.board.ID, &usecase.TaskInput{
		ColumnID:   f.column.ID,
		Title:      "Ship it",
		AssigneeID: assignee.ID,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, task.AssigneeID).Equal(assignee.ID)
	f.notifier.wg.Wait()

	f.notifier.wg.Add(1)
	updated, err := f.uc.Task.Update(ctx, f.user.ID, task.ID, &usecase.TaskInput{
		Title: "Ship it v2",
	})
	gt.NoError(t, err).Required()
	f.notifier.wg.Wait()

	gt.Value(t, updated.Title).Equal("Ship it v2")
	gt.Value(t, updated.AssigneeID).Equal(assignee.ID)
}

func TestDeleteTaskBroadcasts(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.notifier.wg.Add(1)
	task, err := f.uc.Task.Create(ctx, f.user.ID, f.board.ID, &usecase.TaskInput{
		ColumnID: f.column.ID,
		Title:    "Doomed",
	})
	gt.NoError(t, err).Required()
	f.notifier.wg.Wait()

	f.notifier.wg.Add(1)
	gt.NoError(t, f.uc.Task.Delete(ctx, f.user.ID, task.ID)).Required()
	f.notifier.wg.Wait()

	_, err = f.uc.Task.Get(ctx, f.user.ID, task.ID)
	gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()

	gt.Value(t, f.bus.types(t)).Equal([]types.EventType{
		types.EventTaskCreated, types.EventTaskDeleted,
	})
}

func TestTaskPermissionDeniedForStranger(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	stranger, err := f.repo.User().Create(ctx, &model.User{
		Username: "mallory",
		Email:    "mallory@example.com",
	})
	gt.NoError(t, err).Required()

	_, err = f.uc.Task.Create(ctx, stranger.ID, f.board.ID, &usecase.TaskInput{
		ColumnID: f.column.ID,
		Title:    "Sneaky",
	})
	gt.Bool(t, errors.Is(err, usecase.ErrPermissionDenied)).True()
}

func TestPublicBoardIsViewableByAnyone(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	_, err := f.uc.Board.Update(ctx, f.user.ID, f.board.ID, &usecase.BoardInput{
		Name:     f.board.Name,
		IsPublic: true,
	})
	gt.NoError(t, err).Required()

	stranger, err := f.repo.User().Create(ctx, &model.User{
		Username: "watcher",
		Email:    "watcher@example.com",
	})
	gt.NoError(t, err).Required()

	_, err = f.uc.Task.ListByBoard(ctx, stranger.ID, f.board.ID)
	gt.NoError(t, err)
}

func TestCommentCreateNotifiesAndBroadcasts(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.notifier.wg.Add(1)
	task, err := f.uc.Task.Create(ctx, f.user.ID, f.board.ID, &usecase.TaskInput{
		ColumnID: f.column.ID,
		Title:    "Discuss",
	})
	gt.NoError(t, err).Required()
	f.notifier.wg.Wait()

	f.notifier.wg.Add(1)
	comment, err := f.uc.Comment.Create(ctx, f.user.ID, task.ID, "first!")
	gt.NoError(t, err).Required()
	gt.Value(t, comment.UserID).Equal(f.user.ID)
	f.notifier.wg.Wait()

	gt.Value(t, f.bus.types(t)).Equal([]types.EventType{
		types.EventTaskCreated, types.EventCommentAdded,
	})

	f.notifier.mu.Lock()
	last := f.notifier.events[len(f.notifier.events)-1]
	gt.Value(t, last.Type).Equal(types.EventCommentAdded)
	gt.Value(t, last.Comment.Content).Equal("first!")
	f.notifier.mu.Unlock()
}

func TestTaskSearchScopedToBoard(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.notifier.wg.Add(2)
	_, err := f.uc.Task.Create(ctx, f.user.ID, f.board.ID, &usecase.TaskInput{
		ColumnID: f.column.ID,
		Title:    "Deploy backend",
	})
	gt.NoError(t, err).Required()
	_, err = f.uc.Task.Create(ctx, f.user.ID, f.board.ID, &usecase.TaskInput{
		ColumnID: f.column.ID,
		Title:    "Unrelated",
	})
	gt.NoError(t, err).Required()
	f.notifier.wg.Wait()

	tasks, err := f.uc.Task.Search(ctx, f.user.ID, "backend", f.board.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, tasks).Length(1)

	tasks, err = f.uc.Task.Search(ctx, f.user.ID, "backend", "")
	gt.NoError(t, err).Required()
	gt.Array(t, tasks).Length(1)
}

func TestTaskDueDateRoundTrip(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	due := time.Date(2026, 2, 15, 15, 30, 0, 0, time.UTC)
	f.notifier.wg.Add(1)
	task, err := f.uc.Task.Create(ctx, f.user.ID, f.board.ID, &usecase.TaskInput{
		ColumnID: f.column.ID,
		Title:    "Deadline",
		DueDate:  &due,
	})
	gt.NoError(t, err).Required()
	f.notifier.wg.Wait()

	got, err := f.uc.Task.Get(ctx, f.user.ID, task.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, got.DueDate.Equal(due)).True()
}
