package notify_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/repository/memory"
	"github.com/secmon-lab/kanbot/pkg/service/notify"
)

type fakeSender struct {
	mu       sync.Mutex
	messages map[types.ChatID][]string
	fail     bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{messages: make(map[types.ChatID][]string)}
}

func (s *fakeSender) Send(ctx context.Context, chatID types.ChatID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false
	}
	s.messages[chatID] = append(s.messages[chatID], text)
	return true
}

func (s *fakeSender) sentTo(chatID types.ChatID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[chatID]
}

type fixture struct {
	repo   *memory.Memory
	sender *fakeSender
	disp   *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.New()
	sender := newFakeSender()
	return &fixture{
		repo:   repo,
		sender: sender,
		disp:   notify.New(repo, sender),
	}
}

func (f *fixture) seedLinkedUser(t *testing.T, username string, chatID types.ChatID) *model.User {
	t.Helper()
	ctx := context.Background()

	user, err := f.repo.User().Create(ctx, &model.User{
		Username: username,
		Email:    username + "@example.com",
	})
	gt.NoError(t, err).Required()
	if chatID != "" {
		gt.NoError(t, f.repo.User().LinkChat(ctx, user.ID, chatID)).Required()
	}
	return user
}

func taskEvent(eventType types.EventType, actor *model.User, board *model.Board, task *model.Task) *model.NotificationEvent {
	return &model.NotificationEvent{
		Type:    eventType,
		ActorID: actor.ID,
		Board:   board,
		Task:    task,
	}
}

func TestNotifySendsDistinctVariantsToCreatorAndAssignee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	actor := f.seedLinkedUser(t, "actor", "111")
	creator := f.seedLinkedUser(t, "creator", "222")
	assignee := f.seedLinkedUser(t, "assignee", "333")

	board := &model.Board{ID: types.NewBoardID(), Name: "Board", OwnerID: actor.ID}
	task := &model.Task{
		ID:         types.NewTaskID(),
		BoardID:    board.ID,
		Title:      "Ship it",
		CreatorID:  creator.ID,
		AssigneeID: assignee.ID,
	}

	f.disp.Notify(ctx, taskEvent(types.EventTaskUpdated, actor, board, task))

	creatorMsgs := f.sender.sentTo("222")
	gt.Array(t, creatorMsgs).Length(1)
	gt.Bool(t, strings.Contains(creatorMsgs[0], "Your Task Was Updated")).True()

	assigneeMsgs := f.sender.sentTo("333")
	gt.Array(t, assigneeMsgs).Length(1)
	gt.Bool(t, strings.Contains(assigneeMsgs[0], "Your Assigned Task Was Updated")).True()
}

func TestNotifyNeverSendsToActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Actor holds every role at once
	actor := f.seedLinkedUser(t, "actor", "111")

	board := &model.Board{ID: types.NewBoardID(), Name: "Board", OwnerID: actor.ID}
	task := &model.Task{
		ID:         types.NewTaskID(),
		BoardID:    board.ID,
		Title:      "Self service",
		CreatorID:  actor.ID,
		AssigneeID: actor.ID,
	}

	f.disp.Notify(ctx, taskEvent(types.EventTaskUpdated, actor, board, task))

	gt.Array(t, f.sender.sentTo("111")).Length(0)
}

func TestNotifyDeduplicatesSharedRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	actor := f.seedLinkedUser(t, "actor", "111")
	other := f.seedLinkedUser(t, "other", "222")

	// other is creator, assignee and board owner at once
	board := &model.Board{ID: types.NewBoardID(), Name: "Board", OwnerID: other.ID}
	task := &model.Task{
		ID:         types.NewTaskID(),
		BoardID:    board.ID,
		Title:      "Busy person",
		CreatorID:  other.ID,
		AssigneeID: other.ID,
	}

	f.disp.Notify(ctx, taskEvent(types.EventTaskUpdated, actor, board, task))

	msgs := f.sender.sentTo("222")
	gt.Array(t, msgs).Length(1)
	// Creator is the strongest role
	gt.Bool(t, strings.Contains(msgs[0], "Your Task Was Updated")).True()
}

func TestNotifySkipsUnlinkedUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	actor := f.seedLinkedUser(t, "actor", "111")
	creator := f.seedLinkedUser(t, "creator", "")

	board := &model.Board{ID: types.NewBoardID(), Name: "Board", OwnerID: actor.ID}
	task := &model.Task{
		ID:        types.NewTaskID(),
		BoardID:   board.ID,
		Title:     "Quiet",
		CreatorID: creator.ID,
	}

	f.disp.Notify(ctx, taskEvent(types.EventTaskUpdated, actor, board, task))

	f.sender.mu.Lock()
	total := 0
	for _, msgs := range f.sender.messages {
		total += len(msgs)
	}
	f.sender.mu.Unlock()
	gt.Value(t, total).Equal(0)
}

func TestNotifyCommentPreviewTruncated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	actor := f.seedLinkedUser(t, "actor", "111")
	creator := f.seedLinkedUser(t, "creator", "222")

	board := &model.Board{ID: types.NewBoardID(), Name: "Board", OwnerID: actor.ID}
	task := &model.Task{
		ID:        types.NewTaskID(),
		BoardID:   board.ID,
		Title:     "Commented",
		CreatorID: creator.ID,
	}
	long := strings.Repeat("a", 150)

	f.disp.Notify(ctx, &model.NotificationEvent{
		Type:    types.EventCommentAdded,
		ActorID: actor.ID,
		Board:   board,
		Task:    task,
		Comment: &model.Comment{Content: long},
	})

	msgs := f.sender.sentTo("222")
	gt.Array(t, msgs).Length(1)
	gt.Bool(t, strings.Contains(msgs[0], strings.Repeat("a", 100)+"...")).True()
	gt.Bool(t, strings.Contains(msgs[0], strings.Repeat("a", 101))).False()
}

func TestNotifySendFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	actor := f.seedLinkedUser(t, "actor", "111")
	creator := f.seedLinkedUser(t, "creator", "222")
	f.sender.fail = true

	board := &model.Board{ID: types.NewBoardID(), Name: "Board", OwnerID: actor.ID}
	task := &model.Task{
		ID:        types.NewTaskID(),
		BoardID:   board.ID,
		Title:     "Best effort",
		CreatorID: creator.ID,
	}

	// Must not panic or error in any observable way
	f.disp.Notify(ctx, taskEvent(types.EventTaskUpdated, actor, board, task))
}
