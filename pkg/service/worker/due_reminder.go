package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
)

// DueReminderWorker periodically scans for tasks approaching their due date
// and sends a chat reminder to the creator and the assignee.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type DueReminderWorker struct {
	repo     interfaces.Repository
	sender   interfaces.MessageSender
	interval time.Duration
	window   time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu sync.Mutex
	// reminded maps a task to the due date it was last reminded for, so a
	// rescheduled task is reminded again while an unchanged one is not
	reminded map[types.TaskID]time.Time
}

// NewDueReminderWorker creates a worker that reminds about tasks due within
// the window, checking every interval.
func NewDueReminderWorker(repo interfaces.Repository, sender interfaces.MessageSender, interval, window time.Duration) *DueReminderWorker {
	return &DueReminderWorker{
		repo:     repo,
		sender:   sender,
		interval: interval,
		window:   window,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		reminded: make(map[types.TaskID]time.Time),
	}
}

// Start begins the background reminder loop. Does not block.
func (w *DueReminderWorker) Start(ctx context.Context) {
	logging.Default().Info("Due reminder worker starting",
		"interval", w.interval.String(),
		"window", w.window.String())

	go w.run(ctx)
}

// Stop signals the worker to stop and waits for completion
func (w *DueReminderWorker) Stop() {
	logging.Default().Info("Due reminder worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Due reminder worker stopped")
}

func (w *DueReminderWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.scan(ctx); err != nil {
		logging.Default().Error("Due reminder scan failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.scan(ctx); err != nil {
				logging.Default().Error("Due reminder scan failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Due reminder worker context cancelled")
			return
		}
	}
}

// scan performs a single reminder cycle
func (w *DueReminderWorker) scan(ctx context.Context) error {
	now := time.Now().UTC()

	tasks, err := w.repo.Task().ListDueBetween(ctx, now, now.Add(w.window))
	if err != nil {
		return goerr.Wrap(err, "failed to list tasks due soon")
	}

	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		if !w.markReminded(task.ID, *task.DueDate) {
			continue
		}
		w.remind(ctx, task)
	}

	w.dropStale(now)
	return nil
}

// markReminded records the reminder and reports whether it is new for this
// due date
func (w *DueReminderWorker) markReminded(taskID types.TaskID, due time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if last, ok := w.reminded[taskID]; ok && last.Equal(due) {
		return false
	}
	w.reminded[taskID] = due
	return true
}

// dropStale forgets reminders for due dates already in the past, bounding
// the map
func (w *DueReminderWorker) dropStale(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for taskID, due := range w.reminded {
		if due.Before(now) {
			delete(w.reminded, taskID)
		}
	}
}

func (w *DueReminderWorker) remind(ctx context.Context, task *model.Task) {
	recipients := []types.UserID{task.CreatorID}
	if task.IsAssigned() && task.AssigneeID != task.CreatorID {
		recipients = append(recipients, task.AssigneeID)
	}

	text := fmt.Sprintf("⏰ <b>Task Due Soon</b>\n\n<b>%s</b>\nDue: %s",
		task.Title, task.DueDate.Format("02/01/2006 03:04 pm"))

	for _, userID := range recipients {
		user, err := w.repo.User().Get(ctx, userID)
		if err != nil {
			logging.From(ctx).Warn("failed to resolve reminder recipient",
				"task_id", task.ID,
				"user_id", userID,
				"error", err.Error(),
			)
			continue
		}
		if !user.IsLinked() {
			continue
		}
		if !w.sender.Send(ctx, user.TelegramChatID, text) {
			logging.From(ctx).Warn("failed to deliver due reminder",
				"task_id", task.ID,
				"chat_id", user.TelegramChatID,
			)
		}
	}
}
