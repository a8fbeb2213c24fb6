package notify

import (
	"context"
	"fmt"

	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// commentPreviewLimit caps the comment excerpt embedded in a notification
const commentPreviewLimit = 100

type role int

const (
	roleCreator role = iota
	roleAssignee
	roleOwner
)

// Dispatcher turns committed board mutations into Telegram notifications.
// Delivery is best effort: nothing in here ever propagates back to the
// mutation that triggered it.
type Dispatcher struct {
	repo   interfaces.Repository
	sender interfaces.MessageSender
}

var _ interfaces.Notifier = &Dispatcher{}

func New(repo interfaces.Repository, sender interfaces.MessageSender) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		sender: sender,
	}
}

// Notify resolves the event's interested parties, drops the actor,
// deduplicates, and sends each remaining linked user a role-appropriate
// message. Failures are logged and swallowed.
func (d *Dispatcher) Notify(ctx context.Context, event *model.NotificationEvent) {
	logger := logging.From(ctx)

	if event == nil || event.Task == nil || event.Board == nil {
		logger.Warn("dropping incomplete notification event")
		return
	}

	actor, err := d.repo.User().Get(ctx, event.ActorID)
	if err != nil {
		logger.Warn("cannot resolve notification actor",
			"actorID", event.ActorID, "error", err.Error())
		return
	}

	recipients := d.resolveRecipients(event)

	eg, ctx := errgroup.WithContext(ctx)
	for userID, r := range recipients {
		eg.Go(func() error {
			user, err := d.repo.User().Get(ctx, userID)
			if err != nil {
				logger.Warn("cannot resolve notification recipient",
					"userID", userID, "error", err.Error())
				return nil
			}
			if !user.IsLinked() {
				return nil
			}

			text := formatMessage(event, r, actor.DisplayName())
			if !d.sender.Send(ctx, user.TelegramChatID, text) {
				logger.Warn("notification delivery failed",
					"userID", userID, "chatID", user.TelegramChatID)
			}
			return nil
		})
	}
	_ = eg.Wait()
}

// resolveRecipients maps each interested user to their strongest role.
// Creator wins over assignee wins over board owner, so one person holding
// several roles receives exactly one message. The actor is never included.
func (d *Dispatcher) resolveRecipients(event *model.NotificationEvent) map[types.UserID]role {
	recipients := make(map[types.UserID]role)

	if id := event.Board.OwnerID; id != "" && id != event.ActorID {
		recipients[id] = roleOwner
	}
	if id := event.Task.AssigneeID; id != "" && id != event.ActorID {
		recipients[id] = roleAssignee
	}
	if id := event.Task.CreatorID; id != "" && id != event.ActorID {
		recipients[id] = roleCreator
	}

	return recipients
}

func formatMessage(event *model.NotificationEvent, r role, actorName string) string {
	task := event.Task
	board := event.Board

	switch event.Type {
	case types.EventTaskCreated:
		if r == roleAssignee {
			return fmt.Sprintf(
				"📌 <b>New Task Assignment</b>\n\n<b>Task:</b> %s\n<b>Board:</b> %s\n<b>Assigned by:</b> %s",
				task.Title, board.Name, actorName)
		}
		return fmt.Sprintf(
			"📝 <b>New Task</b>\n\n<b>Task:</b> %s\n<b>Created by:</b> %s\n<b>Board:</b> %s",
			task.Title, actorName, board.Name)

	case types.EventTaskUpdated:
		switch r {
		case roleCreator:
			return fmt.Sprintf(
				"📝 <b>Your Task Was Updated</b>\n\n<b>Task:</b> %s\n<b>Updated by:</b> %s\n<b>Board:</b> %s",
				task.Title, actorName, board.Name)
		case roleAssignee:
			return fmt.Sprintf(
				"📊 <b>Your Assigned Task Was Updated</b>\n\n<b>Task:</b> %s\n<b>Updated by:</b> %s\n<b>Board:</b> %s",
				task.Title, actorName, board.Name)
		default:
			return fmt.Sprintf(
				"📋 <b>Task Updated on Your Board</b>\n\n<b>Task:</b> %s\n<b>Updated by:</b> %s\n<b>Board:</b> %s",
				task.Title, actorName, board.Name)
		}

	case types.EventTaskDeleted:
		return fmt.Sprintf(
			"🗑 <b>Task Deleted</b>\n\n<b>Task:</b> %s\n<b>Deleted by:</b> %s\n<b>Board:</b> %s",
			task.Title, actorName, board.Name)

	case types.EventCommentAdded:
		var preview string
		if event.Comment != nil {
			preview = truncatePreview(event.Comment.Content)
		}
		return fmt.Sprintf(
			"💬 <b>New Comment on Task</b>\n\n<b>Task:</b> %s\n<b>Commented by:</b> %s\n<b>Board:</b> %s\n<b>Comment:</b> %s",
			task.Title, actorName, board.Name, preview)

	default:
		return fmt.Sprintf(
			"<b>%s</b>\n\n<b>Task:</b> %s\n<b>Board:</b> %s",
			event.Type, task.Title, board.Name)
	}
}

func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= commentPreviewLimit {
		return text
	}
	return string(runes[:commentPreviewLimit]) + "..."
}
