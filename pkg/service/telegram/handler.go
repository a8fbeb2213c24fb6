package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/service/session"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
)

func (g *Gateway) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	chatID := types.ChatID(strconv.FormatInt(msg.Chat.ID, 10))

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			g.handleStart(ctx, chatID, msg.CommandArguments())
		case "add":
			g.handleAdd(ctx, chatID)
		default:
			g.Send(ctx, chatID, msgWelcome)
		}
		return
	}

	g.handleText(ctx, chatID, msg.Text)
}

func (g *Gateway) handleStart(ctx context.Context, chatID types.ChatID, code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		g.Send(ctx, chatID, msgWelcome)
		return
	}

	userID, err := g.sessions.ConsumeLinkToken(ctx, code)
	if err != nil {
		logging.From(ctx).Info("rejected link code", "chatID", chatID, "error", err.Error())
		g.Send(ctx, chatID, msgInvalidCode)
		return
	}

	if err := g.repo.User().LinkChat(ctx, userID, chatID); err != nil {
		logging.From(ctx).Warn("failed to link telegram chat",
			"chatID", chatID, "userID", userID, "error", err.Error())
		g.Send(ctx, chatID, msgInvalidCode)
		return
	}

	logging.From(ctx).Info("telegram account linked", "chatID", chatID, "userID", userID)
	g.Send(ctx, chatID, msgLinked)
}

func (g *Gateway) handleAdd(ctx context.Context, chatID types.ChatID) {
	if _, err := g.repo.User().GetByChatID(ctx, chatID); err != nil {
		g.Send(ctx, chatID, msgNotLinked)
		return
	}

	// Re-triggering always resets, even over a stale session
	g.sessions.StartSession(chatID)
	g.Send(ctx, chatID, msgPromptTitle)
}

func (g *Gateway) handleText(ctx context.Context, chatID types.ChatID, text string) {
	sess, ok := g.sessions.GetSession(chatID)
	if !ok {
		return
	}

	text = strings.TrimSpace(text)

	switch sess.Step {
	case types.StepAwaitingTitle:
		if text == "" || len([]rune(text)) > model.MaxTitleLength {
			g.Send(ctx, chatID, msgInvalidTitle)
			return
		}
		if _, err := g.sessions.AdvanceSession(chatID, session.Data{Title: text}); err != nil {
			return
		}
		g.Send(ctx, chatID, msgPromptDescription)

	case types.StepAwaitingDescription:
		if text == "" || len([]rune(text)) > model.MaxDescriptionLength {
			g.Send(ctx, chatID, msgInvalidDesc)
			return
		}
		if _, err := g.sessions.AdvanceSession(chatID, session.Data{Description: text}); err != nil {
			return
		}
		g.Send(ctx, chatID, msgPromptDueDate)

	case types.StepAwaitingDueDate:
		due, err := ParseDueDate(text)
		if err != nil {
			g.Send(ctx, chatID, msgInvalidDueDate)
			return
		}
		g.finishConversation(ctx, chatID, sess, due)
	}
}

// finishConversation creates the task in the linked user's first owned
// board and that board's lowest-position column, broadcasts the creation to
// live viewers, and clears the session. A missing board or column aborts
// the session with an explanation.
func (g *Gateway) finishConversation(ctx context.Context, chatID types.ChatID, sess *session.Session, due time.Time) {
	user, err := g.repo.User().GetByChatID(ctx, chatID)
	if err != nil {
		logging.From(ctx).Warn("session chat is no longer linked", "chatID", chatID)
		g.sessions.ClearSession(chatID)
		g.Send(ctx, chatID, msgNotLinked)
		return
	}

	boards, err := g.repo.Board().ListOwned(ctx, user.ID)
	if err != nil || len(boards) == 0 {
		g.sessions.ClearSession(chatID)
		g.Send(ctx, chatID, msgNoBoard)
		return
	}
	board := boards[0]

	columns, err := g.repo.Column().ListByBoard(ctx, board.ID)
	if err != nil || len(columns) == 0 {
		g.sessions.ClearSession(chatID)
		g.Send(ctx, chatID, msgNoColumn)
		return
	}
	column := columns[0]

	position := 0
	if existing, err := g.repo.Task().ListByColumn(ctx, column.ID); err == nil {
		position = len(existing)
	}

	task, err := g.repo.Task().Create(ctx, &model.Task{
		BoardID:     board.ID,
		ColumnID:    column.ID,
		Title:       sess.Title,
		Description: sess.Description,
		DueDate:     &due,
		Position:    position,
		CreatorID:   user.ID,
	})
	if err != nil {
		logging.From(ctx).Error("failed to create task from conversation",
			"chatID", chatID, "error", err.Error())
		g.sessions.ClearSession(chatID)
		g.Send(ctx, chatID, msgCreateFailed)
		return
	}

	g.bus.Broadcast(ctx, board.ID, &model.BoardEvent{
		Type:    types.EventTaskCreated,
		Payload: task,
	})

	g.Send(ctx, chatID, fmt.Sprintf(
		"✅ <b>Task Created</b>\n\n<b>Task:</b> %s\n<b>Board:</b> %s\n<b>Due:</b> %s",
		task.Title, board.Name, due.Format(dueDateLayout)))

	g.sessions.ClearSession(chatID)
}
