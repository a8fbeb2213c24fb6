package interfaces

import (
	"context"

	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// MessageSender is the outbound half of the bot gateway. Send is best
// effort: failures are logged by the implementation and reported as false,
// never as an error.
type MessageSender interface {
	Send(ctx context.Context, chatID types.ChatID, text string) bool
}

// BoardBroadcaster fans a board event out to every live viewer of the board.
// Broadcasting to a board with no viewers is a no-op.
type BoardBroadcaster interface {
	Broadcast(ctx context.Context, boardID types.BoardID, event *model.BoardEvent)
}

// Notifier turns a committed domain mutation into chat notifications. It
// never returns an error; delivery problems are logged and swallowed so the
// originating mutation always completes.
type Notifier interface {
	Notify(ctx context.Context, event *model.NotificationEvent)
}
