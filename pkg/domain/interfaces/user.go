package interfaces

import (
	"context"

	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// UserRepository persists user accounts and the Telegram identity link.
// LinkChat must reject a chat ID that is already linked to a different user;
// that uniqueness is the persistence-layer half of the link invariant.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	Get(ctx context.Context, id types.UserID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByChatID(ctx context.Context, chatID types.ChatID) (*model.User, error)
	Update(ctx context.Context, user *model.User) (*model.User, error)
	LinkChat(ctx context.Context, id types.UserID, chatID types.ChatID) error
	UnlinkChat(ctx context.Context, id types.UserID) error
}
