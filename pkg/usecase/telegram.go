package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/service/session"
)

// TelegramUseCase is the link-management surface consumed by the request
// layer. The actual linking happens in the bot gateway when the user sends
// /start with the issued code.
type TelegramUseCase struct {
	repo     interfaces.Repository
	sessions *session.Service
}

func NewTelegramUseCase(repo interfaces.Repository, sessions *session.Service) *TelegramUseCase {
	return &TelegramUseCase{
		repo:     repo,
		sessions: sessions,
	}
}

// IssueLinkToken generates a single-use code the user hands to the bot
func (uc *TelegramUseCase) IssueLinkToken(ctx context.Context, userID types.UserID) (string, error) {
	if _, err := uc.repo.User().Get(ctx, userID); err != nil {
		return "", goerr.Wrap(err, "unknown user", goerr.V("userID", userID))
	}

	code, err := uc.sessions.IssueLinkToken(ctx, userID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to issue link token")
	}
	return code, nil
}

// LinkStatus reports whether the user has a linked Telegram chat
type LinkStatus struct {
	IsLinked bool
	ChatID   types.ChatID
}

func (uc *TelegramUseCase) Status(ctx context.Context, userID types.UserID) (*LinkStatus, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "unknown user", goerr.V("userID", userID))
	}

	return &LinkStatus{
		IsLinked: user.IsLinked(),
		ChatID:   user.TelegramChatID,
	}, nil
}

// Unlink disconnects the user's Telegram chat
func (uc *TelegramUseCase) Unlink(ctx context.Context, userID types.UserID) error {
	if err := uc.repo.User().UnlinkChat(ctx, userID); err != nil {
		return goerr.Wrap(err, "failed to unlink telegram chat", goerr.V("userID", userID))
	}
	return nil
}
