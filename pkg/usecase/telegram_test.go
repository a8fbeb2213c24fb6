package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

func TestTelegramLinkLifecycle(t *testing.T) {
	uc, repo := newUseCases(t)
	ctx := context.Background()

	user, err := repo.User().Create(ctx, &model.User{
		Username: "alice",
		Email:    "alice@example.com",
	})
	gt.NoError(t, err).Required()

	status, err := uc.Telegram.Status(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, status.IsLinked).False()

	code, err := uc.Telegram.IssueLinkToken(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, len(code)).Equal(8)

	// The gateway links after consuming the code
	gt.NoError(t, repo.User().LinkChat(ctx, user.ID, types.ChatID("555"))).Required()

	status, err = uc.Telegram.Status(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, status.IsLinked).True()
	gt.Value(t, status.ChatID).Equal(types.ChatID("555"))

	gt.NoError(t, uc.Telegram.Unlink(ctx, user.ID)).Required()

	status, err = uc.Telegram.Status(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, status.IsLinked).False()
}

func TestIssueLinkTokenUnknownUser(t *testing.T) {
	uc, _ := newUseCases(t)

	_, err := uc.Telegram.IssueLinkToken(context.Background(), types.NewUserID())
	gt.Value(t, err).NotNil()
}
