package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/repository/firestore"
	"github.com/secmon-lab/kanbot/pkg/repository/memory"
)

// uniqueName keeps usernames, emails and chat IDs distinct across runs
// against a shared Firestore project.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func newTestUser(t *testing.T, repo interfaces.Repository, prefix string) *model.User {
	t.Helper()

	name := uniqueName(prefix)
	created, err := repo.User().Create(context.Background(), &model.User{
		Username: name,
		Email:    name + "@example.com",
		IsActive: true,
	})
	gt.NoError(t, err).Required()
	return created
}

func runUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		name := uniqueName("alice")
		created, err := repo.User().Create(ctx, &model.User{
			Username:       name,
			Email:          name + "@example.com",
			HashedPassword: "hashed",
			FullName:       "Alice Anderson",
			IsActive:       true,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(types.UserID(""))
		gt.Value(t, created.Username).Equal(name)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()
	})

	t.Run("Create rejects duplicate username and email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		name := uniqueName("bob")
		_, err := repo.User().Create(ctx, &model.User{
			Username: name,
			Email:    name + "@example.com",
		})
		gt.NoError(t, err).Required()

		_, err = repo.User().Create(ctx, &model.User{
			Username: name,
			Email:    name + "-other@example.com",
		})
		gt.Value(t, err).NotNil()

		_, err = repo.User().Create(ctx, &model.User{
			Username: name + "-other",
			Email:    name + "@example.com",
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("Get and GetByUsername retrieve the record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTestUser(t, repo, "carol")

		got, err := repo.User().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Username).Equal(created.Username)

		got, err = repo.User().GetByUsername(ctx, created.Username)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
	})

	t.Run("Get returns ErrNotFound for missing user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.User().Get(ctx, types.NewUserID())
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("LinkChat links and GetByChatID finds the user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTestUser(t, repo, "dave")

		chatID := types.ChatID(uniqueName("chat"))
		gt.NoError(t, repo.User().LinkChat(ctx, created.ID, chatID)).Required()

		got, err := repo.User().GetByChatID(ctx, chatID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
		gt.Bool(t, got.IsLinked()).True()
	})

	t.Run("LinkChat rejects chat linked to another user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := newTestUser(t, repo, "erin")
		second := newTestUser(t, repo, "frank")

		chatID := types.ChatID(uniqueName("chat"))
		gt.NoError(t, repo.User().LinkChat(ctx, first.ID, chatID)).Required()

		err := repo.User().LinkChat(ctx, second.ID, chatID)
		gt.Value(t, err).NotNil()
	})

	t.Run("UnlinkChat clears the chat ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTestUser(t, repo, "grace")

		chatID := types.ChatID(uniqueName("chat"))
		gt.NoError(t, repo.User().LinkChat(ctx, created.ID, chatID)).Required()
		gt.NoError(t, repo.User().UnlinkChat(ctx, created.ID)).Required()

		got, err := repo.User().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.IsLinked()).False()

		_, err = repo.User().GetByChatID(ctx, chatID)
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("Update preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created := newTestUser(t, repo, "heidi")

		created.FullName = "Heidi H"
		updated, err := repo.User().Update(ctx, created)
		gt.NoError(t, err).Required()

		gt.Value(t, updated.FullName).Equal("Heidi H")
		gt.Value(t, updated.CreatedAt).Equal(created.CreatedAt)
	})
}

func TestUserRepository_Memory(t *testing.T) {
	runUserRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestUserRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runUserRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
