package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/repository/firestore"
	"github.com/secmon-lab/kanbot/pkg/repository/memory"
)

func runCommentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	setup := func(t *testing.T, repo interfaces.Repository) (*model.User, *model.Task) {
		t.Helper()
		owner := newTestUser(t, repo, "owner")
		board := newTestBoard(t, repo, owner.ID, "Board")
		column := newTestColumn(t, repo, board.ID, "To Do", 0)

		task, err := repo.Task().Create(context.Background(), &model.Task{
			BoardID:   board.ID,
			ColumnID:  column.ID,
			Title:     "Task",
			CreatorID: owner.ID,
		})
		gt.NoError(t, err).Required()
		return owner, task
	}

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, task := setup(t, repo)

		created, err := repo.Comment().Create(ctx, &model.Comment{
			TaskID:  task.ID,
			UserID:  owner.ID,
			Content: "Looks good",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(types.CommentID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("ListByTask orders by ascending creation time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, task := setup(t, repo)

		for _, content := range []string{"first", "second", "third"} {
			_, err := repo.Comment().Create(ctx, &model.Comment{
				TaskID:  task.ID,
				UserID:  owner.ID,
				Content: content,
			})
			gt.NoError(t, err).Required()
		}

		comments, err := repo.Comment().ListByTask(ctx, task.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(3)
		gt.Value(t, comments[0].Content).Equal("first")
		gt.Value(t, comments[2].Content).Equal("third")
	})

	t.Run("Delete removes the comment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, task := setup(t, repo)

		created, err := repo.Comment().Create(ctx, &model.Comment{
			TaskID:  task.ID,
			UserID:  owner.ID,
			Content: "Doomed",
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Comment().Delete(ctx, created.ID)).Required()

		_, err = repo.Comment().Get(ctx, created.ID)
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})
}

func TestCommentRepository_Memory(t *testing.T) {
	runCommentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestCommentRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runCommentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
