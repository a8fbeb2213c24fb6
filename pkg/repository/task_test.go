package repository_test

import (
	"context"
	"errors"
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

func runTaskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	setup := func(t *testing.T, repo interfaces.Repository) (*model.User, *model.Board, *model.Column) {
		t.Helper()
		owner := newTestUser(t, repo, "owner")
		board := newTestBoard(t, repo, owner.ID, "Board")
		column := newTestColumn(t, repo, board.ID, "To Do", 0)
		return owner, board, column
	}

	t.Run("Create assigns ID and defaults priority to medium", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, board, column := setup(t, repo)

		created, err := repo.Task().Create(ctx, &model.Task{
			BoardID:   board.ID,
			ColumnID:  column.ID,
			Title:     "Write report",
			CreatorID: owner.ID,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(types.TaskID(""))
		gt.Value(t, created.Priority).Equal(types.PriorityMedium)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("Create keeps due date", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, board, column := setup(t, repo)

		due := time.Date(2026, 2, 15, 15, 30, 0, 0, time.UTC)
		created, err := repo.Task().Create(ctx, &model.Task{
			BoardID:   board.ID,
			ColumnID:  column.ID,
			Title:     "Due task",
			DueDate:   &due,
			CreatorID: owner.ID,
		})
		gt.NoError(t, err).Required()

		got, err := repo.Task().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.DueDate).NotNil()
		gt.Bool(t, got.DueDate.Equal(due)).True()
	})

	t.Run("ListByColumn orders by ascending position", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, board, column := setup(t, repo)

		for i, title := range []string{"Third", "First", "Second"} {
			pos := []int{2, 0, 1}[i]
			_, err := repo.Task().Create(ctx, &model.Task{
				BoardID:   board.ID,
				ColumnID:  column.ID,
				Title:     title,
				Position:  pos,
				CreatorID: owner.ID,
			})
			gt.NoError(t, err).Required()
		}

		tasks, err := repo.Task().ListByColumn(ctx, column.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(3)
		gt.Value(t, tasks[0].Title).Equal("First")
		gt.Value(t, tasks[1].Title).Equal("Second")
		gt.Value(t, tasks[2].Title).Equal("Third")
	})

	t.Run("ListByBoard returns all board tasks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, board, column := setup(t, repo)
		other := newTestColumn(t, repo, board.ID, "Done", 1)

		for i, colID := range []types.ColumnID{column.ID, other.ID} {
			_, err := repo.Task().Create(ctx, &model.Task{
				BoardID:   board.ID,
				ColumnID:  colID,
				Title:     "Task",
				Position:  i,
				CreatorID: owner.ID,
			})
			gt.NoError(t, err).Required()
		}

		tasks, err := repo.Task().ListByBoard(ctx, board.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(2)
	})

	t.Run("Search matches title and description case-insensitively", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, board, column := setup(t, repo)

		_, err := repo.Task().Create(ctx, &model.Task{
			BoardID:   board.ID,
			ColumnID:  column.ID,
			Title:     "Deploy Backend",
			CreatorID: owner.ID,
		})
		gt.NoError(t, err).Required()
		_, err = repo.Task().Create(ctx, &model.Task{
			BoardID:     board.ID,
			ColumnID:    column.ID,
			Title:       "Write docs",
			Description: "Describe the backend API",
			Position:    1,
			CreatorID:   owner.ID,
		})
		gt.NoError(t, err).Required()
		_, err = repo.Task().Create(ctx, &model.Task{
			BoardID:   board.ID,
			ColumnID:  column.ID,
			Title:     "Unrelated",
			Position:  2,
			CreatorID: owner.ID,
		})
		gt.NoError(t, err).Required()

		tasks, err := repo.Task().Search(ctx, "BACKEND", board.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(2)
	})

	t.Run("Update preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, board, column := setup(t, repo)

		created, err := repo.Task().Create(ctx, &model.Task{
			BoardID:   board.ID,
			ColumnID:  column.ID,
			Title:     "Before",
			CreatorID: owner.ID,
		})
		gt.NoError(t, err).Required()

		created.Title = "After"
		created.AssigneeID = owner.ID
		updated, err := repo.Task().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Title).Equal("After")
		gt.Bool(t, updated.IsAssigned()).True()
		gt.Value(t, updated.CreatedAt).Equal(created.CreatedAt)
	})

	t.Run("Delete removes the task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, board, column := setup(t, repo)

		created, err := repo.Task().Create(ctx, &model.Task{
			BoardID:   board.ID,
			ColumnID:  column.ID,
			Title:     "Doomed",
			CreatorID: owner.ID,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Task().Delete(ctx, created.ID)).Required()

		_, err = repo.Task().Get(ctx, created.ID)
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("ListDueBetween returns only tasks due in the window", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, board, column := setup(t, repo)

		base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		makeTask := func(title string, due *time.Time) {
			_, err := repo.Task().Create(ctx, &model.Task{
				BoardID:   board.ID,
				ColumnID:  column.ID,
				Title:     title,
				DueDate:   due,
				CreatorID: owner.ID,
			})
			gt.NoError(t, err).Required()
		}

		soon := base.Add(30 * time.Minute)
		later := base.Add(2 * time.Hour)
		past := base.Add(-time.Hour)
		makeTask("due soon", &soon)
		makeTask("due later", &later)
		makeTask("overdue", &past)
		makeTask("no due date", nil)

		tasks, err := repo.Task().ListDueBetween(ctx, base, base.Add(time.Hour))
		gt.NoError(t, err).Required()
		gt.Array(t, tasks).Length(1).Required()
		gt.Value(t, tasks[0].Title).Equal("due soon")
	})
}

func TestTaskRepository_Memory(t *testing.T) {
	runTaskRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestTaskRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runTaskRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
