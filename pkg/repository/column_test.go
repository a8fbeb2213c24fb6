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

func newTestColumn(t *testing.T, repo interfaces.Repository, boardID types.BoardID, name string, position int) *model.Column {
	t.Helper()

	created, err := repo.Column().Create(context.Background(), &model.Column{
		BoardID:  boardID,
		Name:     name,
		Position: position,
	})
	gt.NoError(t, err).Required()
	return created
}

func runColumnRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)

		owner := newTestUser(t, repo, "owner")
		board := newTestBoard(t, repo, owner.ID, "Board")
		column := newTestColumn(t, repo, board.ID, "To Do", 0)

		gt.Value(t, column.ID).NotEqual(types.ColumnID(""))
		gt.Value(t, column.BoardID).Equal(board.ID)
		gt.Bool(t, column.CreatedAt.IsZero()).False()
	})

	t.Run("ListByBoard orders by ascending position", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner := newTestUser(t, repo, "owner")
		board := newTestBoard(t, repo, owner.ID, "Board")

		newTestColumn(t, repo, board.ID, "Done", 2)
		newTestColumn(t, repo, board.ID, "To Do", 0)
		newTestColumn(t, repo, board.ID, "In Progress", 1)

		columns, err := repo.Column().ListByBoard(ctx, board.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, columns).Length(3)
		gt.Value(t, columns[0].Name).Equal("To Do")
		gt.Value(t, columns[1].Name).Equal("In Progress")
		gt.Value(t, columns[2].Name).Equal("Done")
	})

	t.Run("Update preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner := newTestUser(t, repo, "owner")
		board := newTestBoard(t, repo, owner.ID, "Board")
		column := newTestColumn(t, repo, board.ID, "Before", 0)

		column.Name = "After"
		updated, err := repo.Column().Update(ctx, column)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("After")
		gt.Value(t, updated.CreatedAt).Equal(column.CreatedAt)
	})

	t.Run("Delete removes the column", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner := newTestUser(t, repo, "owner")
		board := newTestBoard(t, repo, owner.ID, "Board")
		column := newTestColumn(t, repo, board.ID, "Doomed", 0)

		gt.NoError(t, repo.Column().Delete(ctx, column.ID)).Required()

		_, err := repo.Column().Get(ctx, column.ID)
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})
}

func TestColumnRepository_Memory(t *testing.T) {
	runColumnRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestColumnRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runColumnRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
