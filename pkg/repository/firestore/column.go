package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// columnDoc is the Firestore document representation of model.Column
type columnDoc struct {
	ID        string    `firestore:"ID"`
	BoardID   string    `firestore:"BoardID"`
	Name      string    `firestore:"Name"`
	Position  int       `firestore:"Position"`
	Color     string    `firestore:"Color"`
	CreatedAt time.Time `firestore:"CreatedAt"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

func toColumnDoc(c *model.Column) *columnDoc {
	return &columnDoc{
		ID:        string(c.ID),
		BoardID:   string(c.BoardID),
		Name:      c.Name,
		Position:  c.Position,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromColumnDoc(d *columnDoc) *model.Column {
	return &model.Column{
		ID:        types.ColumnID(d.ID),
		BoardID:   types.BoardID(d.BoardID),
		Name:      d.Name,
		Position:  d.Position,
		Color:     d.Color,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type columnRepository struct {
	client *firestore.Client
}

func newColumnRepository(client *firestore.Client) *columnRepository {
	return &columnRepository{client: client}
}

func (r *columnRepository) columns() *firestore.CollectionRef {
	return r.client.Collection(collectionColumns)
}

func (r *columnRepository) Create(ctx context.Context, column *model.Column) (*model.Column, error) {
	created := *column
	if created.ID == "" {
		created.ID = types.NewColumnID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.columns().Doc(string(created.ID)).Set(ctx, toColumnDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create column", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *columnRepository) Get(ctx context.Context, id types.ColumnID) (*model.Column, error) {
	doc, err := r.columns().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "column not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get column", goerr.V("id", id))
	}

	var d columnDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal column", goerr.V("id", id))
	}

	return fromColumnDoc(&d), nil
}

func (r *columnRepository) ListByBoard(ctx context.Context, boardID types.BoardID) ([]*model.Column, error) {
	iter := r.columns().
		Where("BoardID", "==", string(boardID)).
		OrderBy("Position", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	columns := make([]*model.Column, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate columns", goerr.V("boardID", boardID))
		}

		var d columnDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal column")
		}
		columns = append(columns, fromColumnDoc(&d))
	}

	return columns, nil
}

func (r *columnRepository) Update(ctx context.Context, column *model.Column) (*model.Column, error) {
	docRef := r.columns().Doc(string(column.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "column not found", goerr.V("id", column.ID))
		}
		return nil, goerr.Wrap(err, "failed to get column", goerr.V("id", column.ID))
	}

	var existing columnDoc
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal column", goerr.V("id", column.ID))
	}

	updated := *column
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toColumnDoc(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update column", goerr.V("id", column.ID))
	}

	return &updated, nil
}

func (r *columnRepository) Delete(ctx context.Context, id types.ColumnID) error {
	docRef := r.columns().Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "column not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get column", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete column", goerr.V("id", id))
	}
	return nil
}
