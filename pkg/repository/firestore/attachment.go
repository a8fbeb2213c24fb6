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

// attachmentDoc is the Firestore document representation of model.Attachment
type attachmentDoc struct {
	ID          string    `firestore:"ID"`
	TaskID      string    `firestore:"TaskID"`
	UploaderID  string    `firestore:"UploaderID"`
	Filename    string    `firestore:"Filename"`
	ContentType string    `firestore:"ContentType"`
	Size        int64     `firestore:"Size"`
	CreatedAt   time.Time `firestore:"CreatedAt"`
}

func toAttachmentDoc(a *model.Attachment) *attachmentDoc {
	return &attachmentDoc{
		ID:          string(a.ID),
		TaskID:      string(a.TaskID),
		UploaderID:  string(a.UploaderID),
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        a.Size,
		CreatedAt:   a.CreatedAt,
	}
}

func fromAttachmentDoc(d *attachmentDoc) *model.Attachment {
	return &model.Attachment{
		ID:          types.AttachmentID(d.ID),
		TaskID:      types.TaskID(d.TaskID),
		UploaderID:  types.UserID(d.UploaderID),
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt,
	}
}

type attachmentRepository struct {
	client *firestore.Client
}

func newAttachmentRepository(client *firestore.Client) *attachmentRepository {
	return &attachmentRepository{client: client}
}

func (r *attachmentRepository) attachments() *firestore.CollectionRef {
	return r.client.Collection(collectionAttachments)
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error) {
	created := *attachment
	if created.ID == "" {
		created.ID = types.NewAttachmentID()
	}
	created.CreatedAt = time.Now().UTC()

	if _, err := r.attachments().Doc(string(created.ID)).Set(ctx, toAttachmentDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create attachment", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *attachmentRepository) Get(ctx context.Context, id types.AttachmentID) (*model.Attachment, error) {
	doc, err := r.attachments().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "attachment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get attachment", goerr.V("id", id))
	}

	var d attachmentDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal attachment", goerr.V("id", id))
	}

	return fromAttachmentDoc(&d), nil
}

func (r *attachmentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Attachment, error) {
	iter := r.attachments().
		Where("TaskID", "==", string(taskID)).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	attachments := make([]*model.Attachment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate attachments", goerr.V("taskID", taskID))
		}

		var d attachmentDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal attachment")
		}
		attachments = append(attachments, fromAttachmentDoc(&d))
	}

	return attachments, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id types.AttachmentID) error {
	docRef := r.attachments().Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "attachment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get attachment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete attachment", goerr.V("id", id))
	}
	return nil
}
