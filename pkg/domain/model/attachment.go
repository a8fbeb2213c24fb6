package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// Attachment is the metadata record of a file attached to a task. Blob
// storage lives outside this service; only the descriptor is persisted.
type Attachment struct {
	ID          types.AttachmentID `json:"id"`
	TaskID      types.TaskID       `json:"task_id"`
	UploaderID  types.UserID       `json:"uploader_id"`
	Filename    string             `json:"filename"`
	ContentType string             `json:"content_type"`
	Size        int64              `json:"size"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Validate checks the invariants of an attachment record
func (a *Attachment) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid attachment")
	}
	if err := a.TaskID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid attachment task", goerr.V("attachmentID", a.ID))
	}
	if a.Filename == "" {
		return goerr.Wrap(ErrValidation, "attachment filename is required", goerr.V("attachmentID", a.ID))
	}
	if a.Size < 0 {
		return goerr.Wrap(ErrValidation, "attachment size must not be negative", goerr.V("size", a.Size))
	}
	return nil
}
