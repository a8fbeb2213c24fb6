package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// AttachmentUseCase manages attachment metadata. Blob storage lives outside
// this service, so only the descriptor is recorded.
type AttachmentUseCase struct {
	repo interfaces.Repository
}

func NewAttachmentUseCase(repo interfaces.Repository) *AttachmentUseCase {
	return &AttachmentUseCase{repo: repo}
}

type AttachmentInput struct {
	Filename    string
	ContentType string
	Size        int64
}

func (uc *AttachmentUseCase) Create(ctx context.Context, userID types.UserID, taskID types.TaskID, input *AttachmentInput) (*model.Attachment, error) {
	if input.Filename == "" {
		return nil, goerr.Wrap(model.ErrValidation, "attachment filename is required")
	}

	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, uc.repo, task.BoardID, userID); err != nil {
		return nil, err
	}

	attachment, err := uc.repo.Attachment().Create(ctx, &model.Attachment{
		TaskID:      taskID,
		UploaderID:  userID,
		Filename:    input.Filename,
		ContentType: input.ContentType,
		Size:        input.Size,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create attachment")
	}
	return attachment, nil
}

func (uc *AttachmentUseCase) ListByTask(ctx context.Context, userID types.UserID, taskID types.TaskID) ([]*model.Attachment, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireViewer(ctx, uc.repo, task.BoardID, userID); err != nil {
		return nil, err
	}

	attachments, err := uc.repo.Attachment().ListByTask(ctx, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list attachments")
	}
	return attachments, nil
}

func (uc *AttachmentUseCase) Delete(ctx context.Context, userID types.UserID, attachmentID types.AttachmentID) error {
	attachment, err := uc.repo.Attachment().Get(ctx, attachmentID)
	if err != nil {
		return err
	}

	task, err := uc.repo.Task().Get(ctx, attachment.TaskID)
	if err != nil {
		return err
	}
	board, err := requireMember(ctx, uc.repo, task.BoardID, userID)
	if err != nil {
		return err
	}

	// Only the uploader or the board owner may remove an attachment
	if attachment.UploaderID != userID && board.OwnerID != userID {
		return goerr.Wrap(ErrPermissionDenied, "attachment uploader or board owner only",
			goerr.V("attachmentID", attachmentID), goerr.V("userID", userID))
	}

	if err := uc.repo.Attachment().Delete(ctx, attachmentID); err != nil {
		return goerr.Wrap(err, "failed to delete attachment")
	}
	return nil
}
