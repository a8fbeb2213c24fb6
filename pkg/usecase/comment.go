package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/utils/async"
)

type CommentUseCase struct {
	repo     interfaces.Repository
	bus      interfaces.BoardBroadcaster
	notifier interfaces.Notifier
}

func NewCommentUseCase(repo interfaces.Repository, bus interfaces.BoardBroadcaster, notifier interfaces.Notifier) *CommentUseCase {
	return &CommentUseCase{
		repo:     repo,
		bus:      bus,
		notifier: notifier,
	}
}

func (uc *CommentUseCase) Create(ctx context.Context, userID types.UserID, taskID types.TaskID, content string) (*model.Comment, error) {
	if content == "" {
		return nil, goerr.Wrap(model.ErrValidation, "comment content is required")
	}

	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	board, err := requireMember(ctx, uc.repo, task.BoardID, userID)
	if err != nil {
		return nil, err
	}

	comment, err := uc.repo.Comment().Create(ctx, &model.Comment{
		TaskID:  taskID,
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create comment")
	}

	if uc.notifier != nil {
		event := &model.NotificationEvent{
			Type:    types.EventCommentAdded,
			ActorID: userID,
			Board:   board,
			Task:    task,
			Comment: comment,
		}
		async.Dispatch(ctx, func(ctx context.Context) error {
			uc.notifier.Notify(ctx, event)
			return nil
		})
	}

	if uc.bus != nil {
		uc.bus.Broadcast(ctx, board.ID, &model.BoardEvent{
			Type:    types.EventCommentAdded,
			Payload: comment,
		})
	}

	return comment, nil
}

func (uc *CommentUseCase) ListByTask(ctx context.Context, userID types.UserID, taskID types.TaskID) ([]*model.Comment, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireViewer(ctx, uc.repo, task.BoardID, userID); err != nil {
		return nil, err
	}

	comments, err := uc.repo.Comment().ListByTask(ctx, taskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments")
	}
	return comments, nil
}

func (uc *CommentUseCase) Delete(ctx context.Context, userID types.UserID, commentID types.CommentID) error {
	comment, err := uc.repo.Comment().Get(ctx, commentID)
	if err != nil {
		return err
	}

	task, err := uc.repo.Task().Get(ctx, comment.TaskID)
	if err != nil {
		return err
	}
	board, err := requireMember(ctx, uc.repo, task.BoardID, userID)
	if err != nil {
		return err
	}

	// Only the author or the board owner may delete a comment
	if comment.UserID != userID && board.OwnerID != userID {
		return goerr.Wrap(ErrPermissionDenied, "comment author or board owner only",
			goerr.V("commentID", commentID), goerr.V("userID", userID))
	}

	if err := uc.repo.Comment().Delete(ctx, commentID); err != nil {
		return goerr.Wrap(err, "failed to delete comment")
	}
	return nil
}
