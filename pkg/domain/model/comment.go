package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// Comment represents a comment on a task
type Comment struct {
	ID        types.CommentID `json:"id"`
	TaskID    types.TaskID    `json:"task_id"`
	UserID    types.UserID    `json:"user_id"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate checks the invariants of a comment record
func (c *Comment) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid comment")
	}
	if err := c.TaskID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid comment task", goerr.V("commentID", c.ID))
	}
	if err := c.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid comment author", goerr.V("commentID", c.ID))
	}
	if c.Content == "" {
		return goerr.Wrap(ErrValidation, "comment content is required", goerr.V("commentID", c.ID))
	}
	return nil
}
