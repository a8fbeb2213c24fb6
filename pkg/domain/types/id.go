package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID identifies a registered user
type UserID string

// NewUserID generates a new UUID v4 UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

func (x UserID) String() string { return string(x) }

// Validate checks if the user ID is non-empty
func (x UserID) Validate() error {
	if x == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

// BoardID identifies a board
type BoardID string

// NewBoardID generates a new UUID v4 BoardID
func NewBoardID() BoardID {
	return BoardID(uuid.New().String())
}

func (x BoardID) String() string { return string(x) }

// Validate checks if the board ID is non-empty
func (x BoardID) Validate() error {
	if x == "" {
		return goerr.New("board ID is empty")
	}
	return nil
}

// ColumnID identifies a column within a board
type ColumnID string

// NewColumnID generates a new UUID v4 ColumnID
func NewColumnID() ColumnID {
	return ColumnID(uuid.New().String())
}

func (x ColumnID) String() string { return string(x) }

// Validate checks if the column ID is non-empty
func (x ColumnID) Validate() error {
	if x == "" {
		return goerr.New("column ID is empty")
	}
	return nil
}

// TaskID identifies a task
type TaskID string

// NewTaskID generates a new UUID v4 TaskID
func NewTaskID() TaskID {
	return TaskID(uuid.New().String())
}

func (x TaskID) String() string { return string(x) }

// Validate checks if the task ID is non-empty
func (x TaskID) Validate() error {
	if x == "" {
		return goerr.New("task ID is empty")
	}
	return nil
}

// CommentID identifies a comment on a task
type CommentID string

// NewCommentID generates a new UUID v4 CommentID
func NewCommentID() CommentID {
	return CommentID(uuid.New().String())
}

func (x CommentID) String() string { return string(x) }

// Validate checks if the comment ID is non-empty
func (x CommentID) Validate() error {
	if x == "" {
		return goerr.New("comment ID is empty")
	}
	return nil
}

// AttachmentID identifies an attachment record on a task
type AttachmentID string

// NewAttachmentID generates a new UUID v4 AttachmentID
func NewAttachmentID() AttachmentID {
	return AttachmentID(uuid.New().String())
}

func (x AttachmentID) String() string { return string(x) }

// Validate checks if the attachment ID is non-empty
func (x AttachmentID) Validate() error {
	if x == "" {
		return goerr.New("attachment ID is empty")
	}
	return nil
}

// ChatID identifies an external Telegram chat. Telegram delivers it as a
// numeric value but it is carried as an opaque string everywhere outside the
// transport layer.
type ChatID string

func (x ChatID) String() string { return string(x) }

// Validate checks if the chat ID is non-empty
func (x ChatID) Validate() error {
	if x == "" {
		return goerr.New("chat ID is empty")
	}
	return nil
}
