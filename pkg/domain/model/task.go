package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

const (
	// MaxTitleLength bounds task titles everywhere a title enters the
	// system, including the conversational flow.
	MaxTitleLength = 200
	// MaxDescriptionLength bounds task descriptions.
	MaxDescriptionLength = 1000
)

// Task represents a card on a board
type Task struct {
	ID          types.TaskID   `json:"id"`
	BoardID     types.BoardID  `json:"board_id"`
	ColumnID    types.ColumnID `json:"column_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    types.Priority `json:"priority"`
	Position    int            `json:"position"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CreatorID   types.UserID   `json:"creator_id"`
	AssigneeID  types.UserID   `json:"assignee_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Validate checks the invariants of a task record
func (t *Task) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid task")
	}
	if err := t.BoardID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid task board", goerr.V("taskID", t.ID))
	}
	if err := t.ColumnID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid task column", goerr.V("taskID", t.ID))
	}
	if t.Title == "" {
		return goerr.Wrap(ErrValidation, "task title is required", goerr.V("taskID", t.ID))
	}
	if len([]rune(t.Title)) > MaxTitleLength {
		return goerr.Wrap(ErrValidation, "task title is too long",
			goerr.V("taskID", t.ID), goerr.V("length", len([]rune(t.Title))))
	}
	if len([]rune(t.Description)) > MaxDescriptionLength {
		return goerr.Wrap(ErrValidation, "task description is too long",
			goerr.V("taskID", t.ID), goerr.V("length", len([]rune(t.Description))))
	}
	if !t.Priority.Normalize().IsValid() {
		return goerr.Wrap(ErrValidation, "invalid task priority", goerr.V("priority", t.Priority))
	}
	return nil
}

// IsAssigned reports whether the task has an assignee
func (t *Task) IsAssigned() bool {
	return t.AssigneeID != ""
}
