package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// Column represents an ordered lane on a board
type Column struct {
	ID        types.ColumnID `json:"id"`
	BoardID   types.BoardID  `json:"board_id"`
	Name      string         `json:"name"`
	Position  int            `json:"position"`
	Color     string         `json:"color,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Validate checks the invariants of a column record
func (c *Column) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid column")
	}
	if err := c.BoardID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid column board", goerr.V("columnID", c.ID))
	}
	if c.Name == "" {
		return goerr.Wrap(ErrValidation, "column name is required", goerr.V("columnID", c.ID))
	}
	if c.Position < 0 {
		return goerr.Wrap(ErrValidation, "column position must not be negative", goerr.V("position", c.Position))
	}
	return nil
}
