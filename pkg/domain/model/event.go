package model

import (
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// BoardEvent is the frame pushed to every live viewer of a board
type BoardEvent struct {
	Type    types.EventType `json:"type"`
	Payload any             `json:"payload"`
}

// NotificationEvent is the ephemeral description of a committed mutation,
// handed to the notification dispatcher. The actor never receives a
// notification for their own action.
type NotificationEvent struct {
	Type    types.EventType
	ActorID types.UserID
	Board   *Board
	Task    *Task
	Comment *Comment // set for comment events only
}
