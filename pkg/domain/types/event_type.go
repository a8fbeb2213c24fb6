package types

// EventType identifies a board mutation pushed to live viewers and fed to the
// notification dispatcher
type EventType string

const (
	EventTaskCreated  EventType = "task_created"
	EventTaskUpdated  EventType = "task_updated"
	EventTaskDeleted  EventType = "task_deleted"
	EventCommentAdded EventType = "comment_added"
)

// IsValid checks if the event type is valid
func (t EventType) IsValid() bool {
	switch t {
	case EventTaskCreated,
		EventTaskUpdated,
		EventTaskDeleted,
		EventCommentAdded:
		return true
	default:
		return false
	}
}

// String returns the string representation of the event type
func (t EventType) String() string {
	return string(t)
}
