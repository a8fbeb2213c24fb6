package types

// ConversationStep is the position of a chat identity inside the multi-step
// task creation dialogue. The gateway treats an absent session as idle.
type ConversationStep string

const (
	StepAwaitingTitle       ConversationStep = "awaiting_title"
	StepAwaitingDescription ConversationStep = "awaiting_description"
	StepAwaitingDueDate     ConversationStep = "awaiting_due_date"
)

// IsValid checks if the conversation step is valid
func (s ConversationStep) IsValid() bool {
	switch s {
	case StepAwaitingTitle,
		StepAwaitingDescription,
		StepAwaitingDueDate:
		return true
	default:
		return false
	}
}

// Next returns the step following s in the dialogue. The final step has no
// successor and returns an empty step.
func (s ConversationStep) Next() ConversationStep {
	switch s {
	case StepAwaitingTitle:
		return StepAwaitingDescription
	case StepAwaitingDescription:
		return StepAwaitingDueDate
	default:
		return ""
	}
}

// String returns the string representation of the conversation step
func (s ConversationStep) String() string {
	return string(s)
}
