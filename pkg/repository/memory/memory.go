package memory

import (
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
)

// ErrNotFound is what every missing-record lookup wraps
var ErrNotFound = model.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	user       *userRepository
	board      *boardRepository
	column     *columnRepository
	task       *taskRepository
	comment    *commentRepository
	attachment *attachmentRepository
	tokens     *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:       newUserRepository(),
		board:      newBoardRepository(),
		column:     newColumnRepository(),
		task:       newTaskRepository(),
		comment:    newCommentRepository(),
		attachment: newAttachmentRepository(),
		tokens:     newTokenStore(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Board() interfaces.BoardRepository {
	return m.board
}

func (m *Memory) Column() interfaces.ColumnRepository {
	return m.column
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) Attachment() interfaces.AttachmentRepository {
	return m.attachment
}

func (m *Memory) Close() error {
	return nil
}
