package usecase

import (
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/service/session"
)

type UseCases struct {
	repo           interfaces.Repository
	sessions       *session.Service
	bus            interfaces.BoardBroadcaster
	notifier       interfaces.Notifier
	defaultColumns []DefaultColumn

	Auth       *AuthUseCase
	Board      *BoardUseCase
	Column     *ColumnUseCase
	Task       *TaskUseCase
	Comment    *CommentUseCase
	Attachment *AttachmentUseCase
	Telegram   *TelegramUseCase
}

type Option func(*UseCases)

// WithBroadcaster wires the live board event bus. Without it board events
// are silently dropped.
func WithBroadcaster(bus interfaces.BoardBroadcaster) Option {
	return func(uc *UseCases) {
		uc.bus = bus
	}
}

// WithNotifier wires the notification dispatcher. Without it no chat
// notifications are sent.
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithDefaultColumns sets the column templates created with every new board
func WithDefaultColumns(columns []DefaultColumn) Option {
	return func(uc *UseCases) {
		uc.defaultColumns = columns
	}
}

func New(repo interfaces.Repository, sessions *session.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		sessions: sessions,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Auth = NewAuthUseCase(repo)
	uc.Board = NewBoardUseCase(repo, uc.defaultColumns)
	uc.Column = NewColumnUseCase(repo)
	uc.Task = NewTaskUseCase(repo, uc.bus, uc.notifier)
	uc.Comment = NewCommentUseCase(repo, uc.bus, uc.notifier)
	uc.Attachment = NewAttachmentUseCase(repo)
	uc.Telegram = NewTelegramUseCase(repo, sessions)

	return uc
}
