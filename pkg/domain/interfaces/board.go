package interfaces

import (
	"context"

	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
)

// BoardRepository persists boards and board memberships
type BoardRepository interface {
	Create(ctx context.Context, board *model.Board) (*model.Board, error)
	Get(ctx context.Context, id types.BoardID) (*model.Board, error)
	// ListByUser returns boards the user owns or is a member of, oldest first.
	ListByUser(ctx context.Context, userID types.UserID) ([]*model.Board, error)
	// ListOwned returns boards owned by the user, oldest first. The
	// conversational flow targets the first entry.
	ListOwned(ctx context.Context, userID types.UserID) ([]*model.Board, error)
	Update(ctx context.Context, board *model.Board) (*model.Board, error)
	Delete(ctx context.Context, id types.BoardID) error

	AddMember(ctx context.Context, member *model.BoardMember) error
	RemoveMember(ctx context.Context, boardID types.BoardID, userID types.UserID) error
	GetMember(ctx context.Context, boardID types.BoardID, userID types.UserID) (*model.BoardMember, error)
	ListMembers(ctx context.Context, boardID types.BoardID) ([]*model.BoardMember, error)
}
