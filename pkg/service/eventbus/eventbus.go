package eventbus

import (
	"context"
	"sync"

	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
)

// Conn is one live viewer connection. WriteJSON pushes one frame to the
// peer; an error means the connection is dead and it will be dropped from
// the board's subscriber set.
type Conn interface {
	WriteJSON(v any) error
}

// Bus maintains the live subscriber connections per board and fans board
// events out to them. All state is process-local.
type Bus struct {
	mu     sync.RWMutex
	boards map[types.BoardID]map[Conn]struct{}
}

var _ interfaces.BoardBroadcaster = &Bus{}

func New() *Bus {
	return &Bus{
		boards: make(map[types.BoardID]map[Conn]struct{}),
	}
}

// Subscribe registers a connection as a live viewer of the board
func (b *Bus) Subscribe(boardID types.BoardID, conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.boards[boardID]
	if !ok {
		subs = make(map[Conn]struct{})
		b.boards[boardID] = subs
	}
	subs[conn] = struct{}{}
}

// Unsubscribe removes a connection. The board's group is removed when it
// becomes empty.
func (b *Bus) Unsubscribe(boardID types.BoardID, conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.boards[boardID]
	if !ok {
		return
	}
	delete(subs, conn)
	if len(subs) == 0 {
		delete(b.boards, boardID)
	}
}

// Count returns the number of live viewers of the board
func (b *Bus) Count(boardID types.BoardID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.boards[boardID])
}

// Broadcast sends the event to every live viewer of the board. A board with
// no viewers is a no-op. A send failure drops only the failed connection and
// delivery continues to the rest.
func (b *Bus) Broadcast(ctx context.Context, boardID types.BoardID, event *model.BoardEvent) {
	b.fanOut(ctx, boardID, nil, event)
}

// Forward fans a frame a viewer sent out to all other viewers of the same
// board, verbatim. No authorization is applied to forwarded frames; any
// connected client may inject payloads for the board it joined.
func (b *Bus) Forward(ctx context.Context, boardID types.BoardID, from Conn, payload any) {
	b.fanOut(ctx, boardID, from, payload)
}

func (b *Bus) fanOut(ctx context.Context, boardID types.BoardID, skip Conn, v any) {
	// Snapshot under the read lock so unsubscription never races iteration
	b.mu.RLock()
	conns := make([]Conn, 0, len(b.boards[boardID]))
	for conn := range b.boards[boardID] {
		if conn != skip {
			conns = append(conns, conn)
		}
	}
	b.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(v); err != nil {
			logging.From(ctx).Warn("dropping dead board subscriber",
				"boardID", boardID, "error", err.Error())
			b.Unsubscribe(boardID, conn)
		}
	}
}
