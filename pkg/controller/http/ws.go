package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
	"github.com/secmon-lab/kanbot/pkg/utils/safe"
	"golang.org/x/net/websocket"
)

// wsConn adapts a websocket connection to the event bus subscriber interface
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) WriteJSON(v any) error {
	return websocket.JSON.Send(c.conn, v)
}

// boardWSHandler serves the live channel for a board. The connection is not
// authenticated: anyone who knows the board ID receives every pushed event,
// and any frame a client sends is relayed verbatim to the board's other
// subscribers. This mirrors the behavior of the original channel and is a
// known gap.
func (s *Server) boardWSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := types.BoardID(chi.URLParam(r, "boardID"))
		if err := boardID.Validate(); err != nil {
			http.Error(w, "board ID is required", http.StatusBadRequest)
			return
		}

		websocket.Handler(func(ws *websocket.Conn) {
			s.serveBoardWS(r.Context(), boardID, ws)
		}).ServeHTTP(w, r)
	}
}

func (s *Server) serveBoardWS(ctx context.Context, boardID types.BoardID, ws *websocket.Conn) {
	defer safe.Close(ctx, ws)

	conn := &wsConn{conn: ws}
	s.bus.Subscribe(boardID, conn)
	defer s.bus.Unsubscribe(boardID, conn)

	logger := logging.From(ctx)
	logger.Info("board subscriber connected", "board_id", boardID)
	defer logger.Info("board subscriber disconnected", "board_id", boardID)

	for {
		var frame json.RawMessage
		if err := websocket.JSON.Receive(ws, &frame); err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("failed to read board frame",
					"board_id", boardID,
					"error", err.Error(),
				)
			}
			return
		}

		s.bus.Forward(ctx, boardID, conn, frame)
	}
}
