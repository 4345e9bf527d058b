package adapthttp

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

type counterResponse struct {
	Value int64 `json:"value"`
}

func (s *Server) handleCounterGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, counterResponse{Value: s.counter.Value()})
}

func (s *Server) handleCounterIncrement(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, counterResponse{Value: s.counter.Increment()})
}

func (s *Server) handleCounterDecrement(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, counterResponse{Value: s.counter.Decrement()})
}

func (s *Server) handleCounterReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, counterResponse{Value: s.counter.Reset()})
}

// handleCounterStream pushes every counter value to a websocket client,
// starting with the current one.
func (s *Server) handleCounterStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("counter stream upgrade failed")
		return
	}
	defer conn.Close() //nolint:errcheck

	values, cancel := s.counter.Subscribe()
	defer cancel()

	// The read side only handles pongs and notices the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.Debug().Err(err).Msg("counter stream read")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case v, ok := <-values:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := conn.WriteJSON(counterResponse{Value: v}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
