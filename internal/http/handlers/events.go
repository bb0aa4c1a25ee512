package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const eventWriteTimeout = 10 * time.Second

// SessionEvents streams every state the session's controller applies as JSON
// text frames. The first frame is the current state. The stream ends when the
// client disconnects or the session is deleted or expires.
func (a *App) SessionEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	conn, err := a.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	states, unsubscribe := sess.Controller.Subscribe()
	defer unsubscribe()

	// Reading is required to process control frames and notice the peer leaving.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					a.Logger.Debug().Err(err).Str("session_id", sess.ID).Msg("websocket read failed")
				}
				return
			}
		}
	}()
	defer func() {
		conn.Close()
		<-gone
	}()

	for {
		select {
		case st, ok := <-states:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(eventWriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteJSON(newStateView(st)); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}
