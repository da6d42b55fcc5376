package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ayusman/handframe/internal/tracking"
)

// liveWriteTimeout bounds each summary write to a websocket client.
const liveWriteTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler pushes every tracking Summary to websocket clients as JSON.
// The most recent summary, if any, is sent right after the upgrade.
type LiveHandler struct {
	tracker *tracking.Tracker
	logger  *log.Logger
}

// NewLiveHandler creates a LiveHandler fed by tracker.
func NewLiveHandler(tracker *tracking.Tracker, logger *log.Logger) *LiveHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &LiveHandler{tracker: tracker, logger: logger}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	summaries, cancel := h.tracker.Subscribe()
	defer cancel()

	// Reads only detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if last, ok := h.tracker.Last(); ok {
		if err := h.write(conn, last); err != nil {
			return
		}
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case s, ok := <-summaries:
			if !ok {
				return
			}
			if err := h.write(conn, s); err != nil {
				h.logger.Debug("websocket write", "err", err)
				return
			}
		}
	}
}

func (h *LiveHandler) write(conn *websocket.Conn, s tracking.Summary) error {
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(s)
}
