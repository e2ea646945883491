// Live notification stream.
//
// GET /notifications/stream upgrades to a websocket and pushes every
// notification created for the caller while the socket is open. The first
// frame is a "connected" event with the current unread count; each later
// frame is a "notification" event. Client frames are read only to process
// pongs and detect the close.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tbourn/go-doubts-backend/internal/domain"
	"github.com/tbourn/go-doubts-backend/internal/http/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// StreamEvent is one frame on the notification stream.
type StreamEvent struct {
	Type         string               `json:"type"                   example:"notification"`
	Unread       *int64               `json:"unread,omitempty"       example:"3"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

// StreamNotifications godoc
// @ID          streamNotifications
// @Summary     Live notifications (websocket)
// @Description Websocket upgrade. Browsers may pass the bearer token as access_token.
// @Tags        Notifications
// @Security    BearerAuth
// @Param       access_token  query  string  false  "Bearer token for clients that cannot set headers"
// @Success     101  {object}  handlers.StreamEvent
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse  "Stream unavailable"
// @Router      /notifications/stream [get]
func (h *Handlers) StreamNotifications(c *gin.Context) {
	if h.hub == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "Stream unavailable")
		return
	}
	userID := middleware.UserID(c)
	log := middleware.LoggerFrom(c)

	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	events, cancel := h.hub.Subscribe(userID)
	defer func() {
		cancel()
		conn.Close()
		log.Debug().Str("user_id", userID).Msg("notification stream closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	unread, err := h.notifications.Unread(c.Request.Context(), userID)
	if err != nil {
		log.Warn().Err(err).Msg("unread count failed")
	}
	if err := writeEvent(conn, StreamEvent{Type: "connected", Unread: &unread}); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case n, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(conn, StreamEvent{Type: "notification", Notification: &n}); err != nil {
				log.Debug().Err(err).Msg("notification write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, ev StreamEvent) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(ev)
}

// checkOrigin admits any origin when no allow-list is configured, and
// same-origin requests without an Origin header.
func (h *Handlers) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	_, ok := h.allowedOrigins[origin]
	return ok
}
