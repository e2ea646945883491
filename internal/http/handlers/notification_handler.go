// Notification HTTP handlers.
//
//   - GET  /notifications                 (caller's inbox, newest first)
//   - POST /notifications/{id}/read       (mark one read)
//   - POST /notifications/mark-all-read   (mark every one read)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-doubts-backend/internal/http/middleware"
)

// UpdatedResponse reports how many rows an acknowledgement changed.
type UpdatedResponse struct {
	Updated int64 `json:"updated" example:"1"`
}

// GetNotifications godoc
// @ID          getNotifications
// @Summary     List notifications
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.Notification
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to fetch notifications"
// @Router      /notifications [get]
func (h *Handlers) GetNotifications(c *gin.Context) {
	items, err := h.notifications.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.failWith(c, err, ErrCodeListFailed, "Failed to fetch notifications")
		return
	}
	ok(c, http.StatusOK, items)
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark a notification read
// @Description Only the caller's own notifications are affected; updated is 0 when the id is unknown or belongs to someone else.
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      int  true  "Notification ID"  minimum(1)
// @Success     200  {object}  handlers.UpdatedResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid notification id"
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to update notification"
// @Router      /notifications/{id}/read [post]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid notification id")
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.failWith(c, err, ErrCodeUpdateFailed, "Failed to update notification")
		return
	}
	ok(c, http.StatusOK, UpdatedResponse{Updated: n})
}

// MarkAllNotificationsRead godoc
// @ID          markAllNotificationsRead
// @Summary     Mark all notifications read
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Param       user_id  query     string  false  "Must equal the caller when given"
// @Success     200      {object}  handlers.UpdatedResponse
// @Failure     403      {object}  handlers.ErrorResponse  "Forbidden"
// @Failure     500      {object}  handlers.ErrorResponse  "Failed to update notifications"
// @Router      /notifications/mark-all-read [post]
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.UserID(c), c.Query("user_id"))
	if err != nil {
		h.failWith(c, err, ErrCodeUpdateFailed, "Failed to update notifications")
		return
	}
	ok(c, http.StatusOK, UpdatedResponse{Updated: n})
}
