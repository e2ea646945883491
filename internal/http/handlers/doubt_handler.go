// Doubt HTTP handlers.
//
// This file exposes the authenticated doubt endpoints:
//   - POST /doubts      (create, Idempotency-Key aware)
//   - GET  /doubts      (feed of other users' doubts, or ?id= for one doubt)
//   - GET  /my-doubts   (caller's doubts with response counts)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-doubts-backend/internal/http/middleware"
	"github.com/tbourn/go-doubts-backend/internal/services"
)

// PostDoubtRequest is the JSON payload for posting a doubt.
type PostDoubtRequest struct {
	Subject     string  `json:"subject"     example:"Fourier series convergence"`
	Description string  `json:"description" example:"Why does the series overshoot near a jump?"`
	Branch      *string `json:"branch"      example:"ECE"`
	Location    *string `json:"location"    example:"Library, 2nd floor"`
}

// PostDoubt godoc
// @ID          postDoubt
// @Summary     Post a doubt
// @Description Creates a doubt owned by the caller. A repeated Idempotency-Key returns the doubt created the first time with 200.
// @Tags        Doubts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header  string  false  "Safe-retry key"
// @Param       body             body    handlers.PostDoubtRequest  true  "Doubt"
// @Success     201  {object}  domain.Doubt
// @Success     200  {object}  domain.DoubtView  "Replayed"
// @Header      200  {string}  Idempotency-Replayed  "true on replays"
// @Failure     400  {object}  handlers.ErrorResponse  "Subject and description required"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to post doubt"
// @Router      /doubts [post]
func (h *Handlers) PostDoubt(c *gin.Context) {
	if id, replay := middleware.ReplayResource(c); replay {
		d, err := h.doubts.Get(c.Request.Context(), id)
		if err == nil {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, d)
			return
		}
		middleware.LoggerFrom(c).Warn().Err(err).Uint("doubt_id", id).Msg("replay target gone")
	}

	var req PostDoubtRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.doubts.Post(c.Request.Context(), middleware.UserID(c), services.DoubtInput{
		Subject:     req.Subject,
		Description: req.Description,
		Branch:      req.Branch,
		Location:    req.Location,
	})
	if err != nil {
		h.failWith(c, err, ErrCodeCreateFailed, "Failed to post doubt")
		return
	}
	h.remember(c, d.ID, http.StatusCreated)
	ok(c, http.StatusCreated, d)
}

// GetDoubts godoc
// @ID          getDoubts
// @Summary     Doubt feed
// @Description Without id (or with an empty one): every doubt not posted by the caller, newest first. With id: that single doubt.
// @Tags        Doubts
// @Produce     json
// @Security    BearerAuth
// @Param       id   query     int  false  "Doubt ID"  minimum(1)
// @Success     200  {array}   domain.DoubtView
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid doubt id"
// @Failure     404  {object}  handlers.ErrorResponse  "Doubt not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to fetch doubts"
// @Router      /doubts [get]
func (h *Handlers) GetDoubts(c *gin.Context) {
	if raw := c.Query("id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid doubt id")
			return
		}
		d, err := h.doubts.Get(c.Request.Context(), id)
		if err != nil {
			h.failWith(c, err, ErrCodeListFailed, "Failed to fetch doubts")
			return
		}
		ok(c, http.StatusOK, d)
		return
	}

	items, err := h.doubts.Feed(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.failWith(c, err, ErrCodeListFailed, "Failed to fetch doubts")
		return
	}
	ok(c, http.StatusOK, items)
}

// GetMyDoubts godoc
// @ID          getMyDoubts
// @Summary     Caller's doubts
// @Description Doubts posted by the caller, newest first, each with its response count.
// @Tags        Doubts
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array}   domain.OwnDoubt
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to fetch my doubts"
// @Router      /my-doubts [get]
func (h *Handlers) GetMyDoubts(c *gin.Context) {
	items, err := h.doubts.Mine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.failWith(c, err, ErrCodeListFailed, "Failed to fetch my doubts")
		return
	}
	ok(c, http.StatusOK, items)
}
