// Response HTTP handlers.
//
// Both POST routes funnel into ResponseService.Respond, so the same
// validation, self-response policy and owner notification apply to each:
//   - POST /responses               (doubt id in the body)
//   - POST /doubts/{id}/responses   (doubt id in the path)
//   - GET  /doubts/{id}/responses   (list, newest first)
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-doubts-backend/internal/http/middleware"
	"github.com/tbourn/go-doubts-backend/internal/services"
)

// flexID accepts a JSON number or a numeric string. Anything else, including
// zero, decodes as 0 and is reported as missing.
type flexID uint

var _ json.Unmarshaler = (*flexID)(nil)

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexID) UnmarshalJSON(b []byte) error {
	*f = 0
	b = bytes.Trim(b, `"`)
	if n, err := strconv.ParseUint(string(b), 10, 64); err == nil {
		*f = flexID(n)
	}
	return nil
}

// PostResponseRequest is the JSON payload for POST /responses.
type PostResponseRequest struct {
	DoubtID     flexID  `json:"doubt_id"     swaggertype:"integer" example:"42"`
	Message     string  `json:"message"      example:"Gibbs phenomenon; see Oppenheim ch. 3."`
	ContactInfo *string `json:"contact_info" example:"bob@campus.edu"`
}

// PostDoubtResponseRequest is the JSON payload for POST /doubts/{id}/responses.
type PostDoubtResponseRequest struct {
	Message     string  `json:"message"      example:"Gibbs phenomenon; see Oppenheim ch. 3."`
	ContactInfo *string `json:"contact_info" example:"bob@campus.edu"`
}

// PostResponse godoc
// @ID          postResponse
// @Summary     Respond to a doubt
// @Tags        Responses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header  string  false  "Safe-retry key"
// @Param       body             body    handlers.PostResponseRequest  true  "Response"
// @Success     201  {object}  domain.Response
// @Failure     400  {object}  handlers.ErrorResponse  "Doubt ID and message required"
// @Failure     404  {object}  handlers.ErrorResponse  "Doubt not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to post response"
// @Router      /responses [post]
func (h *Handlers) PostResponse(c *gin.Context) {
	if h.replayResponse(c) {
		return
	}

	var req PostResponseRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.DoubtID == 0 || strings.TrimSpace(req.Message) == "" {
		h.failWith(c, services.ErrResponseFieldsRequired, ErrCodeBadRequest, "")
		return
	}
	h.respond(c, uint(req.DoubtID), req.Message, req.ContactInfo)
}

// PostDoubtResponse godoc
// @ID          postDoubtResponse
// @Summary     Respond to a doubt by path
// @Description Same behaviour as POST /responses with the doubt id taken from the path.
// @Tags        Responses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id               path    int     true   "Doubt ID"  minimum(1)
// @Param       Idempotency-Key  header  string  false  "Safe-retry key"
// @Param       body             body    handlers.PostDoubtResponseRequest  true  "Response"
// @Success     201  {object}  domain.Response
// @Failure     400  {object}  handlers.ErrorResponse  "Message is required / Cannot respond to your own doubt"
// @Failure     404  {object}  handlers.ErrorResponse  "Doubt not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to post response"
// @Router      /doubts/{id}/responses [post]
func (h *Handlers) PostDoubtResponse(c *gin.Context) {
	doubtID, err := parseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid doubt id")
		return
	}
	if h.replayResponse(c) {
		return
	}

	var req PostDoubtResponseRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c, doubtID, req.Message, req.ContactInfo)
}

// GetResponses godoc
// @ID          getResponses
// @Summary     List responses to a doubt
// @Tags        Responses
// @Produce     json
// @Security    BearerAuth
// @Param       id   path      int  true  "Doubt ID"  minimum(1)
// @Success     200  {array}   domain.ResponseView
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid doubt id"
// @Failure     500  {object}  handlers.ErrorResponse  "Failed to fetch responses"
// @Router      /doubts/{id}/responses [get]
func (h *Handlers) GetResponses(c *gin.Context) {
	doubtID, err := parseID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid doubt id")
		return
	}

	items, err := h.responses.List(c.Request.Context(), doubtID)
	if err != nil {
		h.failWith(c, err, ErrCodeListFailed, "Failed to fetch responses")
		return
	}
	ok(c, http.StatusOK, items)
}

func (h *Handlers) respond(c *gin.Context, doubtID uint, message string, contact *string) {
	r, err := h.responses.Respond(c.Request.Context(), middleware.UserID(c), doubtID, message, contact)
	if err != nil {
		h.failWith(c, err, ErrCodeCreateFailed, "Failed to post response")
		return
	}
	h.remember(c, r.ID, http.StatusCreated)
	ok(c, http.StatusCreated, r)
}

// replayResponse answers a repeated keyed POST with the stored response.
func (h *Handlers) replayResponse(c *gin.Context) bool {
	id, replay := middleware.ReplayResource(c)
	if !replay {
		return false
	}
	r, err := h.responses.Get(c.Request.Context(), id)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Uint("response_id", id).Msg("replay target gone")
		return false
	}
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	ok(c, http.StatusOK, r)
	return true
}
