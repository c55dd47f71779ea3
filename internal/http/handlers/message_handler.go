// Message HTTP handlers.
//
// This file exposes the message endpoints:
//   - POST /messages          (submit a record; idempotent on room+id)
//   - GET  /messages?room=X   (room-filtered history, newest last)
//
// The submit path never inspects cipherText beyond presence: confidentiality
// is entirely client-side and the server stores whatever blob it is handed.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bledchat/server/internal/domain"
	"github.com/bledchat/server/internal/services"
	"github.com/bledchat/server/internal/utils"
)

// SubmitMessageResponse is the JSON envelope for an accepted record.
type SubmitMessageResponse struct {
	Success bool `json:"success"`
	// Message is the stored form of the record: CreatedAt filled in, and for
	// a replayed id, the original record rather than the re-delivered one.
	Message domain.Message `json:"message"`
}

// maxHistoryLimit caps the ?limit query parameter.
const maxHistoryLimit = 1000

// SubmitMessage godoc
// @ID          submitMessage
// @Summary     Submit a chat message
// @Description Appends a record to its room's history. Re-submitting an id
// @Description already present in the room is a no-op returning the stored record.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body  body  domain.Message  true  "Message record"
// @Success     200  {object}  handlers.SubmitMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing required fields"
// @Router      /messages [post]
func (h *Handlers) SubmitMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var m domain.Message
	if err := c.ShouldBindJSON(&m); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Missing required fields")
		return
	}

	stored, err := h.msgSvc.Submit(ctx, m)
	if err != nil {
		switch err {
		case services.ErrInvalidMessage:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Missing required fields")
		case services.ErrMessageTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message too long")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeStoreFailed, "failed to store message")
		}
		return
	}

	ok(c, http.StatusOK, SubmitMessageResponse{Success: true, Message: stored})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a room
// @Description Returns the room's retained history in stored order, newest
// @Description last. Unknown rooms yield an empty array, not an error.
// @Tags        Messages
// @Produce     json
// @Param       room   query  string  true   "Room name"
// @Param       limit  query  int     false  "Most recent N records"  minimum(1) maximum(1000)
// @Success     200  {array}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse  "Missing room parameter"
// @Router      /messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	room := c.Query("room")
	if room == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "room parameter required")
		return
	}

	limit := utils.AtoiDefault(c.Query("limit"), 0)
	if limit < 0 {
		limit = 0
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	ok(c, http.StatusOK, h.msgSvc.History(ctx, room, limit))
}
