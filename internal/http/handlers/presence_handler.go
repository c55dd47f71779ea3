// Presence HTTP handlers: the online-user set. Independent of the message
// path; presence changes are not message-ordered.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bledchat/server/internal/http/middleware"
)

// PresenceUpdateRequest is the JSON payload for POST /presence. Room is
// optional; when set on a subscribe, a system join banner is appended to
// that room.
type PresenceUpdateRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Action   string `json:"action" binding:"required" example:"subscribe"`
	Room     string `json:"room,omitempty" example:"general"`
}

// PresenceResponse reports the online set after an update or on read.
type PresenceResponse struct {
	Success     bool     `json:"success"`
	Count       int      `json:"count"`
	Subscribers []string `json:"subscribers,omitempty"`
}

// GetPresence godoc
// @ID          getPresence
// @Summary     List online users
// @Tags        Presence
// @Produce     json
// @Success     200  {object}  handlers.PresenceResponse
// @Router      /presence [get]
func (h *Handlers) GetPresence(c *gin.Context) {
	count, names := h.presenceSvc.Snapshot(c.Request.Context())
	ok(c, http.StatusOK, PresenceResponse{Success: true, Count: count, Subscribers: names})
}

// UpdatePresence godoc
// @ID          updatePresence
// @Summary     Subscribe or unsubscribe a user
// @Tags        Presence
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.PresenceUpdateRequest  true  "Presence update"
// @Success     200  {object}  handlers.PresenceResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /presence [post]
func (h *Handlers) UpdatePresence(c *gin.Context) {
	ctx := c.Request.Context()

	var req PresenceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and action required")
		return
	}
	if err := h.presenceSvc.Update(ctx, req.Username, req.Action); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	// Join banners ride the normal message path so every client sees them in
	// room order. A failed banner never fails the presence update.
	if req.Action == "subscribe" && req.Room != "" {
		if _, err := h.msgSvc.Announce(ctx, req.Room, req.Username+" joined the room"); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Str("room", req.Room).Msg("join banner dropped")
		}
	}

	count, _ := h.presenceSvc.Snapshot(ctx)
	ok(c, http.StatusOK, PresenceResponse{Success: true, Count: count})
}
