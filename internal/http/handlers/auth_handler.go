// Auth HTTP handler.
//
// One endpoint carries both signup and login, switched by an action field,
// which is the shape the web client speaks. There are no sessions: a
// successful login only confirms the credential pair the client will keep
// using locally as cipher key material.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bledchat/server/internal/services"
)

// AuthRequest is the JSON payload for POST /auth.
type AuthRequest struct {
	Action   string `json:"action" binding:"required" example:"login"`
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the success envelope for both auth actions.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// authFail writes the auth-specific failure shape ({success:false, error:…}).
func authFail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    ErrCodeAuthFailed,
		"error":   msg,
	})
}

// Auth godoc
// @ID          auth
// @Summary     Sign up or log in
// @Description Registers an account (action=signup) or verifies credentials
// @Description (action=login). Accounts are process-memory only.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.AuthRequest  true  "Auth payload"
// @Success     200  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /auth [post]
func (h *Handlers) Auth(c *gin.Context) {
	ctx := c.Request.Context()

	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		authFail(c, http.StatusBadRequest, "username and password required")
		return
	}

	switch req.Action {
	case "signup":
		if err := h.authSvc.Signup(ctx, req.Username, req.Password); err != nil {
			authFail(c, http.StatusBadRequest, err.Error())
			return
		}
		ok(c, http.StatusOK, AuthResponse{Success: true, Message: "Account created successfully!"})

	case "login":
		if err := h.authSvc.Login(ctx, req.Username, req.Password); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrBadCredentials) {
				status = http.StatusUnauthorized
			}
			authFail(c, status, err.Error())
			return
		}
		ok(c, http.StatusOK, AuthResponse{Success: true, Message: "Login successful!"})

	default:
		authFail(c, http.StatusBadRequest, services.ErrUnknownAction.Error())
	}
}
