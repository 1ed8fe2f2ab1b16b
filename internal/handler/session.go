package handler

import (
	"net/http"

	"seatwise/internal/middleware"
	"seatwise/internal/model"
	"seatwise/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the device limiter and the per-organization
// session policy.
type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CheckLimit sweeps the caller's inactive sessions and reports whether the
// device limit is exceeded.
// @Router /check-session-limit [get]
func (h *SessionHandler) CheckLimit(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	status, err := h.sessions.CheckLimit(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type revokeSessionRequest struct {
	SessionToken string `json:"sessionToken" binding:"required"`
}

// Revoke deletes one of the caller's sessions by token. Used by the device
// picker when the limit is reached.
// @Router /revoke-session [post]
func (h *SessionHandler) Revoke(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	var req revokeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	revoked, err := h.sessions.Revoke(c.Request.Context(), session.UserID, req.SessionToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"revokedSession": revoked,
	})
}

// GetSettings returns the organization's session policy.
// @Router /session-settings [get]
func (h *SessionHandler) GetSettings(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	settings, err := h.sessions.GetSettings(c.Request.Context(), session.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the organization's session policy. Values outside
// the allow-lists are rejected.
// @Router /session-settings [put]
func (h *SessionHandler) UpdateSettings(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	var settings model.SessionSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	if err := h.sessions.UpdateSettings(c.Request.Context(), session.OrganizationID, settings); err != nil {
		if err == model.ErrNotFound {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Session settings updated", settings))
}
