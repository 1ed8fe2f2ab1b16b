package handler

import (
	"net/http"
	"strings"

	"seatwise/internal/model"
	"seatwise/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler mints sessions.
type AuthHandler struct {
	sessions *service.SessionService
}

func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Email          string `json:"email" binding:"required"`
	OrganizationID string `json:"organizationId" binding:"required"`
}

// Login creates a session for a member of the given organization. The
// session lifetime follows the organization's policy.
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if len(req.Email) > maxEmailLength || !emailRegex.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid email format", ""))
		return
	}
	orgID, err := parseID(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid organization id", ""))
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req.Email, orgID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.NewSuccessResponse("Logged in", gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	}))
}
