package handler

import (
	"net/http"
	"regexp"
	"strings"

	"seatwise/internal/middleware"
	"seatwise/internal/model"
	"seatwise/internal/service"

	"github.com/gin-gonic/gin"
)

const maxEmailLength = 254

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// InvitationHandler manages membership invitations.
type InvitationHandler struct {
	invitations *service.InvitationService
}

func NewInvitationHandler(invitations *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

type createInvitationRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role"`
}

// Create issues an invitation for the organization in the path. The plain
// token is returned once; only its hash is stored.
// @Router /organizations/{orgId}/invitations [post]
func (h *InvitationHandler) Create(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	orgID, err := parseID(c.Param("orgId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid organization id", ""))
		return
	}
	if orgID != session.OrganizationID {
		respondError(c, model.ErrForbidden)
		return
	}

	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if len(req.Email) > maxEmailLength || !emailRegex.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid email format", ""))
		return
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if !model.ValidRole(req.Role) || req.Role == model.RoleOwner {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid role for invitation", req.Role))
		return
	}

	inv, token, err := h.invitations.Create(c.Request.Context(), orgID, req.Email, req.Role, session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.NewSuccessResponse("Invitation created", gin.H{
		"invitation": inv,
		"token":      token,
	}))
}

type acceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// Accept redeems an invitation token and creates the membership.
// @Router /invitations/{id}/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	invID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid invitation id", ""))
		return
	}

	var req acceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}

	member, err := h.invitations.Accept(c.Request.Context(), invID, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Invitation accepted", member))
}

// Cancel withdraws a pending invitation and frees its seat.
// @Router /invitations/{id} [delete]
func (h *InvitationHandler) Cancel(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}
	invID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid invitation id", ""))
		return
	}

	if err := h.invitations.Cancel(c.Request.Context(), session.OrganizationID, invID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Invitation canceled", nil))
}
