package handler

import (
	"net/http"

	"seatwise/internal/middleware"
	"seatwise/internal/model"
	"seatwise/internal/service"

	"github.com/gin-gonic/gin"
)

// MemberHandler applies role changes and removals.
type MemberHandler struct {
	members *service.MemberService
}

func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole moves a member to a new role after the entitlement check.
// @Router /organizations/{orgId}/members/{memberId}/role [put]
func (h *MemberHandler) ChangeRole(c *gin.Context) {
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
	memberID, err := parseID(c.Param("memberId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid member id", ""))
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	if !model.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Unknown role", req.Role))
		return
	}

	member, err := h.members.ChangeRole(c.Request.Context(), orgID, memberID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Role updated", member))
}

// Remove deletes a member and frees their seat.
// @Router /organizations/{orgId}/members/{memberId} [delete]
func (h *MemberHandler) Remove(c *gin.Context) {
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
	memberID, err := parseID(c.Param("memberId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid member id", ""))
		return
	}

	if err := h.members.Remove(c.Request.Context(), orgID, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Member removed", nil))
}
