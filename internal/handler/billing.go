package handler

import (
	"net/http"

	"seatwise/internal/middleware"
	"seatwise/internal/model"
	"seatwise/internal/repository"
	"seatwise/internal/service"

	"github.com/gin-gonic/gin"
)

// BillingHandler exposes the entitlement checks, the seat synchronizer,
// and plan changes.
type BillingHandler struct {
	entitlements *service.EntitlementService
	seatSync     *service.SeatSyncService
	planChange   *service.PlanChangeService
	members      repository.MemberRepository
}

func NewBillingHandler(entitlements *service.EntitlementService, seatSync *service.SeatSyncService, planChange *service.PlanChangeService, members repository.MemberRepository) *BillingHandler {
	return &BillingHandler{
		entitlements: entitlements,
		seatSync:     seatSync,
		planChange:   planChange,
		members:      members,
	}
}

type checkUserLimitRequest struct {
	Role string `json:"role"`
}

// CheckUserLimit answers whether the caller's organization can add one
// more user with the given role.
// @Router /billing/check-user-limit [post]
func (h *BillingHandler) CheckUserLimit(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	var req checkUserLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if !model.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Unknown role", req.Role))
		return
	}

	result, err := h.entitlements.CanInvite(c.Request.Context(), session.OrganizationID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		// canInvite stays within the plan allowance; canAdd additionally
		// covers paid overage on plans that allow it.
		"canInvite": result.Allowed && result.Available >= 0,
		"canAdd":    result.Allowed,
		"reason":    result.Reason,
		"limit":     result.Limit,
		"available": result.Available,
	}
	if req.Role == model.RoleAccountant {
		resp["currentAccountants"] = result.CurrentCount
	}
	c.JSON(http.StatusOK, resp)
}

type checkRoleChangeRequest struct {
	MemberID string `json:"memberId" binding:"required"`
	NewRole  string `json:"newRole" binding:"required"`
}

// CheckRoleChange answers whether a member may be moved to a new role. The
// current role is read from the stored record, never from the caller.
// @Router /billing/check-role-change [post]
func (h *BillingHandler) CheckRoleChange(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	var req checkRoleChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	if !model.ValidRole(req.NewRole) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Unknown role", req.NewRole))
		return
	}

	memberID, err := parseID(req.MemberID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid member id", ""))
		return
	}
	member, err := h.members.FindByID(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	if member == nil || member.OrganizationID != session.OrganizationID {
		respondError(c, model.ErrNotFound)
		return
	}

	result, err := h.entitlements.CanChangeRole(c.Request.Context(), session.OrganizationID, member.Role, req.NewRole)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{
		"canChange": result.Allowed,
		"reason":    result.Reason,
		"limit":     result.Limit,
		"available": result.Available,
	}
	if req.NewRole == model.RoleAccountant {
		resp["currentAccountants"] = result.CurrentCount
	}
	c.JSON(http.StatusOK, resp)
}

// SyncSeats forces a seat reconciliation run for the caller's organization.
// @Router /billing/sync-seats [post]
func (h *BillingHandler) SyncSeats(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	result, err := h.seatSync.SyncSeats(c.Request.Context(), session.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type changePlanRequest struct {
	Plan   string `json:"plan" binding:"required"`
	Annual bool   `json:"annual"`
}

// ChangePlan switches the caller's organization to a new plan.
// @Router /billing/change-plan [post]
func (h *BillingHandler) ChangePlan(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	if !model.KnownPlan(req.Plan) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Unknown plan", req.Plan))
		return
	}

	result, err := h.planChange.ChangePlan(c.Request.Context(), session.OrganizationID, req.Plan, req.Annual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Info returns the monthly cost breakdown for the caller's organization.
// @Router /billing/info [get]
func (h *BillingHandler) Info(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Missing session", ""))
		return
	}

	info, err := h.seatSync.GetBillingInfo(c.Request.Context(), session.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
