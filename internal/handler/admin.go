package handler

import (
	"crypto/subtle"
	"net/http"

	"seatwise/internal/model"
	"seatwise/internal/service"

	"github.com/gin-gonic/gin"
)

const maxCleanupBatch = 100

// adminKeyHeader carries the maintenance credential. A session alone is
// not enough: cleanup deletes users across organizations.
const adminKeyHeader = "X-Admin-Key"

// AdminHandler hosts maintenance endpoints.
type AdminHandler struct {
	apiKey  string
	cleanup *service.CleanupService
}

func NewAdminHandler(apiKey string, cleanup *service.CleanupService) *AdminHandler {
	return &AdminHandler{apiKey: apiKey, cleanup: cleanup}
}

type cleanupRequest struct {
	Emails []string `json:"emails" binding:"required"`
}

// CleanupTestUsers deletes test accounts in bulk. Results are reported
// per email; a failed item never aborts the batch.
// @Router /admin/cleanup-test-users [post]
func (h *AdminHandler) CleanupTestUsers(c *gin.Context) {
	if h.apiKey == "" {
		c.JSON(http.StatusServiceUnavailable, model.NewErrorResponse("Admin endpoints not configured", ""))
		return
	}
	key := c.GetHeader(adminKeyHeader)
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		c.JSON(http.StatusForbidden, model.NewErrorResponse("Admin credential required", ""))
		return
	}

	var req cleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error(), ""))
		return
	}
	if len(req.Emails) == 0 {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("No emails provided", ""))
		return
	}
	if len(req.Emails) > maxCleanupBatch {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Too many emails in one batch", ""))
		return
	}

	results := h.cleanup.DeleteTestUsers(c.Request.Context(), req.Emails)
	c.JSON(http.StatusOK, model.NewSuccessResponse("Cleanup completed", gin.H{
		"results": results,
	}))
}
