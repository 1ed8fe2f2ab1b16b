package handler

import (
	"errors"
	"net/http"

	"seatwise/internal/model"
	"seatwise/internal/service"
	"seatwise/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseID(id string) (primitive.ObjectID, error) {
	return util.ParseObjectID(id)
}

// respondError maps service errors to HTTP statuses. Entitlement denials
// carry their verdict so clients can show the reason to the user.
func respondError(c *gin.Context, err error) {
	var denied *service.EntitlementDenied
	if errors.As(err, &denied) {
		c.JSON(http.StatusForbidden, model.NewErrorResponse(denied.Result.Reason, ""))
		return
	}
	var blocked *service.DowngradeBlocked
	if errors.As(err, &blocked) {
		c.JSON(http.StatusConflict, model.NewErrorResponse(blocked.Message, ""))
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, model.NewErrorResponse("Not found", ""))
	case errors.Is(err, model.ErrNoSubscription):
		c.JSON(http.StatusPaymentRequired, model.NewErrorResponse("No active subscription", service.ReasonNoSubscription))
	case errors.Is(err, model.ErrSubscriptionExpired):
		c.JSON(http.StatusPaymentRequired, model.NewErrorResponse("Subscription expired", service.ReasonSubscriptionExpired))
	case errors.Is(err, model.ErrNotMember):
		c.JSON(http.StatusForbidden, model.NewErrorResponse("Not a member of this organization", ""))
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, model.NewErrorResponse("Operation not permitted", ""))
	case errors.Is(err, model.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Invalid token", ""))
	case errors.Is(err, model.ErrInvitationExpired):
		c.JSON(http.StatusGone, model.NewErrorResponse("Invitation expired", ""))
	default:
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(err.Error(), ""))
	}
}
