package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"seatwise/internal/metrics"
	"seatwise/internal/model"
	"seatwise/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Machine-readable denial reasons. Human-readable reasons carry the
// French copy shown to end users.
const (
	ReasonNoSubscription      = "no_subscription"
	ReasonSubscriptionExpired = "subscription_expired"
)

// EntitlementDenied wraps a negative evaluator verdict so callers that
// mutate state (invitation creation, role changes) can surface the
// verdict instead of a generic failure. cause carries the sentinel that
// produced the denial, when one applies.
type EntitlementDenied struct {
	Result *model.EntitlementResult
	cause  error
}

func (e *EntitlementDenied) Error() string {
	return e.Result.Reason
}

func (e *EntitlementDenied) Unwrap() error {
	return e.cause
}

// EntitlementService answers "may this organization add or reassign a
// seat". It is purely read-only: every verdict is computed from the
// current subscription and the live seat counts.
type EntitlementService struct {
	counter *SeatCounter
	subs    repository.SubscriptionRepository
	now     func() time.Time
}

func NewEntitlementService(counter *SeatCounter, subs repository.SubscriptionRepository) *EntitlementService {
	return &EntitlementService{
		counter: counter,
		subs:    subs,
		now:     time.Now,
	}
}

// CanInvite decides whether the organization may invite one more user with
// the given role. Accountant invitations are checked against the accountant
// pool and never against totalUsers.
func (e *EntitlementService) CanInvite(ctx context.Context, orgID primitive.ObjectID, role string) (*model.EntitlementResult, error) {
	result, err := e.evaluate(ctx, orgID, func(limits model.PlanLimits, usage *model.SeatUsage, plan string) *model.EntitlementResult {
		if role == model.RoleAccountant {
			return evaluatePool(usage.Accountants, limits.Accountants, false, accountantLimitReason(plan, limits.Accountants))
		}
		return evaluatePool(usage.BillableTotal, limits.TotalUsers, limits.CanAddPaidUsers, userLimitReason(plan, limits.InvitableUsers))
	})
	if err != nil {
		return nil, err
	}
	metrics.EntitlementChecksTotal.WithLabelValues("invite", verdictLabel(result.Allowed)).Inc()
	return result, nil
}

// CanChangeRole decides whether a member may move from currentRole to
// newRole. The evaluator derives the pool transition itself; callers never
// supply seat deltas. Moving within the billable pool is always allowed
// because the member already occupies a billable seat.
func (e *EntitlementService) CanChangeRole(ctx context.Context, orgID primitive.ObjectID, currentRole, newRole string) (*model.EntitlementResult, error) {
	result, err := e.evaluateRoleChange(ctx, orgID, currentRole, newRole)
	if err != nil {
		return nil, err
	}
	metrics.EntitlementChecksTotal.WithLabelValues("role_change", verdictLabel(result.Allowed)).Inc()
	return result, nil
}

func (e *EntitlementService) evaluateRoleChange(ctx context.Context, orgID primitive.ObjectID, currentRole, newRole string) (*model.EntitlementResult, error) {
	if currentRole == newRole {
		return &model.EntitlementResult{Allowed: true}, nil
	}
	if newRole == model.RoleOwner {
		return &model.EntitlementResult{
			Allowed: false,
			Reason:  "Une organisation ne peut avoir qu'un seul propriétaire.",
		}, nil
	}
	if currentRole == model.RoleOwner {
		return &model.EntitlementResult{
			Allowed: false,
			Reason:  "Le propriétaire ne peut pas changer de rôle. Transférez d'abord la propriété de l'organisation.",
		}, nil
	}

	return e.evaluate(ctx, orgID, func(limits model.PlanLimits, usage *model.SeatUsage, plan string) *model.EntitlementResult {
		toAccountant := newRole == model.RoleAccountant
		fromAccountant := currentRole == model.RoleAccountant

		switch {
		case toAccountant && !fromAccountant:
			// The member's billable seat frees up; only the accountant
			// pool needs headroom.
			return evaluatePool(usage.Accountants, limits.Accountants, false, accountantLimitReason(plan, limits.Accountants))
		case fromAccountant && !toAccountant:
			return evaluatePool(usage.BillableTotal, limits.TotalUsers, limits.CanAddPaidUsers, userLimitReason(plan, limits.InvitableUsers))
		default:
			// Billable to billable: the seat is already occupied.
			return &model.EntitlementResult{
				Allowed:      true,
				Limit:        limits.TotalUsers,
				CurrentCount: usage.BillableTotal,
				Available:    limits.TotalUsers - usage.BillableTotal,
			}
		}
	})
}

func (e *EntitlementService) evaluate(ctx context.Context, orgID primitive.ObjectID, check func(model.PlanLimits, *model.SeatUsage, string) *model.EntitlementResult) (*model.EntitlementResult, error) {
	sub, err := e.subs.FindByReference(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return &model.EntitlementResult{Allowed: false, Reason: ReasonNoSubscription}, nil
	}
	if !sub.Entitled(e.now()) {
		return &model.EntitlementResult{Allowed: false, Reason: ReasonSubscriptionExpired}, nil
	}

	usage, err := e.counter.CountBillableSeats(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return check(model.GetPlanLimits(sub.Plan), usage, sub.Plan), nil
}

// evaluatePool applies the core seat arithmetic: adding one occupant to a
// pool of size current under the given limit. Available can go negative
// when overage is allowed; it reports remaining headroom after this add.
func evaluatePool(current, limit int, allowOverage bool, denyReason string) *model.EntitlementResult {
	result := &model.EntitlementResult{
		Limit:        limit,
		CurrentCount: current,
		Available:    limit - current - 1,
	}
	if current+1 <= limit || allowOverage {
		result.Allowed = true
		return result
	}
	result.Reason = denyReason
	return result
}

func userLimitReason(plan string, invitable int) string {
	return fmt.Sprintf("Le plan %s est limité à %d utilisateur(s) invitable(s). Passez à un plan supérieur pour inviter plus de collaborateurs.",
		strings.ToUpper(plan), invitable)
}

func accountantLimitReason(plan string, limit int) string {
	return fmt.Sprintf("Le plan %s est limité à %d comptable(s).", strings.ToUpper(plan), limit)
}

func verdictLabel(allowed bool) string {
	if allowed {
		return "allowed"
	}
	return "denied"
}
