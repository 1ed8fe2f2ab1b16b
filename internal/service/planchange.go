package service

import (
	"context"
	"fmt"

	"seatwise/internal/billing"
	"seatwise/internal/model"
	"seatwise/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanPricing maps plan names to the provider price ids for each billing
// interval. Populated from configuration.
type PlanPricing struct {
	Monthly map[string]string
	Annual  map[string]string
}

// For returns the price id for a plan and interval, or "" if unconfigured.
func (p PlanPricing) For(plan string, annual bool) string {
	if annual {
		return p.Annual[plan]
	}
	return p.Monthly[plan]
}

// DowngradeBlocked is returned when an organization has more active
// billable members than the target plan allows.
type DowngradeBlocked struct {
	CurrentMembers int
	NewLimit       int
	Message        string
}

func (e *DowngradeBlocked) Error() string {
	return e.Message
}

// PlanChangeResult reports a completed plan switch.
type PlanChangeResult struct {
	Success      bool   `json:"success"`
	PreviousPlan string `json:"previousPlan"`
	NewPlan      string `json:"newPlan"`
	Annual       bool   `json:"annual"`
	Message      string `json:"message"`
}

// PlanChangeService switches an organization's plan by swapping the base
// price on the remote subscription. Downgrades are refused while the
// member count exceeds the target plan's capacity.
type PlanChangeService struct {
	subs        repository.SubscriptionRepository
	members     repository.MemberRepository
	gateway     billing.Gateway
	seatSync    *SeatSyncService
	pricing     PlanPricing
	seatPriceID string
}

func NewPlanChangeService(subs repository.SubscriptionRepository, members repository.MemberRepository, gateway billing.Gateway, seatSync *SeatSyncService, pricing PlanPricing, seatPriceID string) *PlanChangeService {
	return &PlanChangeService{
		subs:        subs,
		members:     members,
		gateway:     gateway,
		seatSync:    seatSync,
		pricing:     pricing,
		seatPriceID: seatPriceID,
	}
}

// ChangePlan moves the organization to newPlan. The remote base price is
// swapped with prorations, the local plan mirror updated, and the seat item
// resynchronized against the new plan best-effort.
func (s *PlanChangeService) ChangePlan(ctx context.Context, orgID primitive.ObjectID, newPlan string, annual bool) (*PlanChangeResult, error) {
	if !model.KnownPlan(newPlan) {
		return nil, fmt.Errorf("unknown plan %q", newPlan)
	}

	sub, err := s.subs.FindByReference(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil || sub.StripeSubscriptionID == "" {
		return nil, model.ErrNoSubscription
	}

	if model.PlanRank(newPlan) < model.PlanRank(sub.Plan) {
		if err := s.checkDowngrade(ctx, orgID, newPlan); err != nil {
			return nil, err
		}
	}

	priceID := s.pricing.For(newPlan, annual)
	if priceID == "" {
		return nil, fmt.Errorf("no price configured for plan %s (annual=%v)", newPlan, annual)
	}

	remote, err := s.gateway.GetSubscription(ctx, sub.StripeSubscriptionID)
	if err != nil {
		return nil, err
	}
	base := s.findBaseItem(remote)
	if base == nil {
		return nil, fmt.Errorf("subscription %s has no base plan item", sub.StripeSubscriptionID)
	}

	if err := s.gateway.UpdateBasePrice(ctx, sub.StripeSubscriptionID, base.ID, priceID); err != nil {
		return nil, fmt.Errorf("plan change failed: %w", err)
	}

	previous := sub.Plan
	if err := s.subs.UpdatePlan(ctx, sub.ID, newPlan); err != nil {
		return nil, fmt.Errorf("failed to update plan mirror: %w", err)
	}

	if _, err := s.seatSync.SyncSeats(ctx, orgID); err != nil {
		log.Warn().Err(err).Str("organizationId", orgID.Hex()).Msg("seat sync after plan change failed")
	}

	log.Info().
		Str("organizationId", orgID.Hex()).
		Str("previousPlan", previous).
		Str("newPlan", newPlan).
		Bool("annual", annual).
		Msg("plan changed")

	return &PlanChangeResult{
		Success:      true,
		PreviousPlan: previous,
		NewPlan:      newPlan,
		Annual:       annual,
		Message:      fmt.Sprintf("Votre abonnement a été mis à jour vers le plan %s.", newPlan),
	}, nil
}

// checkDowngrade refuses the switch while active billable members exceed
// the target plan's total capacity. Accountants never block a downgrade
// of the billable pool.
func (s *PlanChangeService) checkDowngrade(ctx context.Context, orgID primitive.ObjectID, newPlan string) error {
	members, err := s.members.FindByOrg(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}

	billable := 0
	for _, m := range members {
		if m.Status != model.MemberStatusPending && model.BillableRole(m.Role) {
			billable++
		}
	}

	limits := model.GetPlanLimits(newPlan)
	if billable > limits.TotalUsers {
		return &DowngradeBlocked{
			CurrentMembers: billable,
			NewLimit:       limits.TotalUsers,
			Message: fmt.Sprintf(
				"Impossible de rétrograder: votre organisation compte %d utilisateurs actifs mais le plan %s en autorise %d. Retirez des membres avant de changer de plan.",
				billable, newPlan, limits.TotalUsers),
		}
	}
	return nil
}

func (s *PlanChangeService) findBaseItem(remote *billing.RemoteSubscription) *billing.SeatItem {
	for i := range remote.Items {
		if remote.Items[i].PriceID != s.seatPriceID {
			return &remote.Items[i]
		}
	}
	return nil
}
