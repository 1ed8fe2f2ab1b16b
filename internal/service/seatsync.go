package service

import (
	"context"
	"fmt"

	"seatwise/internal/billing"
	"seatwise/internal/metrics"
	"seatwise/internal/model"
	"seatwise/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Monthly prices in euros, VAT excluded. Shown on the billing info
// endpoint; Stripe remains the source of truth for actual charges.
var planBaseCost = map[string]float64{
	model.PlanFreelance:  14.59,
	model.PlanPME:        48.99,
	model.PlanEntreprise: 94.99,
}

const seatCost = 7.49

// BillingInfo is the read-only cost summary for an organization.
type BillingInfo struct {
	HasSubscription bool    `json:"hasSubscription"`
	Plan            string  `json:"plan,omitempty"`
	BaseCost        float64 `json:"baseCost"`
	AdditionalSeats int     `json:"additionalSeats"`
	SeatCost        float64 `json:"seatCost"`
	TotalCost       float64 `json:"totalCost"`
	Currency        string  `json:"currency"`
}

// SeatSyncService reconciles the billable seat count with the seat line
// item on the external subscription. Local state (seatQuantity mirror,
// seatsReserved counter) is only written after the remote write succeeds,
// so a failed run leaves everything untouched and the next run converges.
type SeatSyncService struct {
	counter     *SeatCounter
	subs        repository.SubscriptionRepository
	orgs        repository.OrganizationRepository
	gateway     billing.Gateway
	seatPriceID string
}

func NewSeatSyncService(counter *SeatCounter, subs repository.SubscriptionRepository, orgs repository.OrganizationRepository, gateway billing.Gateway, seatPriceID string) *SeatSyncService {
	return &SeatSyncService{
		counter:     counter,
		subs:        subs,
		orgs:        orgs,
		gateway:     gateway,
		seatPriceID: seatPriceID,
	}
}

// SyncSeats recomputes the billable total and pushes it to the provider if
// it drifted. Idempotent: a second run with no membership change is a noop.
func (s *SeatSyncService) SyncSeats(ctx context.Context, orgID primitive.ObjectID) (*model.SyncResult, error) {
	usage, err := s.counter.CountBillableSeats(ctx, orgID)
	if err != nil {
		metrics.SeatSyncTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	sub, err := s.subs.FindByReference(ctx, orgID)
	if err != nil {
		metrics.SeatSyncTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil || sub.StripeSubscriptionID == "" {
		return nil, model.ErrNoSubscription
	}

	remote, err := s.gateway.GetSubscription(ctx, sub.StripeSubscriptionID)
	if err != nil {
		metrics.SeatSyncTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	previous := 0
	item := remote.FindItemByPrice(s.seatPriceID)
	if item != nil {
		previous = int(item.Quantity)
	}
	// The owner's seat is bundled in the base plan price and never billed
	// as a seat item.
	target := usage.AdditionalSeats()

	if target == previous {
		// No drift. Still reconcile the local mirror and the reservation
		// counter, which may lag after a failed earlier run.
		s.reconcileLocal(ctx, sub, orgID, target, usage.BillableTotal)
		metrics.SeatSyncTotal.WithLabelValues("noop").Inc()
		return &model.SyncResult{
			Success:          true,
			PreviousQuantity: previous,
			NewQuantity:      target,
			Modified:         false,
		}, nil
	}

	idemKey := fmt.Sprintf("seat-sync-%s-%s", orgID.Hex(), uuid.NewString())
	switch {
	case item == nil && target > 0:
		err = s.gateway.CreateSeatItem(ctx, sub.StripeSubscriptionID, s.seatPriceID, int64(target), idemKey)
	case item != nil && target > 0:
		err = s.gateway.UpdateSeatItem(ctx, item.ID, int64(target), idemKey)
	case item != nil:
		err = s.gateway.DeleteSeatItem(ctx, item.ID)
	}
	if err != nil {
		metrics.SeatSyncTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("seat sync failed for organization %s: %w", orgID.Hex(), err)
	}

	s.reconcileLocal(ctx, sub, orgID, target, usage.BillableTotal)
	metrics.SeatSyncTotal.WithLabelValues("modified").Inc()

	log.Info().
		Str("organizationId", orgID.Hex()).
		Int("previousQuantity", previous).
		Int("newQuantity", target).
		Msg("seat quantity synchronized")

	return &model.SyncResult{
		Success:          true,
		PreviousQuantity: previous,
		NewQuantity:      target,
		Modified:         true,
	}, nil
}

// reconcileLocal updates the seatQuantity mirror and the seatsReserved
// counter. The mirror tracks the billed seat item quantity; seatsReserved
// tracks every billable occupant including the owner, since that is what
// the conditional reserve compares against the plan cap. Failures are
// logged, not returned: the remote write already happened and the next
// sync run self-heals.
func (s *SeatSyncService) reconcileLocal(ctx context.Context, sub *model.Subscription, orgID primitive.ObjectID, target, billableTotal int) {
	if sub.SeatQuantity != target {
		if err := s.subs.UpdateSeatQuantity(ctx, sub.ID, target); err != nil {
			log.Error().Err(err).Str("organizationId", orgID.Hex()).Msg("failed to update seat quantity mirror")
		}
	}
	if err := s.orgs.SetSeatsReserved(ctx, orgID, billableTotal); err != nil {
		log.Error().Err(err).Str("organizationId", orgID.Hex()).Msg("failed to reconcile reserved seats")
	}
}

// GetBillingInfo returns the current monthly cost breakdown. The owner's
// seat is bundled in the base price; every other billable seat is charged
// at the per-seat rate.
func (s *SeatSyncService) GetBillingInfo(ctx context.Context, orgID primitive.ObjectID) (*BillingInfo, error) {
	sub, err := s.subs.FindByReference(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return &BillingInfo{Currency: "eur"}, nil
	}

	usage, err := s.counter.CountBillableSeats(ctx, orgID)
	if err != nil {
		return nil, err
	}

	additional := usage.AdditionalSeats()
	base := planBaseCost[sub.Plan]
	return &BillingInfo{
		HasSubscription: true,
		Plan:            sub.Plan,
		BaseCost:        base,
		AdditionalSeats: additional,
		SeatCost:        seatCost,
		TotalCost:       base + float64(additional)*seatCost,
		Currency:        "eur",
	}, nil
}
