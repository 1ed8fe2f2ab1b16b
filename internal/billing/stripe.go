// Package billing wraps the Stripe client behind a small gateway so the
// seat synchronizer stays testable without network access.
package billing

import (
	"context"
	"fmt"

	stripelib "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/subscriptionitem"
)

// prorationCreate bills or credits the difference immediately.
const prorationCreate = "create_prorations"

// SeatItem is one line item on a remote subscription.
type SeatItem struct {
	ID       string
	PriceID  string
	Quantity int64
}

// RemoteSubscription is the reduced view of a Stripe subscription the
// synchronizer needs.
type RemoteSubscription struct {
	ID    string
	Items []SeatItem
}

// FindItemByPrice returns the line item carrying the given price, or nil.
func (s *RemoteSubscription) FindItemByPrice(priceID string) *SeatItem {
	for i := range s.Items {
		if s.Items[i].PriceID == priceID {
			return &s.Items[i]
		}
	}
	return nil
}

// Gateway is the surface of the external billing provider used by services.
type Gateway interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*RemoteSubscription, error)
	CreateSeatItem(ctx context.Context, subscriptionID, priceID string, quantity int64, idempotencyKey string) error
	UpdateSeatItem(ctx context.Context, itemID string, quantity int64, idempotencyKey string) error
	DeleteSeatItem(ctx context.Context, itemID string) error
	UpdateBasePrice(ctx context.Context, subscriptionID, itemID, priceID string) error
}

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct{}

// NewStripeGateway configures the global Stripe client and returns a gateway.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripelib.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*RemoteSubscription, error) {
	params := &stripelib.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscription %s: %w", subscriptionID, err)
	}

	remote := &RemoteSubscription{ID: sub.ID}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			seatItem := SeatItem{ID: item.ID, Quantity: item.Quantity}
			if item.Price != nil {
				seatItem.PriceID = item.Price.ID
			}
			remote.Items = append(remote.Items, seatItem)
		}
	}
	return remote, nil
}

func (g *StripeGateway) CreateSeatItem(ctx context.Context, subscriptionID, priceID string, quantity int64, idempotencyKey string) error {
	params := &stripelib.SubscriptionItemParams{
		Subscription:      stripelib.String(subscriptionID),
		Price:             stripelib.String(priceID),
		Quantity:          stripelib.Int64(quantity),
		ProrationBehavior: stripelib.String(prorationCreate),
	}
	params.Context = ctx
	params.IdempotencyKey = stripelib.String(idempotencyKey)

	if _, err := subscriptionitem.New(params); err != nil {
		return fmt.Errorf("failed to create seat item: %w", err)
	}
	return nil
}

func (g *StripeGateway) UpdateSeatItem(ctx context.Context, itemID string, quantity int64, idempotencyKey string) error {
	params := &stripelib.SubscriptionItemParams{
		Quantity:          stripelib.Int64(quantity),
		ProrationBehavior: stripelib.String(prorationCreate),
	}
	params.Context = ctx
	params.IdempotencyKey = stripelib.String(idempotencyKey)

	if _, err := subscriptionitem.Update(itemID, params); err != nil {
		return fmt.Errorf("failed to update seat item %s: %w", itemID, err)
	}
	return nil
}

func (g *StripeGateway) DeleteSeatItem(ctx context.Context, itemID string) error {
	params := &stripelib.SubscriptionItemParams{
		ProrationBehavior: stripelib.String(prorationCreate),
	}
	params.Context = ctx

	if _, err := subscriptionitem.Del(itemID, params); err != nil {
		return fmt.Errorf("failed to delete seat item %s: %w", itemID, err)
	}
	return nil
}

func (g *StripeGateway) UpdateBasePrice(ctx context.Context, subscriptionID, itemID, priceID string) error {
	params := &stripelib.SubscriptionParams{
		Items: []*stripelib.SubscriptionItemsParams{
			{
				ID:    stripelib.String(itemID),
				Price: stripelib.String(priceID),
			},
		},
		ProrationBehavior: stripelib.String(prorationCreate),
	}
	params.Context = ctx

	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("failed to update subscription %s: %w", subscriptionID, err)
	}
	return nil
}
