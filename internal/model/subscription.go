package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription statuses mirrored from Stripe. The external provider is
// authoritative; this record is an eventually-consistent cache.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusUnpaid   = "unpaid"
)

type Subscription struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// ReferenceID is the organization id in hex. Stored as a string because
	// the billing framework that originally wrote these rows did.
	ReferenceID string `bson:"referenceId" json:"referenceId"`

	Plan                 string    `bson:"plan" json:"plan"`
	Status               string    `bson:"status" json:"status"`
	StripeSubscriptionID string    `bson:"stripeSubscriptionId" json:"stripeSubscriptionId"`
	StripeCustomerID     string    `bson:"stripeCustomerId" json:"stripeCustomerId"`
	SeatQuantity         int       `bson:"seatQuantity" json:"seatQuantity"`
	PeriodStart          time.Time `bson:"currentPeriodStart" json:"currentPeriodStart"`
	PeriodEnd            time.Time `bson:"currentPeriodEnd" json:"currentPeriodEnd"`
	CreatedAt            time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Entitled reports whether the subscription currently grants access.
// A canceled subscription keeps its entitlement until periodEnd passes
// (grace period).
func (s *Subscription) Entitled(now time.Time) bool {
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusTrialing:
		return true
	case SubscriptionStatusCanceled:
		return s.PeriodEnd.After(now)
	}
	return false
}

// SyncResult reports the outcome of one seat reconciliation run.
type SyncResult struct {
	Success          bool `json:"success"`
	PreviousQuantity int  `json:"previousQuantity"`
	NewQuantity      int  `json:"newQuantity"`
	Modified         bool `json:"modified"`
}
