package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"seatwise/internal/metrics"
	"seatwise/internal/model"
	"seatwise/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	stripelib "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookBodyLimit = 1024 * 1024 // 1 MiB

// WebhookHandler mirrors subscription lifecycle events from Stripe into
// the local subscription cache. Stripe is authoritative; the handler only
// ever overwrites the mirror, never the other way round.
type WebhookHandler struct {
	secret string
	subs   repository.SubscriptionRepository
}

func NewWebhookHandler(secret string, subs repository.SubscriptionRepository) *WebhookHandler {
	return &WebhookHandler{secret: secret, subs: subs}
}

// subscriptionEvent is the minimal view of a subscription webhook payload.
// Billing periods live on the items since the 2025 Stripe API.
type subscriptionEvent struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	Items    struct {
		Data []struct {
			CurrentPeriodStart int64 `json:"current_period_start"`
			CurrentPeriodEnd   int64 `json:"current_period_end"`
			Price              struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
	Metadata map[string]string `json:"metadata"`
}

func (s *subscriptionEvent) period() (time.Time, time.Time) {
	for _, item := range s.Items.Data {
		if item.CurrentPeriodEnd > 0 {
			return time.Unix(item.CurrentPeriodStart, 0), time.Unix(item.CurrentPeriodEnd, 0)
		}
	}
	return time.Time{}, time.Time{}
}

// Handle verifies the Stripe signature and dispatches the event.
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	if strings.TrimSpace(h.secret) == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook secret not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, webhookBodyLimit)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing Stripe signature"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, h.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "invalid_signature").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid Stripe signature"})
		return
	}

	if err := h.handleEvent(c.Request.Context(), &event); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), "error").Inc()
		log.Error().Err(err).
			Str("eventId", event.ID).
			Str("type", string(event.Type)).
			Msg("webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) handleEvent(ctx context.Context, event *stripelib.Event) error {
	switch event.Type {
	case "customer.subscription.created":
		var sub subscriptionEvent
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return h.upsertSubscription(ctx, &sub)

	case "customer.subscription.updated":
		var sub subscriptionEvent
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return h.applyUpdate(ctx, &sub, sub.Status)

	case "customer.subscription.deleted":
		var sub subscriptionEvent
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return h.applyUpdate(ctx, &sub, model.SubscriptionStatusCanceled)

	case "checkout.session.completed":
		// The subscription mirror is written by the subscription.created
		// event that follows; the checkout completion is only logged.
		log.Info().Str("eventId", event.ID).Msg("checkout completed")
		return nil

	default:
		log.Debug().
			Str("type", string(event.Type)).
			Str("eventId", event.ID).
			Msg("webhook ignored (unhandled type)")
		return nil
	}
}

func (h *WebhookHandler) upsertSubscription(ctx context.Context, sub *subscriptionEvent) error {
	existing, err := h.subs.FindByStripeID(ctx, sub.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return h.applyUpdate(ctx, sub, sub.Status)
	}

	referenceID := strings.TrimSpace(sub.Metadata["referenceId"])
	if referenceID == "" {
		log.Warn().Str("subscriptionId", sub.ID).Msg("subscription created without referenceId metadata, skipping mirror")
		return nil
	}

	start, end := sub.period()
	_, err = h.subs.Create(ctx, &model.Subscription{
		ReferenceID:          referenceID,
		Plan:                 strings.TrimSpace(sub.Metadata["plan"]),
		Status:               sub.Status,
		StripeSubscriptionID: sub.ID,
		StripeCustomerID:     sub.Customer,
		PeriodStart:          start,
		PeriodEnd:            end,
	})
	return err
}

func (h *WebhookHandler) applyUpdate(ctx context.Context, sub *subscriptionEvent, status string) error {
	start, end := sub.period()
	return h.subs.UpdateFromProvider(ctx, sub.ID, status, start, end)
}
