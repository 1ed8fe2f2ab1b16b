package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Organization struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	OwnerID primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Plan    string             `bson:"plan" json:"plan"`

	// SeatsReserved is the capacity counter used by the conditional
	// reserve on invitation creation. Reconciled on every seat sync.
	SeatsReserved int `bson:"seatsReserved" json:"seatsReserved"`

	SessionSettings     SessionSettings `bson:"sessionSettings" json:"sessionSettings"`
	OnboardingCompleted bool            `bson:"onboardingCompleted" json:"onboardingCompleted"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SessionSettings holds the per-organization session policy. Values are
// constrained to allow-lists, see service.ValidateSessionSettings.
type SessionSettings struct {
	SessionDurationDays    int `bson:"sessionDuration" json:"sessionDuration"`
	InactivityTimeoutHours int `bson:"inactivityTimeout" json:"inactivityTimeout"`
	MaxSessions            int `bson:"maxSessions" json:"maxSessions"`
}

// DefaultSessionSettings returns the policy applied when an organization
// has never saved settings: one device, 12h inactivity, 30 day sessions.
func DefaultSessionSettings() SessionSettings {
	return SessionSettings{
		SessionDurationDays:    30,
		InactivityTimeoutHours: 12,
		MaxSessions:            1,
	}
}

// Normalize fills zero-valued fields with defaults so that organizations
// created before session settings existed keep working.
func (s SessionSettings) Normalize() SessionSettings {
	def := DefaultSessionSettings()
	if s.SessionDurationDays <= 0 {
		s.SessionDurationDays = def.SessionDurationDays
	}
	if s.InactivityTimeoutHours <= 0 {
		s.InactivityTimeoutHours = def.InactivityTimeoutHours
	}
	if s.MaxSessions <= 0 {
		s.MaxSessions = def.MaxSessions
	}
	return s
}

// InactivityTimeout returns the timeout as a duration.
func (s SessionSettings) InactivityTimeout() time.Duration {
	return time.Duration(s.InactivityTimeoutHours) * time.Hour
}

// SessionDuration returns the session lifetime as a duration.
func (s SessionSettings) SessionDuration() time.Duration {
	return time.Duration(s.SessionDurationDays) * 24 * time.Hour
}
