package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is one authenticated device. UpdatedAt is the last-activity
// marker: it is touched on every authenticated request and drives the
// inactivity sweep.
type Session struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token          string             `bson:"token" json:"token"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	UserAgent      string             `bson:"userAgent" json:"userAgent"`
	IPAddress      string             `bson:"ipAddress" json:"ipAddress"`
	ExpiresAt      time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Expired reports whether the session is past its natural lifetime.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionResponse is the API view of a session.
type SessionResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToResponse converts a Session to its API view.
func (s *Session) ToResponse() SessionResponse {
	return SessionResponse{
		ID:        s.ID.Hex(),
		Token:     s.Token,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SessionLimitStatus is returned by the session limiter check.
type SessionLimitStatus struct {
	HasReachedLimit bool              `json:"hasReachedLimit"`
	SessionCount    int               `json:"sessionCount"`
	MaxSessions     int               `json:"maxSessions"`
	Sessions        []SessionResponse `json:"sessions"`
}
