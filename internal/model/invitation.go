package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation statuses.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusCanceled = "canceled"
)

// Invitation is a pending proposal to become a member. Pending non-accountant
// invitations count against the plan's seat limit.
type Invitation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	Email          string             `bson:"email" json:"email"`
	Role           string             `bson:"role" json:"role"`
	Status         string             `bson:"status" json:"status"`
	InvitedBy      primitive.ObjectID `bson:"invitedBy" json:"invitedBy"`

	// TokenHash is the bcrypt hash of the invite token sent by email.
	// Never exposed.
	TokenHash string `bson:"tokenHash" json:"-"`

	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// InvitationResponse is the API view of an invitation (token hash omitted).
type InvitationResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	ExpiresAt      time.Time `json:"expiresAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToResponse converts an Invitation to its API view.
func (i *Invitation) ToResponse() InvitationResponse {
	return InvitationResponse{
		ID:             i.ID.Hex(),
		OrganizationID: i.OrganizationID.Hex(),
		Email:          i.Email,
		Role:           i.Role,
		Status:         i.Status,
		ExpiresAt:      i.ExpiresAt,
		CreatedAt:      i.CreatedAt,
	}
}
