package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member roles. Accountant is billing-exempt and governed by its own limit.
const (
	RoleOwner      = "owner"
	RoleAdmin      = "admin"
	RoleMember     = "member"
	RoleViewer     = "viewer"
	RoleAccountant = "accountant"
)

// Member statuses.
const (
	MemberStatusActive  = "active"
	MemberStatusPending = "pending"
)

// ValidRole reports whether r is one of the known member roles.
func ValidRole(r string) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer, RoleAccountant:
		return true
	}
	return false
}

// BillableRole reports whether a seat with this role counts against the
// plan's totalUsers limit. Accountants live in their own smaller pool.
func BillableRole(r string) bool {
	return r != RoleAccountant
}

type Member struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organizationId" json:"organizationId"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Email          string             `bson:"email" json:"email"`
	Role           string             `bson:"role" json:"role"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SeatUsage is the membership counter output: a partition of the
// organization's occupied and requested seats.
type SeatUsage struct {
	ActiveMembers      int `json:"activeMembers"`
	PendingInvitations int `json:"pendingInvitations"`
	Accountants        int `json:"accountants"`
	BillableTotal      int `json:"billableTotal"`
}

// AdditionalSeats is the per-seat billed quantity: every billable seat
// except the owner's, which is bundled in the base plan price.
func (u *SeatUsage) AdditionalSeats() int {
	if u.BillableTotal <= 1 {
		return 0
	}
	return u.BillableTotal - 1
}

// EntitlementResult is the evaluator verdict for an invite or role change.
type EntitlementResult struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason,omitempty"`
	Limit        int    `json:"limit"`
	CurrentCount int    `json:"currentCount"`
	Available    int    `json:"available"`
}
