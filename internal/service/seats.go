package service

import (
	"context"
	"fmt"

	"seatwise/internal/model"
	"seatwise/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeatCounter classifies an organization's members and pending invitations
// into billable and accountant pools. Read-only; database errors propagate
// to the caller without retry.
type SeatCounter struct {
	members     repository.MemberRepository
	invitations repository.InvitationRepository
}

func NewSeatCounter(members repository.MemberRepository, invitations repository.InvitationRepository) *SeatCounter {
	return &SeatCounter{members: members, invitations: invitations}
}

// CountBillableSeats returns the seat partition for an organization.
// BillableTotal = active non-accountant members + pending non-accountant
// invitations. Accountants live in their own pool and never count here.
func (s *SeatCounter) CountBillableSeats(ctx context.Context, orgID primitive.ObjectID) (*model.SeatUsage, error) {
	members, err := s.members.FindByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	invitations, err := s.invitations.FindPendingByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending invitations: %w", err)
	}

	usage := &model.SeatUsage{}
	for _, m := range members {
		if m.Status == model.MemberStatusPending {
			continue
		}
		if model.BillableRole(m.Role) {
			usage.ActiveMembers++
		} else {
			usage.Accountants++
		}
	}
	for _, inv := range invitations {
		if model.BillableRole(inv.Role) {
			usage.PendingInvitations++
		} else {
			usage.Accountants++
		}
	}

	usage.BillableTotal = usage.ActiveMembers + usage.PendingInvitations
	return usage, nil
}
