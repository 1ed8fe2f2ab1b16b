package service

import (
	"context"
	"fmt"

	"seatwise/internal/model"
	"seatwise/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberService applies role changes and removals, keeping the seat
// reservation counter in step and triggering a billing resync afterwards.
type MemberService struct {
	members      repository.MemberRepository
	orgs         repository.OrganizationRepository
	entitlements *EntitlementService
	seatSync     *SeatSyncService
}

func NewMemberService(members repository.MemberRepository, orgs repository.OrganizationRepository, entitlements *EntitlementService, seatSync *SeatSyncService) *MemberService {
	return &MemberService{
		members:      members,
		orgs:         orgs,
		entitlements: entitlements,
		seatSync:     seatSync,
	}
}

// ChangeRole moves a member to a new role. The evaluator reads the current
// role from the stored record, so a stale caller cannot bypass pool checks
// by misreporting it.
func (s *MemberService) ChangeRole(ctx context.Context, orgID, memberID primitive.ObjectID, newRole string) (*model.Member, error) {
	if !model.ValidRole(newRole) {
		return nil, fmt.Errorf("unknown role %q", newRole)
	}

	member, err := s.findInOrg(ctx, orgID, memberID)
	if err != nil {
		return nil, err
	}
	if member.Role == newRole {
		return member, nil
	}

	verdict, err := s.entitlements.CanChangeRole(ctx, orgID, member.Role, newRole)
	if err != nil {
		return nil, err
	}
	if !verdict.Allowed {
		return nil, &EntitlementDenied{Result: verdict}
	}

	// Pool transition: keep seatsReserved in step before the sync
	// recomputes it from scratch.
	wasBillable := model.BillableRole(member.Role)
	isBillable := model.BillableRole(newRole)
	switch {
	case wasBillable && !isBillable:
		if err := s.orgs.ReleaseSeat(ctx, orgID); err != nil {
			log.Error().Err(err).Str("organizationId", orgID.Hex()).Msg("failed to release seat on role change")
		}
	case !wasBillable && isBillable:
		if _, err := s.orgs.ReserveSeat(ctx, orgID, 0); err != nil {
			log.Error().Err(err).Str("organizationId", orgID.Hex()).Msg("failed to reserve seat on role change")
		}
	}

	if err := s.members.UpdateRole(ctx, memberID, newRole); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	member.Role = newRole

	s.resync(ctx, orgID, "role changed")
	return member, nil
}

// Remove deletes a member and frees their seat. The owner cannot be
// removed.
func (s *MemberService) Remove(ctx context.Context, orgID, memberID primitive.ObjectID) error {
	member, err := s.findInOrg(ctx, orgID, memberID)
	if err != nil {
		return err
	}
	if member.Role == model.RoleOwner {
		return model.ErrForbidden
	}

	if err := s.members.Delete(ctx, memberID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if model.BillableRole(member.Role) {
		if err := s.orgs.ReleaseSeat(ctx, orgID); err != nil {
			log.Error().Err(err).Str("organizationId", orgID.Hex()).Msg("failed to release seat on member removal")
		}
	}

	s.resync(ctx, orgID, "member removed")
	return nil
}

func (s *MemberService) findInOrg(ctx context.Context, orgID, memberID primitive.ObjectID) (*model.Member, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.OrganizationID != orgID {
		return nil, model.ErrNotFound
	}
	return member, nil
}

func (s *MemberService) resync(ctx context.Context, orgID primitive.ObjectID, trigger string) {
	if _, err := s.seatSync.SyncSeats(ctx, orgID); err != nil {
		log.Warn().Err(err).
			Str("organizationId", orgID.Hex()).
			Str("trigger", trigger).
			Msg("seat sync failed, will converge on next run")
	}
}
