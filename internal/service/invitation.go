package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"seatwise/internal/model"
	"seatwise/internal/repository"
	"seatwise/pkg/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const invitationTTL = 7 * 24 * time.Hour

// InvitationService creates, accepts, and cancels membership invitations.
// Seat capacity is claimed at creation time with a conditional reserve so
// two concurrent invitations cannot both squeeze into the last seat.
type InvitationService struct {
	entitlements *EntitlementService
	invitations  repository.InvitationRepository
	members      repository.MemberRepository
	users        repository.UserRepository
	orgs         repository.OrganizationRepository
	seatSync     *SeatSyncService
	now          func() time.Time
}

func NewInvitationService(entitlements *EntitlementService, invitations repository.InvitationRepository, members repository.MemberRepository, users repository.UserRepository, orgs repository.OrganizationRepository, seatSync *SeatSyncService) *InvitationService {
	return &InvitationService{
		entitlements: entitlements,
		invitations:  invitations,
		members:      members,
		users:        users,
		orgs:         orgs,
		seatSync:     seatSync,
		now:          time.Now,
	}
}

// Create issues an invitation after the entitlement check passes and a seat
// is reserved. Returns the invitation view and the plain token; the token
// is shown exactly once and only its bcrypt hash is stored.
func (s *InvitationService) Create(ctx context.Context, orgID primitive.ObjectID, email, role string, invitedBy primitive.ObjectID) (*model.InvitationResponse, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.invitations.FindPendingByOrgAndEmail(ctx, orgID, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if existing != nil {
		return nil, "", fmt.Errorf("une invitation est déjà en attente pour %s", email)
	}

	verdict, err := s.entitlements.CanInvite(ctx, orgID, role)
	if err != nil {
		return nil, "", err
	}
	if !verdict.Allowed {
		return nil, "", &EntitlementDenied{Result: verdict}
	}

	reserved := false
	if model.BillableRole(role) {
		org, err := s.orgs.FindByID(ctx, orgID)
		if err != nil {
			return nil, "", err
		}
		if org == nil {
			return nil, "", model.ErrNotFound
		}
		limits := model.GetPlanLimits(org.Plan)
		capacity := limits.TotalUsers
		if limits.CanAddPaidUsers {
			// Paid overage: the reserve only guards against concurrent
			// writers, not against a hard cap.
			capacity = 0
		}
		ok, err := s.orgs.ReserveSeat(ctx, orgID, capacity)
		if err != nil {
			return nil, "", err
		}
		if !ok {
			return nil, "", &EntitlementDenied{
				Result: &model.EntitlementResult{
					Allowed: false,
					Reason:  userLimitReason(org.Plan, limits.InvitableUsers),
					Limit:   limits.TotalUsers,
				},
				cause: model.ErrSeatLimitReached,
			}
		}
		reserved = true
	}

	token, err := util.GenerateToken(util.InviteTokenPrefix)
	if err != nil {
		s.compensateReserve(ctx, orgID, reserved)
		return nil, "", err
	}
	hash, err := util.HashToken(token)
	if err != nil {
		s.compensateReserve(ctx, orgID, reserved)
		return nil, "", err
	}

	inv := &model.Invitation{
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Status:         model.InvitationStatusPending,
		InvitedBy:      invitedBy,
		TokenHash:      hash,
		ExpiresAt:      s.now().Add(invitationTTL),
	}
	created, err := s.invitations.Create(ctx, inv)
	if err != nil {
		s.compensateReserve(ctx, orgID, reserved)
		return nil, "", fmt.Errorf("failed to create invitation: %w", err)
	}

	view := created.ToResponse()
	return &view, token, nil
}

// Accept turns a pending invitation into an active membership. The seat
// reserved at creation simply transfers to the member. Seat billing is
// resynchronized best-effort; acceptance never fails on a billing error.
func (s *InvitationService) Accept(ctx context.Context, invID primitive.ObjectID, token string) (*model.Member, error) {
	inv, err := s.invitations.FindByID(ctx, invID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Status != model.InvitationStatusPending {
		return nil, model.ErrNotFound
	}
	if !inv.ExpiresAt.After(s.now()) {
		return nil, model.ErrInvitationExpired
	}
	if !util.VerifyToken(token, inv.TokenHash) {
		return nil, model.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, inv.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.Create(ctx, &model.User{
			Name:  nameFromEmail(inv.Email),
			Email: inv.Email,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	orgID := inv.OrganizationID
	member, err := s.members.Create(ctx, &model.Member{
		OrganizationID: orgID,
		UserID:         user.ID,
		Email:          inv.Email,
		Role:           inv.Role,
		Status:         model.MemberStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	if err := s.invitations.UpdateStatus(ctx, invID, model.InvitationStatusAccepted); err != nil {
		return nil, err
	}

	s.resync(ctx, orgID, "invitation accepted")
	return member, nil
}

// Cancel marks a pending invitation canceled and releases its seat. An
// invitation belonging to another organization reads as not found.
func (s *InvitationService) Cancel(ctx context.Context, orgID, invID primitive.ObjectID) error {
	inv, err := s.invitations.FindByID(ctx, invID)
	if err != nil {
		return err
	}
	if inv == nil || inv.Status != model.InvitationStatusPending || inv.OrganizationID != orgID {
		return model.ErrNotFound
	}

	if err := s.invitations.UpdateStatus(ctx, invID, model.InvitationStatusCanceled); err != nil {
		return err
	}
	if model.BillableRole(inv.Role) {
		if err := s.orgs.ReleaseSeat(ctx, inv.OrganizationID); err != nil {
			log.Error().Err(err).Str("organizationId", inv.OrganizationID.Hex()).Msg("failed to release reserved seat")
		}
	}

	s.resync(ctx, inv.OrganizationID, "invitation canceled")
	return nil
}

func (s *InvitationService) compensateReserve(ctx context.Context, orgID primitive.ObjectID, reserved bool) {
	if !reserved {
		return
	}
	if err := s.orgs.ReleaseSeat(ctx, orgID); err != nil {
		log.Error().Err(err).Str("organizationId", orgID.Hex()).Msg("failed to release seat after aborted invitation")
	}
}

func (s *InvitationService) resync(ctx context.Context, orgID primitive.ObjectID, trigger string) {
	if _, err := s.seatSync.SyncSeats(ctx, orgID); err != nil {
		log.Warn().Err(err).
			Str("organizationId", orgID.Hex()).
			Str("trigger", trigger).
			Msg("seat sync failed, will converge on next run")
	}
}

func nameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
