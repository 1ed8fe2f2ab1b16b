package service

import (
	"context"
	"fmt"
	"time"

	"seatwise/internal/metrics"
	"seatwise/internal/model"
	"seatwise/internal/repository"
	"seatwise/pkg/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Allowed values for the per-organization session policy.
var (
	allowedSessionDurations   = map[int]bool{7: true, 30: true, 90: true}
	allowedInactivityTimeouts = map[int]bool{1: true, 12: true, 24: true}
	allowedMaxSessions        = map[int]bool{1: true, 2: true}
)

// ValidateSessionSettings rejects values outside the allow-lists.
func ValidateSessionSettings(s model.SessionSettings) error {
	if !allowedSessionDurations[s.SessionDurationDays] {
		return fmt.Errorf("sessionDuration must be one of 7, 30, 90 days, got %d", s.SessionDurationDays)
	}
	if !allowedInactivityTimeouts[s.InactivityTimeoutHours] {
		return fmt.Errorf("inactivityTimeout must be one of 1, 12, 24 hours, got %d", s.InactivityTimeoutHours)
	}
	if !allowedMaxSessions[s.MaxSessions] {
		return fmt.Errorf("maxSessions must be 1 or 2, got %d", s.MaxSessions)
	}
	return nil
}

// SessionService owns device sessions: login, the concurrent-device check
// with its inactivity sweep, revocation, and the per-organization policy.
type SessionService struct {
	sessions repository.SessionRepository
	orgs     repository.OrganizationRepository
	users    repository.UserRepository
	members  repository.MemberRepository
	now      func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, orgs repository.OrganizationRepository, users repository.UserRepository, members repository.MemberRepository) *SessionService {
	return &SessionService{
		sessions: sessions,
		orgs:     orgs,
		users:    users,
		members:  members,
		now:      time.Now,
	}
}

// Login authenticates a user into an organization and mints a session. The
// session lifetime comes from the organization's policy.
func (s *SessionService) Login(ctx context.Context, email string, orgID primitive.ObjectID, userAgent, ipAddress string) (*model.Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, model.ErrNotFound
	}

	member, err := s.members.FindByOrgAndUser(ctx, orgID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	if member == nil {
		return nil, model.ErrNotMember
	}

	settings, err := s.settingsFor(ctx, orgID)
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateToken(util.SessionTokenPrefix)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		Token:          token,
		UserID:         user.ID,
		OrganizationID: orgID,
		UserAgent:      userAgent,
		IPAddress:      ipAddress,
		ExpiresAt:      s.now().Add(settings.SessionDuration()),
	}
	return s.sessions.Create(ctx, session)
}

// CheckLimit sweeps the caller's inactive sessions, then reports whether
// the active count exceeds the organization's device limit. The current
// session is never swept; checking is what keeps it alive.
func (s *SessionService) CheckLimit(ctx context.Context, current *model.Session) (*model.SessionLimitStatus, error) {
	settings, err := s.settingsFor(ctx, current.OrganizationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := now.Add(-settings.InactivityTimeout())
	swept, err := s.sessions.DeleteStale(ctx, current.UserID, current.Token, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep inactive sessions: %w", err)
	}
	if swept > 0 {
		metrics.SessionsSweptTotal.Add(float64(swept))
		log.Debug().
			Str("userId", current.UserID.Hex()).
			Int64("swept", swept).
			Msg("inactive sessions removed")
	}

	active, err := s.sessions.FindActiveByUser(ctx, current.UserID, now)
	if err != nil {
		return nil, err
	}

	views := make([]model.SessionResponse, 0, len(active))
	for _, sess := range active {
		views = append(views, sess.ToResponse())
	}

	return &model.SessionLimitStatus{
		HasReachedLimit: len(active) > settings.MaxSessions,
		SessionCount:    len(active),
		MaxSessions:     settings.MaxSessions,
		Sessions:        views,
	}, nil
}

// Revoke deletes one of the user's sessions by token. No sweep runs here;
// revocation must work even on a session that is itself inactive. Tokens
// belonging to another user read as not found.
func (s *SessionService) Revoke(ctx context.Context, userID primitive.ObjectID, token string) (*model.SessionResponse, error) {
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, model.ErrNotFound
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return nil, err
	}
	view := session.ToResponse()
	return &view, nil
}

// GetSettings returns the organization's normalized session policy.
func (s *SessionService) GetSettings(ctx context.Context, orgID primitive.ObjectID) (model.SessionSettings, error) {
	return s.settingsFor(ctx, orgID)
}

// UpdateSettings validates and persists a new session policy.
func (s *SessionService) UpdateSettings(ctx context.Context, orgID primitive.ObjectID, settings model.SessionSettings) error {
	if err := ValidateSessionSettings(settings); err != nil {
		return err
	}
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return err
	}
	if org == nil {
		return model.ErrNotFound
	}
	return s.orgs.UpdateSessionSettings(ctx, orgID, settings)
}

func (s *SessionService) settingsFor(ctx context.Context, orgID primitive.ObjectID) (model.SessionSettings, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return model.SessionSettings{}, fmt.Errorf("failed to load organization: %w", err)
	}
	if org == nil {
		return model.SessionSettings{}, model.ErrNotFound
	}
	return org.SessionSettings.Normalize(), nil
}
