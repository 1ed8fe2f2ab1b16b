package service

import (
	"context"
	"testing"
	"time"

	"seatwise/internal/model"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func orgWithSettings(settings model.SessionSettings) *mockOrgRepo {
	return &mockOrgRepo{
		findByIDFn: func(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
			return &model.Organization{ID: id, Plan: model.PlanPME, SessionSettings: settings}, nil
		},
	}
}

func testSession(userID primitive.ObjectID) *model.Session {
	return &model.Session{
		ID:             primitive.NewObjectID(),
		Token:          "ses_current",
		UserID:         userID,
		OrganizationID: primitive.NewObjectID(),
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
}

func TestCheckLimit_SweepCutoff(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	var gotCutoff time.Time
	var gotExclude string
	sessions := &mockSessionRepo{
		deleteStaleFn: func(ctx context.Context, uid primitive.ObjectID, excludeToken string, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			gotExclude = excludeToken
			return 1, nil
		},
	}

	svc := NewSessionService(sessions, orgWithSettings(model.SessionSettings{
		SessionDurationDays:    30,
		InactivityTimeoutHours: 12,
		MaxSessions:            1,
	}), &mockUserRepo{}, &mockMemberRepo{})
	svc.now = func() time.Time { return now }

	_, err := svc.CheckLimit(context.Background(), testSession(userID))
	require.NoError(t, err)

	// A session idle 13h falls before the cutoff and is swept; one idle
	// 11h survives.
	require.Equal(t, now.Add(-12*time.Hour), gotCutoff)
	require.True(t, now.Add(-13*time.Hour).Before(gotCutoff))
	require.False(t, now.Add(-11*time.Hour).Before(gotCutoff))
	require.Equal(t, "ses_current", gotExclude)
}

func TestCheckLimit_StrictlyGreaterThanLimit(t *testing.T) {
	userID := primitive.NewObjectID()

	cases := []struct {
		name    string
		active  int
		max     int
		reached bool
	}{
		{"at limit", 1, 1, false},
		{"over limit", 2, 1, true},
		{"two devices allowed", 2, 2, false},
		{"three over two", 3, 2, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			active := make([]*model.Session, tc.active)
			for i := range active {
				active[i] = testSession(userID)
			}
			sessions := &mockSessionRepo{
				findActiveByUserFn: func(ctx context.Context, uid primitive.ObjectID, now time.Time) ([]*model.Session, error) {
					return active, nil
				},
			}

			svc := NewSessionService(sessions, orgWithSettings(model.SessionSettings{
				SessionDurationDays:    30,
				InactivityTimeoutHours: 12,
				MaxSessions:            tc.max,
			}), &mockUserRepo{}, &mockMemberRepo{})

			status, err := svc.CheckLimit(context.Background(), testSession(userID))
			require.NoError(t, err)
			require.Equal(t, tc.reached, status.HasReachedLimit)
			require.Equal(t, tc.active, status.SessionCount)
			require.Equal(t, tc.max, status.MaxSessions)
		})
	}
}

func TestCheckLimit_DefaultsWhenUnset(t *testing.T) {
	userID := primitive.NewObjectID()

	var gotCutoff time.Time
	now := time.Now()
	sessions := &mockSessionRepo{
		deleteStaleFn: func(ctx context.Context, uid primitive.ObjectID, excludeToken string, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 0, nil
		},
	}

	svc := NewSessionService(sessions, orgWithSettings(model.SessionSettings{}), &mockUserRepo{}, &mockMemberRepo{})
	svc.now = func() time.Time { return now }

	status, err := svc.CheckLimit(context.Background(), testSession(userID))
	require.NoError(t, err)
	require.Equal(t, 1, status.MaxSessions)
	require.Equal(t, now.Add(-12*time.Hour), gotCutoff)
}

func TestRevoke_OtherUsersTokenNotFound(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	sessions := &mockSessionRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.Session, error) {
			return &model.Session{Token: token, UserID: owner}, nil
		},
	}

	svc := NewSessionService(sessions, orgWithSettings(model.SessionSettings{}), &mockUserRepo{}, &mockMemberRepo{})

	_, err := svc.Revoke(context.Background(), other, "ses_victim")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestLogin_NotMember(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: primitive.NewObjectID(), Email: email}, nil
		},
	}

	svc := NewSessionService(&mockSessionRepo{}, orgWithSettings(model.SessionSettings{}), users, &mockMemberRepo{})

	_, err := svc.Login(context.Background(), "a@b.fr", primitive.NewObjectID(), "ua", "127.0.0.1")
	require.ErrorIs(t, err, model.ErrNotMember)
}

func TestLogin_SessionLifetimeFromPolicy(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: userID, Email: email}, nil
		},
	}
	members := &mockMemberRepo{
		findByOrgAndUserFn: func(ctx context.Context, orgID, uid primitive.ObjectID) (*model.Member, error) {
			return &model.Member{UserID: uid, Role: model.RoleMember, Status: model.MemberStatusActive}, nil
		},
	}

	svc := NewSessionService(&mockSessionRepo{}, orgWithSettings(model.SessionSettings{
		SessionDurationDays:    7,
		InactivityTimeoutHours: 1,
		MaxSessions:            1,
	}), users, members)
	svc.now = func() time.Time { return now }

	session, err := svc.Login(context.Background(), "a@b.fr", primitive.NewObjectID(), "ua", "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, now.Add(7*24*time.Hour), session.ExpiresAt)
	require.Contains(t, session.Token, "ses_")
}

func TestValidateSessionSettings(t *testing.T) {
	valid := model.SessionSettings{SessionDurationDays: 7, InactivityTimeoutHours: 24, MaxSessions: 2}
	require.NoError(t, ValidateSessionSettings(valid))

	cases := []model.SessionSettings{
		{SessionDurationDays: 14, InactivityTimeoutHours: 12, MaxSessions: 1},
		{SessionDurationDays: 30, InactivityTimeoutHours: 6, MaxSessions: 1},
		{SessionDurationDays: 30, InactivityTimeoutHours: 12, MaxSessions: 3},
		{SessionDurationDays: 0, InactivityTimeoutHours: 0, MaxSessions: 0},
	}
	for _, settings := range cases {
		require.Error(t, ValidateSessionSettings(settings))
	}
}
