package service

import (
	"context"

	"seatwise/internal/model"
	"seatwise/internal/repository"

	"github.com/rs/zerolog/log"
)

// CleanupService removes test users in bulk. Each email is processed
// independently; a failure on one never aborts the batch.
type CleanupService struct {
	users    repository.UserRepository
	members  repository.MemberRepository
	sessions repository.SessionRepository
}

func NewCleanupService(users repository.UserRepository, members repository.MemberRepository, sessions repository.SessionRepository) *CleanupService {
	return &CleanupService{users: users, members: members, sessions: sessions}
}

// DeleteTestUsers deletes the given users with their memberships and
// sessions. A user with no membership is reported as not_member and left
// untouched so production accounts cannot be removed by accident.
func (s *CleanupService) DeleteTestUsers(ctx context.Context, emails []string) []model.CleanupResult {
	results := make([]model.CleanupResult, 0, len(emails))
	for _, email := range emails {
		results = append(results, s.deleteOne(ctx, email))
	}
	return results
}

func (s *CleanupService) deleteOne(ctx context.Context, email string) model.CleanupResult {
	result := model.CleanupResult{Email: email}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		result.Outcome = model.CleanupError
		result.Error = err.Error()
		return result
	}
	if user == nil {
		result.Outcome = model.CleanupNotFound
		return result
	}

	memberships, err := s.members.FindByUser(ctx, user.ID)
	if err != nil {
		result.Outcome = model.CleanupError
		result.Error = err.Error()
		return result
	}
	if len(memberships) == 0 {
		result.Outcome = model.CleanupNotMember
		return result
	}

	if _, err := s.members.DeleteByUser(ctx, user.ID); err != nil {
		result.Outcome = model.CleanupError
		result.Error = err.Error()
		return result
	}
	if _, err := s.sessions.DeleteByUser(ctx, user.ID); err != nil {
		result.Outcome = model.CleanupError
		result.Error = err.Error()
		return result
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		result.Outcome = model.CleanupError
		result.Error = err.Error()
		return result
	}

	log.Info().Str("email", email).Msg("test user deleted")
	result.Outcome = model.CleanupSuccess
	return result
}
