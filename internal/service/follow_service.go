package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/repository"
)

// FollowService maintains the directed follow graph and its invariants.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// CreateFollowInput identifies the target by username, the way callers
// know each other. Notify defaults to true when absent.
type CreateFollowInput struct {
	UserID            uint
	FollowingUsername string
	Notify            *bool
}

// NewFollowService creates a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// CreateFollow resolves the target, rejects self-follows and duplicates,
// and persists the relationship. The duplicate pre-check only exists to
// produce a clean message ahead of the unique index; a race-losing insert
// comes back from the repository as the same validation error.
func (s *FollowService) CreateFollow(ctx context.Context, in CreateFollowInput) (*models.Follow, error) {
	if in.FollowingUsername == "" {
		return nil, models.NewValidationError("Following username is required")
	}

	target, err := s.userRepo.GetByUsername(ctx, in.FollowingUsername)
	if err != nil {
		return nil, err
	}

	if target.ID == in.UserID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	exists, err := s.followRepo.Exists(ctx, in.UserID, target.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewValidationError("You are already following this user")
	}

	notify := true
	if in.Notify != nil {
		notify = *in.Notify
	}

	follow := &models.Follow{
		UserID:      in.UserID,
		FollowingID: target.ID,
		Notify:      notify,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return nil, err
	}

	return s.followRepo.GetByID(ctx, follow.ID)
}

// ListFollowing returns the users the caller follows, optionally filtered
// by the followed user's username.
func (s *FollowService) ListFollowing(ctx context.Context, userID uint, search string, limit, offset int) ([]*models.Follow, error) {
	return s.followRepo.ListFollowing(ctx, userID, search, limit, offset)
}

// ListFollowers returns the users following the caller, optionally
// filtered by the follower's username.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint, search string, limit, offset int) ([]*models.Follow, error) {
	return s.followRepo.ListFollowers(ctx, userID, search, limit, offset)
}
