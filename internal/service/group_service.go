package service

import (
	"context"
	"regexp"
	"unicode/utf8"

	"plume/internal/models"
	"plume/internal/repository"
)

const (
	minGroupTitleLen = 3
	maxGroupSlugLen  = 50
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// GroupService exposes the read-only group surface for the API and the
// lifecycle operations used by the groupadmin tool.
type GroupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

type CreateGroupInput struct {
	Title       string
	Slug        string
	Description string
	// AdminUsername optionally assigns a group admin at creation.
	AdminUsername string
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo, userRepo: userRepo}
}

func (s *GroupService) ListGroups(ctx context.Context, limit, offset int, search string) ([]*models.Group, error) {
	return s.groupRepo.List(ctx, limit, offset, search)
}

func (s *GroupService) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

// CreateGroup is reachable only from admin tooling; groups stay read-only
// over HTTP.
func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if utf8.RuneCountInString(in.Title) < minGroupTitleLen {
		return nil, models.NewValidationError("Title must be at least 3 characters")
	}
	if in.Slug == "" || len(in.Slug) > maxGroupSlugLen || !slugPattern.MatchString(in.Slug) {
		return nil, models.NewValidationError("Slug must be 1-50 letters, digits, hyphens or underscores")
	}

	group := &models.Group{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
	}

	if in.AdminUsername != "" {
		admin, err := s.userRepo.GetByUsername(ctx, in.AdminUsername)
		if err != nil {
			return nil, err
		}
		group.AdminID = &admin.ID
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return s.groupRepo.GetByID(ctx, group.ID)
}

// SetAdmin assigns or replaces the group admin.
func (s *GroupService) SetAdmin(ctx context.Context, groupID uint, username string) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	admin, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	group.AdminID = &admin.ID
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return s.groupRepo.GetByID(ctx, groupID)
}

// DeleteGroup removes the group; posts published into it survive with
// their group reference nulled.
func (s *GroupService) DeleteGroup(ctx context.Context, id uint) error {
	if _, err := s.groupRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.groupRepo.Delete(ctx, id)
}
