package repository

import (
	"context"
	"errors"
	"strings"

	"plume/internal/models"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for group data operations.
// Mutations are reachable only through admin tooling; the HTTP surface is
// read-only.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context, limit, offset int, search string) ([]*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewValidationError("Group slug already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	err := applyGroupCounts(r.db.WithContext(ctx)).
		Preload("Admin").
		First(&group, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := applyGroupCounts(r.db.WithContext(ctx)).
		Preload("Admin").
		Where("slug = ?", slug).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundMessageError("Group not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context, limit, offset int, search string) ([]*models.Group, error) {
	var groups []*models.Group
	q := applyGroupCounts(r.db.WithContext(ctx))
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	err := q.Order("title ASC").
		Limit(limit).
		Offset(offset).
		Find(&groups).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

// applyGroupCounts adds the derived post and subscriber counts.
// Subscribers are the distinct authors who have published into the group.
func applyGroupCounts(db *gorm.DB) *gorm.DB {
	return db.Select("groups.*, " +
		"(SELECT COUNT(*) FROM posts WHERE posts.group_id = groups.id) AS posts_count, " +
		"(SELECT COUNT(DISTINCT posts.user_id) FROM posts WHERE posts.group_id = groups.id) AS subscribers_count")
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewValidationError("Group slug already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the group row; its posts survive with a nulled group
// reference via the SET NULL constraint.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Group{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
