package repository

import (
	"context"
	"errors"
	"strings"

	"plume/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-graph data operations
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	GetByID(ctx context.Context, id uint) (*models.Follow, error)
	Exists(ctx context.Context, userID, followingID uint) (bool, error)
	ListFollowing(ctx context.Context, userID uint, search string, limit, offset int) ([]*models.Follow, error)
	ListFollowers(ctx context.Context, userID uint, search string, limit, offset int) ([]*models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the follow row. The unique pair index and the
// no-self-follow check remain the authority under concurrent requests;
// their violations come back as the same validation errors the service
// pre-checks produce.
func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		switch {
		case isUniqueViolation(err):
			return models.NewValidationError("You are already following this user")
		case isCheckViolation(err):
			return models.NewValidationError("You cannot follow yourself")
		default:
			return models.NewInternalError(err)
		}
	}
	return nil
}

func (r *followRepository) GetByID(ctx context.Context, id uint) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Following").
		First(&follow, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Follow", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

func (r *followRepository) Exists(ctx context.Context, userID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, search string, limit, offset int) ([]*models.Follow, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Following").
		Joins("JOIN users ON users.id = follows.following_id").
		Where("follows.user_id = ?", userID)
	return r.listFollows(q, search, limit, offset)
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint, search string, limit, offset int) ([]*models.Follow, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Following").
		Joins("JOIN users ON users.id = follows.user_id").
		Where("follows.following_id = ?", userID)
	return r.listFollows(q, search, limit, offset)
}

// listFollows applies the shared username search and pagination. The
// calling query joins users on the side opposite the caller, so search
// always filters by the other party's username.
func (r *followRepository) listFollows(q *gorm.DB, search string, limit, offset int) ([]*models.Follow, error) {
	if search != "" {
		q = q.Where("LOWER(users.username) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var follows []*models.Follow
	err := q.Order("follows.created_at DESC, follows.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}
