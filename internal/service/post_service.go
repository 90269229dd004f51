// Package service implements the domain rules on top of the repositories:
// field validation, the owner-or-read-only policy and the follow-graph
// invariants.
package service

import (
	"context"
	"unicode/utf8"

	"plume/internal/models"
	"plume/internal/repository"
)

const minPostLen = 10

// PostService carries post CRUD plus the like action.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

// CreatePostInput carries the caller identity and post fields. The author
// is always the caller; any author supplied in the request body is ignored
// upstream.
type CreatePostInput struct {
	UserID  uint
	Text    string
	GroupID *uint
	Image   string
}

// UpdatePostInput carries a full or partial update. Nil fields are left
// untouched on partial updates; ClearGroup removes the group reference.
type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Text       *string
	GroupID    *uint
	ClearGroup bool
	Image      *string
	Partial    bool
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{postRepo: postRepo, groupRepo: groupRepo}
}

func (s *PostService) ListPosts(ctx context.Context, params repository.PostListParams, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, params, currentUserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostText(in.Text); err != nil {
		return nil, err
	}
	if in.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *in.GroupID); err != nil {
			return nil, models.NewValidationError("Group does not exist")
		}
	}

	post := &models.Post{
		Text:    in.Text,
		UserID:  in.UserID,
		GroupID: in.GroupID,
		Image:   in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only modify your own posts")
	}

	if !in.Partial && in.Text == nil {
		return nil, models.NewValidationError("Text is required")
	}
	if in.Text != nil {
		if err := validatePostText(*in.Text); err != nil {
			return nil, err
		}
		post.Text = *in.Text
	}
	switch {
	case in.ClearGroup:
		post.GroupID = nil
		post.Group = nil
	case in.GroupID != nil:
		if _, err := s.groupRepo.GetByID(ctx, *in.GroupID); err != nil {
			return nil, models.NewValidationError("Group does not exist")
		}
		post.GroupID = in.GroupID
	}
	if in.Image != nil {
		post.Image = *in.Image
	}

	// Author and pub_date stay as created; the model refuses writes to
	// pub_date and the author field is never touched here.
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// LikePost records the caller's like and returns the fresh like count.
// A repeated like is a validation error; there is deliberately no unlike
// counterpart.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (int64, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return 0, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return 0, err
	}
	if liked {
		return 0, models.NewValidationError("You have already liked this post")
	}

	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return 0, err
	}
	return s.postRepo.LikesCount(ctx, postID)
}

func validatePostText(text string) error {
	if text == "" {
		return models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(text) < minPostLen {
		return models.NewValidationError("Text must be at least 10 characters")
	}
	return nil
}
