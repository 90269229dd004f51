package service

import (
	"context"
	"unicode/utf8"

	"plume/internal/models"
	"plume/internal/repository"
)

const minCommentLen = 2

// CommentService carries comment CRUD scoped under a parent post.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type UpdateCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
	Text      string
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// ensureParentPost fails with NOT_FOUND when the post in the route does not
// exist. Every comment operation runs it before anything else, including
// body validation.
func (s *CommentService) ensureParentPost(ctx context.Context, postID uint) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := s.ensureParentPost(ctx, in.PostID); err != nil {
		return nil, err
	}

	if err := validateCommentText(in.Text); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:   in.Text,
		UserID: in.UserID,
		PostID: in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if err := s.ensureParentPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

func (s *CommentService) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	if err := s.ensureParentPost(ctx, postID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}
	if err := validateCommentText(in.Text); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	comment.IsEdited = true
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, postID, commentID uint) error {
	comment, err := s.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func validateCommentText(text string) error {
	if text == "" {
		return models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(text) < minCommentLen {
		return models.NewValidationError("Text must be at least 2 characters")
	}
	return nil
}
