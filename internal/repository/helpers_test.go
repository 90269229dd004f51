package repository

import (
	"fmt"
	"testing"
	"time"

	"plume/internal/models"

	"gorm.io/gorm"
)

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func mustCreateGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create group %s: %v", slug, err)
	}
	return group
}

func mustCreatePost(t *testing.T, db *gorm.DB, author *models.User, text string, opts ...func(*models.Post)) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, UserID: author.ID, PubDate: time.Now()}
	for _, o := range opts {
		o(post)
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func mustCreateComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{Text: text, UserID: author.ID, PostID: post.ID, Created: time.Now()}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	return comment
}

func count[T any](t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	var model T
	if err := db.Model(&model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
