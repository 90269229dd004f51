package service

import (
	"fmt"
	"testing"
	"time"

	"plume/internal/models"

	"gorm.io/gorm"
)

// gormDeps hands service tests the raw DB for fixture setup.
type gormDeps struct {
	db *gorm.DB
}

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

func mustCreatePost(t *testing.T, db *gorm.DB, author *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, UserID: author.ID, PubDate: time.Now()}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}
