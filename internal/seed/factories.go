// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"plume/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a demo user. Passwords are hashed even for demo
// accounts so seeded rows look like the auth service wrote them.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: string(hash),
		Bio:      gofakeit.Sentence(8),
		Avatar:   fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
	}
	for _, o := range overrides {
		o(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGroup persists a demo group with a unique slug.
func (f *Factory) CreateGroup(overrides ...func(*models.Group)) (*models.Group, error) {
	word := gofakeit.NounAbstract()
	group := &models.Group{
		Title:       gofakeit.BookTitle(),
		Slug:        fmt.Sprintf("%s-%04d", word, f.rand.Intn(10000)),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
	}
	for _, o := range overrides {
		o(group)
	}

	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// CreatePost persists a demo post for the given author, spread over the
// past months so feeds look lived-in.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Text:    gofakeit.Paragraph(1, 3, 10, "\n"),
		UserID:  author.ID,
		PubDate: f.pastTime(90),
	}
	if f.rand.Intn(3) == 0 {
		post.Image = fmt.Sprintf("posts/%s.jpg", uuid.NewString())
	}
	for _, o := range overrides {
		o(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a demo comment.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:    gofakeit.Sentence(f.rand.Intn(12) + 2),
		UserID:  author.ID,
		PostID:  post.ID,
		Created: f.pastTime(30),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFollow persists a follow edge; duplicate pairs are skipped.
func (f *Factory) CreateFollow(follower, followed *models.User) (*models.Follow, error) {
	if follower.ID == followed.ID {
		return nil, nil
	}
	follow := &models.Follow{
		UserID:      follower.ID,
		FollowingID: followed.ID,
		Notify:      f.rand.Intn(2) == 0,
	}
	if err := f.db.Create(follow).Error; err != nil {
		// unique pair collisions are expected with random edges
		return nil, nil
	}
	return follow, nil
}

// CreateLike persists a like; duplicate pairs are skipped.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	if err := f.db.Create(like).Error; err != nil {
		return nil
	}
	return nil
}

func (f *Factory) pastTime(maxDays int) time.Time {
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)
}
