package seed

import (
	"fmt"
	"log/slog"

	"plume/internal/models"

	"gorm.io/gorm"
)

// Options controls how much demo data Run creates.
type Options struct {
	Users           int
	Groups          int
	PostsPerUser    int
	CommentsPerPost int
	FollowsPerUser  int
	LikesPerUser    int
}

// DefaultOptions returns a data set small enough to seed in seconds but
// large enough to exercise pagination and feeds.
func DefaultOptions() Options {
	return Options{
		Users:           20,
		Groups:          5,
		PostsPerUser:    4,
		CommentsPerPost: 2,
		FollowsPerUser:  3,
		LikesPerUser:    5,
	}
}

// Run populates the database with demo users, groups, posts, comments,
// follows and likes.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	slog.Info("seeded users", "count", len(users))

	groups := make([]*models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		group, err := f.CreateGroup()
		if err != nil {
			return fmt.Errorf("seeding group: %w", err)
		}
		groups = append(groups, group)
	}
	slog.Info("seeded groups", "count", len(groups))

	posts := make([]*models.Post, 0, opts.Users*opts.PostsPerUser)
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := f.CreatePost(user, func(p *models.Post) {
				if len(groups) > 0 && f.rand.Intn(2) == 0 {
					gid := groups[f.rand.Intn(len(groups))].ID
					p.GroupID = &gid
				}
			})
			if err != nil {
				return fmt.Errorf("seeding post: %w", err)
			}
			posts = append(posts, post)
		}
	}
	slog.Info("seeded posts", "count", len(posts))

	comments := 0
	for _, post := range posts {
		for i := 0; i < opts.CommentsPerPost; i++ {
			author := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(author, post); err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
			comments++
		}
	}
	slog.Info("seeded comments", "count", comments)

	for _, user := range users {
		for i := 0; i < opts.FollowsPerUser; i++ {
			target := users[f.rand.Intn(len(users))]
			if _, err := f.CreateFollow(user, target); err != nil {
				return fmt.Errorf("seeding follow: %w", err)
			}
		}
		for i := 0; i < opts.LikesPerUser; i++ {
			post := posts[f.rand.Intn(len(posts))]
			if err := f.CreateLike(user, post); err != nil {
				return fmt.Errorf("seeding like: %w", err)
			}
		}
	}
	slog.Info("seeded follows and likes")

	return nil
}
