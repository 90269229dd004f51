package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"plume/internal/models"
	"plume/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepositoryGetByID(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	group := mustCreateGroup(t, db, "gophers")
	post := mustCreatePost(t, db, alice, "Hello from the test suite", func(p *models.Post) {
		p.GroupID = &group.ID
	})
	mustCreateComment(t, db, bob, post, "First!")
	require.NoError(t, repo.Like(ctx, bob.ID, post.ID))

	t.Run("computes counts and liked for viewer", func(t *testing.T) {
		got, err := repo.GetByID(ctx, post.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.User.Username)
		require.NotNil(t, got.Group)
		assert.Equal(t, "gophers", got.Group.Slug)
		assert.Equal(t, 1, got.CommentsCount)
		assert.Equal(t, 1, got.LikesCount)
		assert.True(t, got.Liked)
	})

	t.Run("anonymous viewer sees liked false", func(t *testing.T) {
		got, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		assert.False(t, got.Liked)
		assert.Equal(t, 1, got.LikesCount)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999, 0)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestPostRepositoryList(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	old := mustCreatePost(t, db, alice, "Oldest entry about gophers", func(p *models.Post) {
		p.PubDate = base
	})
	mid := mustCreatePost(t, db, alice, "Middle entry", func(p *models.Post) {
		p.PubDate = base.Add(24 * time.Hour)
	})
	newest := mustCreatePost(t, db, alice, "Newest entry about Gophers", func(p *models.Post) {
		p.PubDate = base.Add(48 * time.Hour)
	})

	t.Run("default ordering is newest first", func(t *testing.T) {
		posts, err := repo.List(ctx, PostListParams{Limit: 20}, 0)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, newest.ID, posts[0].ID)
		assert.Equal(t, mid.ID, posts[1].ID)
		assert.Equal(t, old.ID, posts[2].ID)
	})

	t.Run("ascending ordering", func(t *testing.T) {
		posts, err := repo.List(ctx, PostListParams{Limit: 20, Ordering: "pub_date"}, 0)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, old.ID, posts[0].ID)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		posts, err := repo.List(ctx, PostListParams{Limit: 20, Search: "GOPHERS"}, 0)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		posts, err := repo.List(ctx, PostListParams{Limit: 2, Offset: 2}, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, old.ID, posts[0].ID)
	})
}

func TestPostRepositoryLike(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	post := mustCreatePost(t, db, alice, "A likeable post")

	require.NoError(t, repo.Like(ctx, bob.ID, post.ID))

	liked, err := repo.IsLiked(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	n, err := repo.LikesCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	err = repo.Like(ctx, bob.ID, post.ID)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Equal(t, "You have already liked this post", appErr.Message)
}

func TestPostRepositoryDeleteCascades(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	post := mustCreatePost(t, db, alice, "Doomed post")
	kept := mustCreatePost(t, db, alice, "Surviving post")
	mustCreateComment(t, db, bob, post, "gone with the post")
	mustCreateComment(t, db, bob, kept, "stays")
	require.NoError(t, repo.Like(ctx, bob.ID, post.ID))

	require.NoError(t, repo.Delete(ctx, post.ID))

	exists, err := repo.Exists(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, int64(1), count[models.Comment](t, db))
	assert.Equal(t, int64(0), count[models.Like](t, db))
}

func TestUserDeleteCascadesContent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	alicePost := mustCreatePost(t, db, alice, "Alice writes")
	bobPost := mustCreatePost(t, db, bob, "Bob writes")
	mustCreateComment(t, db, alice, bobPost, "Alice comments on Bob")
	mustCreateComment(t, db, bob, alicePost, "Bob comments on Alice")

	require.NoError(t, users.Delete(ctx, alice.ID))

	// Alice's post goes, and her comment on Bob's post goes with her.
	// Bob's comment dies with Alice's post.
	assert.Equal(t, int64(1), count[models.Post](t, db))
	assert.Equal(t, int64(0), count[models.Comment](t, db))
}
