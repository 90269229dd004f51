package repository

import (
	"context"
	"errors"
	"testing"

	"plume/internal/models"
	"plume/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepositoryCreate(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")

	t.Run("creates follow edge", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{UserID: alice.ID, FollowingID: bob.ID, Notify: true})
		require.NoError(t, err)

		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate pair becomes validation error", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{UserID: alice.ID, FollowingID: bob.ID})
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeValidation, appErr.Code)
		assert.Equal(t, "You are already following this user", appErr.Message)
	})

	t.Run("reverse direction is a distinct pair", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{UserID: bob.ID, FollowingID: alice.ID})
		assert.NoError(t, err)
	})

	t.Run("self follow becomes validation error", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{UserID: alice.ID, FollowingID: alice.ID})
		require.Error(t, err)

		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeValidation, appErr.Code)
		assert.Equal(t, "You cannot follow yourself", appErr.Message)
	})
}

func TestFollowRepositoryList(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	carol := mustCreateUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &models.Follow{UserID: alice.ID, FollowingID: bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{UserID: alice.ID, FollowingID: carol.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{UserID: bob.ID, FollowingID: carol.ID}))

	t.Run("following lists outgoing edges with preloads", func(t *testing.T) {
		follows, err := repo.ListFollowing(ctx, alice.ID, "", 20, 0)
		require.NoError(t, err)
		require.Len(t, follows, 2)
		for _, f := range follows {
			assert.Equal(t, "alice", f.User.Username)
			assert.NotEmpty(t, f.Following.Username)
		}
	})

	t.Run("followers lists incoming edges", func(t *testing.T) {
		follows, err := repo.ListFollowers(ctx, carol.ID, "", 20, 0)
		require.NoError(t, err)
		require.Len(t, follows, 2)
		for _, f := range follows {
			assert.Equal(t, "carol", f.Following.Username)
		}
	})

	t.Run("search filters by the other party's username", func(t *testing.T) {
		follows, err := repo.ListFollowing(ctx, alice.ID, "CAR", 20, 0)
		require.NoError(t, err)
		require.Len(t, follows, 1)
		assert.Equal(t, "carol", follows[0].Following.Username)

		follows, err = repo.ListFollowers(ctx, carol.ID, "bo", 20, 0)
		require.NoError(t, err)
		require.Len(t, follows, 1)
		assert.Equal(t, "bob", follows[0].User.Username)
	})

	t.Run("pagination applies", func(t *testing.T) {
		follows, err := repo.ListFollowing(ctx, alice.ID, "", 1, 0)
		require.NoError(t, err)
		assert.Len(t, follows, 1)

		follows, err = repo.ListFollowing(ctx, alice.ID, "", 1, 1)
		require.NoError(t, err)
		assert.Len(t, follows, 1)
	})
}

func TestFollowRepositoryCascade(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewFollowRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	carol := mustCreateUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &models.Follow{UserID: alice.ID, FollowingID: bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{UserID: bob.ID, FollowingID: carol.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{UserID: carol.ID, FollowingID: alice.ID}))

	// Deleting bob removes edges on both sides, leaving carol->alice.
	require.NoError(t, users.Delete(ctx, bob.ID))

	assert.Equal(t, int64(1), count[models.Follow](t, db))
	exists, err := repo.Exists(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}
