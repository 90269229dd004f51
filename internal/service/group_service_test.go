package service

import (
	"context"
	"testing"

	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroupService(t *testing.T) (*GroupService, *gormDeps) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	svc := NewGroupService(repository.NewGroupRepository(db), repository.NewUserRepository(db))
	return svc, &gormDeps{db: db}
}

func TestGroupServiceCreateGroup(t *testing.T) {
	svc, d := newGroupService(t)
	ctx := context.Background()

	mustCreateUser(t, d.db, "alice")

	t.Run("short title", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, CreateGroupInput{Title: "Go", Slug: "go"})
		assertAppError(t, err, models.CodeValidation, "Title must be at least 3 characters")
	})

	t.Run("invalid slug", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, CreateGroupInput{Title: "Gophers", Slug: "not a slug!"})
		assertAppError(t, err, models.CodeValidation, "")
	})

	t.Run("unknown admin username", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, CreateGroupInput{Title: "Gophers", Slug: "gophers", AdminUsername: "ghost"})
		assertAppError(t, err, models.CodeNotFound, "User not found")
	})

	t.Run("creates group with admin", func(t *testing.T) {
		group, err := svc.CreateGroup(ctx, CreateGroupInput{
			Title:         "Gophers",
			Slug:          "gophers",
			Description:   "All things Go",
			AdminUsername: "alice",
		})
		require.NoError(t, err)
		require.NotNil(t, group.AdminID)
		assert.Equal(t, "alice", group.Admin.Username)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, CreateGroupInput{Title: "Gophers Again", Slug: "gophers"})
		assertAppError(t, err, models.CodeValidation, "Group slug already taken")
	})
}

func TestGroupServiceSetAdmin(t *testing.T) {
	svc, d := newGroupService(t)
	ctx := context.Background()

	mustCreateUser(t, d.db, "alice")
	bob := mustCreateUser(t, d.db, "bob")
	group, err := svc.CreateGroup(ctx, CreateGroupInput{Title: "Gophers", Slug: "gophers", AdminUsername: "alice"})
	require.NoError(t, err)

	got, err := svc.SetAdmin(ctx, group.ID, "bob")
	require.NoError(t, err)
	require.NotNil(t, got.AdminID)
	assert.Equal(t, bob.ID, *got.AdminID)

	_, err = svc.SetAdmin(ctx, group.ID, "ghost")
	assertAppError(t, err, models.CodeNotFound, "User not found")

	_, err = svc.SetAdmin(ctx, 9999, "bob")
	assertAppError(t, err, models.CodeNotFound, "")
}

func TestGroupServiceDeleteGroup(t *testing.T) {
	svc, _ := newGroupService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, CreateGroupInput{Title: "Gophers", Slug: "gophers"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGroup(ctx, group.ID))
	err = svc.DeleteGroup(ctx, group.ID)
	assertAppError(t, err, models.CodeNotFound, "")
}
