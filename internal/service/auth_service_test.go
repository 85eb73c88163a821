package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
)

func TestAuthService_SyncProfileRegistersWithFallbacks(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, zap.NewNop())

	p, err := svc.SyncProfile(context.Background(), model.Identity{Subject: "auth0|42", Nickname: "wanderer"})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "auth0|42@auth0.local", p.Email)
	require.NotNil(t, p.Name)
	assert.Equal(t, "wanderer", *p.Name)
	assert.Nil(t, p.AvatarURL)
}

func TestAuthService_SyncProfileDefaultName(t *testing.T) {
	svc := NewAuthService(newFakeUsers(), zap.NewNop())

	p, err := svc.SyncProfile(context.Background(), model.Identity{Subject: "telegram|7", Email: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", p.Email)
	assert.Equal(t, "User", *p.Name)
}

func TestAuthService_SyncProfileUpdatesExisting(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, zap.NewNop())
	ctx := context.Background()

	first, err := svc.SyncProfile(ctx, model.Identity{Subject: "auth0|1", Name: "Ann"})
	require.NoError(t, err)
	second, err := svc.SyncProfile(ctx, model.Identity{Subject: "auth0|1", Name: "Anna", Picture: "https://img/a.png"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Anna", *second.Name)
	assert.Equal(t, "https://img/a.png", *second.AvatarURL)
}

func TestAuthService_SyncProfileReturnsExistingOnUpdateFailure(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, zap.NewNop())
	ctx := context.Background()

	first, err := svc.SyncProfile(ctx, model.Identity{Subject: "auth0|1", Name: "Ann"})
	require.NoError(t, err)

	users.updateErr = errBoom
	got, err := svc.SyncProfile(ctx, model.Identity{Subject: "auth0|1", Name: "Changed"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Ann", *got.Name)
}

func TestAuthService_SyncProfileConcurrentFirstLogin(t *testing.T) {
	users := newFakeUsers()
	name := "Ann"
	users.racer = &model.UserProfile{ID: "winner", Auth0UserID: "auth0|1", Email: "ann@x.io", Name: &name}
	svc := NewAuthService(users, zap.NewNop())

	p, err := svc.SyncProfile(context.Background(), model.Identity{Subject: "auth0|1", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "winner", p.ID)
}

func TestAuthService_SyncProfileCreateFailure(t *testing.T) {
	users := newFakeUsers()
	users.racer = &model.UserProfile{ID: "other", Auth0UserID: "auth0|other"}
	svc := NewAuthService(users, zap.NewNop())

	_, err := svc.SyncProfile(context.Background(), model.Identity{Subject: "auth0|1"})
	assert.ErrorIs(t, err, errConflict)
}

func TestAuthService_Errors(t *testing.T) {
	svc := NewAuthService(newFakeUsers(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.SyncProfile(ctx, model.Identity{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Profile(ctx, "auth0|missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.GrantAdmin(ctx, "auth0|missing"), ErrNotFound)
}

func TestAuthService_GrantAdmin(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, zap.NewNop())
	analytics := NewAnalyticsService(&fakeAnalytics{}, users, zap.NewNop())
	ctx := context.Background()

	p, err := svc.SyncProfile(ctx, model.Identity{Subject: "auth0|boss"})
	require.NoError(t, err)

	role, err := analytics.Role(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, role)

	require.NoError(t, svc.GrantAdmin(ctx, "auth0|boss"))
	role, err = analytics.Role(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)
}
