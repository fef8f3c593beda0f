package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallet_dashboard_back/models"
)

var noOptions = models.AuthorizeOptions{}

func TestAuthorizeIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.addAdmin(adminAddr)

	first, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)
	second, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, env.store.auths, 1)
	assert.True(t, second.Authorized)
	assert.Equal(t, []string{ActionAuthorize, ActionAuthorize}, env.store.actions())
}

func TestAuthorizeCreatesUnseenUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.addAdmin(adminAddr)

	_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)

	user, err := env.svc.Identity.GetByWallet(ctx, userAddr)
	require.NoError(t, err)
	assert.Equal(t, 0, user.TotalLogins)

	ok, err := env.svc.Authorization.IsAuthorized(ctx, userAddr, adminAddr)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthorizeRequiresActiveAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	requireKind(t, err, KindNotFound)

	env.store.addAdmin(adminAddr)
	require.NoError(t, env.svc.Identity.DeactivateAdmin(ctx, adminAddr))
	_, err = env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	requireKind(t, err, KindNotFound)
	assert.Empty(t, env.store.auths)
}

func TestAuthorizeValidatesOptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.addAdmin(adminAddr)

	past := time.Now().Add(-time.Hour)
	tests := []struct {
		name string
		opts models.AuthorizeOptions
	}{
		{name: "zero limit", opts: models.AuthorizeOptions{AmountLimit: decimal.NewNullDecimal(decimal.Zero)}},
		{name: "negative limit", opts: models.AuthorizeOptions{AmountLimit: decimal.NewNullDecimal(decimal.NewFromInt(-1))}},
		{name: "past expiry", opts: models.AuthorizeOptions{ExpirationDate: &past}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, tt.opts)
			requireKind(t, err, KindValidation)
		})
	}

	_, err := env.svc.Authorization.Authorize(ctx, "0x12", adminAddr, noOptions)
	requireKind(t, err, KindValidation)
}

func TestRevokeThenReauthorize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.addAdmin(adminAddr)

	_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)

	revoked, err := env.svc.Authorization.Revoke(ctx, userAddr, adminAddr)
	require.NoError(t, err)
	assert.False(t, revoked.Authorized)
	assert.NotNil(t, revoked.RevokedAt)

	ok, err := env.svc.Authorization.IsAuthorized(ctx, userAddr, adminAddr)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)
	assert.Nil(t, again.RevokedAt)

	ok, err = env.svc.Authorization.IsAuthorized(ctx, userAddr, adminAddr)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, env.store.auths, 1)
}

func TestRevokeMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Authorization.Revoke(ctx, userAddr, adminAddr)
	requireKind(t, err, KindNotFound)

	_, err = env.svc.Identity.RegisterLogin(ctx, userAddr)
	require.NoError(t, err)
	_, err = env.svc.Authorization.Revoke(ctx, userAddr, adminAddr)
	requireKind(t, err, KindNotFound)

	env.store.addAdmin(adminAddr)
	_, err = env.svc.Authorization.Revoke(ctx, userAddr, adminAddr)
	requireKind(t, err, KindNotFound)
}

func TestRevokeByDeactivatedAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.addAdmin(adminAddr)

	_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)
	require.NoError(t, env.svc.Identity.DeactivateAdmin(ctx, adminAddr))

	_, err = env.svc.Authorization.Revoke(ctx, userAddr, adminAddr)
	require.NoError(t, err)
}

func TestDeactivatedAdminHiddenFromUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.addAdmin(adminAddr)
	_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)
	require.NoError(t, env.svc.Identity.DeactivateAdmin(ctx, adminAddr))

	ok, err := env.svc.Authorization.IsAuthorized(ctx, userAddr, adminAddr)
	require.NoError(t, err)
	assert.False(t, ok)

	admins, err := env.svc.Authorization.ListAuthorizedAdmins(ctx, userAddr)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestRevokeAuditsPriorState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.addAdmin(adminAddr)
	_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)

	_, err = env.svc.Authorization.Revoke(ctx, userAddr, adminAddr)
	require.NoError(t, err)
	_, err = env.svc.Authorization.Revoke(ctx, userAddr, adminAddr)
	require.NoError(t, err)

	var old []string
	for _, e := range env.store.audit {
		if e.Action == ActionRevoke {
			old = append(old, string(e.OldValues))
		}
	}
	require.Len(t, old, 2)
	assert.JSONEq(t, `{"authorized":true}`, old[0])
	assert.JSONEq(t, `{"authorized":false}`, old[1])
}

func TestLazyExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	env.setClock(now)
	env.store.addAdmin(adminAddr)

	expires := now.Add(time.Hour)
	_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, models.AuthorizeOptions{ExpirationDate: &expires})
	require.NoError(t, err)

	ok, err := env.svc.Authorization.IsAuthorized(ctx, userAddr, adminAddr)
	require.NoError(t, err)
	assert.True(t, ok)

	users, err := env.svc.Authorization.ListAuthorizedUsers(ctx, adminAddr)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	env.setClock(now.Add(2 * time.Hour))

	ok, err = env.svc.Authorization.IsAuthorized(ctx, userAddr, adminAddr)
	require.NoError(t, err)
	assert.False(t, ok)

	users, err = env.svc.Authorization.ListAuthorizedUsers(ctx, adminAddr)
	require.NoError(t, err)
	assert.Empty(t, users)

	admins, err := env.svc.Authorization.ListAuthorizedAdmins(ctx, userAddr)
	require.NoError(t, err)
	assert.Empty(t, admins)

	// row is still stored as authorized
	assert.True(t, env.store.auths[[2]int64{2, 1}].Authorized)
}

func TestIsAuthorizedMissingIdentities(t *testing.T) {
	env := newTestEnv(t)
	ok, err := env.svc.Authorization.IsAuthorized(context.Background(), userAddr, adminAddr)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListProjections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.addAdmin(adminAddr)
	env.store.addAdmin(otherAddr)

	_, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, noOptions)
	require.NoError(t, err)
	_, err = env.svc.Authorization.Authorize(ctx, userAddr, otherAddr, noOptions)
	require.NoError(t, err)
	_, err = env.svc.Authorization.Revoke(ctx, userAddr, otherAddr)
	require.NoError(t, err)

	admins, err := env.svc.Authorization.ListAuthorizedAdmins(ctx, userAddr)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, adminAddr, admins[0].AdminAddress)
	assert.Equal(t, "admin", admins[0].Role)

	users, err := env.svc.Authorization.ListAuthorizedUsers(ctx, adminAddr)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, userAddr, users[0].WalletAddress)

	none, err := env.svc.Authorization.ListAuthorizedUsers(ctx, "0x4444444444444444444444444444444444444444")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEffective(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	env.setClock(now)
	admin := env.store.addAdmin(adminAddr)

	expires := now.Add(time.Minute)
	granted, err := env.svc.Authorization.Authorize(ctx, userAddr, adminAddr, models.AuthorizeOptions{ExpirationDate: &expires})
	require.NoError(t, err)

	got, err := env.svc.Authorization.Effective(ctx, granted.UserID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, granted.ID, got.ID)

	env.setClock(now.Add(time.Hour))
	_, err = env.svc.Authorization.Effective(ctx, granted.UserID, admin.ID)
	requireKind(t, err, KindNotFound)

	_, err = env.svc.Authorization.Effective(ctx, 77, admin.ID)
	requireKind(t, err, KindNotFound)
}
