package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestLoginAndValidate(t *testing.T) {
	f := newFixture(t)
	user, err := service.NewUserService(f.db).Register(f.ctx, registerRequest("cook"))
	require.NoError(t, err)
	auth := service.NewAuthService(f.db, "test-secret", time.Hour, nil, nil)

	token, err := auth.Login(f.ctx, "COOK@example.com", "s3cret-pass")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(f.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "cook", claims.Username)
	assert.NotEmpty(t, claims.ID)

	_, err = auth.Login(f.ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = auth.Login(f.ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejects(t *testing.T) {
	f := newFixture(t)
	user, err := service.NewUserService(f.db).Register(f.ctx, registerRequest("cook"))
	require.NoError(t, err)

	expired := service.NewAuthService(f.db, "test-secret", -time.Minute, nil, nil)
	token, err := expired.GenerateToken(user)
	require.NoError(t, err)
	_, err = expired.ValidateToken(f.ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	other := service.NewAuthService(f.db, "other-secret", time.Hour, nil, nil)
	token, err = other.GenerateToken(user)
	require.NoError(t, err)
	auth := service.NewAuthService(f.db, "test-secret", time.Hour, nil, nil)
	_, err = auth.ValidateToken(f.ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &types.TokenClaims{UserID: user.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.ValidateToken(f.ctx, unsigned)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = auth.ValidateToken(f.ctx, "garbage")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	_, err := service.NewUserService(f.db).Register(f.ctx, registerRequest("cook"))
	require.NoError(t, err)
	auth := service.NewAuthService(f.db, "test-secret", time.Hour, service.NewMemoryTokenStore(), nil)

	token, err := auth.Login(f.ctx, "cook@example.com", "s3cret-pass")
	require.NoError(t, err)
	claims, err := auth.ValidateToken(f.ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(f.ctx, claims))
	_, err = auth.ValidateToken(f.ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// a fresh login still works
	token, err = auth.Login(f.ctx, "cook@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = auth.ValidateToken(f.ctx, token)
	assert.NoError(t, err)
}

func TestRedisTokenStore(t *testing.T) {
	url := testhelpers.SetupRedis(t)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := service.NewRedisTokenStore(client)

	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "abc", time.Minute))
	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, "revoked_token:abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
