package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/pkg/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.auth.Register(ctx, "Rahim", "Rahim@Example.com", "secret123", nil)
	require.NoError(t, err)
	assert.Equal(t, "rahim@example.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	loggedIn, token, err := env.auth.Login(ctx, "rahim@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	principal, err := env.auth.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "", "a@b.com", "secret123", nil)
	var vErr *errors.ErrValidation
	require.ErrorAs(t, err, &vErr)

	_, err = env.auth.Register(ctx, "Rahim", "", "secret123", nil)
	require.ErrorAs(t, err, &vErr)

	_, err = env.auth.Register(ctx, "Rahim", "a@b.com", "short", nil)
	require.ErrorAs(t, err, &vErr)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "Rahim", "rahim@example.com", "secret123", nil)
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, "Other", "RAHIM@example.com", "secret456", nil)
	var conflict *errors.ErrConflict
	require.ErrorAs(t, err, &conflict)
}

func TestLoginWrongCredentials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "Rahim", "rahim@example.com", "secret123", nil)
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, "rahim@example.com", "wrong")
	var unauthorized *errors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
	wrongPass := err.Error()

	_, _, err = env.auth.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorAs(t, err, &unauthorized)

	// Same message either way, so login probing can't tell them apart
	assert.Equal(t, wrongPass, err.Error())
}

func TestVerifyTokenGarbage(t *testing.T) {
	env := newTestEnv()

	_, err := env.auth.VerifyToken(context.Background(), "not-a-token")
	var unauthorized *errors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "Rahim", "rahim@example.com", "secret123", nil)
	require.NoError(t, err)
	_, token, err := env.auth.Login(ctx, "rahim@example.com", "secret123")
	require.NoError(t, err)

	other := NewAuthService(env.repos, "different-secret", env.auth.logger)
	_, err = other.VerifyToken(ctx, token)
	var unauthorized *errors.ErrUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}
