package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/growth/pkg/auth"
	"github.com/artem13815/growth/pkg/repository/memory"
)

type stubTokens struct{}

func (stubTokens) Generate(_ context.Context, u auth.User) (string, error) {
	return "token-" + u.ID.String(), nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := auth.NewAuthService(memory.NewUserRepository(), stubTokens{})

	reg, err := svc.Register(ctx, "  Dev@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.Token)

	login, err := svc.Login(ctx, "DEV@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "dev@example.com", "wrong-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	svc := auth.NewAuthService(memory.NewUserRepository(), stubTokens{})

	_, err := svc.Register(ctx, "not-an-email", "s3cret-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidInput)

	_, err = svc.Register(ctx, "Dev <dev@example.com>", "s3cret-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidInput)

	_, err = svc.Register(ctx, "dev@example.com", "short")
	assert.ErrorIs(t, err, auth.ErrInvalidInput)

	_, err = svc.Register(ctx, "dev@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "dev@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}
