package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/invoice-dashboard/internal/domain/entity"
	"github.com/sangkips/invoice-dashboard/pkg/apperror"
	"github.com/sangkips/invoice-dashboard/pkg/utils"
)

func newAuthFixture(t *testing.T) (*AuthService, *memUserRepo, *utils.JWTManager) {
	t.Helper()
	repo := newMemUserRepo()
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &entity.User{Username: "X", Password: hash}))

	jwtManager := utils.NewJWTManager("test-secret", 2*time.Hour)
	return NewAuthService(repo, jwtManager), repo, jwtManager
}

func TestLogin(t *testing.T) {
	svc, _, jwtManager := newAuthFixture(t)

	out, err := svc.Login(context.Background(), &LoginInput{Username: "X", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "X", out.User.Username)
	assert.Equal(t, int64(7200), out.ExpiresIn)

	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, "X", claims.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &LoginInput{Username: "X", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{Username: "nobody", Password: "s3cret"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLoginRepositoryFailure(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	repo.err = errors.New("db down")

	_, err := svc.Login(context.Background(), &LoginInput{Username: "X", Password: "s3cret"})
	assert.EqualError(t, err, "db down")
}

func TestGetCurrentUser(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	users, err := repo.List(context.Background())
	require.NoError(t, err)

	user, err := svc.GetCurrentUser(context.Background(), users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "X", user.Username)

	_, err = svc.GetCurrentUser(context.Background(), uuid.New())
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 404, appErr.Code)
}
