package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/pkg/apperrors"
	pkgAuth "github.com/pblab/pblab/internal/pkg/auth"
)

type fakeUserStore struct {
	users map[string]*models.UserProfile
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.UserProfile{}}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.UserProfile) (string, error) {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.UserProfile, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.UserProfile, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(context.Background(), email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

type fakeTokenStore struct {
	tokens  map[string]string
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]string{}, revoked: map[string]bool{}}
}

func (s *fakeTokenStore) CreateToken(_ context.Context, token, userID string, _ time.Time) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeTokenStore) GetUserIDByToken(_ context.Context, token string) (string, error) {
	if s.revoked[token] {
		return "", apperrors.ErrTokenRevoked
	}
	userID, ok := s.tokens[token]
	if !ok {
		return "", apperrors.ErrTokenNotFound
	}
	return userID, nil
}

func (s *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	if _, ok := s.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	s.revoked[token] = true
	return nil
}

func (s *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID string) error {
	for token, owner := range s.tokens {
		if owner == userID {
			s.revoked[token] = true
		}
	}
	return nil
}

func newTestAuthService(users *fakeUserStore, tokens *fakeTokenStore) AuthService {
	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       "test-secret-key",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "pblab.test",
	})
	return NewAuthService(users, tokens, jwtService)
}

func TestAuthServiceRegister(t *testing.T) {
	t.Run("registers student and issues token pair", func(t *testing.T) {
		users := newFakeUserStore()
		svc := newTestAuthService(users, newFakeTokenStore())

		resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Email:    "ada@school.edu",
			Password: "s3cretpass",
			FullName: "Ada Lovelace",
			Role:     models.RoleStudent,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Len(t, users.users, 1)
	})

	t.Run("rejects admin self-registration", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserStore(), newFakeTokenStore())

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Email:    "root@school.edu",
			Password: "s3cretpass",
			FullName: "Root",
			Role:     models.RoleAdmin,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserStore(), newFakeTokenStore())

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Email:    "ada@school.edu",
			Password: "short",
			FullName: "Ada Lovelace",
			Role:     models.RoleStudent,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := newFakeUserStore()
		svc := newTestAuthService(users, newFakeTokenStore())

		req := &dto.RegisterRequest{
			Email:    "ada@school.edu",
			Password: "s3cretpass",
			FullName: "Ada Lovelace",
			Role:     models.RoleStudent,
		}
		_, err := svc.Register(context.Background(), req)
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(users, newFakeTokenStore())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "ada@school.edu",
		Password: "s3cretpass",
		FullName: "Ada Lovelace",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@school.edu",
			Password: "s3cretpass",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ada@school.edu",
			Password: "wrongpass1",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "nobody@school.edu",
			Password: "s3cretpass",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthServiceRefreshRotation(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc := newTestAuthService(users, tokens)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "ada@school.edu",
		Password: "s3cretpass",
		FullName: "Ada Lovelace",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// The rotated token is single-use.
	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestAuthServiceLogout(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc := newTestAuthService(users, tokens)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "ada@school.edu",
		Password: "s3cretpass",
		FullName: "Ada Lovelace",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), registered.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}
