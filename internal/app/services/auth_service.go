package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/pkg/apperrors"
	"github.com/pblab/pblab/internal/pkg/auth"
	"github.com/pblab/pblab/internal/pkg/logger"
	"github.com/pblab/pblab/internal/pkg/validation"
)

// userStore is the subset of the user repository the auth service needs.
type userStore interface {
	Create(ctx context.Context, user *models.UserProfile) (string, error)
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// tokenStore is the subset of the token repository the auth service needs.
type tokenStore interface {
	CreateToken(ctx context.Context, token string, userID string, expiresAt time.Time) error
	GetUserIDByToken(ctx context.Context, token string) (string, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID string) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   userStore
	tokenRepo  tokenStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo userStore, tokenRepo tokenStore, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
	}
}

// Register creates a new user account and issues a token pair. Admin accounts
// are provisioned out of band, never through self-registration.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if req.Role != models.RoleStudent && req.Role != models.RoleEducator {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("unsupported role %q", req.Role))
	}

	emailOK := validation.NewStringValidation(strings.ToLower(req.Email)).
		WithPattern(validation.CompiledPatterns.Email).
		Validate()
	if !emailOK {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid email address")
	}
	passwordOK := validation.NewStringValidation(req.Password).
		WithMinLength(validation.PasswordMinLength).
		Validate()
	if !passwordOK {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.UserProfile{
		Email:    req.Email,
		Password: hashed,
		FullName: req.FullName,
		Role:     req.Role,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return s.generateTokenResponse(ctx, user)
}

// Login verifies credentials and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.generateTokenResponse(ctx, user)
}

// RefreshToken rotates a refresh token into a fresh token pair
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetUserIDByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Rotation: the presented token is single-use.
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		logger.Warn().Err(err).Str("userID", userID).Msg("Failed to revoke rotated refresh token")
	}

	return s.generateTokenResponse(ctx, user)
}

// Logout revokes the presented refresh token
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// GetProfile returns the authenticated user's profile
func (s *authServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}

func (s *authServiceImpl) generateTokenResponse(ctx context.Context, user *models.UserProfile) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		TokenType:        "Bearer",
	}, nil
}
