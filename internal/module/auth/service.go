package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/agrimart/server/internal/module/user"
)

// Service implements authentication operations.
type Service struct {
	repo    Repository
	users   user.Repository
	jwt     *JWTManager
	limiter *LoginLimiter
	logger  *zap.Logger
}

// NewService creates a new auth service.
func NewService(repo Repository, users user.Repository, jwt *JWTManager, limiter *LoginLimiter, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		jwt:     jwt,
		limiter: limiter,
		logger:  logger.Named("auth"),
	}
}

// Register creates a new user account and issues a token pair.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	userType := user.UserType(req.UserType)
	if !userType.IsValid() {
		return nil, user.ErrInvalidUserType
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		UserType:           userType,
		PasswordHash:       string(hash),
		EmailNotifications: true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("user_type", string(u.UserType)))

	return s.issueTokens(ctx, u)
}

// Login authenticates a user by email and password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, req.Email)
		if err != nil {
			s.logger.Warn("login rate limit check failed", zap.Error(err))
		} else if !allowed {
			return nil, ErrTooManyAttempts
		}
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u)
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// token is revoked so each refresh token is single-use.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshTokenByHash(ctx, s.jwt.HashRefreshToken(rawToken))
	if err != nil {
		return nil, err
	}
	if !stored.IsValid() {
		return nil, ErrTokenExpired
	}

	u, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, u)
}

// Logout revokes all refresh tokens for the user.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.repo.RevokeAllForUser(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, u *user.User) (*TokenResponse, error) {
	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, refreshExpiry, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateRefreshToken(ctx, &RefreshToken{
		UserID:    u.ID,
		TokenHash: refreshHash,
		ExpiresAt: refreshExpiry,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresAt:    expiresAt,
		User:         u,
	}, nil
}
