package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/model"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/pkg/jwt"
	"github.com/philippe-delaval/Lesot-bon/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotRefreshToken    = errors.New("token is not a refresh token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// AuthService handles login, token refresh, logout and registration.
type AuthService struct {
	users  repository.UserRepository
	jwt    *jwt.Manager
	redis  *redis.Client
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, jwtManager *jwt.Manager, redisClient *redis.Client, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwtManager, redis: redisClient, logger: logger}
}

// Login verifies the credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.jwt.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.UserID, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.UserID))

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         profileOf(user),
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The consumed
// refresh token is blacklisted when Redis is available.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrNotRefreshToken
	}

	if s.redis != nil {
		revoked, err := s.redis.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist check failed, continuing degraded", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserInactive
	}

	access, err := s.jwt.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.UserID, user.Role)
	if err != nil {
		return nil, err
	}

	s.blacklist(ctx, claims)

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         profileOf(user),
	}, nil
}

// Logout blacklists the presented access token for its remaining validity.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwt.ParseToken(accessToken)
	if err != nil {
		return nil // already unusable
	}
	s.blacklist(ctx, claims)
	return nil
}

// IsRevoked reports whether a token ID was blacklisted. Without Redis every
// token passes, which is the accepted degraded mode.
func (s *AuthService) IsRevoked(ctx context.Context, jti string) bool {
	if s.redis == nil {
		return false
	}
	revoked, err := s.redis.IsBlacklisted(ctx, jti)
	if err != nil {
		s.logger.Warn("blacklist check failed, continuing degraded", zap.Error(err))
		return false
	}
	return revoked
}

// Register creates a new principal with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.UserRoleMembre
	}

	user := &model.User{
		Nom:          req.Nom,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.UserID), zap.String("role", role))
	return user, nil
}

// Me returns the profile of the authenticated principal.
func (s *AuthService) Me(ctx context.Context, userID string) (*dto.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p := profileOf(user)
	return &p, nil
}

func (s *AuthService) blacklist(ctx context.Context, claims *jwt.Claims) {
	if s.redis == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.redis.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("token blacklist failed", zap.Error(err))
	}
}

func profileOf(user *model.User) dto.UserProfile {
	return dto.UserProfile{
		UserID: user.UserID,
		Nom:    user.Nom,
		Email:  user.Email,
		Role:   user.Role,
	}
}
