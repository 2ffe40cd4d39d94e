package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, apperr.CodeUnauthorized, "invalid email or password")
	ErrUserInactive       = apperr.New(apperr.KindUnauthorized, apperr.CodeUnauthorized, "user account is inactive")
	ErrSessionExpired     = apperr.New(apperr.KindUnauthorized, apperr.CodeUnauthorized, "session expired (logged in on another device)")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Persistence(err, "failed to load user")
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: a new token version invalidates older tokens
	tokenVersion := uuid.New().String()
	now := time.Now().UTC()
	if err := s.userRepo.UpdateSession(ctx, user.ID, tokenVersion, now); err != nil {
		return nil, apperr.Persistence(err, "failed to update session")
	}
	user.TokenVersion = tokenVersion
	user.LastLoginAt = &now

	// 5. Generate JWT token with TokenVersion
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Username, user.Role, tokenVersion)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, apperr.CodePersistence, err, "failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// Authenticate turns a bearer token into a Session, checking it against the
// user's current token version.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, apperr.CodeUnauthorized, err, err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindUnauthorized, apperr.CodeUnauthorized, "user not found")
		}
		return nil, apperr.Persistence(err, "failed to load user")
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}

	return &model.Session{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
