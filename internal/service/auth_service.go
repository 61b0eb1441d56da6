package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carwash/internal/auth"
	apperrors "carwash/internal/errors"
	"carwash/internal/model"
	"carwash/internal/repository"
)

const bcryptCost = 10

// SignupInput carries the fields needed to register a customer.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{users: users, tokens: tokens}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Signup creates a user with role "user" and returns a token pair.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent signup can take the email between the lookup and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

// Login verifies credentials and returns a token pair.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Refresh validates a refresh token and returns a new access token carrying the user's current role.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	accessToken, err := s.tokens.IssueAccessToken(auth.IdentityOf(user))
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

func (s *authService) issue(user *model.User) (*AuthResult, error) {
	identity := auth.IdentityOf(user)

	accessToken, err := s.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
