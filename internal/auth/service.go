package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/cvbuilder/internal/logging"
	"github.com/redmonkez12/cvbuilder/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 5 characters")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrNameTooLong        = errors.New("name must be at most 100 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
)

// AuthResult is returned by Register and Login
type AuthResult struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Service handles authentication business logic
type Service struct {
	userRepo      user.Repository
	tokens        TokenService
	revoker       TokenRevoker
	cleaner       OwnerCleaner
	logger        *logging.Logger
	tokenDuration time.Duration
}

// NewService wires the auth service. revoker may be nil, in which case logout
// does not invalidate tokens server-side. cleaner may be nil when the user
// store cascades deletes on its own.
func NewService(
	userRepo user.Repository,
	tokens TokenService,
	revoker TokenRevoker,
	cleaner OwnerCleaner,
	logger *logging.Logger,
	tokenDuration time.Duration,
) *Service {
	return &Service{
		userRepo:      userRepo,
		tokens:        tokens,
		revoker:       revoker,
		cleaner:       cleaner,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// Register creates a new user account and signs them in
func (s *Service) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validateRegistration(RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userRepo.Create(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(newUser)
}

// Login authenticates a user and returns a fresh token
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if !validLogin(LoginRequest{Email: email, Password: password}) {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !verifyPassword(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(existingUser)
}

// Verify resolves a token to the user it was issued for
func (s *Service) Verify(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.claims(ctx, token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// Logout revokes the token until it expires
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.claims(ctx, token)
	if err != nil {
		return err
	}

	if s.revoker == nil {
		s.logger.Debug("token revocation disabled, logout is client-side only")
		return nil
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// DeleteAccount removes the user together with everything they own
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if s.cleaner != nil {
		if err := s.cleaner.DeleteAllForOwner(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete owned resumes: %w", err)
		}
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *Service) claims(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

func (s *Service) issue(u *user.User) (*AuthResult, error) {
	token, err := s.tokens.CreateToken(u.ID, u.Email, s.tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
