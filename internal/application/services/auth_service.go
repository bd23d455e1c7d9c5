package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/repositories"
	"github.com/care4u/backend/internal/infrastructure/observability"
	"github.com/care4u/backend/pkg/config"
	apperrors "github.com/care4u/backend/pkg/errors"
)

const (
	MinPasswordLength = 8

	invalidCredentialsMessage = "Invalid email or password"
	accountDisabledMessage    = "Account is disabled"
)

// Claims is the session token payload
type Claims struct {
	jwt.RegisteredClaims
	UserID string        `json:"user_id"`
	Email  string        `json:"email"`
	Role   entities.Role `json:"role"`
}

// RegisterInput is a sign-up request
type RegisterInput struct {
	Email     string        `json:"email"`
	Password  string        `json:"password"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Role      entities.Role `json:"role,omitempty"`
	Phone     string        `json:"phone,omitempty"`
}

// AuthResult is a signed-in user with its session token
type AuthResult struct {
	User      *entities.User
	Token     string
	ExpiresAt time.Time
}

// AuthService registers users and issues session tokens
type AuthService struct {
	users      repositories.UserRepository
	profiles   repositories.PatientProfileRepository
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, profiles repositories.PatientProfileRepository, cfg config.AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		profiles:   profiles,
		secret:     []byte(cfg.JWTSecret),
		ttl:        ttl,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Register creates an account and signs it in. Only patients and doctors can
// self-register; staff accounts are provisioned by seed or by an admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Role == "" {
		in.Role = entities.RolePatient
	}
	if in.Role != entities.RolePatient && in.Role != entities.RoleDoctor {
		return nil, apperrors.NewValidationError("Invalid role")
	}

	user, err := s.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Provision creates an account with any role, for operator tooling
func (s *AuthService) Provision(ctx context.Context, in RegisterInput) (*entities.User, error) {
	if !in.Role.IsValid() {
		return nil, apperrors.NewValidationError("Invalid role")
	}
	return s.createUser(ctx, in)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*entities.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, apperrors.NewValidationError("Missing required fields")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperrors.NewValidationError("Please provide a valid email")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflictError("Email already registered")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := s.now()
	user := &entities.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		Phone:        in.Phone,
		IsVerified:   true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if user.Role == entities.RolePatient {
		if err := s.profiles.Create(ctx, entities.NewPatientProfile(user.ID)); err != nil {
			return nil, err
		}
	}

	observability.LoggerFromContext(ctx).Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("Failed to record last login")
	} else {
		now := s.now()
		user.LastLogin = &now
	}

	return s.issue(user)
}

// Verify parses a session token
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewUnauthorizedError("Session expired")
		}
		return nil, apperrors.NewUnauthorizedError("Unauthorized")
	}
	if claims.UserID == "" {
		return nil, apperrors.NewUnauthorizedError("Unauthorized")
	}
	return claims, nil
}

// CurrentUser loads the account behind verified claims
func (s *AuthService) CurrentUser(ctx context.Context, claims *Claims) (*entities.User, error) {
	return s.activeUser(ctx, claims.UserID)
}

// EnsureActive rejects tokens whose account was deleted or disabled after issue
func (s *AuthService) EnsureActive(ctx context.Context, userID string) error {
	_, err := s.activeUser(ctx, userID)
	return err
}

func (s *AuthService) activeUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorizedError("Unauthorized")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError(accountDisabledMessage)
	}
	return user, nil
}

// TokenTTL is how long issued tokens stay valid
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

func (s *AuthService) issue(user *entities.User) (*AuthResult, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign token", err)
	}
	return &AuthResult{User: user, Token: signed, ExpiresAt: expires}, nil
}
