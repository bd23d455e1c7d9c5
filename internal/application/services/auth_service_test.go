package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/mocks"
	"github.com/care4u/backend/pkg/config"
	apperrors "github.com/care4u/backend/pkg/errors"
)

func newAuthService(users *mocks.UserRepository, profiles *mocks.PatientProfileRepository) *AuthService {
	svc := NewAuthService(users, profiles, config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_RegisterPatientCreatesProfile(t *testing.T) {
	users := new(mocks.UserRepository)
	profiles := new(mocks.PatientProfileRepository)
	svc := newAuthService(users, profiles)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "jane@example.com").Return(nil, apperrors.NewNotFoundError("user not found"))
	users.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "jane@example.com" && u.Role == entities.RolePatient && u.IsVerified && u.PasswordHash != "secret123"
	})).Return(nil)
	profiles.On("Create", ctx, mock.AnythingOfType("*entities.PatientProfile")).Return(nil)

	res, err := svc.Register(ctx, RegisterInput{
		Email:     "  Jane@Example.com ",
		Password:  "secret123",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, entities.RolePatient, res.User.Role)

	claims, err := svc.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)

	users.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestAuthService_RegisterDoctorSkipsProfile(t *testing.T) {
	users := new(mocks.UserRepository)
	profiles := new(mocks.PatientProfileRepository)
	svc := newAuthService(users, profiles)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "doc@example.com").Return(nil, apperrors.NewNotFoundError("user not found"))
	users.On("Create", ctx, mock.Anything).Return(nil)

	_, err := svc.Register(ctx, RegisterInput{
		Email: "doc@example.com", Password: "secret123", FirstName: "Gregory", LastName: "House", Role: entities.RoleDoctor,
	})
	require.NoError(t, err)
	profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	valid := RegisterInput{Email: "a@b.co", Password: "secret123", FirstName: "A", LastName: "B"}

	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
		msg    string
	}{
		{"missing first name", func(in *RegisterInput) { in.FirstName = " " }, "Missing required fields"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "Please provide a valid email"},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, "Password must be at least 8 characters"},
		{"admin role", func(in *RegisterInput) { in.Role = entities.RoleAdmin }, "Invalid role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(new(mocks.UserRepository), new(mocks.PatientProfileRepository))
			in := valid
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepository)
	svc := newAuthService(users, new(mocks.PatientProfileRepository))
	ctx := context.Background()

	users.On("GetByEmail", ctx, "a@b.co").Return(&entities.User{ID: "u1"}, nil)

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "secret123", FirstName: "A", LastName: "B"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_ProvisionAllowsStaffRoles(t *testing.T) {
	users := new(mocks.UserRepository)
	profiles := new(mocks.PatientProfileRepository)
	svc := newAuthService(users, profiles)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "admin@care4u.example").Return(nil, apperrors.NewNotFoundError("user not found"))
	users.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Role == entities.RoleAdmin
	})).Return(nil)

	user, err := svc.Provision(ctx, RegisterInput{
		Email: "admin@care4u.example", Password: "secret123", FirstName: "Ada", LastName: "Min", Role: entities.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAdmin, user.Role)
	profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	_, err = svc.Provision(ctx, RegisterInput{
		Email: "x@care4u.example", Password: "secret123", FirstName: "X", LastName: "Y", Role: "janitor",
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestAuthService_Login(t *testing.T) {
	users := new(mocks.UserRepository)
	svc := newAuthService(users, new(mocks.PatientProfileRepository))
	ctx := context.Background()

	user := &entities.User{ID: "u1", Email: "a@b.co", Role: entities.RolePatient, IsActive: true, PasswordHash: hashed(t, "secret123")}
	users.On("GetByEmail", ctx, "a@b.co").Return(user, nil)
	users.On("TouchLastLogin", ctx, "u1").Return(nil)

	res, err := svc.Login(ctx, "A@b.co", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotNil(t, res.User.LastLogin)

	_, err = svc.Login(ctx, "a@b.co", "wrong-password")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	assert.Contains(t, err.Error(), "Invalid email or password")
}

func TestAuthService_LoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	users := new(mocks.UserRepository)
	svc := newAuthService(users, new(mocks.PatientProfileRepository))
	ctx := context.Background()

	users.On("GetByEmail", ctx, "ghost@b.co").Return(nil, apperrors.NewNotFoundError("user not found"))

	_, err := svc.Login(ctx, "ghost@b.co", "whatever1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")

	_, err = svc.Login(ctx, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email and password are required")
}

func TestAuthService_VerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := newAuthService(new(mocks.UserRepository), new(mocks.PatientProfileRepository))
	user := &entities.User{ID: "u1", Email: "a@b.co", Role: entities.RolePatient}

	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	res, err := svc.issue(user)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = svc.Verify(res.Token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Session expired")

	other := newAuthService(new(mocks.UserRepository), new(mocks.PatientProfileRepository))
	other.secret = []byte("another-secret")
	other.now = func() time.Time { return issuedAt }
	svc.now = func() time.Time { return issuedAt }
	_, err = other.Verify(res.Token)
	require.Error(t, err)

	_, err = svc.Verify("not.a.token")
	require.Error(t, err)
}

func TestAuthService_EnsureActive(t *testing.T) {
	users := new(mocks.UserRepository)
	svc := newAuthService(users, new(mocks.PatientProfileRepository))
	ctx := context.Background()

	users.On("GetByID", ctx, "active").Return(&entities.User{ID: "active", IsActive: true}, nil)
	users.On("GetByID", ctx, "disabled").Return(&entities.User{ID: "disabled", IsActive: false}, nil)
	users.On("GetByID", ctx, "gone").Return(nil, apperrors.NewNotFoundError("user not found"))

	assert.NoError(t, svc.EnsureActive(ctx, "active"))

	err := svc.EnsureActive(ctx, "disabled")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	assert.Contains(t, err.Error(), "Account is disabled")

	err = svc.EnsureActive(ctx, "gone")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))

	_, err = svc.CurrentUser(ctx, &Claims{UserID: "disabled"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}
