package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	return m.Called(ctx, userID, hashedPassword).Error(0)
}

func (m *MockUserRepository) UpdateSession(ctx context.Context, userID uuid.UUID, tokenVersion string, loginAt time.Time) error {
	return m.Called(ctx, userID, tokenVersion, loginAt).Error(0)
}

func newUser(t *testing.T, password string) *model.User {
	t.Helper()
	u := &model.User{Email: "cashier@example.com", Username: "cashier", Role: model.RoleUser, IsActive: true}
	u.ID = uuid.New()
	require.NoError(t, u.SetPassword(password))
	return u
}

func TestAuthService_Login(t *testing.T) {
	repo := new(MockUserRepository)
	tokens := jwt.NewManager("test_jwt_secret", time.Hour)
	auth := service.NewAuthService(repo, tokens)
	user := newUser(t, "password123")

	repo.On("FindByEmail", mock.Anything, "cashier@example.com").Return(user, nil)
	repo.On("UpdateSession", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	// Test successful login, email is normalised
	res, err := auth.Login(context.Background(), " Cashier@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "cashier", res.User.Username)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.TokenVersion)

	// Test wrong password
	_, err = auth.Login(context.Background(), "cashier@example.com", "nope")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Equal(t, 401, apperr.HTTPStatus(err))

	repo.AssertExpectations(t)
}

func TestAuthService_LoginUnknownOrInactive(t *testing.T) {
	repo := new(MockUserRepository)
	auth := service.NewAuthService(repo, jwt.NewManager("s", time.Hour))

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
	_, err := auth.Login(context.Background(), "ghost@example.com", "x")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	inactive := newUser(t, "pw")
	inactive.Email = "old@example.com"
	inactive.IsActive = false
	repo.On("FindByEmail", mock.Anything, "old@example.com").Return(inactive, nil)
	_, err = auth.Login(context.Background(), "old@example.com", "pw")
	assert.ErrorIs(t, err, service.ErrUserInactive)

	repo.On("FindByEmail", mock.Anything, "broken@example.com").Return(nil, errors.New("connection refused"))
	_, err = auth.Login(context.Background(), "broken@example.com", "pw")
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}

func TestAuthService_AuthenticateChecksTokenVersion(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepo(db)
	tokens := jwt.NewManager("test_jwt_secret", time.Hour)
	auth := service.NewAuthService(users, tokens)
	ctx := context.Background()

	require.NoError(t, service.SeedAdmin(ctx, users, "Admin@Example.com", "admin", "admin123"))
	// seeding twice is a no-op
	require.NoError(t, service.SeedAdmin(ctx, users, "admin@example.com", "admin", "other"))

	first, err := auth.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)

	session, err := auth.Authenticate(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.True(t, session.IsAdmin())

	// a second login rotates the token version
	second, err := auth.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, first.Token)
	assert.ErrorIs(t, err, service.ErrSessionExpired)
	_, err = auth.Authenticate(ctx, second.Token)
	assert.NoError(t, err)

	_, err = auth.Authenticate(ctx, "not-a-token")
	assertCode(t, err, apperr.CodeUnauthorized)
}
