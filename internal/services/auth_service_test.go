package services_test

import (
	"io"
	"log"
	"os"
	"testing"
	"time"

	"wardrobe/internal/apperrors"
	"wardrobe/internal/models"
	"wardrobe/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// TestMain is used to setup the test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

const testJWTSecret = "test_jwt_secret"

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Successful registration
	mockRepo.On("GetByUsername", "alice").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("GetByEmail", "alice@x.com").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = "user-123"
	}).Return(nil).Once()

	token, user, err := authService.Register("alice", "Alice@X.com", "pw123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@x.com", user.Email, "email should be stored lowercased")
	assert.NotEqual(t, "pw123", user.Password, "password must not be stored in cleartext")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("pw123")))
	mockRepo.AssertExpectations(t)

	// The issued token encodes the new user's id
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-123", claims["user_id"])

	// Username already taken
	mockRepo.On("GetByUsername", "alice").Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.Register("alice", "other@x.com", "pw123")
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, apperrors.StatusOf(err))
	mockRepo.AssertExpectations(t)

	// Email already registered, matched case-insensitively
	mockRepo.On("GetByUsername", "bob").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("GetByEmail", "alice@x.com").Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.Register("bob", "ALICE@X.COM", "pw123")
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, apperrors.StatusOf(err))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterBlankFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	for _, fields := range [][3]string{
		{"", "a@x.com", "pw"},
		{"alice", "", "pw"},
		{"alice", "a@x.com", ""},
		{"   ", "a@x.com", "pw"},
	} {
		_, _, err := authService.Register(fields[0], fields[1], fields[2])
		assert.Error(t, err)
		assert.Equal(t, fiber.StatusBadRequest, apperrors.StatusOf(err))
	}
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("pw123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "alice",
		Email:    "alice@x.com",
		Password: string(hashedPassword),
	}

	// Login by exact username
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	token, loggedIn, err := authService.Login("alice", "pw123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-123", loggedIn.ID)
	mockRepo.AssertExpectations(t)

	// Login by email, case-insensitively
	mockRepo.On("GetByUsername", "Alice@X.com").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("GetByEmail", "alice@x.com").Return(user, nil).Once()
	token, _, err = authService.Login("Alice@X.com", "pw123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	_, _, err = authService.Login("alice", "wrongpassword")
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, apperrors.StatusOf(err))
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Unknown account: same generic message
	mockRepo.On("GetByUsername", "nobody").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("GetByEmail", "nobody").Return(nil, gorm.ErrRecordNotFound).Once()
	_, _, err = authService.Login("nobody", "pw123")
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, apperrors.StatusOf(err))
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Blank input
	_, _, err = authService.Login("", "pw123")
	assert.Equal(t, fiber.StatusBadRequest, apperrors.StatusOf(err))
	_, _, err = authService.Login("alice", "")
	assert.Equal(t, fiber.StatusBadRequest, apperrors.StatusOf(err))
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	user := &models.User{ID: "user-123", Username: "alice"}

	// A freshly issued token authenticates immediately
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("pw123"), bcrypt.DefaultCost)
	user.Password = string(hashedPassword)
	token, _, err := authService.Login("alice", "pw123")
	assert.NoError(t, err)

	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	resolved, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", resolved.ID)
	mockRepo.AssertExpectations(t)

	// A token older than the 7-day window is rejected as expired
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "alice",
		"iat":      time.Now().Add(-8 * 24 * time.Hour).Unix(),
		"exp":      time.Now().Add(-24 * time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, apperrors.StatusOf(err))
	assert.Contains(t, err.Error(), "expired")

	// Garbage is invalid, not expired
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, apperrors.StatusOf(err))
	assert.Contains(t, err.Error(), "invalid token")

	// A token signed with another secret is rejected
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	foreignString, _ := foreign.SignedString([]byte("other_secret"))
	_, err = authService.ValidateToken(foreignString)
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, apperrors.StatusOf(err))

	// A valid token whose user no longer resolves is rejected
	ghost := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-gone",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	ghostString, _ := ghost.SignedString([]byte(testJWTSecret))
	mockRepo.On("GetByID", "user-gone").Return(nil, gorm.ErrRecordNotFound).Once()
	_, err = authService.ValidateToken(ghostString)
	assert.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, apperrors.StatusOf(err))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_EnsureDemoUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Existing demo user is reused
	demo := &models.User{ID: "demo-1", Username: "demo"}
	mockRepo.On("GetByUsername", "demo").Return(demo, nil).Once()
	user, err := authService.EnsureDemoUser()
	assert.NoError(t, err)
	assert.Equal(t, "demo-1", user.ID)
	mockRepo.AssertExpectations(t)

	// Absent demo user is created on first use
	mockRepo.On("GetByUsername", "demo").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		created := args.Get(0).(*models.User)
		assert.Equal(t, "demo", created.Username)
		assert.NotEmpty(t, created.Password)
		created.ID = "demo-2"
	}).Return(nil).Once()
	user, err = authService.EnsureDemoUser()
	assert.NoError(t, err)
	assert.Equal(t, "demo-2", user.ID)
	mockRepo.AssertExpectations(t)

	// Losing the creation race falls back to the winner's row
	mockRepo.On("GetByUsername", "demo").Return(nil, gorm.ErrRecordNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(gorm.ErrDuplicatedKey).Once()
	mockRepo.On("GetByUsername", "demo").Return(demo, nil).Once()
	user, err = authService.EnsureDemoUser()
	assert.NoError(t, err)
	assert.Equal(t, "demo-1", user.ID)
	mockRepo.AssertExpectations(t)
}
