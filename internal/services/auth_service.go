package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"wardrobe/internal/apperrors"
	"wardrobe/internal/models"
	"wardrobe/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// demoUsername is the deterministic fallback identity substituted for
// unauthenticated requests when demo mode is enabled.
const demoUsername = "demo"

// AuthService handles business logic for registration, login, and bearer
// token validation.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  7 * 24 * time.Hour, // Tokens valid for 7 days
	}
}

// Register creates a new user with a bcrypt-hashed password and returns a
// signed token plus the created user. Usernames collide case-sensitively;
// emails are normalized to lowercase so they collide case-insensitively.
func (s *AuthService) Register(username, email, password string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return "", nil, apperrors.Validation("username, email and password are required")
	}

	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return "", nil, apperrors.Conflict("username '%s' already taken", username)
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return "", nil, apperrors.Conflict("email '%s' already registered", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		// Two racing registrations both pass the pre-checks; the store's
		// unique indexes decide the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, apperrors.Conflict("username or email already taken")
		}
		return "", nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login authenticates a user by exact username or case-insensitive email and
// returns a signed token plus the user.
func (s *AuthService) Login(identifier, password string) (string, *models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", nil, apperrors.Validation("username and password are required")
	}

	user, err := s.userRepo.GetByUsername(identifier)
	if err != nil {
		user, err = s.userRepo.GetByEmail(strings.ToLower(identifier))
	}
	if err != nil {
		// Do not reveal whether the account exists.
		return "", nil, apperrors.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken parses and verifies a bearer token and resolves the user it
// encodes. Expired and otherwise-invalid tokens are distinguished in the
// message and log but share the unauthorized status.
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperrors.Unauthorized("token expired")
		}
		return nil, apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized("invalid token")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, apperrors.Unauthorized("invalid token")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return user, nil
}

// EnsureDemoUser fetches the demo user, creating it on first use. The demo
// account gets a random password hash, so it can never be logged into
// directly.
func (s *AuthService) EnsureDemoUser() (*models.User, error) {
	if user, err := s.userRepo.GetByUsername(demoUsername); err == nil {
		return user, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	user := &models.User{
		Username: demoUsername,
		Email:    "demo@wardrobe.local",
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		// Lost the creation race: another request provisioned the demo user.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.userRepo.GetByUsername(demoUsername)
		}
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}
