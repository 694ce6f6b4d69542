package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"contacts_api/internal/config"
	"contacts_api/internal/models"
	"contacts_api/internal/repository"
)

// Domain errors for auth flows.
var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthService handles user auth logic: signup, credential verification,
// token issuance and parsing, and the current-user lookup.
type AuthService struct {
	authRepo   repository.Authorization
	userCache  repository.UserCache // may be nil when redis is disabled
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(repo repository.Authorization, cache repository.UserCache, cfg config.Auth) *AuthService {
	return &AuthService{
		authRepo:   repo,
		userCache:  cache,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   cfg.TokenTTL,
	}
}

// SignUp checks email uniqueness, hashes the password and persists the user.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*models.User, error) {
	existing, err := s.authRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	id, err := s.authRepo.Create(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: username, Email: email}, nil
}

// Claims defines JWT claims. The registered subject carries the user's
// email; the numeric user id rides alongside for scoping queries.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// GenerateToken validates credentials and returns a signed JWT.
func (s *AuthService) GenerateToken(ctx context.Context, email, password string) (string, error) {
	u, err := s.authRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(u)
}

// ParseToken parses and validates a JWT, returning the user id.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// CurrentUser loads a user by id, consulting the cache first when one is
// configured. A cache error is treated as a miss so auth never depends on
// redis availability.
func (s *AuthService) CurrentUser(ctx context.Context, id int) (*models.User, error) {
	if s.userCache != nil {
		if u, err := s.userCache.Get(ctx, id); err == nil && u != nil {
			return u, nil
		}
	}

	u, err := s.authRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if s.userCache != nil {
		_ = s.userCache.Set(ctx, u)
	}
	return u, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT bound to the user's email as subject
func (s *AuthService) issueToken(u *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: u.ID,
	})
	return token.SignedString(s.signingKey)
}
