package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roboticsleb/storefront/internal/domain"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/pkg/errors"
)

const tokenTTL = 7 * 24 * time.Hour

// Claims is the JWT payload: principal id and role
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token verification. Tokens are
// HS256 and carry only the user id and role; the full principal is always
// reloaded from storage on each request.
type AuthService struct {
	repos  *repository.Repositories
	secret []byte
	logger *zap.Logger
}

// NewAuthService creates the auth service
func NewAuthService(repos *repository.Repositories, secret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		repos:  repos,
		secret: []byte(secret),
		logger: logger,
	}
}

// Register creates a customer account with a bcrypt password hash
func (s *AuthService) Register(ctx context.Context, name, email, password string, phone *string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, &errors.ErrValidation{Message: "Name is required"}
	}
	if email == "" {
		return nil, &errors.ErrValidation{Message: "Email is required"}
	}
	if len(password) < 6 {
		return nil, &errors.ErrValidation{Message: "Password must be at least 6 characters"}
	}

	if _, err := s.repos.User.GetByEmail(ctx, email); err == nil {
		return nil, &errors.ErrConflict{Message: "Email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
	}
	if err := s.repos.User.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. The error is the
// same for unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", &errors.ErrUnauthorized{Message: "Invalid email or password"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", &errors.ErrUnauthorized{Message: "Invalid email or password"}
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, "", err
	}
	return user, token, nil
}

// VerifyToken parses and validates a token and loads the principal
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &errors.ErrUnauthorized{Message: "Invalid token"}
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, &errors.ErrUnauthorized{Message: "Invalid token"}
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, &errors.ErrUnauthorized{Message: "Invalid token"}
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return nil, &errors.ErrUnauthorized{Message: "Invalid token"}
	}
	return user, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
