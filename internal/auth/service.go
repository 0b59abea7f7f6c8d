package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid account input")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLen = 6

// Service is the identity provider: accounts live in the users table and
// sessions are stateless bearer JWTs.
type Service struct {
	DB  *gorm.DB
	JWT *JWT
}

type NewAccount struct {
	Email    string
	Password string
	Name     string
	FarmSize string
	Location string
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func (s *Service) CreateAccount(ctx context.Context, in NewAccount) (User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	var n int64
	if err := s.DB.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return User{}, fmt.Errorf("lookup email: %w", err)
	}
	if n > 0 {
		return User{}, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		FarmSize:     strings.TrimSpace(in.FarmSize),
		Location:     strings.TrimSpace(in.Location),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks email and password and issues a bearer token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, User, error) {
	var rows []User
	if err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Limit(1).Find(&rows).Error; err != nil {
		return "", User{}, fmt.Errorf("lookup user: %w", err)
	}
	if len(rows) == 0 || !ComparePassword(rows[0].PasswordHash, password) {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.JWT.Sign(rows[0].ID)
	if err != nil {
		return "", User{}, fmt.Errorf("sign token: %w", err)
	}
	return token, rows[0], nil
}

func (s *Service) User(ctx context.Context, id string) (User, error) {
	var rows []User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	if len(rows) == 0 {
		return User{}, ErrUserNotFound
	}
	return rows[0], nil
}

// Verify implements Verifier. Tokens of deleted accounts are rejected.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	uid, err := s.JWT.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if _, err := s.User(ctx, uid); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return "", err
	}
	return uid, nil
}
