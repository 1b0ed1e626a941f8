package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

type TokenIssuer interface {
	Issue(userID uuid.UUID, role models.Role) (string, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Me(ctx context.Context, id uuid.UUID) (*models.User, error)
	EnsureAdmin(ctx context.Context, username, email, password string) error
}

type authService struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	hashCost int
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{users: users, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	user, err := s.createUser(ctx, username, email, password, models.RoleUser)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator, or promotes an existing
// account with that email.
func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		log.Printf("[AuthService] promoting %s to admin", existing.Email)
		return s.users.UpdateRole(ctx, existing.ID, models.RoleAdmin)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("find admin: %w", err)
	}

	if _, err := s.createUser(ctx, username, email, password, models.RoleAdmin); err != nil {
		return err
	}
	log.Printf("[AuthService] created admin %s", normalizeEmail(email))
	return nil
}

func (s *authService) createUser(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
