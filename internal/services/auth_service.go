package services

import (
	"errors"
	"fmt"

	"github.com/billow-app/billow/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOwnerExists        = errors.New("owner already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthUserStore interface {
	CountUsers() (int64, error)
	FindByID(userID string) (models.User, bool, error)
	FindByNormalizedEmail(email string) (models.User, bool, error)
	Create(user *models.User) error
}

// AuthService owns the single-account lifecycle: one owner registers
// once, then logs in with email and password.
type AuthService struct {
	users AuthUserStore
	clock Clock
}

func NewAuthService(users AuthUserStore, clock Clock) *AuthService {
	return &AuthService{users: users, clock: clock}
}

// NeedsSetup reports whether no account exists yet.
func (service *AuthService) NeedsSetup() (bool, error) {
	count, err := service.users.CountUsers()
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count == 0, nil
}

// RegisterOwner creates the owner account. Registration closes as
// soon as any account exists.
func (service *AuthService) RegisterOwner(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	needsSetup, err := service.NeedsSetup()
	if err != nil {
		return models.User{}, err
	}
	if !needsSetup {
		return models.User{}, ErrOwnerExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleOwner,
		CreatedAt:    service.clock.Now(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("create owner: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the matching account.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID string) (models.User, bool, error) {
	return service.users.FindByID(userID)
}
