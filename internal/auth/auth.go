// Package auth provides credential verification and opaque bearer-token
// sessions. A user carries at most one live session token; logging in again
// replaces it, and a 401 from the middleware means the consumer must
// re-authenticate.
package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Login verifies credentials and issues a fresh session token. Wrong
// username and wrong password are indistinguishable to the caller.
func Login(db *gorm.DB, username, password string) (*models.User, string, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("auth: login: %w", apperr.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("auth: look up %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("auth: login: %w", apperr.ErrUnauthorized)
	}

	token := uuid.NewString()
	if err := db.Model(&user).Update("session_token", token).Error; err != nil {
		return nil, "", fmt.Errorf("auth: store session for %q: %w", username, err)
	}
	user.SessionToken = token
	return &user, token, nil
}

// Authenticate resolves a bearer token to its user.
func Authenticate(db *gorm.DB, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("auth: empty token: %w", apperr.ErrUnauthorized)
	}
	var user models.User
	if err := db.Where("session_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("auth: unknown token: %w", apperr.ErrUnauthorized)
		}
		return nil, fmt.Errorf("auth: resolve token: %w", err)
	}
	return &user, nil
}

// Logout invalidates the user's session token.
func Logout(db *gorm.DB, userID uint) error {
	if err := db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("session_token", "").Error; err != nil {
		return fmt.Errorf("auth: logout user %d: %w", userID, err)
	}
	return nil
}

// CreateUser registers an operator account.
func CreateUser(db *gorm.DB, username, password, role string) (*models.User, error) {
	if len(username) < 3 {
		return nil, apperr.Validationf("username must be at least 3 characters")
	}
	if len(password) < 8 {
		return nil, apperr.Validationf("password must be at least 8 characters")
	}
	switch role {
	case models.RoleAdmin, models.RoleSupervisor:
	default:
		return nil, apperr.Validationf("unknown role %q", role)
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("auth: check username %q: %w", username, err)
	}
	if count > 0 {
		return nil, apperr.Validationf("username %q is taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("auth: create user %q: %w", username, err)
	}
	return &user, nil
}
