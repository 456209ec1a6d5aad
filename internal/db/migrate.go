package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zulandar/penlog/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Project{},
		&models.Contractor{},
		&models.Penetration{},
		&models.Activity{},
		&models.Photo{},
		&models.ReportLink{},
		&models.AccessRequest{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedAdmin ensures an admin user exists, creating one with the given
// credentials when no admin is present. Returns true when a user was created.
func SeedAdmin(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("db: check admin user: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("db: hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("db: create admin %q: %w", username, err)
	}
	return true, nil
}

// EnsureInviteCodes backfills invite codes for projects that predate the
// registration workflow. Existing codes are left untouched.
func EnsureInviteCodes(db *gorm.DB) error {
	var projects []models.Project
	if err := db.Where("invite_code = ?", "").Find(&projects).Error; err != nil {
		return fmt.Errorf("db: list projects without invite codes: %w", err)
	}
	for i := range projects {
		code := uuid.NewString()[:8]
		if err := db.Model(&models.Project{}).
			Where("id = ?", projects[i].ID).
			Update("invite_code", code).Error; err != nil {
			return fmt.Errorf("db: set invite code for project %d: %w", projects[i].ID, err)
		}
	}
	return nil
}
