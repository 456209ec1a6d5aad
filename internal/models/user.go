package models

import "time"

// User is an authenticated operator. SessionToken holds the opaque bearer
// credential for the current session; empty means logged out.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         string    `gorm:"size:16;default:supervisor" json:"role"`
	SessionToken string    `gorm:"size:64;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// User roles.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
)
