package models

import "time"

// Project is a ship's drydock period under which penetrations are tracked.
type Project struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ShipName        string     `gorm:"size:128;not null" json:"ship_name"`
	Name            string     `gorm:"size:128;not null" json:"project_name"`
	DrydockLocation string     `gorm:"size:128" json:"drydock_location"`
	StartDate       *time.Time `json:"start_date"`
	EmbarkationDate *time.Time `json:"embarkation_date"`
	Status          string     `gorm:"size:16;default:active;index" json:"status"`
	SupervisorID    *uint      `gorm:"index" json:"supervisor_id"`
	InviteCode      string     `gorm:"size:32;uniqueIndex" json:"invite_code"`
	Notes           string     `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Supervisor   *User         `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
	Penetrations []Penetration `gorm:"foreignKey:ProjectID" json:"-"`
	Contractors  []Contractor  `gorm:"foreignKey:ProjectID" json:"-"`
}

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
)
