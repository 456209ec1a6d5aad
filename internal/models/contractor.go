package models

import "time"

// Contractor is a company reporting pen work on a project. Aggregate counts
// for a contractor are always derived from its penetrations, never stored.
type Contractor struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID     uint      `gorm:"index;not null" json:"project_id"`
	Name          string    `gorm:"size:128;not null;index" json:"name"`
	ContactPerson string    `gorm:"size:128" json:"contact_person"`
	ContactEmail  string    `gorm:"size:128" json:"contact_email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Penetrations []Penetration `gorm:"foreignKey:ContractorID" json:"-"`
}
