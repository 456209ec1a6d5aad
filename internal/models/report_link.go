package models

import "time"

// ReportLink is a magic-link credential: an opaque token embedded in a URL
// that grants one contractor scoped, unauthenticated access to report status
// on one project. Generating a new link for the same contractor replaces the
// previous token.
type ReportLink struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Token        string     `gorm:"size:64;uniqueIndex;not null" json:"token"`
	ContractorID uint       `gorm:"index;not null" json:"contractor_id"`
	ProjectID    uint       `gorm:"index;not null" json:"project_id"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUsedAt   *time.Time `json:"last_used_at"`

	Contractor *Contractor `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
	Project    *Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
