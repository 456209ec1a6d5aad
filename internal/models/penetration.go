package models

import "time"

// Penetration is a single fire-boundary penetration point tracked during a
// drydock project. Status is one of the four lifecycle states defined in the
// status package; OpenedAt and CompletedAt are stamped on the first entry
// into open and closed respectively and are never cleared afterwards.
type Penetration struct {
	ID           string     `gorm:"primaryKey;size:32" json:"id"`
	ProjectID    uint       `gorm:"not null;index:idx_project_pen,unique" json:"project_id"`
	PenNumber    string     `gorm:"size:64;not null;index:idx_project_pen,unique" json:"pen_id"`
	Deck         string     `gorm:"size:64;not null" json:"deck"`
	FireZone     string     `gorm:"size:64" json:"fire_zone"`
	Frame        string     `gorm:"size:64" json:"frame"`
	Location     string     `gorm:"size:255" json:"location"`
	PenType      string     `gorm:"size:64" json:"pen_type"`
	Size         string     `gorm:"size:64" json:"size"`
	ContractorID *uint      `gorm:"index" json:"contractor_id"`
	Status       string     `gorm:"size:16;default:not_started;index" json:"status"`
	Priority     string     `gorm:"size:16;default:routine" json:"priority"`
	Notes        string     `gorm:"type:text" json:"notes"`
	PhotoCount   int        `gorm:"default:0" json:"photo_count"`
	OpenedAt     *time.Time `json:"opened_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Contractor *Contractor `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
	Activities []Activity  `gorm:"foreignKey:PenetrationID" json:"activities,omitempty"`
	Photos     []Photo     `gorm:"foreignKey:PenetrationID" json:"photos,omitempty"`
}

// ContractorName returns the assigned contractor's display name, or the
// fallback label used by the aggregation views when unassigned.
func (p *Penetration) ContractorName() string {
	if p.Contractor != nil && p.Contractor.Name != "" {
		return p.Contractor.Name
	}
	return "Unknown"
}
