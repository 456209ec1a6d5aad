package models

import "time"

// Activity is an append-only audit entry for a penetration. Rows are never
// updated or deleted while their penetration exists; display order is newest
// first but storage order is append time.
type Activity struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PenetrationID string    `gorm:"size:32;index;not null" json:"penetration_id"`
	Action        string    `gorm:"size:32;not null" json:"action"`
	PrevStatus    *string   `gorm:"size:16" json:"previous_status"`
	NewStatus     *string   `gorm:"size:16" json:"new_status"`
	Notes         string    `gorm:"type:text" json:"notes"`
	Username      *string   `gorm:"size:64" json:"username"`
	CreatedAt     time.Time `json:"created_at"`
}

// Activity action kinds.
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
	ActionNoteAdded     = "note_added"
)

// Actor returns the acting username, or "System" when the activity was not
// attributed to a user.
func (a *Activity) Actor() string {
	if a.Username != nil && *a.Username != "" {
		return *a.Username
	}
	return "System"
}
