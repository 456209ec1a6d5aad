package models

import "time"

// AccessRequest is a contractor's application to join a project, filed
// through the invite-code registration form. Approval creates or reuses a
// contractor and issues a magic-link token; rejection records a reason.
type AccessRequest struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID     uint       `gorm:"index;not null" json:"project_id"`
	CompanyName   string     `gorm:"size:128;not null" json:"company_name"`
	ContactPerson string     `gorm:"size:128" json:"contact_person"`
	ContactEmail  string     `gorm:"size:128" json:"contact_email"`
	Message       string     `gorm:"type:text" json:"message"`
	Status        string     `gorm:"size:16;default:pending;index" json:"status"`
	RejectReason  string     `gorm:"size:255" json:"reject_reason"`
	DecidedAt     *time.Time `json:"decided_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Access request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)
