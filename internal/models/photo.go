package models

import "time"

// Photo holds metadata for an uploaded penetration photo. The image bytes
// live on disk under the configured photos directory, keyed by StoredName.
type Photo struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PenetrationID string    `gorm:"size:32;index;not null" json:"penetration_id"`
	StoredName    string    `gorm:"size:128;not null" json:"-"`
	OriginalName  string    `gorm:"size:255" json:"original_name"`
	ContentType   string    `gorm:"size:64" json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	Caption       string    `gorm:"size:255" json:"caption"`
	PhotoType     string    `gorm:"size:16;default:general" json:"photo_type"`
	UploadedAt    time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// Photo types.
const (
	PhotoGeneral = "general"
	PhotoOpening = "opening"
	PhotoClosing = "closing"
)
