// Package pen provides penetration record lifecycle operations.
package pen

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/status"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new pen record.
type CreateOpts struct {
	ProjectID    uint
	PenNumber    string // required
	Deck         string // required
	FireZone     string
	Frame        string
	Location     string
	PenType      string // MCT, ROXTEC, GK, Navicross, Fire Seal, BRATTBERG, or custom
	Size         string
	ContractorID *uint
	Priority     string
	Notes        string
	Status       string // defaults to not_started
	Username     string // actor recorded on the created activity
}

// UpdateOpts holds the full-field supervisor edit. Nil pointers leave the
// column untouched; non-nil pointers overwrite it.
type UpdateOpts struct {
	PenNumber    *string
	Deck         *string
	FireZone     *string
	Frame        *string
	Location     *string
	PenType      *string
	Size         *string
	ContractorID **uint
	Priority     *string
	Notes        *string
}

// ListFilters holds optional filters for listing pens.
type ListFilters struct {
	ProjectID    uint
	ContractorID uint
	Status       string
	Deck         string
	Priority     string
	Search       string // matches pen number or location
}

// GenerateID creates a unique pen record ID in pen-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("pen: generate ID: %w", err)
	}
	return "pen-" + hex.EncodeToString(b)[:5], nil
}

// Create inserts a new pen record and appends its created activity.
// Pen number and deck are the mandatory minimum.
func Create(db *gorm.DB, opts CreateOpts) (*models.Penetration, error) {
	if opts.PenNumber == "" {
		return nil, apperr.Validationf("pen number is required")
	}
	if opts.Deck == "" {
		return nil, apperr.Validationf("deck is required")
	}
	if opts.ProjectID == 0 {
		return nil, apperr.Validationf("project is required")
	}
	if opts.Status == "" {
		opts.Status = string(status.NotStarted)
	}
	if !status.Valid(status.Status(opts.Status)) {
		return nil, apperr.Validationf("unknown status %q", opts.Status)
	}
	if opts.Priority == "" {
		opts.Priority = string(status.Routine)
	}
	if !status.ValidPriority(status.Priority(opts.Priority)) {
		return nil, apperr.Validationf("unknown priority %q", opts.Priority)
	}

	var dup int64
	if err := db.Model(&models.Penetration{}).
		Where("project_id = ? AND pen_number = ?", opts.ProjectID, opts.PenNumber).
		Count(&dup).Error; err != nil {
		return nil, fmt.Errorf("pen: check pen number %q: %w", opts.PenNumber, err)
	}
	if dup > 0 {
		return nil, apperr.Validationf("pen number %q already exists in this project", opts.PenNumber)
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	p := models.Penetration{
		ID:           id,
		ProjectID:    opts.ProjectID,
		PenNumber:    opts.PenNumber,
		Deck:         opts.Deck,
		FireZone:     opts.FireZone,
		Frame:        opts.Frame,
		Location:     opts.Location,
		PenType:      opts.PenType,
		Size:         opts.Size,
		ContractorID: opts.ContractorID,
		Status:       opts.Status,
		Priority:     opts.Priority,
		Notes:        opts.Notes,
	}
	stampTimestamps(&p, "", opts.Status, time.Now())

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("pen: create: %w", err)
		}
		return appendActivity(tx, p.ID, models.ActionCreated, nil, strPtr(p.Status), "", opts.Username)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves a pen by ID, preloading its contractor.
func Get(db *gorm.DB, id string) (*models.Penetration, error) {
	var p models.Penetration
	if err := db.Preload("Contractor").Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pen: %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("pen: get %s: %w", id, err)
	}
	return &p, nil
}

// List returns pens matching the given filters, ordered by deck then pen
// number.
func List(db *gorm.DB, filters ListFilters) ([]models.Penetration, error) {
	q := db.Model(&models.Penetration{}).Preload("Contractor")

	if filters.ProjectID != 0 {
		q = q.Where("project_id = ?", filters.ProjectID)
	}
	if filters.ContractorID != 0 {
		q = q.Where("contractor_id = ?", filters.ContractorID)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Deck != "" {
		q = q.Where("deck = ?", filters.Deck)
	}
	if filters.Priority != "" {
		q = q.Where("priority = ?", filters.Priority)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		q = q.Where("pen_number LIKE ? OR location LIKE ?", like, like)
	}

	var pens []models.Penetration
	if err := q.Order("deck ASC, pen_number ASC").Find(&pens).Error; err != nil {
		return nil, fmt.Errorf("pen: list: %w", err)
	}
	return pens, nil
}

// Update applies a full-field supervisor edit. Clearing a required field is
// a validation error.
func Update(db *gorm.DB, id string, opts UpdateOpts) (*models.Penetration, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if opts.PenNumber != nil {
		if *opts.PenNumber == "" {
			return nil, apperr.Validationf("pen number cannot be cleared")
		}
		p.PenNumber = *opts.PenNumber
	}
	if opts.Deck != nil {
		if *opts.Deck == "" {
			return nil, apperr.Validationf("deck cannot be cleared")
		}
		p.Deck = *opts.Deck
	}
	if opts.FireZone != nil {
		p.FireZone = *opts.FireZone
	}
	if opts.Frame != nil {
		p.Frame = *opts.Frame
	}
	if opts.Location != nil {
		p.Location = *opts.Location
	}
	if opts.PenType != nil {
		p.PenType = *opts.PenType
	}
	if opts.Size != nil {
		p.Size = *opts.Size
	}
	if opts.ContractorID != nil {
		p.ContractorID = *opts.ContractorID
	}
	if opts.Priority != nil {
		if !status.ValidPriority(status.Priority(*opts.Priority)) {
			return nil, apperr.Validationf("unknown priority %q", *opts.Priority)
		}
		p.Priority = *opts.Priority
	}
	if opts.Notes != nil {
		p.Notes = *opts.Notes
	}

	if err := db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("pen: update %s: %w", id, err)
	}
	return p, nil
}

// UpdateStatus is the dedicated narrow status mutation. It accepts any
// member of the closed status set, appends a status_changed activity
// capturing previous and new status, and stamps opened_at/completed_at on
// the first entry into open/closed. Stamps are never cleared by later
// transitions. When the status is unchanged and notes are present, a
// note_added activity is appended instead.
func UpdateStatus(db *gorm.DB, id, newStatus, notes, username string) (*models.Penetration, error) {
	if !status.Valid(status.Status(newStatus)) {
		return nil, apperr.Validationf("unknown status %q", newStatus)
	}

	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	prev := p.Status
	if prev == newStatus {
		if notes == "" {
			return p, nil
		}
		if err := appendActivity(db, p.ID, models.ActionNoteAdded, nil, nil, notes, username); err != nil {
			return nil, err
		}
		return p, nil
	}

	p.Status = newStatus
	stampTimestamps(p, prev, newStatus, time.Now())

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("pen: update status of %s: %w", id, err)
		}
		return appendActivity(tx, p.ID, models.ActionStatusChanged, &prev, &newStatus, notes, username)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a pen and its activities and photo rows. Irreversible;
// callers are expected to confirm with a human first.
func Delete(db *gorm.DB, id string) error {
	var count int64
	if err := db.Model(&models.Penetration{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("pen: check %s: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("pen: %s: %w", id, apperr.ErrNotFound)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("penetration_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return fmt.Errorf("pen: delete activities of %s: %w", id, err)
		}
		if err := tx.Where("penetration_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("pen: delete photo rows of %s: %w", id, err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Penetration{}).Error; err != nil {
			return fmt.Errorf("pen: delete %s: %w", id, err)
		}
		return nil
	})
}

// ListActivities returns a pen's audit entries in creation order. An empty
// slice is valid for a pen with no recorded activity.
func ListActivities(db *gorm.DB, id string) ([]models.Activity, error) {
	var count int64
	if err := db.Model(&models.Penetration{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("pen: check %s: %w", id, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("pen: %s: %w", id, apperr.ErrNotFound)
	}

	var activities []models.Activity
	if err := db.Where("penetration_id = ?", id).Order("id ASC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("pen: list activities of %s: %w", id, err)
	}
	return activities, nil
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// BulkImport creates many pens in one call, skipping rows that fail
// validation and reporting them instead of aborting the batch.
func BulkImport(db *gorm.DB, projectID uint, drafts []CreateOpts, username string) (*ImportResult, error) {
	if projectID == 0 {
		return nil, apperr.Validationf("project is required")
	}

	result := &ImportResult{}
	for i := range drafts {
		drafts[i].ProjectID = projectID
		drafts[i].Username = username
		if _, err := Create(db, drafts[i]); err != nil {
			if apperr.IsValidation(err) {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			return nil, err
		}
		result.Created++
	}
	return result, nil
}

// stampTimestamps applies the first-occurrence-wins stamping policy: entry
// into open sets opened_at, entry into closed sets completed_at, and an
// existing stamp is never overwritten or cleared.
func stampTimestamps(p *models.Penetration, prev, next string, now time.Time) {
	if next == string(status.Open) && prev != next && p.OpenedAt == nil {
		p.OpenedAt = &now
	}
	if next == string(status.Closed) && prev != next && p.CompletedAt == nil {
		p.CompletedAt = &now
	}
}

func appendActivity(db *gorm.DB, penID, action string, prev, next *string, notes, username string) error {
	a := models.Activity{
		PenetrationID: penID,
		Action:        action,
		PrevStatus:    prev,
		NewStatus:     next,
		Notes:         notes,
	}
	if username != "" {
		a.Username = &username
	}
	if err := db.Create(&a).Error; err != nil {
		return fmt.Errorf("pen: append %s activity for %s: %w", action, penID, err)
	}
	return nil
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for i := 0; i < 2; i++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Penetration{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("pen: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("pen: failed to generate unique ID after retries")
}

func strPtr(s string) *string { return &s }
