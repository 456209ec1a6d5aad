// Package contractor provides contractor management and the unified
// magic-link generation contract.
package contractor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/stats"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a contractor.
type CreateOpts struct {
	ProjectID     uint
	Name          string // required
	ContactPerson string
	ContactEmail  string
}

// UpdateOpts holds the contractor edit form.
type UpdateOpts struct {
	Name          *string
	ContactPerson *string
	ContactEmail  *string
}

// Create inserts a new contractor scoped to a project.
func Create(db *gorm.DB, opts CreateOpts) (*models.Contractor, error) {
	if opts.Name == "" {
		return nil, apperr.Validationf("contractor name is required")
	}
	if opts.ProjectID == 0 {
		return nil, apperr.Validationf("project is required")
	}

	c := models.Contractor{
		ProjectID:     opts.ProjectID,
		Name:          opts.Name,
		ContactPerson: opts.ContactPerson,
		ContactEmail:  opts.ContactEmail,
	}
	if err := db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("contractor: create: %w", err)
	}
	return &c, nil
}

// Get retrieves a contractor by ID.
func Get(db *gorm.DB, id uint) (*models.Contractor, error) {
	var c models.Contractor
	if err := db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contractor: %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("contractor: get %d: %w", id, err)
	}
	return &c, nil
}

// List returns contractors, optionally scoped to a project, name order.
func List(db *gorm.DB, projectID uint) ([]models.Contractor, error) {
	q := db.Order("name ASC")
	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}
	var contractors []models.Contractor
	if err := q.Find(&contractors).Error; err != nil {
		return nil, fmt.Errorf("contractor: list: %w", err)
	}
	return contractors, nil
}

// Update applies a contractor edit.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Contractor, error) {
	c, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if opts.Name != nil {
		if *opts.Name == "" {
			return nil, apperr.Validationf("contractor name cannot be cleared")
		}
		c.Name = *opts.Name
	}
	if opts.ContactPerson != nil {
		c.ContactPerson = *opts.ContactPerson
	}
	if opts.ContactEmail != nil {
		c.ContactEmail = *opts.ContactEmail
	}

	if err := db.Save(c).Error; err != nil {
		return nil, fmt.Errorf("contractor: update %d: %w", id, err)
	}
	return c, nil
}

// Stats computes the contractor's aggregate counts from its pens.
func Stats(db *gorm.DB, id uint) (*stats.Stats, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}
	pens, err := pen.List(db, pen.ListFilters{ContractorID: id})
	if err != nil {
		return nil, err
	}
	s := stats.Compute(pens)
	return &s, nil
}

// GenerateLink issues a magic-link token for a contractor on a project,
// replacing any previous link for the same pair. This is the single
// authoritative link contract; older per-token flows are gone.
func GenerateLink(db *gorm.DB, id, projectID uint) (*models.ReportLink, error) {
	c, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	if projectID == 0 {
		projectID = c.ProjectID
	}

	link := models.ReportLink{
		Token:        uuid.NewString(),
		ContractorID: c.ID,
		ProjectID:    projectID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contractor_id = ? AND project_id = ?", c.ID, projectID).
			Delete(&models.ReportLink{}).Error; err != nil {
			return fmt.Errorf("contractor: revoke old links for %d: %w", c.ID, err)
		}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("contractor: create report link for %d: %w", c.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Merge reassigns all of source's pens and links to target and removes the
// source contractor. Used to clean up duplicate contractor entries.
func Merge(db *gorm.DB, sourceID, targetID uint) error {
	if sourceID == targetID {
		return apperr.Validationf("cannot merge a contractor into itself")
	}
	source, err := Get(db, sourceID)
	if err != nil {
		return err
	}
	target, err := Get(db, targetID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Penetration{}).
			Where("contractor_id = ?", source.ID).
			Update("contractor_id", target.ID).Error; err != nil {
			return fmt.Errorf("contractor: reassign pens %d -> %d: %w", source.ID, target.ID, err)
		}
		// Old links die with the source; the target's links keep working.
		if err := tx.Where("contractor_id = ?", source.ID).
			Delete(&models.ReportLink{}).Error; err != nil {
			return fmt.Errorf("contractor: drop links of %d: %w", source.ID, err)
		}
		if err := tx.Delete(&models.Contractor{}, source.ID).Error; err != nil {
			return fmt.Errorf("contractor: delete %d: %w", source.ID, err)
		}
		return nil
	})
}
