// Package report implements the unauthenticated magic-link surface: a
// contractor holding a token reports status changes, creates pens, and
// uploads photos without a login. The token scopes every operation to one
// contractor on one project.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"gorm.io/gorm"
)

// Form is the data behind the contractor reporting page.
type Form struct {
	Contractor models.Contractor    `json:"contractor"`
	Project    models.Project       `json:"project"`
	Pens       []models.Penetration `json:"pens"`
}

// Resolve validates a magic-link token and returns its scope, stamping
// last-used time.
func Resolve(db *gorm.DB, token string) (*models.ReportLink, error) {
	if token == "" {
		return nil, fmt.Errorf("report: empty token: %w", apperr.ErrUnauthorized)
	}
	var link models.ReportLink
	if err := db.Preload("Contractor").Preload("Project").
		Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("report: unknown token: %w", apperr.ErrUnauthorized)
		}
		return nil, fmt.Errorf("report: resolve token: %w", err)
	}

	now := time.Now()
	if err := db.Model(&link).Update("last_used_at", now).Error; err != nil {
		return nil, fmt.Errorf("report: stamp token use: %w", err)
	}
	return &link, nil
}

// GetForm loads the reporting page data: the contractor's pens on the
// linked project.
func GetForm(db *gorm.DB, token string) (*Form, error) {
	link, err := Resolve(db, token)
	if err != nil {
		return nil, err
	}

	pens, err := pen.List(db, pen.ListFilters{
		ProjectID:    link.ProjectID,
		ContractorID: link.ContractorID,
	})
	if err != nil {
		return nil, err
	}

	form := &Form{Pens: pens}
	if link.Contractor != nil {
		form.Contractor = *link.Contractor
	}
	if link.Project != nil {
		form.Project = *link.Project
	}
	return form, nil
}

// Submit records a status change on one of the link's pens. The acting
// username on the audit trail is the contractor's name.
func Submit(db *gorm.DB, token, penID, newStatus, notes string) (*models.Penetration, error) {
	link, err := Resolve(db, token)
	if err != nil {
		return nil, err
	}

	p, err := pen.Get(db, penID)
	if err != nil {
		return nil, err
	}
	if p.ProjectID != link.ProjectID {
		return nil, fmt.Errorf("report: pen %s outside link scope: %w", penID, apperr.ErrForbidden)
	}

	actor := "Contractor"
	if link.Contractor != nil {
		actor = link.Contractor.Name
	}
	return pen.UpdateStatus(db, penID, newStatus, notes, actor)
}

// CreateOpts holds the contractor-reported new-pen form. Pen number, deck,
// and location are all mandatory on this path.
type CreateOpts struct {
	PenNumber string
	Deck      string
	Location  string
	FireZone  string
	Frame     string
	PenType   string
}

// CreatePen lets a contractor report a pen that is missing from the
// register. The new pen is assigned to the link's contractor.
func CreatePen(db *gorm.DB, token string, opts CreateOpts) (*models.Penetration, error) {
	link, err := Resolve(db, token)
	if err != nil {
		return nil, err
	}
	if opts.Location == "" {
		return nil, apperr.Validationf("location is required")
	}

	actor := "Contractor"
	if link.Contractor != nil {
		actor = link.Contractor.Name
	}

	contractorID := link.ContractorID
	return pen.Create(db, pen.CreateOpts{
		ProjectID:    link.ProjectID,
		PenNumber:    opts.PenNumber,
		Deck:         opts.Deck,
		Location:     opts.Location,
		FireZone:     opts.FireZone,
		Frame:        opts.Frame,
		PenType:      opts.PenType,
		ContractorID: &contractorID,
		Username:     actor,
	})
}
