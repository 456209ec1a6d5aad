// Package project provides drydock project lifecycle and dashboard
// aggregation.
package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/stats"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a project.
type CreateOpts struct {
	ShipName        string // required
	Name            string // required
	DrydockLocation string
	StartDate       *time.Time
	EmbarkationDate *time.Time
	SupervisorID    *uint
	Notes           string
}

// UpdateOpts holds the project edit form. Nil pointers leave the column
// untouched.
type UpdateOpts struct {
	ShipName        *string
	Name            *string
	DrydockLocation *string
	StartDate       **time.Time
	EmbarkationDate **time.Time
	Status          *string
	Notes           *string
}

// Dashboard is the aggregate view backing the project dashboard page.
type Dashboard struct {
	Overall      stats.Stats             `json:"overall"`
	ByContractor []stats.ContractorStats `json:"by_contractor"`
	ByDeck       []stats.DeckStats       `json:"by_deck"`
}

// Create inserts a new project with a fresh invite code.
func Create(db *gorm.DB, opts CreateOpts) (*models.Project, error) {
	if opts.ShipName == "" {
		return nil, apperr.Validationf("ship name is required")
	}
	if opts.Name == "" {
		return nil, apperr.Validationf("project name is required")
	}

	p := models.Project{
		ShipName:        opts.ShipName,
		Name:            opts.Name,
		DrydockLocation: opts.DrydockLocation,
		StartDate:       opts.StartDate,
		EmbarkationDate: opts.EmbarkationDate,
		Status:          models.ProjectActive,
		SupervisorID:    opts.SupervisorID,
		InviteCode:      uuid.NewString()[:8],
		Notes:           opts.Notes,
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("project: create: %w", err)
	}
	return &p, nil
}

// Get retrieves a project by ID, preloading its supervisor.
func Get(db *gorm.DB, id uint) (*models.Project, error) {
	var p models.Project
	if err := db.Preload("Supervisor").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("project: get %d: %w", id, err)
	}
	return &p, nil
}

// GetByInviteCode resolves a project from its registration invite code.
func GetByInviteCode(db *gorm.DB, code string) (*models.Project, error) {
	var p models.Project
	if err := db.Where("invite_code = ?", code).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: invite code %q: %w", code, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("project: get by invite code: %w", err)
	}
	return &p, nil
}

// List returns projects newest first. Completed projects are hidden unless
// showArchived is set.
func List(db *gorm.DB, showArchived bool) ([]models.Project, error) {
	q := db.Preload("Supervisor").Order("created_at DESC")
	if !showArchived {
		q = q.Where("status = ?", models.ProjectActive)
	}
	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project: list: %w", err)
	}
	return projects, nil
}

// Update applies a project edit.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Project, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if opts.ShipName != nil {
		if *opts.ShipName == "" {
			return nil, apperr.Validationf("ship name cannot be cleared")
		}
		p.ShipName = *opts.ShipName
	}
	if opts.Name != nil {
		if *opts.Name == "" {
			return nil, apperr.Validationf("project name cannot be cleared")
		}
		p.Name = *opts.Name
	}
	if opts.DrydockLocation != nil {
		p.DrydockLocation = *opts.DrydockLocation
	}
	if opts.StartDate != nil {
		p.StartDate = *opts.StartDate
	}
	if opts.EmbarkationDate != nil {
		p.EmbarkationDate = *opts.EmbarkationDate
	}
	if opts.Status != nil {
		switch *opts.Status {
		case models.ProjectActive, models.ProjectCompleted:
		default:
			return nil, apperr.Validationf("unknown project status %q", *opts.Status)
		}
		p.Status = *opts.Status
	}
	if opts.Notes != nil {
		p.Notes = *opts.Notes
	}

	if err := db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("project: update %d: %w", id, err)
	}
	return p, nil
}

// Activate marks a completed project active again.
func Activate(db *gorm.DB, id uint) (*models.Project, error) {
	active := models.ProjectActive
	return Update(db, id, UpdateOpts{Status: &active})
}

// Delete removes a project and everything scoped to it. Irreversible; the
// confirm flag is the caller's attestation that a human approved it.
func Delete(db *gorm.DB, id uint, confirm bool) error {
	if !confirm {
		return apperr.Validationf("delete requires confirmation")
	}
	if _, err := Get(db, id); err != nil {
		return err
	}

	pens, err := pen.List(db, pen.ListFilters{ProjectID: id})
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range pens {
			if err := pen.Delete(tx, pens[i].ID); err != nil {
				return err
			}
		}
		for _, m := range []interface{}{
			&models.ReportLink{}, &models.AccessRequest{}, &models.Contractor{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("project: delete scoped rows of %d: %w", id, err)
			}
		}
		if err := tx.Delete(&models.Project{}, id).Error; err != nil {
			return fmt.Errorf("project: delete %d: %w", id, err)
		}
		return nil
	})
}

// AssignSupervisor sets the project's supervisor.
func AssignSupervisor(db *gorm.DB, id, supervisorID uint) (*models.Project, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, supervisorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: supervisor %d: %w", supervisorID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("project: get supervisor %d: %w", supervisorID, err)
	}

	p.SupervisorID = &user.ID
	if err := db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("project: assign supervisor on %d: %w", id, err)
	}
	p.Supervisor = &user
	return p, nil
}

// Supervisors lists users assignable as project supervisors.
func Supervisors(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Order("username ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("project: list supervisors: %w", err)
	}
	return users, nil
}

// Stats computes the project's overall aggregate counts.
func Stats(db *gorm.DB, id uint) (*stats.Stats, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}
	pens, err := pen.List(db, pen.ListFilters{ProjectID: id})
	if err != nil {
		return nil, err
	}
	s := stats.Compute(pens)
	return &s, nil
}

// GetDashboard loads the project's pens once and derives all dashboard
// aggregates from that one collection.
func GetDashboard(db *gorm.DB, id uint) (*Dashboard, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}
	pens, err := pen.List(db, pen.ListFilters{ProjectID: id})
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Overall:      stats.Compute(pens),
		ByContractor: stats.ByContractor(pens),
		ByDeck:       stats.ByDeck(pens),
	}, nil
}
