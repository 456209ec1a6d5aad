// Package registration implements the invite-code access workflow: a
// contractor applies via a project's invite link, a supervisor approves or
// rejects, and approval issues a magic-link report token.
package registration

import (
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/contractor"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/project"
	"gorm.io/gorm"
)

// SubmitOpts holds the registration form fields.
type SubmitOpts struct {
	CompanyName   string // required
	ContactPerson string
	ContactEmail  string
	Message       string
}

// Form resolves an invite code to the project the applicant would join.
func Form(db *gorm.DB, inviteCode string) (*models.Project, error) {
	return project.GetByInviteCode(db, inviteCode)
}

// Submit files an access request against the project behind the invite code.
func Submit(db *gorm.DB, inviteCode string, opts SubmitOpts) (*models.AccessRequest, error) {
	if opts.CompanyName == "" {
		return nil, apperr.Validationf("company name is required")
	}

	p, err := project.GetByInviteCode(db, inviteCode)
	if err != nil {
		return nil, err
	}

	req := models.AccessRequest{
		ProjectID:     p.ID,
		CompanyName:   opts.CompanyName,
		ContactPerson: opts.ContactPerson,
		ContactEmail:  opts.ContactEmail,
		Message:       opts.Message,
		Status:        models.RequestPending,
	}
	if err := db.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("registration: submit: %w", err)
	}
	return &req, nil
}

// Pending lists undecided requests, optionally scoped to a project, oldest
// first so the queue drains in arrival order.
func Pending(db *gorm.DB, projectID uint) ([]models.AccessRequest, error) {
	q := db.Where("status = ?", models.RequestPending).Order("created_at ASC")
	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}
	var requests []models.AccessRequest
	if err := q.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("registration: list pending: %w", err)
	}
	return requests, nil
}

func get(db *gorm.DB, id uint) (*models.AccessRequest, error) {
	var req models.AccessRequest
	if err := db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("registration: request %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("registration: get request %d: %w", id, err)
	}
	return &req, nil
}

// Approve accepts a pending request: the applicant company becomes a
// contractor on the project (reusing an existing contractor with the same
// name) and receives a magic-link token.
func Approve(db *gorm.DB, id uint) (*models.ReportLink, error) {
	req, err := get(db, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestPending {
		return nil, apperr.Validationf("request %d is already %s", id, req.Status)
	}

	var c models.Contractor
	err = db.Where("project_id = ? AND name = ?", req.ProjectID, req.CompanyName).First(&c).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, cerr := contractor.Create(db, contractor.CreateOpts{
			ProjectID:     req.ProjectID,
			Name:          req.CompanyName,
			ContactPerson: req.ContactPerson,
			ContactEmail:  req.ContactEmail,
		})
		if cerr != nil {
			return nil, cerr
		}
		c = *created
	case err != nil:
		return nil, fmt.Errorf("registration: find contractor %q: %w", req.CompanyName, err)
	}

	link, err := contractor.GenerateLink(db, c.ID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.Model(req).Updates(map[string]interface{}{
		"status":     models.RequestApproved,
		"decided_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("registration: mark request %d approved: %w", id, err)
	}
	return link, nil
}

// Reject declines a pending request with a reason.
func Reject(db *gorm.DB, id uint, reason string) error {
	req, err := get(db, id)
	if err != nil {
		return err
	}
	if req.Status != models.RequestPending {
		return apperr.Validationf("request %d is already %s", id, req.Status)
	}

	now := time.Now()
	if err := db.Model(req).Updates(map[string]interface{}{
		"status":        models.RequestRejected,
		"reject_reason": reason,
		"decided_at":    now,
	}).Error; err != nil {
		return fmt.Errorf("registration: mark request %d rejected: %w", id, err)
	}
	return nil
}
