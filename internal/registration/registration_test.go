package registration

import (
	"errors"
	"testing"

	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/contractor"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/project"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB creates an in-memory SQLite database with all required tables.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Contractor{},
		&models.Penetration{},
		&models.Activity{},
		&models.Photo{},
		&models.ReportLink{},
		&models.AccessRequest{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()
	p, err := project.Create(db, project.CreateOpts{ShipName: "MS Aurora", Name: "DD 2026"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestForm(t *testing.T) {
	db := testDB(t)
	p := testProject(t, db)

	found, err := Form(db, p.InviteCode)
	if err != nil {
		t.Fatalf("Form(): %v", err)
	}
	if found.ID != p.ID {
		t.Errorf("Form() resolved project %d, want %d", found.ID, p.ID)
	}

	if _, err := Form(db, "bogus"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Form(bogus) error = %v, want ErrNotFound", err)
	}
}

func TestSubmit(t *testing.T) {
	db := testDB(t)
	p := testProject(t, db)

	req, err := Submit(db, p.InviteCode, SubmitOpts{
		CompanyName:   "Roxtec Marine",
		ContactPerson: "K. Olsen",
		ContactEmail:  "k.olsen@roxtec.example",
	})
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if req.Status != models.RequestPending {
		t.Errorf("Status = %q, want pending", req.Status)
	}
	if req.ProjectID != p.ID {
		t.Errorf("ProjectID = %d, want %d", req.ProjectID, p.ID)
	}

	if _, err := Submit(db, p.InviteCode, SubmitOpts{}); !apperr.IsValidation(err) {
		t.Errorf("missing company error = %v, want ValidationError", err)
	}
}

func TestPending_ArrivalOrder(t *testing.T) {
	db := testDB(t)
	p := testProject(t, db)

	for _, name := range []string{"First Co", "Second Co"} {
		if _, err := Submit(db, p.InviteCode, SubmitOpts{CompanyName: name}); err != nil {
			t.Fatal(err)
		}
	}

	pending, err := Pending(db, p.ID)
	if err != nil {
		t.Fatalf("Pending(): %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("len(pending) = %d, want 2", len(pending))
	}
	if pending[0].CompanyName != "First Co" {
		t.Errorf("pending[0] = %q, want First Co", pending[0].CompanyName)
	}
}

func TestApprove_CreatesContractorAndLink(t *testing.T) {
	db := testDB(t)
	p := testProject(t, db)
	req, _ := Submit(db, p.InviteCode, SubmitOpts{CompanyName: "Wartsila"})

	link, err := Approve(db, req.ID)
	if err != nil {
		t.Fatalf("Approve(): %v", err)
	}
	if link.Token == "" {
		t.Error("approved request has no token")
	}

	var c models.Contractor
	if err := db.Where("project_id = ? AND name = ?", p.ID, "Wartsila").First(&c).Error; err != nil {
		t.Fatalf("contractor not created: %v", err)
	}
	if link.ContractorID != c.ID {
		t.Errorf("link contractor = %d, want %d", link.ContractorID, c.ID)
	}

	var decided models.AccessRequest
	db.First(&decided, req.ID)
	if decided.Status != models.RequestApproved || decided.DecidedAt == nil {
		t.Errorf("request after approve = %+v", decided)
	}

	// A second approval of the same request is rejected.
	if _, err := Approve(db, req.ID); !apperr.IsValidation(err) {
		t.Errorf("double approve error = %v, want ValidationError", err)
	}
}

func TestApprove_ReusesExistingContractor(t *testing.T) {
	db := testDB(t)
	p := testProject(t, db)
	existing, err := contractor.Create(db, contractor.CreateOpts{ProjectID: p.ID, Name: "ABB"})
	if err != nil {
		t.Fatal(err)
	}

	req, _ := Submit(db, p.InviteCode, SubmitOpts{CompanyName: "ABB"})
	link, err := Approve(db, req.ID)
	if err != nil {
		t.Fatalf("Approve(): %v", err)
	}
	if link.ContractorID != existing.ID {
		t.Errorf("link contractor = %d, want existing %d", link.ContractorID, existing.ID)
	}

	var count int64
	db.Model(&models.Contractor{}).Where("project_id = ?", p.ID).Count(&count)
	if count != 1 {
		t.Errorf("contractor count = %d, want 1 (no duplicate created)", count)
	}
}

func TestReject(t *testing.T) {
	db := testDB(t)
	p := testProject(t, db)
	req, _ := Submit(db, p.InviteCode, SubmitOpts{CompanyName: "GEA"})

	if err := Reject(db, req.ID, "unknown company"); err != nil {
		t.Fatalf("Reject(): %v", err)
	}

	var decided models.AccessRequest
	db.First(&decided, req.ID)
	if decided.Status != models.RequestRejected || decided.RejectReason != "unknown company" {
		t.Errorf("request after reject = %+v", decided)
	}

	if err := Reject(db, req.ID, "again"); !apperr.IsValidation(err) {
		t.Errorf("double reject error = %v, want ValidationError", err)
	}
	if err := Reject(db, 9999, "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("reject missing error = %v, want ErrNotFound", err)
	}
}
