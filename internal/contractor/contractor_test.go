package contractor

import (
	"errors"
	"testing"

	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
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
		&models.Project{},
		&models.Contractor{},
		&models.Penetration{},
		&models.Activity{},
		&models.Photo{},
		&models.ReportLink{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testProject(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	p := models.Project{ShipName: "MS Aurora", Name: "DD 2026", InviteCode: "inv-c"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}
	return p.ID
}

func TestCreate_Validation(t *testing.T) {
	db := testDB(t)
	projectID := testProject(t, db)

	if _, err := Create(db, CreateOpts{ProjectID: projectID}); !apperr.IsValidation(err) {
		t.Errorf("missing name error = %v, want ValidationError", err)
	}
	if _, err := Create(db, CreateOpts{Name: "Roxtec"}); !apperr.IsValidation(err) {
		t.Errorf("missing project error = %v, want ValidationError", err)
	}
}

func TestUpdate(t *testing.T) {
	db := testDB(t)
	projectID := testProject(t, db)
	c, _ := Create(db, CreateOpts{ProjectID: projectID, Name: "Roxtec"})

	person := "K. Olsen"
	updated, err := Update(db, c.ID, UpdateOpts{ContactPerson: &person})
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	if updated.ContactPerson != "K. Olsen" || updated.Name != "Roxtec" {
		t.Errorf("updated = %+v", updated)
	}

	empty := ""
	if _, err := Update(db, c.ID, UpdateOpts{Name: &empty}); !apperr.IsValidation(err) {
		t.Errorf("cleared name error = %v, want ValidationError", err)
	}
}

func TestStats(t *testing.T) {
	db := testDB(t)
	projectID := testProject(t, db)
	c, _ := Create(db, CreateOpts{ProjectID: projectID, Name: "Wartsila"})

	for i, st := range []string{"open", "verified", "verified"} {
		if _, err := pen.Create(db, pen.CreateOpts{
			ProjectID: projectID, PenNumber: string(rune('1' + i)), Deck: "Deck 4",
			Status: st, ContractorID: &c.ID,
		}); err != nil {
			t.Fatal(err)
		}
	}

	s, err := Stats(db, c.ID)
	if err != nil {
		t.Fatalf("Stats(): %v", err)
	}
	if s.Total != 3 || s.Verified != 2 || s.Open != 1 {
		t.Errorf("stats = %+v", s)
	}
	if s.CompletionRate != 67 {
		t.Errorf("CompletionRate = %d, want 67", s.CompletionRate)
	}
}

func TestGenerateLink_ReplacesPrevious(t *testing.T) {
	db := testDB(t)
	projectID := testProject(t, db)
	c, _ := Create(db, CreateOpts{ProjectID: projectID, Name: "ABB"})

	first, err := GenerateLink(db, c.ID, 0)
	if err != nil {
		t.Fatalf("GenerateLink(): %v", err)
	}
	if first.ProjectID != projectID {
		t.Errorf("ProjectID = %d, want contractor's project %d", first.ProjectID, projectID)
	}

	second, err := GenerateLink(db, c.ID, 0)
	if err != nil {
		t.Fatalf("GenerateLink() second: %v", err)
	}
	if second.Token == first.Token {
		t.Error("regenerated link kept the old token")
	}

	var count int64
	db.Model(&models.ReportLink{}).Where("contractor_id = ?", c.ID).Count(&count)
	if count != 1 {
		t.Errorf("link count = %d, want 1 (old link revoked)", count)
	}
}

func TestGenerateLink_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := GenerateLink(db, 9999, 0); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GenerateLink(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMerge(t *testing.T) {
	db := testDB(t)
	projectID := testProject(t, db)
	source, _ := Create(db, CreateOpts{ProjectID: projectID, Name: "Roxtec AS"})
	target, _ := Create(db, CreateOpts{ProjectID: projectID, Name: "Roxtec Marine"})

	if _, err := pen.Create(db, pen.CreateOpts{
		ProjectID: projectID, PenNumber: "001", Deck: "Deck 3", ContractorID: &source.ID,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := GenerateLink(db, source.ID, 0); err != nil {
		t.Fatal(err)
	}

	if err := Merge(db, source.ID, target.ID); err != nil {
		t.Fatalf("Merge(): %v", err)
	}

	if _, err := Get(db, source.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("source contractor survived merge")
	}

	pens, _ := pen.List(db, pen.ListFilters{ContractorID: target.ID})
	if len(pens) != 1 {
		t.Errorf("target has %d pens after merge, want 1", len(pens))
	}

	var linkCount int64
	db.Model(&models.ReportLink{}).Where("contractor_id = ?", source.ID).Count(&linkCount)
	if linkCount != 0 {
		t.Error("source links survived merge")
	}
}

func TestMerge_SelfAndMissing(t *testing.T) {
	db := testDB(t)
	projectID := testProject(t, db)
	c, _ := Create(db, CreateOpts{ProjectID: projectID, Name: "GEA"})

	if err := Merge(db, c.ID, c.ID); !apperr.IsValidation(err) {
		t.Errorf("self merge error = %v, want ValidationError", err)
	}
	if err := Merge(db, c.ID, 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("merge into missing error = %v, want ErrNotFound", err)
	}
}
