package demo

import (
	"fmt"
	"testing"

	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/project"
	"github.com/zulandar/penlog/internal/status"
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
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testRunner(t *testing.T, db *gorm.DB, budget int) *Runner {
	t.Helper()
	p, err := project.Create(db, project.CreateOpts{ShipName: "MS Demo", Name: "Demo DD"})
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRunner(db, Opts{ProjectID: p.ID, Budget: budget, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNewRunner_RequiresProject(t *testing.T) {
	db := testDB(t)
	if _, err := NewRunner(db, Opts{}); err == nil {
		t.Error("NewRunner without project succeeded")
	}
}

func TestTick_CreatesFirstPen(t *testing.T) {
	db := testDB(t)
	r := testRunner(t, db, 5)

	done, err := r.Tick()
	if err != nil {
		t.Fatalf("Tick(): %v", err)
	}
	if done {
		t.Error("done after first tick with budget remaining")
	}

	pens, _ := pen.List(db, pen.ListFilters{ProjectID: r.projectID})
	if len(pens) != 1 {
		t.Fatalf("pen count = %d, want 1 (empty project must create)", len(pens))
	}
	if r.Remaining() != 4 {
		t.Errorf("Remaining() = %d, want 4", r.Remaining())
	}
}

func TestTick_WritesRealActivities(t *testing.T) {
	db := testDB(t)
	r := testRunner(t, db, 10)

	for i := 0; i < 10; i++ {
		if _, err := r.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	pens, _ := pen.List(db, pen.ListFilters{ProjectID: r.projectID})
	if len(pens) == 0 {
		t.Fatal("no pens after 10 ticks")
	}
	acts, err := pen.ListActivities(db, pens[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(acts) == 0 || acts[0].Actor() != "Demo" {
		t.Errorf("first activity = %+v, want Demo-authored created entry", acts)
	}
}

func TestTick_BudgetExhaustion(t *testing.T) {
	db := testDB(t)
	r := testRunner(t, db, 3)

	var done bool
	var err error
	for i := 0; i < 3; i++ {
		done, err = r.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if !done {
		t.Error("not done after spending full budget")
	}
	if !r.Done() {
		t.Error("Done() = false after budget exhaustion")
	}

	// A halted runner keeps reporting done without further writes.
	done, err = r.Tick()
	if err != nil || !done {
		t.Errorf("tick after halt = (%v, %v), want (true, nil)", done, err)
	}
}

func TestTick_HaltsWhenAllVerified(t *testing.T) {
	db := testDB(t)
	r := testRunner(t, db, 20)

	p, err := pen.Create(db, pen.CreateOpts{
		ProjectID: r.projectID, PenNumber: "D-900", Deck: "Deck 5", Status: string(status.Verified),
	})
	if err != nil {
		t.Fatal(err)
	}
	_ = p

	done, err := r.Tick()
	if err != nil {
		t.Fatalf("Tick(): %v", err)
	}
	if !done {
		t.Error("runner kept going with every pen verified")
	}
}

func TestPauseSkipsTicks(t *testing.T) {
	db := testDB(t)
	r := testRunner(t, db, 5)

	r.Pause()
	if done, err := r.Tick(); err != nil || done {
		t.Fatalf("paused tick = (%v, %v), want no-op", done, err)
	}
	if r.Remaining() != 5 {
		t.Errorf("paused tick spent budget: Remaining() = %d", r.Remaining())
	}

	r.Resume()
	if _, err := r.Tick(); err != nil {
		t.Fatal(err)
	}
	if r.Remaining() != 4 {
		t.Errorf("resumed tick did not spend budget: Remaining() = %d", r.Remaining())
	}
}

func TestReset(t *testing.T) {
	db := testDB(t)
	r := testRunner(t, db, 4)

	for i := 0; i < 4; i++ {
		if _, err := r.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if !r.Done() {
		t.Fatal("runner not halted before reset")
	}

	if err := r.Reset(); err != nil {
		t.Fatalf("Reset(): %v", err)
	}
	if r.Done() || r.Remaining() != 4 {
		t.Errorf("after reset: Done()=%v Remaining()=%d", r.Done(), r.Remaining())
	}

	pens, _ := pen.List(db, pen.ListFilters{ProjectID: r.projectID})
	if len(pens) != 6 {
		t.Fatalf("seeded pen count = %d, want 6", len(pens))
	}
	var verified int
	for _, p := range pens {
		if p.Status == string(status.Verified) {
			verified++
		}
	}
	if verified != 1 {
		t.Errorf("seeded verified count = %d, want 1", verified)
	}
}

func TestLogIsCapped(t *testing.T) {
	db := testDB(t)
	r := testRunner(t, db, 30)

	for i := 0; i < 15; i++ {
		r.record(fmt.Sprintf("entry %d", i))
	}
	entries := r.Log()
	if len(entries) != 10 {
		t.Fatalf("log length = %d, want 10", len(entries))
	}
	if entries[0].Message != "entry 14" {
		t.Errorf("newest entry = %q, want entry 14", entries[0].Message)
	}
}
