package notify

import (
	"context"
	"strings"
	"sync"
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

// mockAdapter records every sent message.
type mockAdapter struct {
	mu   sync.Mutex
	sent []Message
}

func (m *mockAdapter) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockAdapter) Close() error { return nil }

func testWatcher(t *testing.T, db *gorm.DB) (*Watcher, uint) {
	t.Helper()
	p, err := project.Create(db, project.CreateOpts{ShipName: "MS Aurora", Name: "DD 2026"})
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(WatcherOpts{DB: db, Adapter: &mockAdapter{}, ChannelID: "C1"})
	if err != nil {
		t.Fatal(err)
	}
	return w, p.ID
}

func TestPoll_BaselineReportsNothing(t *testing.T) {
	db := testDB(t)
	w, projectID := testWatcher(t, db)

	if _, err := pen.Create(db, pen.CreateOpts{
		ProjectID: projectID, PenNumber: "001", Deck: "Deck 4",
		Priority: string(status.Critical), Status: string(status.Open),
	}); err != nil {
		t.Fatal(err)
	}

	events, err := w.Poll()
	if err != nil {
		t.Fatalf("Poll(): %v", err)
	}
	if len(events) != 0 {
		t.Errorf("baseline poll reported %d events, want 0", len(events))
	}
}

func TestPoll_CriticalOpen(t *testing.T) {
	db := testDB(t)
	w, projectID := testWatcher(t, db)
	if _, err := w.Poll(); err != nil {
		t.Fatal(err)
	}

	critical, err := pen.Create(db, pen.CreateOpts{
		ProjectID: projectID, PenNumber: "001", Deck: "Deck 4",
		Priority: string(status.Critical),
	})
	if err != nil {
		t.Fatal(err)
	}
	routine, err := pen.Create(db, pen.CreateOpts{
		ProjectID: projectID, PenNumber: "002", Deck: "Deck 4",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{critical.ID, routine.ID} {
		if _, err := pen.UpdateStatus(db, p, string(status.Open), "", "lehtinen"); err != nil {
			t.Fatal(err)
		}
	}

	events, err := w.Poll()
	if err != nil {
		t.Fatalf("Poll(): %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1 (routine open must not alert)", len(events))
	}
	if !strings.Contains(events[0].Title, "Critical pen 001 opened") {
		t.Errorf("title = %q", events[0].Title)
	}
	if events[0].Severity != "error" {
		t.Errorf("severity = %q, want error", events[0].Severity)
	}
}

func TestPoll_Verified(t *testing.T) {
	db := testDB(t)
	w, projectID := testWatcher(t, db)
	if _, err := w.Poll(); err != nil {
		t.Fatal(err)
	}

	p, err := pen.Create(db, pen.CreateOpts{
		ProjectID: projectID, PenNumber: "007", Deck: "Deck 6", Status: string(status.Closed),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pen.UpdateStatus(db, p.ID, string(status.Verified), "", "inspector"); err != nil {
		t.Fatal(err)
	}

	events, err := w.Poll()
	if err != nil {
		t.Fatalf("Poll(): %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if !strings.Contains(events[0].Title, "Pen 007 verified") {
		t.Errorf("title = %q", events[0].Title)
	}
	if events[0].Severity != "success" {
		t.Errorf("severity = %q, want success", events[0].Severity)
	}

	// A second poll over the same rows reports nothing new.
	events, err = w.Poll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("repeat poll reported %d events", len(events))
	}
}

func TestBuildDailyDigest(t *testing.T) {
	db := testDB(t)
	w, projectID := testWatcher(t, db)

	// Quiet day: digest suppressed.
	event, err := w.BuildDailyDigest()
	if err != nil {
		t.Fatalf("BuildDailyDigest(): %v", err)
	}
	if event != nil {
		t.Errorf("digest on quiet day = %+v, want nil", event)
	}

	p, err := pen.Create(db, pen.CreateOpts{ProjectID: projectID, PenNumber: "001", Deck: "Deck 4"})
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range []string{"open", "closed", "verified"} {
		if _, err := pen.UpdateStatus(db, p.ID, st, "", ""); err != nil {
			t.Fatal(err)
		}
	}

	event, err = w.BuildDailyDigest()
	if err != nil {
		t.Fatalf("BuildDailyDigest(): %v", err)
	}
	if event == nil {
		t.Fatal("digest suppressed despite activity")
	}
	for _, want := range []string{"New pens: 1", "Closed: 1", "Verified: 1", "100%"} {
		if !strings.Contains(event.Body, want) {
			t.Errorf("digest body missing %q:\n%s", want, event.Body)
		}
	}
}

func TestSeverityColor(t *testing.T) {
	if got := SeverityColor("success"); got != ColorSuccess {
		t.Errorf("success = %q", got)
	}
	if got := SeverityColor("mystery"); got != ColorInfo {
		t.Errorf("unknown severity = %q, want info color", got)
	}
}
