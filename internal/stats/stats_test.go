package stats

import (
	"testing"
	"time"

	"github.com/zulandar/penlog/internal/models"
)

func pen(st string, photoCount int) models.Penetration {
	return models.Penetration{Status: st, PhotoCount: photoCount}
}

func penFor(name, st string) models.Penetration {
	p := models.Penetration{Status: st}
	if name != "" {
		p.Contractor = &models.Contractor{Name: name}
	}
	return p
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil)
	if s.Total != 0 {
		t.Errorf("Total = %d, want 0", s.Total)
	}
	if s.CompletionRate != 0 {
		t.Errorf("CompletionRate = %d, want 0 for empty collection", s.CompletionRate)
	}
}

func TestCompute_Counts(t *testing.T) {
	pens := []models.Penetration{
		pen("not_started", 0),
		pen("open", 2),
		pen("open", 1),
		pen("closed", 3),
		pen("verified", 2),
	}
	s := Compute(pens)

	if s.Total != 5 {
		t.Errorf("Total = %d, want 5", s.Total)
	}
	if s.NotStarted != 1 || s.Open != 2 || s.Closed != 1 || s.Verified != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 1/2/1/1",
			s.NotStarted, s.Open, s.Closed, s.Verified)
	}
	if sum := s.NotStarted + s.Open + s.Closed + s.Verified; sum != s.Total {
		t.Errorf("status counts sum to %d, want Total %d", sum, s.Total)
	}
}

func TestCompute_PensWithoutPhotos(t *testing.T) {
	pens := []models.Penetration{
		pen("open", 0),
		pen("open", 1),
		pen("open", 2),
		pen("open", 7),
	}
	s := Compute(pens)
	if s.PensWithoutPhotos != 2 {
		t.Errorf("PensWithoutPhotos = %d, want 2 (photo_count 0 and 1)", s.PensWithoutPhotos)
	}
}

func TestCompute_CompletionRateRounding(t *testing.T) {
	tests := []struct {
		verified int
		total    int
		want     int
	}{
		{0, 0, 0},
		{1, 3, 33},  // 33.33 rounds down
		{2, 3, 67},  // 66.67 rounds up
		{1, 2, 50},
		{1, 8, 13},  // 12.5 rounds half up
		{3, 8, 38},  // 37.5 rounds half up
		{5, 5, 100},
	}
	for _, tt := range tests {
		pens := make([]models.Penetration, 0, tt.total)
		for i := 0; i < tt.verified; i++ {
			pens = append(pens, pen("verified", 2))
		}
		for i := tt.verified; i < tt.total; i++ {
			pens = append(pens, pen("open", 2))
		}
		s := Compute(pens)
		if s.CompletionRate != tt.want {
			t.Errorf("CompletionRate(%d/%d) = %d, want %d",
				tt.verified, tt.total, s.CompletionRate, tt.want)
		}
	}
}

func TestByContractor_UnknownFallback(t *testing.T) {
	// 5 unassigned records collapse into a single "Unknown" group.
	pens := []models.Penetration{
		pen("not_started", 0),
		pen("open", 0),
		pen("open", 0),
		pen("closed", 0),
		pen("verified", 0),
	}
	groups := ByContractor(pens)
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	g := groups[0]
	if g.Name != "Unknown" {
		t.Errorf("Name = %q, want Unknown", g.Name)
	}
	if g.Total != 5 || g.NotStarted != 1 || g.Open != 2 || g.Closed != 1 || g.Verified != 1 {
		t.Errorf("counts = total=%d %d/%d/%d/%d, want total=5 1/2/1/1",
			g.Total, g.NotStarted, g.Open, g.Closed, g.Verified)
	}
}

func TestByContractor_InsertionOrder(t *testing.T) {
	pens := []models.Penetration{
		penFor("Wartsila", "open"),
		penFor("ABB", "closed"),
		penFor("Wartsila", "verified"),
		penFor("", "open"),
		penFor("Kongsberg", "not_started"),
	}
	groups := ByContractor(pens)

	wantOrder := []string{"Wartsila", "ABB", "Unknown", "Kongsberg"}
	if len(groups) != len(wantOrder) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(wantOrder))
	}
	for i, want := range wantOrder {
		if groups[i].Name != want {
			t.Errorf("groups[%d].Name = %q, want %q", i, groups[i].Name, want)
		}
	}
	if groups[0].Total != 2 {
		t.Errorf("Wartsila Total = %d, want 2", groups[0].Total)
	}
}

func TestByContractor_SumInvariant(t *testing.T) {
	pens := []models.Penetration{
		penFor("A", "open"),
		penFor("A", "verified"),
		penFor("B", "closed"),
		penFor("", "not_started"),
		penFor("B", "open"),
		penFor("B", "verified"),
	}
	for _, g := range ByContractor(pens) {
		sum := g.NotStarted + g.Open + g.Closed + g.Verified
		if sum != g.Total {
			t.Errorf("group %q: status counts sum to %d, want Total %d", g.Name, sum, g.Total)
		}
	}
}

func TestByDeck(t *testing.T) {
	mk := func(deck, st string) models.Penetration {
		return models.Penetration{Deck: deck, Status: st}
	}
	pens := []models.Penetration{
		mk("Deck 5", "open"),
		mk("Deck 3", "verified"),
		mk("Deck 5", "closed"),
	}
	groups := ByDeck(pens)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Deck != "Deck 5" || groups[0].Total != 2 {
		t.Errorf("groups[0] = %q total=%d, want Deck 5 total=2", groups[0].Deck, groups[0].Total)
	}
	if groups[1].Deck != "Deck 3" || groups[1].Verified != 1 {
		t.Errorf("groups[1] = %q verified=%d, want Deck 3 verified=1", groups[1].Deck, groups[1].Verified)
	}
}

func TestOpenTooLong(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-72 * time.Hour)
	recent := now.Add(-2 * time.Hour)

	pens := []models.Penetration{
		{ID: "pen-1", Status: "open", OpenedAt: &old},
		{ID: "pen-2", Status: "open", OpenedAt: &recent},
		{ID: "pen-3", Status: "closed", OpenedAt: &old},
		{ID: "pen-4", Status: "open"}, // no stamp, skipped
	}
	stale := OpenTooLong(pens, 48*time.Hour, now)
	if len(stale) != 1 {
		t.Fatalf("len(stale) = %d, want 1", len(stale))
	}
	if stale[0].ID != "pen-1" {
		t.Errorf("stale[0].ID = %q, want pen-1", stale[0].ID)
	}
}
