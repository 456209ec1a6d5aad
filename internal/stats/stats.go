// Package stats derives aggregate counts and completion rates from a
// collection of penetration records. All computation is in memory over one
// concrete collection; nothing here touches the database.
package stats

import (
	"math"
	"time"

	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/status"
)

// photoThreshold is the project policy for "adequately documented": pens
// with fewer photos than this count as missing documentation.
const photoThreshold = 2

// Stats holds aggregate counts for a collection of pens. Status counts
// always sum to Total because status is mandatory and drawn from the closed
// four-value set.
type Stats struct {
	Total             int `json:"total"`
	NotStarted        int `json:"not_started"`
	Open              int `json:"open"`
	Closed            int `json:"closed"`
	Verified          int `json:"verified"`
	PensWithoutPhotos int `json:"pens_without_photos"`
	CompletionRate    int `json:"completion_rate"`
}

// ContractorStats is the per-contractor aggregate, keyed by display name
// with "Unknown" for unassigned pens.
type ContractorStats struct {
	Name string `json:"contractor_name"`
	Stats
}

// DeckStats is the per-deck aggregate.
type DeckStats struct {
	Deck string `json:"deck"`
	Stats
}

// Compute aggregates a collection of pens into overall counts.
func Compute(pens []models.Penetration) Stats {
	var s Stats
	for i := range pens {
		s.add(&pens[i])
	}
	s.finish()
	return s
}

// ByContractor groups pens by contractor name and aggregates each group.
// Group order is first appearance in the input, not sorted.
func ByContractor(pens []models.Penetration) []ContractorStats {
	var order []string
	groups := make(map[string]*ContractorStats)
	for i := range pens {
		name := pens[i].ContractorName()
		g, ok := groups[name]
		if !ok {
			g = &ContractorStats{Name: name}
			groups[name] = g
			order = append(order, name)
		}
		g.add(&pens[i])
	}

	result := make([]ContractorStats, 0, len(order))
	for _, name := range order {
		g := groups[name]
		g.finish()
		result = append(result, *g)
	}
	return result
}

// ByDeck groups pens by deck and aggregates each group, first-appearance
// order.
func ByDeck(pens []models.Penetration) []DeckStats {
	var order []string
	groups := make(map[string]*DeckStats)
	for i := range pens {
		deck := pens[i].Deck
		g, ok := groups[deck]
		if !ok {
			g = &DeckStats{Deck: deck}
			groups[deck] = g
			order = append(order, deck)
		}
		g.add(&pens[i])
	}

	result := make([]DeckStats, 0, len(order))
	for _, deck := range order {
		g := groups[deck]
		g.finish()
		result = append(result, *g)
	}
	return result
}

// OpenTooLong returns the pens that have been sitting in open for longer
// than threshold, measured from their opened_at stamp as of now.
func OpenTooLong(pens []models.Penetration, threshold time.Duration, now time.Time) []models.Penetration {
	var stale []models.Penetration
	for i := range pens {
		p := &pens[i]
		if p.Status != string(status.Open) || p.OpenedAt == nil {
			continue
		}
		if now.Sub(*p.OpenedAt) > threshold {
			stale = append(stale, *p)
		}
	}
	return stale
}

func (s *Stats) add(p *models.Penetration) {
	s.Total++
	switch status.Status(p.Status) {
	case status.NotStarted:
		s.NotStarted++
	case status.Open:
		s.Open++
	case status.Closed:
		s.Closed++
	case status.Verified:
		s.Verified++
	}
	if p.PhotoCount < photoThreshold {
		s.PensWithoutPhotos++
	}
}

// finish computes the completion rate: round-half-up percentage of verified
// pens, 0 for an empty collection.
func (s *Stats) finish() {
	if s.Total == 0 {
		return
	}
	s.CompletionRate = int(math.Floor(100*float64(s.Verified)/float64(s.Total) + 0.5))
}
