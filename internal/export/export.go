// Package export renders a project's pen register as CSV. The register is
// what yards hand to class surveyors, so column order is stable and rows
// follow the deck-then-number ordering of the list views.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/project"
	"github.com/zulandar/penlog/internal/status"
	"gorm.io/gorm"
)

// csvHeader is the fixed column set of the register.
var csvHeader = []string{
	"Pen Number",
	"Deck",
	"Fire Zone",
	"Frame",
	"Location",
	"Type",
	"Size",
	"Contractor",
	"Status",
	"Priority",
	"Photos",
	"Opened",
	"Completed",
	"Notes",
}

const timeLayout = "2006-01-02 15:04"

// WriteProjectCSV writes the full pen register of a project to w. The
// project must exist; an empty register still produces the header row.
func WriteProjectCSV(db *gorm.DB, w io.Writer, projectID uint) error {
	p, err := project.Get(db, projectID)
	if err != nil {
		return err
	}

	pens, err := pen.List(db, pen.ListFilters{ProjectID: p.ID})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for i := range pens {
		if err := cw.Write(penRow(&pens[i])); err != nil {
			return fmt.Errorf("export: write row %s: %w", pens[i].PenNumber, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	return nil
}

// Filename suggests a download name for a project's register.
func Filename(p *models.Project, now time.Time) string {
	return fmt.Sprintf("pen-register-%d-%s.csv", p.ID, now.Format("2006-01-02"))
}

func penRow(p *models.Penetration) []string {
	return []string{
		p.PenNumber,
		p.Deck,
		p.FireZone,
		p.Frame,
		p.Location,
		p.PenType,
		p.Size,
		p.ContractorName(),
		status.Label(status.Status(p.Status)),
		p.Priority,
		fmt.Sprintf("%d", p.PhotoCount),
		formatTime(p.OpenedAt),
		formatTime(p.CompletedAt),
		p.Notes,
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}
