package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/project"
	"github.com/zulandar/penlog/internal/stats"
	"gorm.io/gorm"
)

func newStatusCmd() *cobra.Command {
	var (
		configPath string
		projectID  uint
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a project remediation summary",
		Long:  "Displays pen counts per status, per-deck progress, and per-contractor progress for one project, or the project list when --project is omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, configPath, projectID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "penlog.yaml", "path to config file")
	cmd.Flags().UintVar(&projectID, "project", 0, "project ID")
	return cmd
}

func runStatus(cmd *cobra.Command, configPath string, projectID uint) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if projectID == 0 {
		return printProjectList(out, gormDB)
	}

	p, err := project.Get(gormDB, projectID)
	if err != nil {
		return err
	}
	pens, err := pen.List(gormDB, pen.ListFilters{ProjectID: p.ID})
	if err != nil {
		return err
	}

	fmt.Fprint(out, formatStatus(p, pens))
	return nil
}

func printProjectList(out io.Writer, gormDB *gorm.DB) error {
	projects, err := project.List(gormDB, true)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%-4s %-24s %-20s %s\n", "ID", "SHIP", "PROJECT", "STATUS")
	for _, p := range projects {
		fmt.Fprintf(out, "%-4d %-24s %-20s %s\n", p.ID, p.ShipName, p.Name, p.Status)
	}
	if len(projects) == 0 {
		fmt.Fprintln(out, "  (no projects)")
	}
	return nil
}

// formatStatus renders the terminal summary for one project.
func formatStatus(p *models.Project, pens []models.Penetration) string {
	var b strings.Builder

	overall := stats.Compute(pens)
	fmt.Fprintf(&b, "%s / %s\n", p.ShipName, p.Name)
	fmt.Fprintf(&b, "Pens: %d total, %d%% verified\n\n", overall.Total, overall.CompletionRate)

	b.WriteString("OVERALL\n")
	fmt.Fprintf(&b, "%-12s %6s %6s %6s %6s %10s\n",
		"", "NEW", "OPEN", "CLOSED", "VERIF", "NO PHOTOS")
	fmt.Fprintf(&b, "%-12s %6d %6d %6d %6d %10d\n",
		"", overall.NotStarted, overall.Open, overall.Closed, overall.Verified,
		overall.PensWithoutPhotos)
	b.WriteString("\n")

	b.WriteString("DECKS\n")
	for _, d := range stats.ByDeck(pens) {
		fmt.Fprintf(&b, "%-12s %6d %6d %6d %6d %9d%%\n",
			d.Deck, d.NotStarted, d.Open, d.Closed, d.Verified, d.CompletionRate)
	}
	if overall.Total == 0 {
		b.WriteString("  (no pens)\n")
	}
	b.WriteString("\n")

	b.WriteString("CONTRACTORS\n")
	for _, c := range stats.ByContractor(pens) {
		fmt.Fprintf(&b, "%-24s %6d %9d%%\n", c.Name, c.Total, c.CompletionRate)
	}
	if overall.Total == 0 {
		b.WriteString("  (no contractors)\n")
	}
	return b.String()
}
