package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/penlog/internal/export"
	"github.com/zulandar/penlog/internal/project"
)

func newExportCmd() *cobra.Command {
	var (
		configPath string
		projectID  uint
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project's pen register as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, configPath, projectID, outPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "penlog.yaml", "path to config file")
	cmd.Flags().UintVar(&projectID, "project", 0, "project ID (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: generated name in the current directory)")
	cmd.MarkFlagRequired("project")
	return cmd
}

func runExport(cmd *cobra.Command, configPath string, projectID uint, outPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	p, err := project.Get(gormDB, projectID)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = export.Filename(p, time.Now())
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := export.WriteProjectCSV(gormDB, f, projectID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
	return nil
}
