package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/penlog/internal/demo"
	"github.com/zulandar/penlog/internal/project"
)

func newDemoCmd() *cobra.Command {
	var (
		configPath string
		projectID  uint
		seed       int64
		reset      bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the demo simulator against a project",
		Long: `Drives a dedicated demo project through simulated contractor activity.

Without --project, a fresh demo project is created. Updates flow through
the normal mutation paths, so dashboards and audit trails behave exactly
as they do for real work.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, configPath, projectID, seed, reset)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "penlog.yaml", "path to config file")
	cmd.Flags().UintVar(&projectID, "project", 0, "demo project ID (created when omitted)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().BoolVar(&reset, "reset", false, "wipe and reseed the demo project before starting")
	return cmd
}

func runDemo(cmd *cobra.Command, configPath string, projectID uint, seed int64, reset bool) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if projectID == 0 {
		p, err := project.Create(gormDB, project.CreateOpts{
			ShipName: "MS Demo",
			Name:     "Demo Drydock",
		})
		if err != nil {
			return err
		}
		projectID = p.ID
		reset = true
		fmt.Fprintf(out, "Created demo project %d\n", p.ID)
	}

	runner, err := demo.NewRunner(gormDB, demo.Opts{
		ProjectID: projectID,
		Interval:  cfg.DemoInterval(),
		Budget:    cfg.Demo.Budget,
		MaxPens:   cfg.Demo.MaxPens,
		Seed:      seed,
		Out:       out,
	})
	if err != nil {
		return err
	}

	if reset {
		if err := runner.Reset(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(out, "\nStopping simulator...")
		cancel()
	}()

	return runner.Run(ctx)
}
