package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/penlog/internal/auth"
	"github.com/zulandar/penlog/internal/models"
	"golang.org/x/term"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User account management commands",
	}

	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		configPath string
		username   string
		role       string
		password   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a supervisor or admin account",
		Long:  "Creates a console account. The password is prompted for unless --password is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserCreate(cmd, configPath, username, role, password)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "penlog.yaml", "path to config file")
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username (required)")
	cmd.Flags().StringVarP(&role, "role", "r", models.RoleSupervisor, "account role (admin or supervisor)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.MarkFlagRequired("username")
	return cmd
}

func runUserCreate(cmd *cobra.Command, configPath, username, role, password string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if password == "" {
		password, err = promptPassword(cmd)
		if err != nil {
			return err
		}
	}

	user, err := auth.CreateUser(gormDB, username, password, role)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created %s account %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}

// promptPassword reads the password twice without echo. When stdin is not a
// terminal (scripts, tests) it falls back to reading a single line.
func promptPassword(cmd *cobra.Command) (string, error) {
	out := cmd.OutOrStdout()
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() {
			return "", fmt.Errorf("read password: %w", scanner.Err())
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	fmt.Fprint(out, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(out, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
