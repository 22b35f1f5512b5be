package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Review submitted resumes",
	Long:  "Administrator console: log in, page through submitted resumes, inspect, download and delete them. The session token is kept in the session file between runs.",
}

var adminLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as an administrator",
	RunE:  runAdminLogin,
}

var adminLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the administrator session",
	RunE:  runAdminLogout,
}

var (
	adminEmail    string
	adminPassword string
)

func init() {
	adminLoginCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email (required)")
	adminLoginCmd.Flags().StringVar(&adminPassword, "password", "", "Administrator password (prompted when omitted)")
	if err := adminLoginCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}

	adminCmd.AddCommand(adminLoginCmd, adminLogoutCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminLogin(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctrl, err := a.controller()
	if err != nil {
		return err
	}

	password := adminPassword
	if password == "" {
		if password, err = promptPassword(cmd); err != nil {
			return err
		}
	}

	if err := ctrl.Login(cmd.Context(), adminEmail, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", adminEmail)
	return nil
}

func runAdminLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctrl, err := a.controller()
	if err != nil {
		return err
	}
	if !ctrl.Authenticated() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
		return nil
	}
	ctrl.Logout(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

// Terminal hooks, replaced in tests.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// promptPassword asks for the password on the command input. Input is not
// echoed when it comes from a terminal.
func promptPassword(cmd *cobra.Command) (string, error) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(int(f.Fd())) {
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(cmd)
}

// readLine reads one trimmed line from the command input.
func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
