package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/server"
	"github.com/spf13/cobra"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account in the server database",
	Long:  "Creates an administrator account in the database named by DATABASE_URL. The password is hashed with bcrypt.",
	RunE:  runCreateAdmin,
}

var (
	createAdminEmail    string
	createAdminPassword string
)

func init() {
	createAdminCmd.Flags().StringVar(&createAdminEmail, "email", "", "Administrator email (required)")
	createAdminCmd.Flags().StringVar(&createAdminPassword, "password", "", "Administrator password (prompted when omitted)")
	if err := createAdminCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}
	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadServerConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	password := createAdminPassword
	if password == "" {
		if password, err = promptPassword(cmd); err != nil {
			return err
		}
	}

	// Skip seeding the configured admin.
	cfg.AdminEmail = ""
	srv, err := server.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open server storage: %w", err)
	}
	defer srv.Close()

	created, err := srv.Admins().CreateAdmin(cmd.Context(), createAdminEmail, password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", created.Email, created.ID)
	return nil
}
