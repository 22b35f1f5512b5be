package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development resume API server",
	Long: `Start an HTTP server that implements the resume API: public submission and PDF download,
and the token-protected admin endpoints. Resumes are stored in PostgreSQL when DATABASE_URL is set
and in memory otherwise. Admin sessions use Redis when REDIS_URL is set.`,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or 5000)")
	rootCmd.AddCommand(serveCmd)
}

// loadServerConfig reads the server configuration and applies the port flag.
func loadServerConfig() (*config.ServerConfig, *logrus.Logger, error) {
	cfg, err := config.LoadServer(configPath)
	if err != nil {
		return nil, nil, err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.FromEnv()
	if logLevel != "" {
		logger.SetLevel(logging.ParseLevel(logLevel))
	}
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadServerConfig()
	if err != nil {
		return err
	}

	srv, err := server.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(cmd.Context())
}
