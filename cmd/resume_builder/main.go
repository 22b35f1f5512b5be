// Package main provides the resume_builder CLI: the resume form, the admin console and the development API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	apiURLFlag string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "resume_builder",
	Short:         "Resume builder client and development server",
	Long:          "resume_builder collects resumes through a terminal form, submits them to the resume API, and lets administrators review, download and delete submissions.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default: ./resume-builder.{yaml,json,toml} if present)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Base URL of the resume API (overrides RESUME_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides LOG_LEVEL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
