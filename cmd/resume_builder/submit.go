package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a resume draft file",
	Long:  "Validates a resume draft JSON file, submits it to the resume API and optionally downloads the generated PDF.",
	RunE:  runSubmit,
}

var (
	submitFile string
	submitPDF  string
)

func init() {
	submitCmd.Flags().StringVarP(&submitFile, "file", "f", "", "Path to the resume draft JSON file (required)")
	submitCmd.Flags().StringVar(&submitPDF, "pdf", "", "Write the generated PDF to this path after submitting")
	if err := submitCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())

	draft, problems, err := readDraft(submitFile)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		printer.PrintProblems(problems)
		return fmt.Errorf("%s has %d validation problems", submitFile, len(problems))
	}

	f := form.New(a.client, form.WithLogger(a.logger))
	if err := f.LoadDraft(draft); err != nil {
		return err
	}
	id, err := f.Submit(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to submit resume: %w", err)
	}
	printer.PrintMessage("SUBMITTED", fmt.Sprintf("✅ Resume submitted successfully\nResume ID: %s", id))

	if submitPDF == "" {
		return nil
	}
	artifact, err := f.DownloadPDF(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to download PDF: %w", err)
	}
	if dir := filepath.Dir(submitPDF); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(submitPDF, artifact.Data, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PDF saved to %s\n", submitPDF)
	return nil
}
