package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume draft file",
	Long:  "Checks a resume draft JSON file against the draft schema and the submission rules enforced by the server.",
	RunE:  runValidate,
}

var validateFile string

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to the resume draft JSON file (required)")
	if err := validateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	_, problems, err := readDraft(validateFile)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintProblems(problems)
	if len(problems) > 0 {
		return fmt.Errorf("%s has %d validation problems", validateFile, len(problems))
	}
	return nil
}

// readDraft loads a draft file. Schema violations and rule violations are
// returned as problems; err is reserved for unreadable or malformed files.
func readDraft(path string) (*types.ResumeData, []string, error) {
	content, err := schemas.ValidateResumeFile(path)
	if err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			return nil, schemaErr.Messages(), nil
		}
		if content == nil {
			return nil, nil, fmt.Errorf("failed to read draft file: %w", err)
		}
		return nil, nil, fmt.Errorf("invalid draft file %s: %w", path, err)
	}

	draft := types.NewResumeData()
	if err := json.Unmarshal(content, draft); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal draft JSON: %w", err)
	}
	draft.Normalize()

	if err := draft.Validate(); err != nil {
		return draft, types.ValidationMessages(err), nil
	}
	return draft, nil, nil
}
