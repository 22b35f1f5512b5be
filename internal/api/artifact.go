package api

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// whitespaceRun matches ASCII and Unicode space runs, including NBSP and the BOM.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// Artifact is a downloaded binary file together with its suggested name.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Save writes the artifact into dir under its suggested file name and returns the written path.
// Only the base name of Filename is used.
func (a *Artifact) Save(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := filepath.Base(a.Filename)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("artifact has no file name")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, a.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// AdminFilename is the suggested file name for a resume downloaded from the admin console:
// whitespace runs in the candidate name collapse to a single underscore.
func AdminFilename(fullName string) string {
	return whitespaceRun.ReplaceAllString(fullName, "_") + "_resume.pdf"
}

// OwnFilename is the suggested file name for a candidate downloading their own resume.
func OwnFilename(resumeID string) string {
	return "resume_" + resumeID + ".pdf"
}
