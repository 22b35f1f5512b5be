package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleResume() *types.ResumeData {
	r := types.NewResumeData()
	r.FullName = "Jane Doe"
	r.UserEmail = "jane@example.com"
	r.Phone = "+1 555 0100"
	r.SocialLinks[types.SocialGitHub] = "https://github.com/jane"
	r.ProfileSummary = "Backend engineer who likes boring technology and careful migrations."
	r.Education = []types.Education{{Degree: "BSc", Institution: "MIT", Year: "2015", GPA: "3.8"}}
	r.TechnicalSkills = types.NewTechnicalSkills(types.SkillCategory{Name: "Languages", Skills: []string{"Go", "SQL"}})
	r.WorkExperience = []types.WorkExperience{{Title: "Engineer", Company: "Acme", Period: "2016-2024"}}
	r.Languages = []types.Language{{Language: "English", Proficiency: "Native"}}
	return r
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume("RESUME", sampleResume(), false)
	output := buf.String()

	assert.Contains(t, output, "RESUME")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "github:   https://github.com/jane")
	assert.NotContains(t, output, "linkedin:")
	assert.Contains(t, output, "• BSc - MIT (2015) | GPA: 3.8")
	assert.Contains(t, output, "Languages: Go, SQL")
	assert.Contains(t, output, "• Engineer - Acme | 2016-2024")
	assert.Contains(t, output, "• English (Native)")
	assert.NotContains(t, output, "Projects:")
}

func TestPrintResume_Indexed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume("DRAFT", sampleResume(), true)
	output := buf.String()

	assert.Contains(t, output, "[0] BSc - MIT")
	assert.Contains(t, output, "Projects:")
	assert.Contains(t, output, "(none)")
}

func TestPrintResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResume("X", nil, false)
	assert.Empty(t, buf.String())
}

func TestPrintResumeList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResumeList(&types.ListResponse{
		Resumes: []types.ResumeListItem{
			{ID: "id-1", FullName: "Jane Doe", UserEmail: "jane@example.com", Phone: "555", CreatedAt: "2024-01-02T03:04:05"},
			{ID: "id-2", FullName: "John Roe", UserEmail: "john@example.com"},
		},
		Total:      22,
		Page:       2,
		PerPage:    20,
		TotalPages: 2,
	})
	output := buf.String()

	assert.Contains(t, output, "SUBMITTED RESUMES")
	assert.Contains(t, output, "jane@example.com | 555")
	assert.Contains(t, output, "id: id-2")
	assert.Contains(t, output, "Page 2 of 2 (22 total)")
}

func TestPrintResumeList_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResumeList(&types.ListResponse{Page: 1})
	assert.Contains(t, buf.String(), "No resumes on this page.")
}

func TestPrintProblems(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProblems([]string{"Full name is required", "Invalid email format"})
	assert.Contains(t, buf.String(), "Found 2 problems")
	assert.Contains(t, buf.String(), "⚠ Invalid email format")

	buf.Reset()
	p.PrintProblems(nil)
	assert.Contains(t, buf.String(), "no problems found")
}

func TestBoxLinesHaveConstantWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	r := sampleResume()
	r.FullName = strings.Repeat("Ünïcode ", 20)

	p.PrintResume("RESUME", r, true)
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 8))
	assert.Equal(t, []string{"a", "b"}, wrap("a\nb", 10))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
