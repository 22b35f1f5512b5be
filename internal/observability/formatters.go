// Package observability provides the boxed terminal views of the CLI.
package observability

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxLineWidth is the widest content line that fits in a box
	maxLineWidth = boxWidth - 4
)

// Printer handles formatted output of resumes and lists
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", maxLineWidth, truncate(title, maxLineWidth))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", maxLineWidth, truncate(line, maxLineWidth))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintMessage prints a single-line notice in a box.
func (p *Printer) PrintMessage(title, message string) {
	p.printBox(title, message)
}

// PrintProblems prints a list of validation problems.
func (p *Printer) PrintProblems(problems []string) {
	if len(problems) == 0 {
		p.printBox("VALIDATION", "✅ no problems found")
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(problems)))
	for _, problem := range problems {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", problem))
	}
	p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeList prints one page of the admin resume list.
func (p *Printer) PrintResumeList(list *types.ListResponse) {
	if list == nil {
		return
	}

	var sb strings.Builder
	if len(list.Resumes) == 0 {
		sb.WriteString("No resumes on this page.\n")
	}
	for i, item := range list.Resumes {
		sb.WriteString(fmt.Sprintf("%s\n", item.FullName))
		sb.WriteString(fmt.Sprintf("  %s", item.UserEmail))
		if item.Phone != "" {
			sb.WriteString(fmt.Sprintf(" | %s", item.Phone))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  id: %s\n", item.ID))
		if item.CreatedAt != "" {
			sb.WriteString(fmt.Sprintf("  submitted: %s\n", item.CreatedAt))
		}
		if i < len(list.Resumes)-1 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString(fmt.Sprintf("\nPage %d of %d (%d total)", list.Page, list.TotalPages, list.Total))

	p.printBox("SUBMITTED RESUMES", sb.String())
}

// PrintResume prints a full resume. With indexed set, every record of a
// repeatable section is prefixed by its index, as used by the form commands.
func (p *Printer) PrintResume(title string, r *types.ResumeData, indexed bool) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", r.FullName))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", r.UserEmail))
	if r.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", r.Phone))
	}
	for _, platform := range slices.Sorted(maps.Keys(r.SocialLinks)) {
		if url := r.SocialLinks[platform]; url != "" {
			sb.WriteString(fmt.Sprintf("%-9s %s\n", platform+":", url))
		}
	}

	if r.ProfileSummary != "" {
		sb.WriteString("\nSummary:\n")
		for _, line := range wrap(r.ProfileSummary, maxLineWidth-2) {
			sb.WriteString("  " + line + "\n")
		}
	}

	prefix := func(i int) string {
		if indexed {
			return fmt.Sprintf("[%d] ", i)
		}
		return "• "
	}

	section := func(name string, n int, line func(i int) string) {
		if n == 0 && !indexed {
			return
		}
		sb.WriteString(fmt.Sprintf("\n%s:\n", name))
		if n == 0 {
			sb.WriteString("  (none)\n")
		}
		for i := 0; i < n; i++ {
			sb.WriteString("  " + prefix(i) + line(i) + "\n")
		}
	}

	section("Education", len(r.Education), func(i int) string {
		e := r.Education[i]
		s := joinNonEmpty(" - ", e.Degree, e.Institution)
		if e.Year != "" {
			s += fmt.Sprintf(" (%s)", e.Year)
		}
		if e.GPA != "" {
			s += " | GPA: " + e.GPA
		}
		return s
	})

	if r.TechnicalSkills.Len() > 0 || indexed {
		sb.WriteString("\nTechnical Skills:\n")
		if r.TechnicalSkills.Len() == 0 {
			sb.WriteString("  (none)\n")
		}
		for _, cat := range r.TechnicalSkills.Entries() {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", cat.Name, strings.Join(cat.Skills, ", ")))
		}
	}

	section("Work Experience", len(r.WorkExperience), func(i int) string {
		w := r.WorkExperience[i]
		s := joinNonEmpty(" - ", w.Title, w.Company)
		if w.Period != "" {
			s += " | " + w.Period
		}
		return s
	})

	section("Projects", len(r.Projects), func(i int) string {
		pr := r.Projects[i]
		return joinNonEmpty(" | ", pr.Name, pr.Technologies)
	})

	section("Languages", len(r.Languages), func(i int) string {
		l := r.Languages[i]
		if l.Proficiency == "" {
			return l.Language
		}
		return fmt.Sprintf("%s (%s)", l.Language, l.Proficiency)
	})

	section("Certifications", len(r.Certifications), func(i int) string {
		c := r.Certifications[i]
		s := joinNonEmpty(" - ", c.Name, c.Issuer)
		if c.Year != "" {
			s += fmt.Sprintf(" (%s)", c.Year)
		}
		return s
	})

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, sep)
}

// wrap splits text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line string
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}
