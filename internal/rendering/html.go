package rendering

import (
	_ "embed"
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed resume.html.tmpl
var resumeTemplate string

var (
	parseOnce  sync.Once
	parsedTmpl *template.Template
	parseErr   error
)

// TemplateData is the view of a resume passed to the HTML template.
type TemplateData struct {
	FullName       string
	Contact        []string
	ProfileSummary string
	Education      []types.Education
	Skills         []types.SkillCategory
	WorkExperience []types.WorkExperience
	Projects       []types.Project
	Languages      []string
	Certifications []types.Certification
}

// NewTemplateData builds the template view of a resume. Contact lists phone,
// email, then every non-empty social link as "platform: url" in platform order.
func NewTemplateData(r *types.ResumeData) TemplateData {
	data := TemplateData{
		FullName:       r.FullName,
		ProfileSummary: r.ProfileSummary,
		Education:      r.Education,
		Skills:         r.TechnicalSkills.Entries(),
		WorkExperience: r.WorkExperience,
		Projects:       r.Projects,
		Certifications: r.Certifications,
	}
	if r.Phone != "" {
		data.Contact = append(data.Contact, r.Phone)
	}
	if r.UserEmail != "" {
		data.Contact = append(data.Contact, r.UserEmail)
	}
	for _, platform := range slices.Sorted(maps.Keys(r.SocialLinks)) {
		if url := r.SocialLinks[platform]; url != "" {
			data.Contact = append(data.Contact, fmt.Sprintf("%s: %s", platform, url))
		}
	}
	for _, l := range r.Languages {
		data.Languages = append(data.Languages, fmt.Sprintf("%s (%s)", l.Language, l.Proficiency))
	}
	return data
}

func resumeHTMLTemplate() (*template.Template, error) {
	parseOnce.Do(func() {
		parsedTmpl, parseErr = template.New("resume").
			Funcs(template.FuncMap{"join": strings.Join}).
			Parse(resumeTemplate)
	})
	if parseErr != nil {
		return nil, &TemplateError{Message: "failed to parse resume template", Cause: parseErr}
	}
	return parsedTmpl, nil
}

// RenderHTML renders a resume as a standalone HTML document. All resume text is escaped.
func RenderHTML(r *types.ResumeData) (string, error) {
	if r == nil {
		return "", &RenderError{Message: "resume is nil"}
	}
	tmpl, err := resumeHTMLTemplate()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, NewTemplateData(r)); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}
