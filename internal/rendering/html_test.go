package rendering

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() *types.ResumeData {
	r := types.NewResumeData()
	r.FullName = "Jane Doe"
	r.UserEmail = "jane@example.com"
	r.Phone = "555-0100"
	r.SocialLinks[types.SocialGitHub] = "https://github.com/jane"
	r.ProfileSummary = "Engineer."
	r.Education = []types.Education{{Degree: "BSc", Institution: "MIT", Year: "2015"}}
	r.TechnicalSkills = types.NewTechnicalSkills(
		types.SkillCategory{Name: "Languages", Skills: []string{"Go", "SQL"}},
		types.SkillCategory{Name: "Cloud", Skills: []string{"AWS"}},
	)
	r.WorkExperience = []types.WorkExperience{{Title: "Engineer", Company: "Acme", Period: "2016-2024", Description: "Built things."}}
	r.Languages = []types.Language{{Language: "English", Proficiency: "Native"}}
	r.Certifications = []types.Certification{{Name: "CKA", Issuer: "CNCF", Year: "2022"}}
	return r
}

func TestNewTemplateData(t *testing.T) {
	data := NewTemplateData(sampleResume())
	assert.Equal(t, []string{"555-0100", "jane@example.com", "github: https://github.com/jane"}, data.Contact)
	assert.Equal(t, []string{"English (Native)"}, data.Languages)
	require.Len(t, data.Skills, 2)
	assert.Equal(t, "Languages", data.Skills[0].Name)
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(sampleResume())
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Jane Doe</h1>")
	assert.Contains(t, html, "555-0100 | jane@example.com | github: https://github.com/jane")
	assert.Contains(t, html, "<b>BSc</b> - MIT (2015)")
	assert.Contains(t, html, "<b>Languages:</b> Go, SQL")
	assert.Contains(t, html, "<b>Engineer</b> - Acme | 2016-2024")
	assert.Contains(t, html, "<b>CKA</b> - CNCF (2022)")
	assert.Contains(t, html, "English (Native)")
	assert.NotContains(t, html, "Projects")
	assert.Less(t, strings.Index(html, "Languages:"), strings.Index(html, "Cloud:"), "skill categories keep insertion order")
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	r := sampleResume()
	r.FullName = `<script>alert("x")</script>`
	r.ProfileSummary = "Tom & Jerry"

	html, err := RenderHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Tom &amp; Jerry")
}

func TestRenderHTML_Nil(t *testing.T) {
	_, err := RenderHTML(nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
}

type stubRenderer struct {
	pdf  []byte
	err  error
	html string
}

func (s *stubRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	s.html = html
	return s.pdf, s.err
}

func TestRenderResumePDF(t *testing.T) {
	stub := &stubRenderer{pdf: []byte("%PDF-1.4")}
	pdf, err := RenderResumePDF(context.Background(), sampleResume(), stub)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Contains(t, stub.html, "Jane Doe")
}

func TestRenderResumePDF_Errors(t *testing.T) {
	_, err := RenderResumePDF(context.Background(), sampleResume(), &stubRenderer{err: errors.New("chrome missing")})
	assert.EqualError(t, err, "chrome missing")

	_, err = RenderResumePDF(context.Background(), sampleResume(), &stubRenderer{})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "empty document")
}

func TestErrorTypes(t *testing.T) {
	cause := errors.New("boom")
	tErr := &TemplateError{Message: "bad", Cause: cause}
	assert.Equal(t, "template error: bad: boom", tErr.Error())
	assert.ErrorIs(t, tErr, cause)

	rErr := &RenderError{Message: "bad"}
	assert.Equal(t, "render error: bad", rErr.Error())
}

func TestChromeRenderer(t *testing.T) {
	execPath := os.Getenv("CHROME_PATH")
	if execPath == "" {
		t.Skip("CHROME_PATH not set, skipping headless chrome test")
	}

	pdf, err := RenderResumePDF(context.Background(), sampleResume(), NewChromeRenderer(execPath, 0))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}
