package server

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-builder/internal/types"
)

// StripTags removes HTML markup from s, keeping only its text content.
// Entities are decoded. Strings without markup are returned unchanged.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// SanitizeResume returns a copy of r with markup stripped from every string,
// including social platform names, skill category names and skills.
func SanitizeResume(r *types.ResumeData) *types.ResumeData {
	out := r.Clone()
	out.FullName = StripTags(out.FullName)
	out.UserEmail = StripTags(out.UserEmail)
	out.Phone = StripTags(out.Phone)
	out.ProfileSummary = StripTags(out.ProfileSummary)

	links := make(types.SocialLinks, len(out.SocialLinks))
	for platform, url := range out.SocialLinks {
		links[StripTags(platform)] = StripTags(url)
	}
	out.SocialLinks = links

	for i := range out.Education {
		e := &out.Education[i]
		e.Degree, e.Institution, e.Year, e.GPA = StripTags(e.Degree), StripTags(e.Institution), StripTags(e.Year), StripTags(e.GPA)
	}
	for i := range out.WorkExperience {
		w := &out.WorkExperience[i]
		w.Title, w.Company, w.Period, w.Description = StripTags(w.Title), StripTags(w.Company), StripTags(w.Period), StripTags(w.Description)
	}
	for i := range out.Projects {
		p := &out.Projects[i]
		p.Name, p.Description, p.Technologies = StripTags(p.Name), StripTags(p.Description), StripTags(p.Technologies)
	}
	for i := range out.Languages {
		l := &out.Languages[i]
		l.Language, l.Proficiency = StripTags(l.Language), StripTags(l.Proficiency)
	}
	for i := range out.Certifications {
		c := &out.Certifications[i]
		c.Name, c.Issuer, c.Year = StripTags(c.Name), StripTags(c.Issuer), StripTags(c.Year)
	}

	var skills types.TechnicalSkills
	for _, category := range out.TechnicalSkills.Entries() {
		name := StripTags(category.Name)
		if !skills.Add(name) {
			continue
		}
		cleaned := make([]string, len(category.Skills))
		for i, skill := range category.Skills {
			cleaned[i] = StripTags(skill)
		}
		skills.Set(name, cleaned)
	}
	out.TechnicalSkills = skills
	return out
}
