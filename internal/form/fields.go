package form

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Section names a repeatable section of the resume.
type Section int

const (
	SectionEducation Section = iota + 1
	SectionWorkExperience
	SectionProjects
	SectionLanguages
	SectionCertifications
)

var sectionNames = map[Section]string{
	SectionEducation:      "education",
	SectionWorkExperience: "work_experience",
	SectionProjects:       "projects",
	SectionLanguages:      "languages",
	SectionCertifications: "certifications",
}

var sectionAliases = map[string]Section{
	"education":       SectionEducation,
	"edu":             SectionEducation,
	"work":            SectionWorkExperience,
	"work_experience": SectionWorkExperience,
	"experience":      SectionWorkExperience,
	"project":         SectionProjects,
	"projects":        SectionProjects,
	"language":        SectionLanguages,
	"languages":       SectionLanguages,
	"certification":   SectionCertifications,
	"certifications":  SectionCertifications,
	"cert":            SectionCertifications,
}

func (s Section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// ParseSection resolves a section name or alias.
func ParseSection(name string) (Section, bool) {
	s, ok := sectionAliases[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// EducationField names one field of an Education record.
type EducationField int

const (
	EducationDegree EducationField = iota + 1
	EducationInstitution
	EducationYear
	EducationGPA
)

func (f EducationField) set(e *types.Education, v string) bool {
	switch f {
	case EducationDegree:
		e.Degree = v
	case EducationInstitution:
		e.Institution = v
	case EducationYear:
		e.Year = v
	case EducationGPA:
		e.GPA = v
	default:
		return false
	}
	return true
}

// WorkField names one field of a WorkExperience record.
type WorkField int

const (
	WorkTitle WorkField = iota + 1
	WorkCompany
	WorkPeriod
	WorkDescription
)

func (f WorkField) set(w *types.WorkExperience, v string) bool {
	switch f {
	case WorkTitle:
		w.Title = v
	case WorkCompany:
		w.Company = v
	case WorkPeriod:
		w.Period = v
	case WorkDescription:
		w.Description = v
	default:
		return false
	}
	return true
}

// ProjectField names one field of a Project record.
type ProjectField int

const (
	ProjectName ProjectField = iota + 1
	ProjectDescription
	ProjectTechnologies
)

func (f ProjectField) set(p *types.Project, v string) bool {
	switch f {
	case ProjectName:
		p.Name = v
	case ProjectDescription:
		p.Description = v
	case ProjectTechnologies:
		p.Technologies = v
	default:
		return false
	}
	return true
}

// LanguageField names one field of a Language record.
type LanguageField int

const (
	LanguageName LanguageField = iota + 1
	LanguageProficiency
)

func (f LanguageField) set(l *types.Language, v string) bool {
	switch f {
	case LanguageName:
		l.Language = v
	case LanguageProficiency:
		l.Proficiency = v
	default:
		return false
	}
	return true
}

// CertificationField names one field of a Certification record.
type CertificationField int

const (
	CertificationName CertificationField = iota + 1
	CertificationIssuer
	CertificationYear
)

func (f CertificationField) set(c *types.Certification, v string) bool {
	switch f {
	case CertificationName:
		c.Name = v
	case CertificationIssuer:
		c.Issuer = v
	case CertificationYear:
		c.Year = v
	default:
		return false
	}
	return true
}

// field name tables used by the command parser; keys are the JSON names.
var (
	educationFields = map[string]EducationField{
		"degree":      EducationDegree,
		"institution": EducationInstitution,
		"year":        EducationYear,
		"gpa":         EducationGPA,
	}
	workFields = map[string]WorkField{
		"title":       WorkTitle,
		"company":     WorkCompany,
		"period":      WorkPeriod,
		"description": WorkDescription,
	}
	projectFields = map[string]ProjectField{
		"name":         ProjectName,
		"description":  ProjectDescription,
		"technologies": ProjectTechnologies,
	}
	languageFields = map[string]LanguageField{
		"language":    LanguageName,
		"proficiency": LanguageProficiency,
	}
	certificationFields = map[string]CertificationField{
		"name":   CertificationName,
		"issuer": CertificationIssuer,
		"year":   CertificationYear,
	}
)
