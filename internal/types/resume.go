// Package types provides type definitions for structured data used throughout the resume-builder system.
package types

// Default social platforms pre-seeded on every new draft.
const (
	SocialLinkedIn  = "linkedin"
	SocialGitHub    = "github"
	SocialPortfolio = "portfolio"
)

// SocialLinks maps a platform name to a profile URL. Keys are open-ended.
type SocialLinks map[string]string

// Education represents one entry of the education section.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	GPA         string `json:"gpa,omitempty"`
}

// WorkExperience represents one entry of the work experience section.
type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Project represents one entry of the projects section.
type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
}

// Language represents a spoken language and the candidate's proficiency.
type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// Certification represents one entry of the certifications section.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// ResumeData is the submission unit: the full resume sent atomically to the server.
type ResumeData struct {
	FullName        string           `json:"full_name" validate:"required,max=255"`
	UserEmail       string           `json:"user_email" validate:"required,email"`
	Phone           string           `json:"phone" validate:"omitempty,phone"`
	SocialLinks     SocialLinks      `json:"social_links" validate:"dive,omitempty,weburl"`
	ProfileSummary  string           `json:"profile_summary" validate:"max=5000"`
	Education       []Education      `json:"education"`
	TechnicalSkills TechnicalSkills  `json:"technical_skills"`
	WorkExperience  []WorkExperience `json:"work_experience"`
	Projects        []Project        `json:"projects"`
	Languages       []Language       `json:"languages"`
	Certifications  []Certification  `json:"certifications"`
}

// NewResumeData returns an empty draft with the default social platforms pre-seeded
// and every repeatable section initialized to an empty, non-nil sequence.
func NewResumeData() *ResumeData {
	return &ResumeData{
		SocialLinks: SocialLinks{
			SocialLinkedIn:  "",
			SocialGitHub:    "",
			SocialPortfolio: "",
		},
		Education:      []Education{},
		WorkExperience: []WorkExperience{},
		Projects:       []Project{},
		Languages:      []Language{},
		Certifications: []Certification{},
	}
}

// Normalize replaces nil collections with empty ones so the resume always encodes
// sections as [] / {} rather than null.
func (r *ResumeData) Normalize() {
	if r.SocialLinks == nil {
		r.SocialLinks = SocialLinks{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.WorkExperience == nil {
		r.WorkExperience = []WorkExperience{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Languages == nil {
		r.Languages = []Language{}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
}

// Clone returns a deep copy of the resume. Mutating the copy never affects the original.
func (r *ResumeData) Clone() *ResumeData {
	if r == nil {
		return nil
	}

	out := *r
	out.SocialLinks = make(SocialLinks, len(r.SocialLinks))
	for k, v := range r.SocialLinks {
		out.SocialLinks[k] = v
	}
	out.Education = append([]Education{}, r.Education...)
	out.WorkExperience = append([]WorkExperience{}, r.WorkExperience...)
	out.Projects = append([]Project{}, r.Projects...)
	out.Languages = append([]Language{}, r.Languages...)
	out.Certifications = append([]Certification{}, r.Certifications...)
	out.TechnicalSkills = r.TechnicalSkills.Clone()
	return &out
}
