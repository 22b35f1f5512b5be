package form

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Edit is one structural change to a draft. The set of edits is closed:
// values are created only through the constructors in this package.
type Edit interface {
	apply(r *types.ResumeData) bool
}

type editFunc func(r *types.ResumeData) bool

func (f editFunc) apply(r *types.ResumeData) bool { return f(r) }

// SetFullName replaces the candidate name.
func SetFullName(v string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.FullName = v
		return true
	})
}

// SetEmail replaces the contact email.
func SetEmail(v string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.UserEmail = v
		return true
	})
}

// SetPhone replaces the phone number.
func SetPhone(v string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.Phone = v
		return true
	})
}

// SetProfileSummary replaces the free-text summary.
func SetProfileSummary(v string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.ProfileSummary = v
		return true
	})
}

// SetSocialLink sets the URL for a platform. New platforms are added.
func SetSocialLink(platform, url string) Edit {
	platform = strings.TrimSpace(platform)
	return editFunc(func(r *types.ResumeData) bool {
		if platform == "" {
			return false
		}
		if r.SocialLinks == nil {
			r.SocialLinks = types.SocialLinks{}
		}
		r.SocialLinks[platform] = url
		return true
	})
}

// AddEducation appends an empty education record.
func AddEducation() Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.Education = append(r.Education, types.Education{})
		return true
	})
}

// UpdateEducation sets one field of the education record at index.
func UpdateEducation(index int, field EducationField, value string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return updateAt(r.Education, index, func(e *types.Education) bool { return field.set(e, value) })
	})
}

// RemoveEducation deletes the education record at index.
func RemoveEducation(index int) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return removeAt(&r.Education, index)
	})
}

// AddWorkExperience appends an empty work experience record.
func AddWorkExperience() Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.WorkExperience = append(r.WorkExperience, types.WorkExperience{})
		return true
	})
}

// UpdateWorkExperience sets one field of the work experience record at index.
func UpdateWorkExperience(index int, field WorkField, value string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return updateAt(r.WorkExperience, index, func(w *types.WorkExperience) bool { return field.set(w, value) })
	})
}

// RemoveWorkExperience deletes the work experience record at index.
func RemoveWorkExperience(index int) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return removeAt(&r.WorkExperience, index)
	})
}

// AddProject appends an empty project record.
func AddProject() Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.Projects = append(r.Projects, types.Project{})
		return true
	})
}

// UpdateProject sets one field of the project record at index.
func UpdateProject(index int, field ProjectField, value string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return updateAt(r.Projects, index, func(p *types.Project) bool { return field.set(p, value) })
	})
}

// RemoveProject deletes the project record at index.
func RemoveProject(index int) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return removeAt(&r.Projects, index)
	})
}

// AddLanguage appends an empty language record.
func AddLanguage() Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.Languages = append(r.Languages, types.Language{})
		return true
	})
}

// UpdateLanguage sets one field of the language record at index.
func UpdateLanguage(index int, field LanguageField, value string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return updateAt(r.Languages, index, func(l *types.Language) bool { return field.set(l, value) })
	})
}

// RemoveLanguage deletes the language record at index.
func RemoveLanguage(index int) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return removeAt(&r.Languages, index)
	})
}

// AddCertification appends an empty certification record.
func AddCertification() Edit {
	return editFunc(func(r *types.ResumeData) bool {
		r.Certifications = append(r.Certifications, types.Certification{})
		return true
	})
}

// UpdateCertification sets one field of the certification record at index.
func UpdateCertification(index int, field CertificationField, value string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return updateAt(r.Certifications, index, func(c *types.Certification) bool { return field.set(c, value) })
	})
}

// RemoveCertification deletes the certification record at index.
func RemoveCertification(index int) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return removeAt(&r.Certifications, index)
	})
}

// AddSkillCategory inserts an empty category at the end. The name is trimmed;
// an empty or existing name changes nothing.
func AddSkillCategory(name string) Edit {
	name = strings.TrimSpace(name)
	return editFunc(func(r *types.ResumeData) bool {
		return r.TechnicalSkills.Add(name)
	})
}

// UpdateSkillCategory replaces the skills of an existing category with the
// comma separated values in raw.
func UpdateSkillCategory(category, raw string) Edit {
	skills := ParseSkills(raw)
	return editFunc(func(r *types.ResumeData) bool {
		return r.TechnicalSkills.Set(category, skills)
	})
}

// RemoveSkillCategory deletes a category.
func RemoveSkillCategory(category string) Edit {
	return editFunc(func(r *types.ResumeData) bool {
		return r.TechnicalSkills.Remove(category)
	})
}

// AddSection appends an empty record to the given section.
func AddSection(s Section) Edit {
	switch s {
	case SectionEducation:
		return AddEducation()
	case SectionWorkExperience:
		return AddWorkExperience()
	case SectionProjects:
		return AddProject()
	case SectionLanguages:
		return AddLanguage()
	case SectionCertifications:
		return AddCertification()
	}
	return noop{}
}

// RemoveSection deletes the record at index from the given section.
func RemoveSection(s Section, index int) Edit {
	switch s {
	case SectionEducation:
		return RemoveEducation(index)
	case SectionWorkExperience:
		return RemoveWorkExperience(index)
	case SectionProjects:
		return RemoveProject(index)
	case SectionLanguages:
		return RemoveLanguage(index)
	case SectionCertifications:
		return RemoveCertification(index)
	}
	return noop{}
}

type noop struct{}

func (noop) apply(*types.ResumeData) bool { return false }

// updateAt mutates items[index] in place. Out-of-range indexes are ignored.
func updateAt[T any](items []T, index int, set func(*T) bool) bool {
	if index < 0 || index >= len(items) {
		return false
	}
	return set(&items[index])
}

// removeAt deletes items[index], shifting later records down. The result never
// shares its tail with the previous backing array.
func removeAt[T any](items *[]T, index int) bool {
	s := *items
	if index < 0 || index >= len(s) {
		return false
	}
	*items = append(s[:index:index], s[index+1:]...)
	return true
}
