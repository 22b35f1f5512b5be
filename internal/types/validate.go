package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{7,20}$`)
	urlPattern   = regexp.MustCompile(`(?i)^https?://` +
		`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
		`localhost|` +
		`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+)$`)

	resumeValidator     *validator.Validate
	resumeValidatorOnce sync.Once
)

// Validator returns the shared validator with the resume-specific rules registered
// ("phone", "weburl") and JSON field names reported in errors.
func Validator() *validator.Validate {
	resumeValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
			return urlPattern.MatchString(fl.Field().String())
		})
		resumeValidator = v
	})
	return resumeValidator
}

// Validate checks the full rule set of a resume.
func (r *ResumeData) Validate() error {
	return Validator().Struct(r)
}

// CheckRequired checks only the required fields: a non-blank full name and a
// well-formed email address.
func (r *ResumeData) CheckRequired() error {
	var problems []string
	if strings.TrimSpace(r.FullName) == "" {
		problems = append(problems, "Full name is required")
	}
	switch {
	case strings.TrimSpace(r.UserEmail) == "":
		problems = append(problems, "Email is required")
	case Validator().Var(r.UserEmail, "email") != nil:
		problems = append(problems, "Invalid email format")
	}
	if len(problems) > 0 {
		return &ResumeValidationError{Problems: problems}
	}
	return nil
}

// ResumeValidationError lists human-readable validation problems.
type ResumeValidationError struct {
	Problems []string
}

func (e *ResumeValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// ValidationMessages converts a validation error into human-readable messages.
// Errors that did not come from the validator are returned as a single message.
func ValidationMessages(err error) []string {
	if err == nil {
		return nil
	}

	var rve *ResumeValidationError
	if errors.As(err, &rve) {
		return append([]string(nil), rve.Problems...)
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(ves))
	for _, fe := range ves {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch {
	case field == "full_name" && fe.Tag() == "required":
		return "Full name is required"
	case field == "full_name":
		return "Full name is too long"
	case field == "user_email" && fe.Tag() == "required":
		return "Email is required"
	case field == "user_email":
		return "Invalid email format"
	case field == "phone":
		return "Invalid phone number format"
	case strings.HasPrefix(field, "social_links["):
		key := strings.TrimSuffix(strings.TrimPrefix(field, "social_links["), "]")
		return fmt.Sprintf("Invalid URL for %s", key)
	case field == "profile_summary":
		return "Profile summary is too long (max 5000 characters)"
	case field == "email" && fe.Tag() == "required":
		return "Email is required"
	case field == "email":
		return "Invalid email format"
	case field == "password":
		return "Password is required"
	default:
		return fmt.Sprintf("validation error: %s - %s", field, fe.Tag())
	}
}
