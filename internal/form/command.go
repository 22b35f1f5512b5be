package form

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandError reports a line that could not be turned into an edit.
type CommandError struct {
	Line   string
	Reason string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Line, e.Reason)
}

// CommandHelp describes the edit commands understood by ParseCommand.
const CommandHelp = `set <full_name|email|phone|summary> <value>
link <platform> <url>
add <education|work|project|language|certification>
update <section> <index> <field> <value>
remove <section> <index>
skills add <category>
skills set <category> <skill, skill, ...>
skills remove <category>
Indexes start at 0. Quote category names that contain spaces.`

// ParseCommand translates one line of the terminal form into an Edit.
func ParseCommand(line string) (Edit, error) {
	fail := func(format string, args ...any) (Edit, error) {
		return nil, &CommandError{Line: line, Reason: fmt.Sprintf(format, args...)}
	}

	verb, rest, err := nextToken(line)
	if err != nil {
		return fail("%v", err)
	}

	switch strings.ToLower(verb) {
	case "":
		return fail("empty command")

	case "set":
		field, value, err := nextToken(rest)
		if err != nil || field == "" {
			return fail("missing field name")
		}
		switch strings.ToLower(field) {
		case "full_name", "name":
			return SetFullName(value), nil
		case "email", "user_email":
			return SetEmail(value), nil
		case "phone":
			return SetPhone(value), nil
		case "summary", "profile_summary":
			return SetProfileSummary(value), nil
		}
		return fail("unknown field %q", field)

	case "link":
		platform, url, err := nextToken(rest)
		if err != nil || platform == "" {
			return fail("missing platform")
		}
		return SetSocialLink(strings.ToLower(platform), url), nil

	case "add":
		section, err := parseSection(rest)
		if err != nil {
			return fail("%v", err)
		}
		return AddSection(section), nil

	case "remove":
		name, tail, _ := nextToken(rest)
		section, err := parseSection(name)
		if err != nil {
			return fail("%v", err)
		}
		index, _, err := parseIndex(tail)
		if err != nil {
			return fail("%v", err)
		}
		return RemoveSection(section, index), nil

	case "update":
		name, tail, _ := nextToken(rest)
		section, err := parseSection(name)
		if err != nil {
			return fail("%v", err)
		}
		index, tail, err := parseIndex(tail)
		if err != nil {
			return fail("%v", err)
		}
		field, value, err := nextToken(tail)
		if err != nil || field == "" {
			return fail("missing field name")
		}
		edit, ok := updateEdit(section, index, strings.ToLower(field), value)
		if !ok {
			return fail("unknown %s field %q", section, field)
		}
		return edit, nil

	case "skills", "skill":
		return parseSkillsCommand(line, rest)
	}

	return fail("unknown command %q", verb)
}

func parseSkillsCommand(line, rest string) (Edit, error) {
	fail := func(format string, args ...any) (Edit, error) {
		return nil, &CommandError{Line: line, Reason: fmt.Sprintf(format, args...)}
	}

	op, rest, err := nextToken(rest)
	if err != nil {
		return fail("%v", err)
	}
	switch strings.ToLower(op) {
	case "add":
		name, err := categoryName(rest)
		if err != nil {
			return fail("%v", err)
		}
		return AddSkillCategory(name), nil
	case "set":
		name, raw, err := nextToken(rest)
		if err != nil || name == "" {
			return fail("missing category name")
		}
		return UpdateSkillCategory(name, raw), nil
	case "remove":
		name, err := categoryName(rest)
		if err != nil {
			return fail("%v", err)
		}
		return RemoveSkillCategory(name), nil
	}
	return fail("unknown skills operation %q", op)
}

func updateEdit(section Section, index int, field, value string) (Edit, bool) {
	switch section {
	case SectionEducation:
		if f, ok := educationFields[field]; ok {
			return UpdateEducation(index, f, value), true
		}
	case SectionWorkExperience:
		if f, ok := workFields[field]; ok {
			return UpdateWorkExperience(index, f, value), true
		}
	case SectionProjects:
		if f, ok := projectFields[field]; ok {
			return UpdateProject(index, f, value), true
		}
	case SectionLanguages:
		if f, ok := languageFields[field]; ok {
			return UpdateLanguage(index, f, value), true
		}
	case SectionCertifications:
		if f, ok := certificationFields[field]; ok {
			return UpdateCertification(index, f, value), true
		}
	}
	return nil, false
}

func parseSection(s string) (Section, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing section")
	}
	section, ok := ParseSection(s)
	if !ok {
		return 0, fmt.Errorf("unknown section %q", s)
	}
	return section, nil
}

func parseIndex(s string) (int, string, error) {
	tok, rest, err := nextToken(s)
	if err != nil {
		return 0, "", err
	}
	if tok == "" {
		return 0, "", fmt.Errorf("missing index")
	}
	index, err := strconv.Atoi(tok)
	if err != nil {
		return 0, "", fmt.Errorf("index %q is not a number", tok)
	}
	return index, rest, nil
}

// categoryName accepts either a quoted name or the rest of the line.
func categoryName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		name, rest, err := nextToken(s)
		if err != nil {
			return "", err
		}
		if rest != "" {
			return "", fmt.Errorf("unexpected text after category name")
		}
		s = name
	}
	if s == "" {
		return "", fmt.Errorf("missing category name")
	}
	return s, nil
}

// nextToken splits off the first whitespace separated or double quoted token.
// The remainder is returned with leading whitespace removed.
func nextToken(s string) (tok, rest string, err error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", nil
	}
	if s[0] == '"' {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated quote")
		}
		return s[1 : end+1], strings.TrimLeft(s[end+2:], " \t"), nil
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimLeft(s[i:], " \t"), nil
	}
	return s, "", nil
}
