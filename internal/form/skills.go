package form

import "strings"

// ParseSkills splits comma separated text into trimmed, non-empty skills.
// ParseSkills(JoinSkills(s)) == s for any s whose items contain no commas.
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, piece := range strings.Split(raw, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			skills = append(skills, piece)
		}
	}
	return skills
}

// JoinSkills renders a skill list the way the form displays it.
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
