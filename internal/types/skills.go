package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TechnicalSkills maps a category name to its ordered skill list.
// Category insertion order is preserved in memory and on the wire.
// The zero value is an empty, ready-to-use set of categories.
type TechnicalSkills struct {
	order  []string
	skills map[string][]string
}

// NewTechnicalSkills builds a TechnicalSkills from (category, skills) pairs in the given order.
// Later duplicates of a category are ignored.
func NewTechnicalSkills(categories ...SkillCategory) TechnicalSkills {
	var ts TechnicalSkills
	for _, c := range categories {
		if ts.Add(c.Name) {
			ts.Set(c.Name, c.Skills)
		}
	}
	return ts
}

// SkillCategory is a single named group of skills.
type SkillCategory struct {
	Name   string
	Skills []string
}

// Len returns the number of categories.
func (ts TechnicalSkills) Len() int {
	return len(ts.order)
}

// Categories returns the category names in insertion order.
func (ts TechnicalSkills) Categories() []string {
	return append([]string(nil), ts.order...)
}

// Has reports whether the category exists.
func (ts TechnicalSkills) Has(category string) bool {
	_, ok := ts.skills[category]
	return ok
}

// Skills returns a copy of the skills of a category.
func (ts TechnicalSkills) Skills(category string) ([]string, bool) {
	s, ok := ts.skills[category]
	if !ok {
		return nil, false
	}
	return append([]string{}, s...), true
}

// Entries returns every category with its skills, in insertion order.
func (ts TechnicalSkills) Entries() []SkillCategory {
	out := make([]SkillCategory, 0, len(ts.order))
	for _, name := range ts.order {
		out = append(out, SkillCategory{Name: name, Skills: append([]string{}, ts.skills[name]...)})
	}
	return out
}

// Add appends a new empty category. It returns false, leaving the existing
// list untouched, when the name is empty or already present.
func (ts *TechnicalSkills) Add(category string) bool {
	if category == "" || ts.Has(category) {
		return false
	}
	if ts.skills == nil {
		ts.skills = make(map[string][]string)
	}
	ts.order = append(ts.order, category)
	ts.skills[category] = []string{}
	return true
}

// Set replaces the skill list of an existing category. Unknown categories are left alone.
func (ts *TechnicalSkills) Set(category string, skills []string) bool {
	if !ts.Has(category) {
		return false
	}
	ts.skills[category] = append([]string{}, skills...)
	return true
}

// Remove deletes a category. It returns false when the category is absent.
func (ts *TechnicalSkills) Remove(category string) bool {
	if !ts.Has(category) {
		return false
	}
	delete(ts.skills, category)
	for i, name := range ts.order {
		if name == category {
			ts.order = append(ts.order[:i:i], ts.order[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy.
func (ts TechnicalSkills) Clone() TechnicalSkills {
	out := TechnicalSkills{
		order:  append([]string(nil), ts.order...),
		skills: make(map[string][]string, len(ts.skills)),
	}
	for k, v := range ts.skills {
		out.skills[k] = append([]string{}, v...)
	}
	return out
}

// MarshalJSON encodes the categories as a JSON object whose keys keep insertion order.
func (ts TechnicalSkills) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range ts.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		skills := ts.skills[name]
		if skills == nil {
			skills = []string{}
		}
		val, err := json.Marshal(skills)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording key order as it appears in the document.
// A null value yields an empty set of categories.
func (ts *TechnicalSkills) UnmarshalJSON(data []byte) error {
	*ts = TechnicalSkills{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("technical_skills: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("technical_skills: expected string key, got %v", tok)
		}

		var skills []string
		if err := dec.Decode(&skills); err != nil {
			return fmt.Errorf("technical_skills: category %q: %w", name, err)
		}
		if ts.Has(name) {
			ts.skills[name] = append([]string{}, skills...)
			continue
		}
		if ts.skills == nil {
			ts.skills = make(map[string][]string)
		}
		ts.order = append(ts.order, name)
		ts.skills[name] = append([]string{}, skills...)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
