package admin

import "github.com/jonathan/resume-builder/internal/types"

// Snapshot is a consistent copy of what the console displays.
type Snapshot struct {
	Authenticated bool
	View          View
	Page          int
	PerPage       int
	Total         int
	TotalPages    int
	Resumes       []types.ResumeListItem
	SelectedID    string
	Selected      *types.ResumeData
	Err           error
}

// HasPrev reports whether a previous page exists.
func (s Snapshot) HasPrev() bool {
	return s.Page > 1
}

// HasNext reports whether a next page exists.
func (s Snapshot) HasNext() bool {
	return s.Page < s.TotalPages
}

// Snapshot returns the current console state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Authenticated: c.session.Authenticated(),
		View:          c.view,
		Page:          c.page,
		PerPage:       c.perPage,
		SelectedID:    c.selectedID,
		Selected:      c.selected.Clone(),
		Err:           c.lastErr,
	}
	if c.list != nil {
		s.Total = c.list.Total
		s.TotalPages = c.list.TotalPages
		s.Resumes = append([]types.ResumeListItem(nil), c.list.Resumes...)
	}
	return s
}

// Err returns the error of the last failed action.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
