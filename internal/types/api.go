package types

// ResumeListItem is the summary projection returned by the admin list endpoint.
// Timestamps are ISO-8601 strings as produced by the server.
type ResumeListItem struct {
	ID        string `json:"id"`
	UserEmail string `json:"user_email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListResponse is one page of resume summaries.
type ListResponse struct {
	Resumes    []ResumeListItem `json:"resumes"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
}

// SubmitResponse is returned when a new resume is accepted.
type SubmitResponse struct {
	Message  string `json:"message,omitempty"`
	ResumeID string `json:"resume_id"`
}

// MessageResponse is the generic acknowledgement body (logout, delete).
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body written by the server.
type ErrorResponse struct {
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

// StoredResume is a full resume together with its server-side identity.
type StoredResume struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	ResumeData
}

// Summary projects a stored resume onto its list item.
func (s *StoredResume) Summary() ResumeListItem {
	return ResumeListItem{
		ID:        s.ID,
		UserEmail: s.UserEmail,
		FullName:  s.FullName,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
