package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

var resumeColumns = []string{
	"id::text", "user_email", "full_name", "phone", "social_links", "profile_summary",
	"education", "technical_skills", "work_experience", "projects", "languages", "certifications",
	"created_at", "updated_at",
}

var summaryColumns = []string{"id::text", "user_email", "full_name", "phone", "created_at", "updated_at"}

// resumeSections holds the JSON encodings of the structured columns.
type resumeSections struct {
	socialLinks, education, skills, work, projects, languages, certifications []byte
}

func encodeSections(r *types.ResumeData) (*resumeSections, error) {
	r.Normalize()
	var s resumeSections
	fields := []struct {
		dst *[]byte
		val any
	}{
		{&s.socialLinks, r.SocialLinks},
		{&s.education, r.Education},
		{&s.skills, r.TechnicalSkills},
		{&s.work, r.WorkExperience},
		{&s.projects, r.Projects},
		{&s.languages, r.Languages},
		{&s.certifications, r.Certifications},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.val)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal resume section: %w", err)
		}
		*f.dst = b
	}
	return &s, nil
}

func (s *resumeSections) decode(r *types.ResumeData) error {
	fields := []struct {
		src []byte
		dst any
	}{
		{s.socialLinks, &r.SocialLinks},
		{s.education, &r.Education},
		{s.skills, &r.TechnicalSkills},
		{s.work, &r.WorkExperience},
		{s.projects, &r.Projects},
		{s.languages, &r.Languages},
		{s.certifications, &r.Certifications},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return fmt.Errorf("failed to unmarshal resume section: %w", err)
		}
	}
	r.Normalize()
	return nil
}

func insertResumeQuery(id uuid.UUID, r *types.ResumeData, s *resumeSections) sq.InsertBuilder {
	return psql.Insert("resumes").
		Columns("id", "user_email", "full_name", "phone", "social_links", "profile_summary",
			"education", "technical_skills", "work_experience", "projects", "languages", "certifications").
		Values(id, r.UserEmail, r.FullName, r.Phone, s.socialLinks, r.ProfileSummary,
			s.education, s.skills, s.work, s.projects, s.languages, s.certifications).
		Suffix("RETURNING created_at, updated_at")
}

func listResumesQuery(page, perPage int) sq.SelectBuilder {
	return psql.Select(summaryColumns...).
		From("resumes").
		OrderBy("created_at DESC", "id").
		Limit(uint64(perPage)).
		Offset(uint64(offset(page, perPage)))
}

func countResumesQuery() sq.SelectBuilder {
	return psql.Select("COUNT(*)").From("resumes")
}

func getResumeQuery(id uuid.UUID) sq.SelectBuilder {
	return psql.Select(resumeColumns...).From("resumes").Where(sq.Eq{"id": id})
}

func deleteResumeQuery(id uuid.UUID) sq.DeleteBuilder {
	return psql.Delete("resumes").Where(sq.Eq{"id": id})
}

// CreateResume stores a new resume under a fresh id.
func (db *DB) CreateResume(ctx context.Context, r *types.ResumeData) (*types.StoredResume, error) {
	data := r.Clone()
	sections, err := encodeSections(data)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	query, args, err := insertResumeQuery(id, data, sections).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	var createdAt, updatedAt time.Time
	if err := db.pool.QueryRow(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert resume: %w", err)
	}

	return &types.StoredResume{
		ID:         id.String(),
		CreatedAt:  formatTime(createdAt),
		UpdatedAt:  formatTime(updatedAt),
		ResumeData: *data,
	}, nil
}

// ListResumes returns one page of resume summaries, newest first.
func (db *DB) ListResumes(ctx context.Context, page, perPage int) ([]types.ResumeListItem, int, error) {
	countSQL, countArgs, err := countResumesQuery().ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int
	if err := db.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count resumes: %w", err)
	}

	query, args, err := listResumesQuery(page, perPage).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	items := []types.ResumeListItem{}
	for rows.Next() {
		var item types.ResumeListItem
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&item.ID, &item.UserEmail, &item.FullName, &item.Phone, &createdAt, &updatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan resume: %w", err)
		}
		item.CreatedAt = formatTime(createdAt)
		item.UpdatedAt = formatTime(updatedAt)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating resumes: %w", err)
	}
	return items, total, nil
}

// GetResume returns the full resume, or ErrNotFound.
func (db *DB) GetResume(ctx context.Context, id string) (*types.StoredResume, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	query, args, err := getResumeQuery(uid).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get query: %w", err)
	}

	var stored types.StoredResume
	var sections resumeSections
	var createdAt, updatedAt time.Time
	err = db.pool.QueryRow(ctx, query, args...).Scan(
		&stored.ID, &stored.UserEmail, &stored.FullName, &stored.Phone, &sections.socialLinks,
		&stored.ProfileSummary, &sections.education, &sections.skills, &sections.work,
		&sections.projects, &sections.languages, &sections.certifications, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if err := sections.decode(&stored.ResumeData); err != nil {
		return nil, err
	}
	stored.CreatedAt = formatTime(createdAt)
	stored.UpdatedAt = formatTime(updatedAt)
	return &stored, nil
}

// DeleteResume removes a resume, returning ErrNotFound when nothing was deleted.
func (db *DB) DeleteResume(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	query, args, err := deleteResumeQuery(uid).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	tag, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
