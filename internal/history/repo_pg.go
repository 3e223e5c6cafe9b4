package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, session_id, filename, job_title, overall, job_match, skills_match,
       missing_skills, rec_source, rec_location, created_at`

// Create inserts a new entry.
func (r *PGRepo) Create(ctx context.Context, e Entry) error {
	const query = `
INSERT INTO analysis_history (
	id, session_id, filename, job_title, overall, job_match, skills_match,
	missing_skills, rec_source, rec_location, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	missing := e.MissingSkills
	if missing == nil {
		missing = []string{}
	}
	payload, err := json.Marshal(missing)
	if err != nil {
		return fmt.Errorf("marshal missing skills: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		e.ID,
		e.SessionID,
		e.Filename,
		e.JobTitle,
		nullInt(e.Overall),
		nullInt(e.JobMatch),
		nullInt(e.SkillsMatch),
		string(payload),
		e.RecSource,
		e.RecLocation,
		e.CreatedAt,
	)
	return err
}

// GetByID returns an entry by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Entry, error) {
	query := `
SELECT ` + selectColumns + `
FROM analysis_history
WHERE id = $1
LIMIT 1`
	e, err := scanEntry(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// ListRecent returns entries newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + selectColumns + `
FROM analysis_history
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var overall, jobMatch, skillsMatch sql.NullInt64
	var missing []byte
	if err := s.Scan(
		&e.ID,
		&e.SessionID,
		&e.Filename,
		&e.JobTitle,
		&overall,
		&jobMatch,
		&skillsMatch,
		&missing,
		&e.RecSource,
		&e.RecLocation,
		&e.CreatedAt,
	); err != nil {
		return Entry{}, err
	}
	e.Overall = intPtr(overall)
	e.JobMatch = intPtr(jobMatch)
	e.SkillsMatch = intPtr(skillsMatch)
	e.MissingSkills = []string{}
	if len(missing) > 0 {
		if err := json.Unmarshal(missing, &e.MissingSkills); err != nil {
			return Entry{}, fmt.Errorf("decode missing skills: %w", err)
		}
	}
	return e, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

var _ Repo = (*PGRepo)(nil)
