// Package history records finished analyses so past results can be listed.
package history

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/UtsavYadav1/CareerBERT/internal/results"
)

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded analysis. Scores are nil when the server omitted them.
type Entry struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Filename      string    `json:"filename"`
	JobTitle      string    `json:"job_title"`
	Overall       *int      `json:"overall"`
	JobMatch      *int      `json:"job_match"`
	SkillsMatch   *int      `json:"skills_match"`
	MissingSkills []string  `json:"missing_skills"`
	RecSource     string    `json:"rec_source"`
	RecLocation   string    `json:"rec_location"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewEntry builds an entry for results fetched in session.
func NewEntry(sessionID, filename string, r results.Results, now time.Time) Entry {
	missing := r.MissingSkills
	if missing == nil {
		missing = []string{}
	}
	return Entry{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Filename:      filename,
		JobTitle:      r.JobTitle,
		Overall:       score(r.Overall),
		JobMatch:      score(r.JobMatch),
		SkillsMatch:   score(r.SkillsMatch),
		MissingSkills: missing,
		RecSource:     r.RecMeta.Source,
		RecLocation:   r.RecMeta.Location,
		CreatedAt:     now.UTC(),
	}
}

func score(p results.Percent) *int {
	if !p.Valid {
		return nil
	}
	v := p.Value
	return &v
}
