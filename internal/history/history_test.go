package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/UtsavYadav1/CareerBERT/internal/results"
)

func TestNewEntryKeepsMissingScoresNil(t *testing.T) {
	r := results.Results{
		Overall:  results.P(72),
		JobTitle: "Go Developer",
		RecMeta:  results.RecMeta{Source: results.SourceSerpAPI, Location: "Berlin"},
	}
	e := NewEntry("sess", "resume.pdf", r, time.Unix(10, 0))
	if e.ID == "" || e.SessionID != "sess" || e.Filename != "resume.pdf" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.Overall == nil || *e.Overall != 72 {
		t.Fatalf("expected overall 72")
	}
	if e.JobMatch != nil || e.SkillsMatch != nil {
		t.Fatalf("absent scores must stay nil")
	}
	if e.MissingSkills == nil {
		t.Fatalf("missing skills must be an empty list")
	}
	if e.RecSource != results.SourceSerpAPI || e.RecLocation != "Berlin" {
		t.Fatalf("unexpected rec meta %+v", e)
	}
}

func TestMemoryRepoListRecent(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Unix(1000, 0)
	for i, name := range []string{"a", "b", "c"} {
		e := NewEntry("s", name, results.Results{}, base.Add(time.Duration(i)*time.Minute))
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 || got[0].Filename != "c" || got[1].Filename != "b" {
		t.Fatalf("unexpected order %+v", got)
	}
	got, _ = repo.ListRecent(ctx, 2, 2)
	if len(got) != 1 || got[0].Filename != "a" {
		t.Fatalf("unexpected page %+v", got)
	}
	got, _ = repo.ListRecent(ctx, 2, 9)
	if len(got) != 0 {
		t.Fatalf("expected empty page")
	}

	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
