// Package results models the analysis results object served at GET /results.
//
// Decoding is lenient: the backend fills fields from several
// code paths and sometimes sends numbers as strings, nulls, or non-list
// values. Decoding never fails on field shape; bad values collapse to their
// zero value and the renderers substitute placeholders.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fallback chart values used when no results are available.
const (
	DefaultOverall     = 72
	DefaultJobMatch    = 68
	DefaultSkillsMatch = 75
)

// Recommendation sources reported in rec_meta.source.
const (
	SourceSerpAPI  = "serpapi"
	SourceFallback = "fallback"
)

// SectionNotFound is the sentinel the resume parser stores for missing sections.
const SectionNotFound = "Section not found."

// Percent is a 0-100 score that remembers whether the server sent it.
type Percent struct {
	Value int
	Valid bool
}

// P builds a valid Percent.
func P(v int) Percent { return Percent{Value: v, Valid: true} }

// Or returns the value when present, def otherwise.
func (p Percent) Or(def int) int {
	if !p.Valid {
		return def
	}
	return p.Value
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything else is a present zero.
func (p *Percent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Percent{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*p = Percent{Valid: true}
			return nil
		}
		*p = Percent{Value: ParseLeadingInt(s), Valid: true}
	default:
		f, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			*p = Percent{Valid: true}
			return nil
		}
		*p = Percent{Value: int(math.Trunc(f)), Valid: true}
	}
	return nil
}

// MarshalJSON writes null for an absent value.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(p.Value)), nil
}

// ParseLeadingInt reads an optional sign and the leading decimal digits of s,
// ignoring the rest. It returns 0 when s has no leading digits.
func ParseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}

// Recommendation is one suggested job posting.
type Recommendation struct {
	Job      string   `json:"job"`
	Company  string   `json:"company,omitempty"`
	Location string   `json:"location,omitempty"`
	Link     string   `json:"link,omitempty"`
	Score    *Percent `json:"score,omitempty"`
}

// RecMeta describes where the recommendations came from.
type RecMeta struct {
	Source   string `json:"source"`
	Location string `json:"location,omitempty"`
	Query    string `json:"query,omitempty"`
}

// Results is the server-computed analysis record.
type Results struct {
	Overall         Percent           `json:"overall"`
	JobMatch        Percent           `json:"job_match"`
	SkillsMatch     Percent           `json:"skills_match"`
	JobTitle        string            `json:"job_title"`
	JobText         string            `json:"job_text"`
	MissingSkills   []string          `json:"missing_skills"`
	ResumeSections  map[string]string `json:"resume_sections"`
	Recommendations []Recommendation  `json:"recommendations"`
	RecMeta         RecMeta           `json:"rec_meta"`
}

// Decode parses a results payload. Only malformed JSON is an error.
func Decode(data []byte) (Results, error) {
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return Results{}, err
	}
	return r, nil
}

// UnmarshalJSON decodes field by field so one odd field cannot sink the payload.
func (r *Results) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("results payload: %w", err)
	}

	out := Results{}
	_ = json.Unmarshal(fields["overall"], &out.Overall)
	_ = json.Unmarshal(fields["job_match"], &out.JobMatch)
	_ = json.Unmarshal(fields["skills_match"], &out.SkillsMatch)
	out.JobTitle = looseString(fields["job_title"])
	out.JobText = looseString(fields["job_text"])
	out.MissingSkills = looseStrings(fields["missing_skills"])
	out.ResumeSections = looseStringMap(fields["resume_sections"])
	out.Recommendations = looseRecommendations(fields["recommendations"])
	out.RecMeta = looseMeta(fields["rec_meta"])

	*r = out
	return nil
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func looseStrings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := looseString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func looseStringMap(raw json.RawMessage) map[string]string {
	var items map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make(map[string]string, len(items))
	for k, v := range items {
		out[k] = looseString(v)
	}
	return out
}

func looseRecommendations(raw json.RawMessage) []Recommendation {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			out = append(out, Recommendation{})
			continue
		}
		rec := Recommendation{
			Job:      looseString(fields["job"]),
			Company:  looseString(fields["company"]),
			Location: looseString(fields["location"]),
			Link:     looseString(fields["link"]),
		}
		if scoreRaw, ok := fields["score"]; ok {
			var score Percent
			_ = json.Unmarshal(scoreRaw, &score)
			if score.Valid {
				rec.Score = &score
			}
		}
		out = append(out, rec)
	}
	return out
}

func looseMeta(raw json.RawMessage) RecMeta {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return RecMeta{}
	}
	return RecMeta{
		Source:   looseString(fields["source"]),
		Location: looseString(fields["location"]),
		Query:    looseString(fields["query"]),
	}
}
