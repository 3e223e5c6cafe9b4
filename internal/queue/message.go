package queue

import (
	"encoding/json"
	"time"

	"github.com/UtsavYadav1/CareerBERT/internal/history"
)

// MessageVersion is the current payload version.
const MessageVersion = 1

// Message announces a recorded analysis.
type Message struct {
	EntryID     string `json:"entryId"`
	SessionID   string `json:"sessionId"`
	JobTitle    string `json:"jobTitle,omitempty"`
	Overall     *int   `json:"overall,omitempty"`
	JobMatch    *int   `json:"jobMatch,omitempty"`
	SkillsMatch *int   `json:"skillsMatch,omitempty"`
	RecordedAt  string `json:"recordedAt"`
	Version     int    `json:"version"`
}

// FromEntry builds the message for a history entry.
func FromEntry(e history.Entry) Message {
	return Message{
		EntryID:     e.ID,
		SessionID:   e.SessionID,
		JobTitle:    e.JobTitle,
		Overall:     e.Overall,
		JobMatch:    e.JobMatch,
		SkillsMatch: e.SkillsMatch,
		RecordedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
		Version:     MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
