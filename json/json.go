// Package json persists session transcripts as versioned JSON envelopes.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/brief"
)

// envelope is the v1 wire format for a persisted transcript.
type envelope struct {
	Version   int       `json:"version"`
	SessionID string    `json:"session_id"`
	Query     queryDTO  `json:"query"`
	State     string    `json:"state"`
	Text      string    `json:"text"`
	Error     *string   `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type queryDTO struct {
	Text      string `json:"text"`
	SubjectID string `json:"subject_id"`
}

// MarshalSnapshot serializes a Snapshot to JSON in v1 envelope format.
// Only the error message survives serialization.
func MarshalSnapshot(s brief.Snapshot) ([]byte, error) {
	env := envelope{
		Version:   1,
		SessionID: s.SessionID,
		Query:     queryDTO{Text: s.Query.Text, SubjectID: s.Query.SubjectID},
		State:     s.State.String(),
		Text:      s.Text,
		StartedAt: s.StartedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Err != nil {
		msg := s.Err.Error()
		env.Error = &msg
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSnapshot deserializes a Snapshot from JSON in v1 envelope format.
func UnmarshalSnapshot(data []byte) (brief.Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return brief.Snapshot{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return brief.Snapshot{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	state, err := parseState(env.State)
	if err != nil {
		return brief.Snapshot{}, err
	}
	s := brief.Snapshot{
		SessionID: env.SessionID,
		Query:     brief.Query{Text: env.Query.Text, SubjectID: env.Query.SubjectID},
		State:     state,
		Text:      env.Text,
		StartedAt: env.StartedAt,
		UpdatedAt: env.UpdatedAt,
	}
	if env.Error != nil {
		s.Err = errors.New(*env.Error)
	}
	return s, nil
}

func parseState(name string) (brief.State, error) {
	for st := brief.StateIdle; st <= brief.StateCancelled; st++ {
		if st.String() == name {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown state: %q", name)
}
