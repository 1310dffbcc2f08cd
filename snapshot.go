package brief

import "time"

// failurePrefix introduces the explanation shown after a failed answer.
const failurePrefix = "Sorry, the service ran into a problem: "

// Snapshot is the observable state of a Controller at one point in time.
type Snapshot struct {
	SessionID string
	Query     Query
	State     State
	Text      string // aggregated answer; append-only while streaming
	Err       error  // set when State is StateFailed
	StartedAt time.Time
	UpdatedAt time.Time
}

// Failure returns the explanation shown for a failed session, or "" when
// the session has not failed.
func (s Snapshot) Failure() string {
	if s.State != StateFailed || s.Err == nil {
		return ""
	}
	return failurePrefix + s.Err.Error()
}

// Display returns the text a presentation layer should show. A failed
// session keeps its partial answer and gets the failure reason appended on
// its own line.
func (s Snapshot) Display() string {
	msg := s.Failure()
	switch {
	case msg == "":
		return s.Text
	case s.Text == "":
		return msg
	default:
		return s.Text + "\n" + msg
	}
}
