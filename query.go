package brief

import "fmt"

// Anonymous is the subject ID used for callers that are not signed in.
const Anonymous = "anonymous"

// Query is one question asked on behalf of a subject.
type Query struct {
	Text      string
	SubjectID string
}

// Validate reports whether q may be sent. Queries from anonymous callers are
// never sent.
func (q Query) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("query text is empty: %w", ErrValidation)
	}
	if q.SubjectID == "" || q.SubjectID == Anonymous {
		return fmt.Errorf("subject %q: %w", q.SubjectID, ErrAnonymous)
	}
	return nil
}
