package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/brief"
	"github.com/fwojciec/brief/markdown"
)

// ask runs one session and writes the answer to w as it grows. Cancelling
// ctx cancels the session; the partial answer stays written.
func ask(ctx context.Context, p brief.Provider, subjectID, question string, w io.Writer, opts ...brief.Option) (brief.Snapshot, error) {
	q := brief.Query{Text: question, SubjectID: subjectID}
	if err := q.Validate(); err != nil {
		if errors.Is(err, brief.ErrAnonymous) {
			return brief.Snapshot{}, fmt.Errorf("%w: set BRIEF_USER_ID or use -user", err)
		}
		return brief.Snapshot{}, err
	}

	// Observer calls must not block, so they only signal; the loop below
	// reads the latest snapshot itself.
	changed := make(chan struct{}, 1)
	notify := func(brief.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	ctl := brief.New(p, append(opts, brief.WithObserver(notify))...)
	if !ctl.Start(q.Text, q.SubjectID) {
		return brief.Snapshot{}, fmt.Errorf("question was not sent")
	}
	defer ctl.Wait()

	done := ctx.Done()
	var written int
	for {
		select {
		case <-done:
			ctl.Cancel()
			done = nil
		case <-changed:
		}
		snap := ctl.Snapshot()
		if len(snap.Text) > written {
			if _, err := io.WriteString(w, markdown.Sanitize(snap.Text[written:])); err != nil {
				ctl.Cancel()
				return snap, fmt.Errorf("write answer: %w", err)
			}
			written = len(snap.Text)
		}
		if snap.State.Terminal() {
			if written > 0 {
				_, _ = io.WriteString(w, "\n")
			}
			return snap, nil
		}
	}
}

// outcome maps a finished session to the command's exit error.
func outcome(s brief.Snapshot) error {
	switch s.State {
	case brief.StateFailed:
		return errors.New(s.Failure())
	case brief.StateCancelled:
		return errors.New("cancelled")
	default:
		return nil
	}
}
