package brief

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Controller runs at most one streaming session at a time against a
// Provider and exposes the aggregated answer as a Snapshot.
//
// Starting a session supersedes any session still in flight. A superseded
// or cancelled session can no longer change the Snapshot, even if its
// goroutine is still draining a read when the change happens.
type Controller struct {
	provider Provider
	observer func(Snapshot)
	logger   *slog.Logger

	mu     sync.Mutex
	snap   Snapshot
	active *session
	seq    uint64 // bumped under mu on every published change

	// notifyMu serializes observer calls so they arrive in mutation order.
	// It is never acquired while mu is held.
	notifyMu  sync.Mutex
	delivered uint64 // seq of the last snapshot handed to the observer
}

// session is one request/response exchange owned by a Controller.
type session struct {
	id     string
	query  Query
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a [Controller].
type Option func(*Controller)

// WithObserver sets a callback that receives a Snapshot after every state
// change. Calls are serialized and never go back in time: a snapshot that
// was already superseded when its turn came is skipped. The callback should
// not block and must not call Start or Cancel; it may call Snapshot.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithLogger sets the logger for session lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a Controller in StateIdle.
func New(provider Provider, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		logger:   logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start asks text on behalf of subjectID. It returns false without touching
// the current state when the query is empty or the subject is anonymous.
// Otherwise any session in flight is cancelled, the answer is reset and a
// new session starts in the background.
func (c *Controller) Start(text, subjectID string) bool {
	q := Query{Text: text, SubjectID: subjectID}
	if err := q.Validate(); err != nil {
		c.logger.Debug("query not sent", "error", err)
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:     uuid.NewString(),
		query:  q,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	if prev := c.active; prev != nil {
		prev.cancel()
	}
	c.active = s
	now := time.Now()
	c.snap = Snapshot{
		SessionID: s.id,
		Query:     q,
		State:     StateConnecting,
		StartedAt: now,
		UpdatedAt: now,
	}
	c.publishLocked()

	go c.run(ctx, s)
	return true
}

// Cancel moves the session in flight to StateCancelled and releases its
// connection. It does nothing when no session is in flight.
func (c *Controller) Cancel() {
	c.mu.Lock()
	s := c.active
	if s == nil || c.snap.State.Terminal() {
		c.mu.Unlock()
		return
	}
	s.cancel()
	c.snap.State = StateCancelled
	c.snap.UpdatedAt = time.Now()
	c.logger.Info("session cancelled", "session_id", s.id, "answer_bytes", len(c.snap.Text))
	c.publishLocked()
}

// Snapshot returns the current state and aggregated answer.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Wait blocks until the most recently started session has released its
// connection. It returns immediately when no session was ever started.
func (c *Controller) Wait() {
	c.mu.Lock()
	s := c.active
	c.mu.Unlock()
	if s == nil {
		return
	}
	<-s.done
}

// run drives one session from request to a terminal state. Every read and
// every state change is preceded by a cancellation check.
func (c *Controller) run(ctx context.Context, s *session) {
	defer close(s.done)
	defer s.cancel()

	ctx, span := tracer.Start(ctx, "brief.session", trace.WithAttributes(
		attribute.String("session.id", s.id),
	))
	defer span.End()

	if ctx.Err() != nil {
		return
	}
	log := c.logger.With("session_id", s.id)
	log.Info("session started")

	stream, err := c.provider.Stream(ctx, s.query)
	if err != nil {
		c.fail(ctx, s, span, err)
		return
	}
	defer stream.Close()

	if ctx.Err() != nil {
		return
	}
	if !c.commit(s, func(snap *Snapshot) {
		snap.State = StateStreaming
		snap.Text = ""
	}) {
		return
	}

	var received int
	for {
		if ctx.Err() != nil {
			return
		}
		evt, err := stream.Next()
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, io.EOF) {
			if c.commit(s, func(snap *Snapshot) { snap.State = StateDone }) {
				span.SetAttributes(
					attribute.String("session.state", StateDone.String()),
					attribute.Int("answer.bytes", received),
				)
				log.Info("session done", "answer_bytes", received)
			}
			return
		}
		if err != nil {
			c.fail(ctx, s, span, err)
			return
		}

		switch e := evt.(type) {
		case EventMessageDelta:
			if e.Text == "" {
				continue
			}
			if !c.commit(s, func(snap *Snapshot) { snap.Text = Fold(snap.Text, e) }) {
				return
			}
			received += len(e.Text)
		case EventDone:
			log.Debug("terminal event received, reading until end of stream")
		}
	}
}

// fail moves s to StateFailed unless the failure was caused by cancellation.
func (c *Controller) fail(ctx context.Context, s *session, span trace.Span, err error) {
	if ctx.Err() != nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("session.state", StateFailed.String()))
	if c.commit(s, func(snap *Snapshot) {
		snap.State = StateFailed
		snap.Err = err
	}) {
		c.logger.Error("session failed", "session_id", s.id, "error", err)
	}
}

// commit applies fn to the snapshot if s still owns it and the snapshot is
// not yet terminal, then publishes the result. It reports whether fn ran.
func (c *Controller) commit(s *session, fn func(*Snapshot)) bool {
	c.mu.Lock()
	if c.active != s || c.snap.State.Terminal() {
		c.mu.Unlock()
		return false
	}
	fn(&c.snap)
	c.snap.UpdatedAt = time.Now()
	c.publishLocked()
	return true
}

// publishLocked hands the current snapshot to the observer. It must be
// called with c.mu held and releases it before waiting for the observer.
func (c *Controller) publishLocked() {
	c.seq++
	snap, seq := c.snap, c.seq
	c.mu.Unlock()

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if seq <= c.delivered {
		return
	}
	c.delivered = seq
	if c.observer != nil {
		c.observer(snap)
	}
}
