package brief_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/brief"
	"github.com/fwojciec/brief/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStream returns the given events in order, then io.EOF.
func scriptedStream(events ...brief.Event) *mock.Stream {
	var i int
	return &mock.Stream{
		NextFn: func() (brief.Event, error) {
			if i >= len(events) {
				return nil, io.EOF
			}
			evt := events[i]
			i++
			return evt, nil
		},
	}
}

func providerOf(s brief.Stream) *mock.Provider {
	return &mock.Provider{
		StreamFn: func(_ context.Context, _ brief.Query) (brief.Stream, error) {
			return s, nil
		},
	}
}

func newController(p brief.Provider, opts ...brief.Option) *brief.Controller {
	opts = append([]brief.Option{brief.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	return brief.New(p, opts...)
}

// recorder collects every snapshot the controller publishes.
type recorder struct {
	mu    sync.Mutex
	snaps []brief.Snapshot
}

func (r *recorder) observe(s brief.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []brief.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]brief.Snapshot(nil), r.snaps...)
}

func TestController_InitialState(t *testing.T) {
	t.Parallel()

	c := newController(&mock.Provider{})
	snap := c.Snapshot()
	assert.Equal(t, brief.StateIdle, snap.State)
	assert.Empty(t, snap.Text)
	c.Wait()
	c.Cancel()
	assert.Equal(t, brief.StateIdle, c.Snapshot().State)
}

func TestController_StartRejectsInvalidQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		subject string
	}{
		{name: "empty text", text: "", subject: "u_1"},
		{name: "anonymous subject", text: "hello", subject: brief.Anonymous},
		{name: "empty subject", text: "hello", subject: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &mock.Provider{
				StreamFn: func(_ context.Context, _ brief.Query) (brief.Stream, error) {
					t.Fatal("provider must not be called")
					return nil, nil
				},
			}
			rec := &recorder{}
			c := newController(p, brief.WithObserver(rec.observe))

			assert.False(t, c.Start(tt.text, tt.subject))
			assert.Equal(t, brief.StateIdle, c.Snapshot().State)
			assert.Empty(t, rec.all())
		})
	}
}

func TestController_StreamsToDone(t *testing.T) {
	t.Parallel()

	var closed atomic.Bool
	s := scriptedStream(
		brief.EventMessageDelta{Text: "He"},
		brief.EventUnrecognized{Name: "conversation.chat.created"},
		brief.EventMessageDelta{Text: ""},
		brief.EventMessageDelta{Text: "llo"},
		brief.EventDone{},
	)
	s.CloseFn = func() error {
		closed.Store(true)
		return nil
	}

	var got brief.Query
	p := &mock.Provider{
		StreamFn: func(_ context.Context, q brief.Query) (brief.Stream, error) {
			got = q
			return s, nil
		},
	}
	rec := &recorder{}
	c := newController(p, brief.WithObserver(rec.observe))

	require.True(t, c.Start("say hello", "u_1"))
	c.Wait()

	assert.Equal(t, brief.Query{Text: "say hello", SubjectID: "u_1"}, got)
	assert.True(t, closed.Load(), "stream is closed when the session ends")

	snap := c.Snapshot()
	assert.Equal(t, brief.StateDone, snap.State)
	assert.Equal(t, "Hello", snap.Text)
	assert.NotEmpty(t, snap.SessionID)
	assert.False(t, snap.StartedAt.IsZero())

	var texts []string
	var states []brief.State
	for _, s := range rec.all() {
		texts = append(texts, s.Text)
		states = append(states, s.State)
	}
	assert.Equal(t, []string{"", "", "He", "Hello", "Hello"}, texts)
	assert.Equal(t, []brief.State{
		brief.StateConnecting,
		brief.StateStreaming,
		brief.StateStreaming,
		brief.StateStreaming,
		brief.StateDone,
	}, states)
}

func TestController_ProviderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("dial tcp: connection refused")
	p := &mock.Provider{
		StreamFn: func(_ context.Context, _ brief.Query) (brief.Stream, error) {
			return nil, boom
		},
	}
	c := newController(p)

	require.True(t, c.Start("hi", "u_1"))
	c.Wait()

	snap := c.Snapshot()
	assert.Equal(t, brief.StateFailed, snap.State)
	assert.ErrorIs(t, snap.Err, boom)
	assert.Equal(t, "Sorry, the service ran into a problem: dial tcp: connection refused", snap.Display())
}

func TestController_ReadErrorKeepsPartialAnswer(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset by peer")
	var calls int
	s := &mock.Stream{
		NextFn: func() (brief.Event, error) {
			calls++
			if calls == 1 {
				return brief.EventMessageDelta{Text: "partial"}, nil
			}
			return nil, boom
		},
	}
	c := newController(providerOf(s))

	require.True(t, c.Start("hi", "u_1"))
	c.Wait()

	snap := c.Snapshot()
	assert.Equal(t, brief.StateFailed, snap.State)
	assert.Equal(t, "partial", snap.Text)
	assert.ErrorIs(t, snap.Err, boom)
	assert.Equal(t, "partial\nSorry, the service ran into a problem: connection reset by peer", snap.Display())
}

func TestController_CancelWhileConnecting(t *testing.T) {
	t.Parallel()

	called := make(chan struct{})
	p := &mock.Provider{
		StreamFn: func(ctx context.Context, _ brief.Query) (brief.Stream, error) {
			close(called)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	rec := &recorder{}
	c := newController(p, brief.WithObserver(rec.observe))

	require.True(t, c.Start("hi", "u_1"))
	<-called
	c.Cancel()
	c.Wait()

	snap := c.Snapshot()
	assert.Equal(t, brief.StateCancelled, snap.State, "cancellation is never reported as a failure")
	assert.NoError(t, snap.Err)

	snaps := rec.all()
	require.Len(t, snaps, 2)
	assert.Equal(t, brief.StateConnecting, snaps[0].State)
	assert.Equal(t, brief.StateCancelled, snaps[1].State)
}

func TestController_CancelIsIdempotent(t *testing.T) {
	t.Parallel()

	firstDelta := make(chan struct{})
	release := make(chan struct{})
	var calls int
	s := &mock.Stream{
		NextFn: func() (brief.Event, error) {
			calls++
			if calls == 1 {
				return brief.EventMessageDelta{Text: "He"}, nil
			}
			<-release
			return brief.EventMessageDelta{Text: "llo"}, nil
		},
	}
	var once sync.Once
	rec := &recorder{}
	c := newController(providerOf(s), brief.WithObserver(func(snap brief.Snapshot) {
		rec.observe(snap)
		if snap.Text == "He" {
			once.Do(func() { close(firstDelta) })
		}
	}))

	require.True(t, c.Start("hi", "u_1"))
	<-firstDelta
	c.Cancel()
	c.Cancel()
	close(release)
	c.Wait()
	c.Cancel()

	snap := c.Snapshot()
	assert.Equal(t, brief.StateCancelled, snap.State)
	assert.Equal(t, "He", snap.Text, "no delta is applied after cancellation")

	var cancelled int
	for _, s := range rec.all() {
		if s.State == brief.StateCancelled {
			cancelled++
		}
	}
	assert.Equal(t, 1, cancelled)
}

func TestController_CancelAfterDoneIsNoop(t *testing.T) {
	t.Parallel()

	c := newController(providerOf(scriptedStream(brief.EventMessageDelta{Text: "ok"})))
	require.True(t, c.Start("hi", "u_1"))
	c.Wait()
	c.Cancel()

	snap := c.Snapshot()
	assert.Equal(t, brief.StateDone, snap.State)
	assert.Equal(t, "ok", snap.Text)
}

func TestController_StartSupersedesSession(t *testing.T) {
	t.Parallel()

	firstCancelled := make(chan struct{})
	gate := make(chan struct{})
	firstClosed := make(chan struct{})
	first := &mock.Stream{
		NextFn: func() (brief.Event, error) {
			<-gate
			return brief.EventMessageDelta{Text: "stale"}, nil
		},
		CloseFn: func() error {
			close(firstClosed)
			return nil
		},
	}
	second := scriptedStream(brief.EventMessageDelta{Text: "fresh"})

	started := make(chan struct{})
	var n atomic.Int32
	p := &mock.Provider{
		StreamFn: func(ctx context.Context, _ brief.Query) (brief.Stream, error) {
			if n.Add(1) == 1 {
				go func() {
					<-ctx.Done()
					close(firstCancelled)
				}()
				close(started)
				return first, nil
			}
			return second, nil
		},
	}
	c := newController(p)

	require.True(t, c.Start("first", "u_1"))
	<-started
	firstID := c.Snapshot().SessionID

	require.True(t, c.Start("second", "u_1"))
	<-firstCancelled
	c.Wait()

	close(gate)
	<-firstClosed

	snap := c.Snapshot()
	assert.NotEqual(t, firstID, snap.SessionID)
	assert.Equal(t, "second", snap.Query.Text)
	assert.Equal(t, brief.StateDone, snap.State)
	assert.Equal(t, "fresh", snap.Text)
}

func TestController_ObserverMaySnapshotDuringCancel(t *testing.T) {
	t.Parallel()

	streaming := make(chan struct{})
	p := &mock.Provider{
		StreamFn: func(ctx context.Context, _ brief.Query) (brief.Stream, error) {
			return &mock.Stream{
				NextFn: func() (brief.Event, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				},
			}, nil
		},
	}

	var c *brief.Controller
	var once sync.Once
	var seen atomic.Value
	c = newController(p, brief.WithObserver(func(snap brief.Snapshot) {
		if snap.State != brief.StateStreaming {
			return
		}
		once.Do(func() {
			close(streaming)
			// Give Cancel time to take the state lock while this call is
			// still being delivered.
			time.Sleep(50 * time.Millisecond)
			seen.Store(c.Snapshot().State)
		})
	}))

	require.True(t, c.Start("hi", "u_1"))
	<-streaming

	cancelled := make(chan struct{})
	go func() {
		c.Cancel()
		close(cancelled)
	}()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("Cancel blocked while the observer read the snapshot")
	}
	c.Wait()

	assert.Equal(t, brief.StateCancelled, c.Snapshot().State)
	assert.NotNil(t, seen.Load(), "observer finished reading the snapshot")
}

func TestController_CancelledBeforeRunLogsNothing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := &mock.Provider{
		StreamFn: func(_ context.Context, _ brief.Query) (brief.Stream, error) {
			t.Fatal("provider must not be called")
			return nil, nil
		},
	}
	c := brief.New(p, brief.WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.RunSession(ctx, brief.Query{Text: "hi", SubjectID: "u_1"})

	assert.NotContains(t, buf.String(), "session started")
	assert.Equal(t, brief.StateIdle, c.Snapshot().State)
}
