package brief

import "context"

// RunSession drives a session for q synchronously on ctx without making it
// the active one.
func (c *Controller) RunSession(ctx context.Context, q Query) {
	ctx, cancel := context.WithCancel(ctx)
	c.run(ctx, &session{
		id:     "s_test",
		query:  q,
		cancel: cancel,
		done:   make(chan struct{}),
	})
}
