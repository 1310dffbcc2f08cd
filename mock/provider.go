// Package mock provides test doubles for brief interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/brief"
)

// Interface compliance check.
var _ brief.Provider = (*Provider)(nil)

// Provider is a test double for brief.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, q brief.Query) (brief.Stream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, q brief.Query) (brief.Stream, error) {
	return p.StreamFn(ctx, q)
}
