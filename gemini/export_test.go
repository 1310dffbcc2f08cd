package gemini

import (
	"context"
	"iter"

	"github.com/fwojciec/brief"
	"google.golang.org/genai"
)

// NewStreamFromIter exposes newStream for testing with a fake iterator.
func NewStreamFromIter(ctx context.Context, it iter.Seq2[*genai.GenerateContentResponse, error]) brief.Stream {
	return newStream(ctx, it)
}

// OpenStreamFromIter exposes openStream for testing with a fake iterator.
func OpenStreamFromIter(ctx context.Context, it iter.Seq2[*genai.GenerateContentResponse, error]) (brief.Stream, error) {
	s, err := openStream(ctx, it)
	if err != nil {
		return nil, err
	}
	return s, nil
}
