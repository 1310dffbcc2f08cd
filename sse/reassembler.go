package sse

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Reassembler splits a stream of byte chunks into frames. Chunks may end in
// the middle of a UTF-8 sequence or a frame delimiter; the unconsumed tail is
// kept until the next chunk completes it. The zero value is ready to use.
type Reassembler struct {
	pending []byte // trailing bytes of an incomplete UTF-8 sequence
	buf     []byte // decoded text not yet terminated by a delimiter
	scanned int    // prefix of buf already searched for a delimiter
}

// Feed decodes chunk and returns every frame it completes, in order, without
// their delimiters. Invalid UTF-8 is reported as an error.
func (r *Reassembler) Feed(chunk []byte) ([]string, error) {
	if err := r.decode(chunk, false); err != nil {
		return nil, err
	}
	return r.extract(), nil
}

// Flush is called at end of stream. It returns the residual text as one last
// frame when it holds anything besides whitespace; the terminal frame of a
// stream may lack its delimiter. The residual buffer is cleared either way.
func (r *Reassembler) Flush() (string, bool, error) {
	if err := r.decode(nil, true); err != nil {
		return "", false, err
	}
	rest := string(r.buf)
	r.buf = r.buf[:0]
	r.scanned = 0
	if strings.TrimSpace(rest) == "" {
		return "", false, nil
	}
	return rest, true, nil
}

// decode validates pending+chunk as UTF-8 and moves the complete prefix into
// the text buffer. Without atEOF an incomplete trailing sequence is kept in
// pending; with atEOF it is an error.
func (r *Reassembler) decode(chunk []byte, atEOF bool) error {
	src := make([]byte, 0, len(r.pending)+len(chunk))
	src = append(src, r.pending...)
	src = append(src, chunk...)
	dst := make([]byte, len(src))

	nDst, nSrc, err := encoding.UTF8Validator.Transform(dst, src, atEOF)
	r.buf = append(r.buf, dst[:nDst]...)
	r.pending = append(r.pending[:0], src[nSrc:]...)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, transform.ErrShortSrc):
		return nil
	default:
		return fmt.Errorf("sse: decode: %w", err)
	}
}

// extract removes every complete frame from the front of the text buffer.
// Only text appended since the last call is searched, overlapping the old
// tail so a delimiter split across chunks is still found.
func (r *Reassembler) extract() []string {
	var frames []string
	start := 0
	from := r.scanned
	for {
		i := bytes.Index(r.buf[from:], []byte(delimiter))
		if i < 0 {
			break
		}
		end := from + i
		frames = append(frames, string(r.buf[start:end]))
		start = end + len(delimiter)
		from = start
	}
	if start > 0 {
		r.buf = append(r.buf[:0], r.buf[start:]...)
	}
	r.scanned = max(len(r.buf)-len(delimiter)+1, 0)
	return frames
}
