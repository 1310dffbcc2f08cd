package sse

import (
	"errors"
	"fmt"
	"io"
)

// chunkSize is the size of a single read from the underlying reader.
const chunkSize = 4096

// Decoder reads events from an io.Reader. Frames are parsed strictly in the
// order they were completed, and a frame is handed out exactly once.
type Decoder struct {
	r      io.Reader
	re     Reassembler
	frames []string
	chunk  []byte
	eof    bool
}

// NewDecoder creates a Decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:     r,
		chunk: make([]byte, chunkSize),
	}
}

// Next returns the next event. It returns io.EOF once the reader is drained
// and the residual frame, if any, has been returned. Read and decoding
// errors are returned as-is and are terminal.
func (d *Decoder) Next() (Event, error) {
	for len(d.frames) == 0 {
		if d.eof {
			return Event{}, io.EOF
		}
		if err := d.fill(); err != nil {
			return Event{}, err
		}
	}
	frame := d.frames[0]
	d.frames = d.frames[1:]
	return Parse(frame), nil
}

// fill performs one read and queues the frames it completes.
func (d *Decoder) fill() error {
	n, err := d.r.Read(d.chunk)
	if n > 0 {
		frames, ferr := d.re.Feed(d.chunk[:n])
		if ferr != nil {
			return ferr
		}
		d.frames = append(d.frames, frames...)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		d.eof = true
		rest, ok, ferr := d.re.Flush()
		if ferr != nil {
			return ferr
		}
		if ok {
			d.frames = append(d.frames, rest)
		}
		return nil
	default:
		return fmt.Errorf("sse: read: %w", err)
	}
}
