package mock

import (
	"bytes"

	"github.com/rabidaudio/megacd/disc"
)

// Stream is an in-memory disc.Stream that records being closed.
type Stream struct {
	*bytes.Reader
	Closed bool
}

func NewStream(p []byte) *Stream {
	return &Stream{Reader: bytes.NewReader(p)}
}

func (s *Stream) Close() error {
	s.Closed = true
	return nil
}

// ensure interface conformation
var _ disc.Stream = (*Stream)(nil)
