package cdreader

import (
	"github.com/faiface/beep"
	"github.com/rabidaudio/megacd/disc"
)

// Format is the sample format of CDDA audio.
var Format = beep.Format{
	SampleRate:  disc.SampleRate,
	NumChannels: disc.Channels,
	Precision:   disc.BytesPerSample,
}

// Streamer plays the audio of a Reader through beep.
//
// Stream calls ReadAudio, so it must be serialised with every other call to
// the Reader, e.g. with speaker.Lock.
type Streamer struct {
	Reader *Reader
	// Continuous keeps the streamer alive with silence while no audio is
	// playing, so that PlayAudio can start a new track on the same speaker.
	Continuous bool

	buf []int16
}

func NewStreamer(r *Reader) *Streamer {
	return &Streamer{Reader: r}
}

func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	need := len(samples) * disc.Channels
	if cap(s.buf) < need {
		s.buf = make([]int16, need)
	}
	buf := s.buf[:need]

	got := s.Reader.ReadAudio(buf)
	for i := range got {
		samples[i][0], samples[i][1] = extractFrame(buf[i*disc.Channels:])
	}
	if got < len(samples) && !s.Continuous {
		// playback stopped
		return got, got > 0
	}
	for i := got; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func extractFrame(p []int16) (l, r float64) {
	return float64(p[0]) / (1 << 15), float64(p[1]) / (1 << 15)
}

func (s *Streamer) Err() error {
	return nil
}

// ensure interface conformation
var _ beep.Streamer = (*Streamer)(nil)
