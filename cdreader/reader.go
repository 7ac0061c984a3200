// Package cdreader presents a Mega-CD disc image to an emulator's CD drive as
// a sector and audio-frame addressable source.
//
// A Reader owns at most one disc at a time. Reads never fail: a closed reader
// produces zeroed sectors and no audio, and seek failures are reported as
// false. Callers check IsOpen to detect missing media.
//
// A Reader is not safe for concurrent use. Every call, including those made by
// a Streamer, must come from the same goroutine or be serialised by the caller.
package cdreader

import (
	"io"

	"github.com/rabidaudio/megacd/disc"
	"github.com/sirupsen/logrus"
)

// Reader is the emulated CD drive. The zero value is a closed reader with
// the All playback setting.
type Reader struct {
	// Logger receives debug messages and read errors. Nil discards them.
	Logger logrus.FieldLogger
	// OpenBackend attaches a stream to a backend. Nil uses disc.Open.
	OpenBackend func(stream disc.Stream, path string) (disc.Backend, error)

	open         bool
	setting      PlaybackSetting
	audioPlaying bool
	backend      disc.Backend
}

var discardLogger logrus.FieldLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (r *Reader) log() logrus.FieldLogger {
	if r.Logger == nil {
		return discardLogger
	}
	return r.Logger
}

func (r *Reader) openBackend(stream disc.Stream, path string) (disc.Backend, error) {
	if r.OpenBackend != nil {
		return r.OpenBackend(stream, path)
	}
	img, err := disc.Open(stream, path, disc.WithLogger(r.log()))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Initialise returns the reader to its zero state, closing any attached disc.
func (r *Reader) Initialise() {
	r.Close()
	r.open = false
	r.setting = All
	r.audioPlaying = false
}

// Open attaches an already opened image, closing the current one first. The
// image format is detected from the stream and its path.
//
// On success the reader owns stream until Close. On error the reader is left
// closed and the caller keeps ownership of stream.
func (r *Reader) Open(stream disc.Stream, path string) error {
	if r.open {
		r.Close()
	}
	backend, err := r.openBackend(stream, path)
	if err != nil {
		r.log().WithField("path", path).WithError(err).Debug("cdreader: open failed")
		return err
	}
	r.backend = backend
	r.open = true
	r.audioPlaying = false
	r.log().WithField("path", path).Debug("cdreader: opened disc")
	return nil
}

// Close detaches the disc. It does nothing when the reader is closed.
func (r *Reader) Close() error {
	if !r.open {
		return nil
	}
	err := r.backend.Close()
	if err != nil {
		r.log().WithError(err).Warn("cdreader: close failed")
	}
	r.backend = nil
	r.open = false
	r.audioPlaying = false
	r.log().Debug("cdreader: closed disc")
	return err
}

func (r *Reader) IsOpen() bool {
	return r.open
}

// SeekToSector moves to a sector of the data track, counted from the start of
// its program area. The drive can not read data while playing audio, so any
// playing track is stopped.
func (r *Reader) SeekToSector(sector uint32) bool {
	if !r.open {
		return false
	}
	r.audioPlaying = false
	if !r.backend.SeekTrack(1, 1).IsData() {
		return false
	}
	return r.backend.SeekSector(sector)
}

// ReadSector reads the next sector of the data track into out. A closed
// reader, or a sector that can not be read, yields zeros.
func (r *Reader) ReadSector(out *[disc.SectorSize]byte) {
	if !r.open {
		clear(out[:])
		return
	}
	if err := r.backend.ReadSector(out[:]); err != nil {
		track, sector, _ := r.backend.State()
		r.log().WithFields(logrus.Fields{
			"track":  track,
			"sector": sector,
		}).WithError(err).Warn("cdreader: sector read failed")
		clear(out[:])
	}
}

// ReadSectorAt is SeekToSector followed by ReadSector.
func (r *Reader) ReadSectorAt(out *[disc.SectorSize]byte, sector uint32) {
	r.SeekToSector(sector)
	r.ReadSector(out)
}

// Tracks lists the tracks of the disc, if the backend can describe them.
func (r *Reader) Tracks() []disc.TrackInfo {
	if !r.open {
		return nil
	}
	if d, ok := r.backend.(disc.Describer); ok {
		return d.Tracks()
	}
	return nil
}

// ReadHeader parses the Mega-CD boot header from sector 0 of the data track.
// The cursor is left at sector 1.
func (r *Reader) ReadHeader() (disc.Header, bool) {
	if !r.SeekToSector(0) {
		return disc.Header{}, false
	}
	var buf [disc.SectorSize]byte
	r.ReadSector(&buf)
	h, err := disc.ParseHeader(buf[:])
	if err != nil {
		return disc.Header{}, false
	}
	return h, true
}
