// Package disc opens Mega-CD disc images and exposes them as a track, sector
// and audio-frame addressable Backend.
//
// Supported containers are CUE sheets (with BINARY, MOTOROLA, WAVE and MP3
// files), raw 2352-byte BIN images and plain 2048-byte ISO images. The
// container format and sector layout are detected by [Open].
package disc

import (
	"io"
	"os"
)

// Backend is a disc image opened for reading. It keeps a single cursor made
// of the current track, the next sector to read (data tracks) and the next
// audio frame to read (audio tracks).
//
// A Backend is not safe for concurrent use.
type Backend interface {
	// Close releases the image and every file it opened.
	Close() error

	// SeekTrack moves the cursor to the given index of a track and reports the
	// type of the track. If the position does not exist, Invalid is returned
	// and the cursor does not move.
	SeekTrack(track uint16, index uint8) TrackType

	// SeekSector moves the cursor to a sector of the current data track,
	// counted from index 1.
	SeekSector(sector uint32) bool

	// ReadSector reads the 2048 bytes of user data of the sector at the cursor
	// into out and advances the cursor by one sector.
	ReadSector(out []byte) error

	// SeekAudioFrame moves the cursor to a frame of the current audio track,
	// counted from index 1. Seeking to the frame just past the end is allowed.
	SeekAudioFrame(frame uint32) bool

	// ReadFrames fills out with interleaved stereo samples from the cursor and
	// returns the number of frames read. Fewer frames than requested are only
	// returned when the end of the track is reached.
	ReadFrames(out []int16) int

	// SetState moves the cursor to an absolute position in one step. The whole
	// position is validated first; if any part of it is unreachable, Invalid is
	// returned and the cursor does not move.
	SetState(track uint16, index uint8, sector uint32, frame uint32) TrackType

	// State returns the current cursor.
	State() (track uint16, sector uint32, frame uint32)
}

// Describer is implemented by backends that can list their tracks.
type Describer interface {
	Tracks() []TrackInfo
}

// Stream is the byte stream an image is read from. *os.File implements
// Stream.
type Stream interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Tell returns the current offset of the stream.
func Tell(s io.Seeker) (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}

// FileOpener opens the files referenced by a CUE sheet.
type FileOpener func(name string) (Stream, error)

// OpenFile is the default FileOpener, reading from the local filesystem.
func OpenFile(name string) (Stream, error) {
	return os.Open(name)
}

// ensure interface conformation
var (
	_ Backend   = (*Image)(nil)
	_ Describer = (*Image)(nil)
	_ Stream    = (*os.File)(nil)
)
