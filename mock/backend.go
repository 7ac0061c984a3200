// Package mock provides an in-memory disc.Backend for tests.
//
// Audio samples and sector bytes are derived from their position, so a
// test can tell exactly which frame or sector it was handed.
package mock

import (
	"github.com/rabidaudio/megacd/disc"
)

// Track describes one track of a fake disc. Length is in sectors for data
// tracks and in frames for audio tracks.
type Track struct {
	Type   disc.TrackType
	Length uint32
}

func Data(sectors uint32) Track { return Track{Type: disc.Data2048, Length: sectors} }

func Audio(frames uint32) Track { return Track{Type: disc.Audio, Length: frames} }

// Frame returns the samples stored at a frame of an audio track: the left
// channel carries the track number and the right one the frame number.
func Frame(track uint16, frame uint32) [2]int16 {
	return [2]int16{int16(track), int16(frame)}
}

// SectorByte returns byte i of the given data sector.
func SectorByte(sector uint32, i int) byte {
	return byte(sector) ^ byte(i)
}

// Sector returns a full sector as ReadSector fills it.
func Sector(sector uint32) []byte {
	p := make([]byte, disc.SectorSize)
	for i := range p {
		p[i] = SectorByte(sector, i)
	}
	return p
}

type Backend struct {
	Layout []Track

	// ReadErr is returned by every ReadSector call when set.
	ReadErr error
	// OpenErr is returned by Open when set.
	OpenErr error

	Opened      int
	Closed      int
	SectorReads int

	stream disc.Stream
	track  uint16
	sector uint32
	frame  uint32
}

// New returns a backend with the given tracks, numbered from 1.
func New(tracks ...Track) *Backend {
	return &Backend{Layout: tracks}
}

// Open can be used as the backend opener of a reader. Every call resets the
// cursor to index 1 of track 1 and returns the same backend.
func (b *Backend) Open(stream disc.Stream, path string) (disc.Backend, error) {
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	b.Opened++
	b.stream = stream
	b.track, b.sector, b.frame = 0, 0, 0
	b.SeekTrack(1, 1)
	return b, nil
}

// Opener returns a backend opener serving a fresh backend with the given
// tracks on every call.
func Opener(tracks ...Track) func(disc.Stream, string) (disc.Backend, error) {
	return func(stream disc.Stream, path string) (disc.Backend, error) {
		return New(tracks...).Open(stream, path)
	}
}

func (b *Backend) current() *Track {
	if b.track < 1 || int(b.track) > len(b.Layout) {
		return nil
	}
	return &b.Layout[b.track-1]
}

func (b *Backend) Close() error {
	b.Closed++
	if b.stream != nil {
		return b.stream.Close()
	}
	return nil
}

func (b *Backend) SeekTrack(track uint16, index uint8) disc.TrackType {
	if index != 1 || track < 1 || int(track) > len(b.Layout) {
		return disc.Invalid
	}
	b.track = track
	b.sector, b.frame = 0, 0
	return b.Layout[track-1].Type
}

func (b *Backend) SeekSector(sector uint32) bool {
	t := b.current()
	if t == nil || !t.Type.IsData() || sector >= t.Length {
		return false
	}
	b.sector = sector
	return true
}

func (b *Backend) ReadSector(out []byte) error {
	t := b.current()
	if t == nil || !t.Type.IsData() {
		return disc.ErrWrongTrackType
	}
	if b.ReadErr != nil {
		return b.ReadErr
	}
	if b.sector >= t.Length {
		return disc.ErrEndOfTrack
	}
	for i := range out[:disc.SectorSize] {
		out[i] = SectorByte(b.sector, i)
	}
	b.sector++
	b.SectorReads++
	return nil
}

func (b *Backend) SeekAudioFrame(frame uint32) bool {
	t := b.current()
	if t == nil || t.Type != disc.Audio || frame > t.Length {
		return false
	}
	b.frame = frame
	return true
}

func (b *Backend) ReadFrames(out []int16) int {
	t := b.current()
	if t == nil || t.Type != disc.Audio {
		return 0
	}
	n := min(uint32(len(out)/disc.Channels), t.Length-b.frame)
	for i := range n {
		f := Frame(b.track, b.frame+i)
		out[2*i], out[2*i+1] = f[0], f[1]
	}
	b.frame += n
	return int(n)
}

func (b *Backend) SetState(track uint16, index uint8, sector uint32, frame uint32) disc.TrackType {
	if index != 1 || track < 1 || int(track) > len(b.Layout) {
		return disc.Invalid
	}
	t := b.Layout[track-1]
	if t.Type == disc.Audio {
		if frame > t.Length {
			return disc.Invalid
		}
		sector = 0
	} else {
		if sector > t.Length {
			return disc.Invalid
		}
		frame = 0
	}
	b.track, b.sector, b.frame = track, sector, frame
	return t.Type
}

func (b *Backend) State() (uint16, uint32, uint32) {
	return b.track, b.sector, b.frame
}

func (b *Backend) Tracks() []disc.TrackInfo {
	info := make([]disc.TrackInfo, len(b.Layout))
	for i, t := range b.Layout {
		info[i] = disc.TrackInfo{Number: uint16(i + 1), Type: t.Type}
		if t.Type == disc.Audio {
			info[i].Frames = t.Length
			info[i].Sectors = (t.Length + disc.FramesPerSector - 1) / disc.FramesPerSector
		} else {
			info[i].Sectors = t.Length
		}
	}
	return info
}

// ensure interface conformation
var (
	_ disc.Backend   = (*Backend)(nil)
	_ disc.Describer = (*Backend)(nil)
)
