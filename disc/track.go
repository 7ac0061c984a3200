package disc

import "fmt"

// TrackType identifies how the data of a track is laid out.
type TrackType int

const (
	Invalid  TrackType = iota // no such track, or a position could not be reached
	Data2048                  // data track stored as 2048-byte user data sectors
	Data2352                  // data track stored as raw 2352-byte sectors
	Audio                     // CDDA track of 16-bit stereo PCM
)

// IsData reports whether sectors of the track can be read with ReadSector.
func (t TrackType) IsData() bool {
	return t == Data2048 || t == Data2352
}

func (t TrackType) String() string {
	switch t {
	case Invalid:
		return "invalid"
	case Data2048:
		return "MODE1/2048"
	case Data2352:
		return "MODE1/2352"
	case Audio:
		return "AUDIO"
	default:
		return fmt.Sprintf("TrackType(%d)", int(t))
	}
}

// TrackInfo reports the layout of a track on the disc.
type TrackInfo struct {
	Number  uint16    // index of the track, starting at 1
	Type    TrackType // layout of the track's sectors
	Sectors uint32    // total number of sectors the track covers from index 1
	Frames  uint32    // total number of audio frames, zero for data tracks

	// silence declared by the cue sheet but not stored in the image, in sectors
	Pregap  uint32
	Postgap uint32
}

// ContainsSector reports whether the given sector is within the track bounds.
func (t TrackInfo) ContainsSector(sector uint32) bool {
	return sector < t.Sectors
}

// Duration returns the playing time of the track as MM:SS:FF.
func (t TrackInfo) Duration() string {
	m := t.Sectors / (60 * SectorsPerSecond)
	s := (t.Sectors / SectorsPerSecond) % 60
	f := t.Sectors % SectorsPerSecond
	return fmt.Sprintf("%02d:%02d:%02d", m, s, f)
}
