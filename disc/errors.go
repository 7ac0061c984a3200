package disc

import (
	"fmt"
	"io/fs"
)

// ErrNoImage is returned when a file referenced by the image does not exist.
var ErrNoImage = fs.ErrNotExist

// Error is returned while detecting or opening a disc image.
type Error int

const (
	ErrUnknownFormat        Error = 1
	ErrBadCueSheet          Error = 2
	ErrUnsupportedTrackMode Error = 3
	ErrUnsupportedFileType  Error = 4
	ErrBadSampleFormat      Error = 5
	ErrNoTracks             Error = 6
	ErrTrackOrder           Error = 7
	ErrMissingIndex         Error = 8
	ErrBadTimecode          Error = 9
	ErrTruncatedImage       Error = 10

	ErrWrongTrackType Error = 100
	ErrEndOfTrack     Error = 101

	ErrNotSegaDisc Error = 200
)

func (e Error) Error() string {
	return fmt.Sprintf("disc: %v", e.name())
}

func (e Error) name() string {
	switch e {
	case ErrUnknownFormat:
		return "unable to detect image format"
	case ErrBadCueSheet:
		return "malformed cue sheet"
	case ErrUnsupportedTrackMode:
		return "unsupported track mode"
	case ErrUnsupportedFileType:
		return "unsupported file type"
	case ErrBadSampleFormat:
		return "audio must be 44.1KHz 16-bit stereo"
	case ErrNoTracks:
		return "image contains no tracks"
	case ErrTrackOrder:
		return "tracks must be numbered consecutively from 1"
	case ErrMissingIndex:
		return "track has no index 1"
	case ErrBadTimecode:
		return "invalid MM:SS:FF timecode"
	case ErrTruncatedImage:
		return "image is shorter than its layout"

	case ErrWrongTrackType:
		return "operation not supported on this track type"
	case ErrEndOfTrack:
		return "end of track"

	case ErrNotSegaDisc:
		return "sector 0 does not carry a Mega-CD header"
	default:
		return fmt.Sprintf("unknown error code: %v", int(e))
	}
}
