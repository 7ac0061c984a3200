package disc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// fileKind is the type given to a FILE command.
type fileKind int

const (
	fileBinary   fileKind = iota // raw little endian data
	fileMotorola                 // raw data with big endian audio samples
	fileWave
	fileMP3
)

type cueIndex struct {
	number uint8
	sector uint32 // position inside the file, in sectors
}

type cueTrack struct {
	number  uint16
	typ     TrackType
	pregap  uint32 // PREGAP sectors, not stored in the file
	postgap uint32
	indexes []cueIndex
}

// index returns the position of the given index and whether it exists.
func (t *cueTrack) index(n uint8) (uint32, bool) {
	for _, i := range t.indexes {
		if i.number == n {
			return i.sector, true
		}
	}
	return 0, false
}

// first returns where the track begins in its file: index 0 if the pregap
// is stored in the file, otherwise index 1.
func (t *cueTrack) first() uint32 {
	if s, ok := t.index(0); ok {
		return s
	}
	s, _ := t.index(1)
	return s
}

type cueFile struct {
	name   string
	kind   fileKind
	tracks []*cueTrack
}

type cueSheet struct {
	files []*cueFile
}

func (c *cueSheet) trackCount() int {
	n := 0
	for _, f := range c.files {
		n += len(f.tracks)
	}
	return n
}

// isCueKeyword reports whether the word can start a CUE sheet. It is used to
// detect sheets that were not given a .cue extension.
func isCueKeyword(word string) bool {
	switch strings.ToUpper(word) {
	case "FILE", "REM", "CATALOG", "TITLE", "PERFORMER", "SONGWRITER", "CDTEXTFILE":
		return true
	}
	return false
}

// tokenize splits a CUE line into words, keeping quoted strings together.
func tokenize(line string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(line) {
		for i < len(line) && unicode.IsSpace(rune(line[i])) {
			i++
		}
		if i == len(line) {
			break
		}
		if line[i] == '"' {
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("string not closed: [%s]", line[i:])
			}
			tokens = append(tokens, line[i+1:i+1+end])
			i += end + 2
			continue
		}
		start := i
		for i < len(line) && !unicode.IsSpace(rune(line[i])) {
			i++
		}
		tokens = append(tokens, line[start:i])
	}
	return tokens, nil
}

// parseTimecode converts MM:SS:FF into a sector count.
func parseTimecode(str string) (uint32, error) {
	parts := strings.Split(str, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%q: %w", str, ErrBadTimecode)
	}
	var v [3]uint64
	for i, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return 0, fmt.Errorf("%q: %w", str, ErrBadTimecode)
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", str, ErrBadTimecode)
		}
		v[i] = n
	}
	if v[1] >= 60 || v[2] >= SectorsPerSecond {
		return 0, fmt.Errorf("%q: %w", str, ErrBadTimecode)
	}
	return uint32(v[0]*60*SectorsPerSecond + v[1]*SectorsPerSecond + v[2]), nil
}

func parseTrackMode(mode string) (TrackType, error) {
	switch strings.ToUpper(mode) {
	case "AUDIO":
		return Audio, nil
	case "MODE1/2048":
		return Data2048, nil
	case "MODE1/2352":
		return Data2352, nil
	default:
		return Invalid, fmt.Errorf("%s: %w", mode, ErrUnsupportedTrackMode)
	}
}

func parseFileKind(kind string) (fileKind, error) {
	switch strings.ToUpper(kind) {
	case "BINARY":
		return fileBinary, nil
	case "MOTOROLA":
		return fileMotorola, nil
	case "WAVE":
		return fileWave, nil
	case "MP3":
		return fileMP3, nil
	default:
		return 0, fmt.Errorf("%s: %w", kind, ErrUnsupportedFileType)
	}
}

// parseCue reads a CUE sheet. Only the commands affecting the disc layout are
// interpreted; metadata commands are skipped.
func parseCue(r io.Reader) (*cueSheet, error) {
	sheet := &cueSheet{}
	var file *cueFile
	var track *cueTrack

	s := bufio.NewScanner(r)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}
		tokens, err := tokenize(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", lineNo, err, ErrBadCueSheet)
		}

		bad := func(format string, args ...interface{}) error {
			return fmt.Errorf("line %d: %s: %w", lineNo, fmt.Sprintf(format, args...), ErrBadCueSheet)
		}

		switch cmd := strings.ToUpper(tokens[0]); cmd {
		case "FILE":
			if len(tokens) != 3 {
				return nil, bad("FILE expects a name and a type")
			}
			kind, err := parseFileKind(tokens[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			file = &cueFile{name: tokens[1], kind: kind}
			sheet.files = append(sheet.files, file)
			track = nil

		case "TRACK":
			if file == nil {
				return nil, bad("TRACK before FILE")
			}
			if len(tokens) != 3 {
				return nil, bad("TRACK expects a number and a mode")
			}
			n, err := strconv.ParseUint(tokens[1], 10, 8)
			if err != nil || n == 0 || n > MaxTracks {
				return nil, bad("invalid track number %q", tokens[1])
			}
			if int(n) != sheet.trackCount()+1 {
				return nil, fmt.Errorf("line %d: expecting track %d, found %d: %w",
					lineNo, sheet.trackCount()+1, n, ErrTrackOrder)
			}
			typ, err := parseTrackMode(tokens[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if typ != Audio && (file.kind == fileWave || file.kind == fileMP3) {
				return nil, bad("data track %d stored in an audio file", n)
			}
			track = &cueTrack{number: uint16(n), typ: typ}
			file.tracks = append(file.tracks, track)

		case "INDEX":
			if track == nil {
				return nil, bad("INDEX before TRACK")
			}
			if len(tokens) != 3 {
				return nil, bad("INDEX expects a number and a timecode")
			}
			n, err := strconv.ParseUint(tokens[1], 10, 8)
			if err != nil || n > 99 {
				return nil, bad("invalid index number %q", tokens[1])
			}
			pos, err := parseTimecode(tokens[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if _, dup := track.index(uint8(n)); dup {
				return nil, bad("duplicate index %d", n)
			}
			if len(track.indexes) > 0 && pos < track.indexes[len(track.indexes)-1].sector {
				return nil, bad("index %d goes backwards", n)
			}
			track.indexes = append(track.indexes, cueIndex{number: uint8(n), sector: pos})

		case "PREGAP", "POSTGAP":
			if track == nil {
				return nil, bad("%s before TRACK", cmd)
			}
			if len(tokens) != 2 {
				return nil, bad("%s expects a timecode", cmd)
			}
			gap, err := parseTimecode(tokens[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if cmd == "PREGAP" {
				track.pregap = gap
			} else {
				track.postgap = gap
			}

		case "REM", "CATALOG", "TITLE", "PERFORMER", "SONGWRITER", "ISRC", "FLAGS", "CDTEXTFILE":
			// metadata does not affect the layout

		default:
			return nil, bad("unknown command %s", tokens[0])
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	if sheet.trackCount() == 0 {
		return nil, ErrNoTracks
	}
	for _, f := range sheet.files {
		for _, t := range f.tracks {
			if _, ok := t.index(1); !ok {
				return nil, fmt.Errorf("track %d: %w", t.number, ErrMissingIndex)
			}
		}
	}
	return sheet, nil
}
