package disc

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Option configures how an image is opened.
type Option func(*options)

type options struct {
	opener FileOpener
	log    logrus.FieldLogger
}

// WithFileOpener sets how files referenced by a CUE sheet are opened.
// The default is [OpenFile].
func WithFileOpener(opener FileOpener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

// WithLogger directs debug logs of the image to the given logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

type track struct {
	TrackInfo
	src   source
	start int64 // byte offset of index 1 within src
	size  int   // bytes per sector as stored
	swap  bool  // audio samples are big endian

	// offsets of the track's indexes from index 1, in sectors
	indexes map[uint8]uint32
}

// Image is a disc image opened by [Open]. It implements [Backend].
type Image struct {
	Format string // the detected container, e.g. "CUE/BIN"

	tracks  []*track
	streams []Stream
	log     logrus.FieldLogger

	// cursor
	cur    *track
	sector uint32
	frame  uint32

	sectorBuf [RawSectorSize]byte
	frameBuf  []byte
}

// Open detects the format of an already opened image and prepares it for
// reading. The path is used to detect the format by extension and to locate
// the files referenced by a CUE sheet.
//
// On success the Image owns stream and closes it on [Image.Close]. On error
// the caller keeps ownership of stream.
//
// The cursor of a newly opened image is at index 1 of track 1.
func Open(stream Stream, path string, opts ...Option) (*Image, error) {
	o := options{opener: OpenFile, log: discardLogger}
	for _, opt := range opts {
		opt(&o)
	}

	img := &Image{log: o.log.WithField("path", path)}

	cue, err := isCueSheet(stream, path)
	if err != nil {
		return nil, err
	}
	if cue {
		err = img.loadCue(stream, path, o.opener)
	} else {
		err = img.loadRaw(stream)
	}
	if err != nil {
		img.closeStreams()
		return nil, err
	}
	img.streams = append(img.streams, stream)

	img.SeekTrack(1, 1)
	img.log.WithFields(logrus.Fields{
		"format": img.Format,
		"tracks": len(img.tracks),
	}).Debug("disc: opened image")
	return img, nil
}

// isCueSheet checks the extension and, failing that, whether the stream
// starts with a CUE command. The stream is left at offset 0.
func isCueSheet(s Stream, path string) (bool, error) {
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return true, nil
	}
	head := make([]byte, 64)
	n, err := io.ReadFull(s, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	fields := strings.Fields(string(head[:n]))
	return len(fields) > 0 && isCueKeyword(fields[0]), nil
}

// loadRaw treats the stream as a single data track.
func (img *Image) loadRaw(s Stream) error {
	src, err := binarySource(s)
	if err != nil {
		return err
	}
	size := src.Size()
	if size == 0 {
		return ErrNoTracks
	}

	var sync [12]byte
	if _, err := src.ReadAt(sync[:], 0); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	t := &track{src: src, indexes: map[uint8]uint32{1: 0}}
	t.Number = 1
	switch {
	case sync == syncPattern && size%RawSectorSize == 0:
		img.Format = "BIN"
		t.Type = Data2352
		t.size = RawSectorSize
	case size%SectorSize == 0:
		img.Format = "ISO"
		t.Type = Data2048
		t.size = SectorSize
	default:
		return ErrUnknownFormat
	}
	t.Sectors = uint32(size / int64(t.size))
	img.tracks = []*track{t}
	return nil
}

// loadCue parses the sheet and opens every file it references.
func (img *Image) loadCue(s Stream, path string, opener FileOpener) error {
	sheet, err := parseCue(s)
	if err != nil {
		return err
	}

	img.Format = "CUE/BIN"
	dir := filepath.Dir(path)
	for _, f := range sheet.files {
		name := f.name
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		fs, err := opener(name)
		if err != nil {
			return fmt.Errorf("disc: %s: %w", f.name, err)
		}
		img.streams = append(img.streams, fs)

		var src source
		switch f.kind {
		case fileBinary, fileMotorola:
			src, err = binarySource(fs)
		case fileWave:
			src, err = waveSource(fs)
		case fileMP3:
			src, err = newMP3Source(fs)
		}
		if err != nil {
			return fmt.Errorf("disc: %s: %w", f.name, err)
		}
		if err := img.addTracks(f, src); err != nil {
			return fmt.Errorf("disc: %s: %w", f.name, err)
		}
	}
	return nil
}

func storedSectorSize(t TrackType) int {
	if t == Data2048 {
		return SectorSize
	}
	return RawSectorSize
}

// addTracks lays out the tracks stored in one file. Every track of a file
// runs from its first index up to the first index of the next track, or to
// the end of the file for the last one. Tracks of different sector sizes may
// share a file, so byte offsets are accumulated track by track.
func (img *Image) addTracks(f *cueFile, src source) error {
	var offset int64 // byte offset of sectorCursor
	var sectorCursor uint32
	prevSize := 0

	for i, ct := range f.tracks {
		size := storedSectorSize(ct.typ)
		if i == 0 {
			prevSize = size
		}
		first := ct.first()
		if first < sectorCursor {
			return fmt.Errorf("track %d overlaps the previous track: %w", ct.number, ErrBadCueSheet)
		}
		offset += int64(first-sectorCursor) * int64(prevSize)
		sectorCursor = first

		idx1, _ := ct.index(1)
		start := offset + int64(idx1-first)*int64(size)

		end := src.Size()
		if i+1 < len(f.tracks) {
			next := f.tracks[i+1].first()
			if next < first {
				return fmt.Errorf("track %d: %w", f.tracks[i+1].number, ErrBadCueSheet)
			}
			end = offset + int64(next-first)*int64(size)
		}
		if end < start || end > src.Size() {
			return fmt.Errorf("track %d: %w", ct.number, ErrTruncatedImage)
		}

		t := &track{
			src:     src,
			start:   start,
			size:    size,
			swap:    f.kind == fileMotorola,
			indexes: make(map[uint8]uint32),
		}
		t.Number = ct.number
		t.Type = ct.typ
		t.Pregap = ct.pregap
		t.Postgap = ct.postgap
		length := end - start
		if t.Type == Audio {
			t.Frames = uint32(length / BytesPerFrame)
			t.Sectors = (t.Frames + FramesPerSector - 1) / FramesPerSector
		} else {
			t.Sectors = uint32(length / int64(size))
		}
		for _, idx := range ct.indexes {
			if idx.number >= 1 {
				t.indexes[idx.number] = idx.sector - idx1
			}
		}

		img.tracks = append(img.tracks, t)
		prevSize = size
	}
	return nil
}

func (img *Image) track(n uint16) *track {
	if n < 1 || int(n) > len(img.tracks) {
		return nil
	}
	return img.tracks[n-1]
}

// Tracks returns the layout of every track, in order.
func (img *Image) Tracks() []TrackInfo {
	info := make([]TrackInfo, len(img.tracks))
	for i, t := range img.tracks {
		info[i] = t.TrackInfo
	}
	return info
}

func (img *Image) SeekTrack(track uint16, index uint8) TrackType {
	t := img.track(track)
	if t == nil {
		return Invalid
	}
	off, ok := t.indexes[index]
	if !ok {
		return Invalid
	}
	img.cur = t
	img.sector, img.frame = 0, 0
	if t.Type == Audio {
		img.frame = min(off*FramesPerSector, t.Frames)
	} else {
		img.sector = min(off, t.Sectors)
	}
	return t.Type
}

func (img *Image) SeekSector(sector uint32) bool {
	if img.cur == nil || !img.cur.Type.IsData() || sector >= img.cur.Sectors {
		return false
	}
	img.sector = sector
	return true
}

func (img *Image) ReadSector(out []byte) error {
	t := img.cur
	if t == nil || !t.Type.IsData() {
		return ErrWrongTrackType
	}
	if img.sector >= t.Sectors {
		return ErrEndOfTrack
	}

	buf := img.sectorBuf[:t.size]
	if _, err := t.src.ReadAt(buf, t.start+int64(img.sector)*int64(t.size)); err != nil {
		return fmt.Errorf("disc: track %d sector %d: %w", t.Number, img.sector, err)
	}
	if t.size == RawSectorSize {
		buf = buf[rawHeaderSize : rawHeaderSize+SectorSize]
	}
	copy(out, buf)
	img.sector++
	return nil
}

func (img *Image) SeekAudioFrame(frame uint32) bool {
	if img.cur == nil || img.cur.Type != Audio || frame > img.cur.Frames {
		return false
	}
	img.frame = frame
	return true
}

func (img *Image) ReadFrames(out []int16) int {
	t := img.cur
	if t == nil || t.Type != Audio {
		return 0
	}
	want := min(uint32(len(out)/Channels), t.Frames-img.frame)
	if want == 0 {
		return 0
	}

	need := int(want) * BytesPerFrame
	if cap(img.frameBuf) < need {
		img.frameBuf = make([]byte, need)
	}
	buf := img.frameBuf[:need]
	n, err := t.src.ReadAt(buf, t.start+int64(img.frame)*BytesPerFrame)
	got := n / BytesPerFrame
	if err != nil && uint32(got) < want {
		img.log.WithFields(logrus.Fields{
			"track": t.Number,
			"frame": img.frame,
		}).WithError(err).Warn("disc: short audio read")
	}

	decodePCM(out[:got*Channels], buf[:got*BytesPerFrame], t.swap)
	img.frame += uint32(got)
	return got
}

// decodePCM converts 16-bit PCM bytes to samples.
func decodePCM(out []int16, p []byte, bigEndian bool) {
	for i := range out {
		lo, hi := p[2*i], p[2*i+1]
		if bigEndian {
			lo, hi = hi, lo
		}
		out[i] = int16(uint16(lo) | uint16(hi)<<8)
	}
}

func (img *Image) SetState(track uint16, index uint8, sector uint32, frame uint32) TrackType {
	t := img.track(track)
	if t == nil {
		return Invalid
	}
	if _, ok := t.indexes[index]; !ok {
		return Invalid
	}
	if t.Type == Audio {
		if frame > t.Frames {
			return Invalid
		}
		sector = 0
	} else {
		if sector > t.Sectors {
			return Invalid
		}
		frame = 0
	}
	img.cur = t
	img.sector = sector
	img.frame = frame
	return t.Type
}

func (img *Image) State() (uint16, uint32, uint32) {
	if img.cur == nil {
		return 0, 0, 0
	}
	return img.cur.Number, img.sector, img.frame
}

// Close releases the image and every file it opened.
func (img *Image) Close() error {
	err := img.closeStreams()
	img.tracks = nil
	img.cur = nil
	img.sector, img.frame = 0, 0
	return err
}

func (img *Image) closeStreams() error {
	var errs []error
	for _, s := range img.streams {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	img.streams = nil
	return errors.Join(errs...)
}
