package disc

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// source is random access over the bytes a track is stored in. For BINARY
// files that is the file itself, for WAVE files the PCM chunk and for MP3
// files the decoded PCM stream.
type source interface {
	io.ReaderAt
	Size() int64
}

// streamReaderAt adapts a Stream to io.ReaderAt by seeking before every read.
// Reads are sequential in practice so the extra seek is cheap.
type streamReaderAt struct {
	s Stream
}

func (r streamReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if _, err := r.s.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(r.s, p)
}

func streamSize(s Stream) (int64, error) {
	size, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	_, err = s.Seek(0, io.SeekStart)
	return size, err
}

// binarySource exposes a whole BINARY file.
func binarySource(s Stream) (source, error) {
	size, err := streamSize(s)
	if err != nil {
		return nil, err
	}
	return io.NewSectionReader(streamReaderAt{s}, 0, size), nil
}

// waveSource exposes the PCM chunk of a WAVE file. Only CDDA sample format is
// accepted, since resampling is the job of the audio pipeline downstream.
func waveSource(s Stream) (source, error) {
	size, err := streamSize(s)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(s)
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("disc: wave: %w", err)
	}
	if dec.SampleRate != SampleRate || dec.NumChans != Channels || dec.BitDepth != 8*BytesPerSample {
		return nil, fmt.Errorf("disc: wave: %d Hz %d-bit %d channels: %w",
			dec.SampleRate, dec.BitDepth, dec.NumChans, ErrBadSampleFormat)
	}

	// the decoder leaves the stream at the first byte of PCM data
	start, err := Tell(s)
	if err != nil {
		return nil, err
	}
	length := dec.PCMLen()
	if length <= 0 || start+length > size {
		// streaming encoders leave the chunk size unset
		length = size - start
	}
	return io.NewSectionReader(streamReaderAt{s}, start, length), nil
}

// mp3Source exposes the decoded PCM of an MP3 file. go-mp3 always decodes to
// 16-bit little endian stereo.
type mp3Source struct {
	dec *mp3.Decoder
	pos int64
}

func newMP3Source(s Stream) (source, error) {
	dec, err := mp3.NewDecoder(s)
	if err != nil {
		return nil, fmt.Errorf("disc: mp3: %w", err)
	}
	if dec.SampleRate() != SampleRate {
		return nil, fmt.Errorf("disc: mp3: %d Hz: %w", dec.SampleRate(), ErrBadSampleFormat)
	}
	return &mp3Source{dec: dec}, nil
}

func (m *mp3Source) Size() int64 {
	return m.dec.Length()
}

func (m *mp3Source) ReadAt(p []byte, off int64) (int, error) {
	if off != m.pos {
		pos, err := m.dec.Seek(off, io.SeekStart)
		m.pos = pos
		if err != nil {
			return 0, err
		}
	}
	n, err := io.ReadFull(m.dec, p)
	m.pos += int64(n)
	return n, err
}
