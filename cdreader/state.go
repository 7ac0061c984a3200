package cdreader

import (
	"encoding/binary"
	"fmt"

	"github.com/rabidaudio/megacd/disc"
	"github.com/sirupsen/logrus"
)

// StateBackup is a snapshot of the reader's position and playback, used by
// save states and rewind. It holds no reference to the disc.
type StateBackup struct {
	Track        uint16
	Sector       uint32
	Frame        uint32
	Setting      PlaybackSetting
	AudioPlaying bool
}

// StateSize is the length of a marshalled StateBackup.
const StateSize = 2 + 4 + 4 + 1 + 1

// CaptureState returns the current position. It does no I/O.
func (r *Reader) CaptureState() StateBackup {
	s := StateBackup{
		Setting:      r.setting,
		AudioPlaying: r.audioPlaying,
	}
	if r.open {
		s.Track, s.Sector, s.Frame = r.backend.State()
	}
	return s
}

// RestoreState moves the reader to a captured position. If the reader is
// closed or the position does not exist on the disc it returns false and
// nothing changes.
func (r *Reader) RestoreState(s StateBackup) bool {
	if !r.open {
		return false
	}
	typ := r.backend.SetState(s.Track, 1, s.Sector, s.Frame)
	if typ == disc.Invalid {
		r.log().WithFields(logrus.Fields{
			"track":  s.Track,
			"sector": s.Sector,
			"frame":  s.Frame,
		}).Debug("cdreader: restore rejected")
		return false
	}
	r.setting = s.Setting
	// only audio tracks play
	r.audioPlaying = s.AudioPlaying && typ == disc.Audio
	return true
}

// MarshalBinary encodes the backup as a fixed size little endian record. The
// layout is only stable within one build.
func (s StateBackup) MarshalBinary() ([]byte, error) {
	p := make([]byte, 0, StateSize)
	p = binary.LittleEndian.AppendUint16(p, s.Track)
	p = binary.LittleEndian.AppendUint32(p, s.Sector)
	p = binary.LittleEndian.AppendUint32(p, s.Frame)
	p = append(p, byte(s.Setting))
	if s.AudioPlaying {
		p = append(p, 1)
	} else {
		p = append(p, 0)
	}
	return p, nil
}

func (s *StateBackup) UnmarshalBinary(p []byte) error {
	if len(p) != StateSize {
		return fmt.Errorf("cdreader: state is %d bytes, expected %d", len(p), StateSize)
	}
	setting := PlaybackSetting(p[10])
	if !setting.valid() {
		return fmt.Errorf("cdreader: invalid playback setting %d", p[10])
	}
	if p[11] > 1 {
		return fmt.Errorf("cdreader: invalid playing flag %d", p[11])
	}
	*s = StateBackup{
		Track:        binary.LittleEndian.Uint16(p[0:]),
		Sector:       binary.LittleEndian.Uint32(p[2:]),
		Frame:        binary.LittleEndian.Uint32(p[6:]),
		Setting:      setting,
		AudioPlaying: p[11] == 1,
	}
	return nil
}
