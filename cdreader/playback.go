package cdreader

import (
	"fmt"
	"strings"

	"github.com/rabidaudio/megacd/disc"
	"github.com/sirupsen/logrus"
)

// PlaybackSetting decides what happens when the playing audio track ends
// before a read is satisfied.
type PlaybackSetting uint8

const (
	// All continues with the next track until a data track or the end of the
	// disc is reached.
	All PlaybackSetting = iota
	// Once stops at the end of the track.
	Once
	// Repeat plays the same track again from its start.
	Repeat
)

func (s PlaybackSetting) String() string {
	switch s {
	case All:
		return "all"
	case Once:
		return "once"
	case Repeat:
		return "repeat"
	default:
		return fmt.Sprintf("PlaybackSetting(%d)", uint8(s))
	}
}

func (s PlaybackSetting) valid() bool {
	return s <= Repeat
}

// Next cycles through the settings in the order all, once, repeat.
func (s PlaybackSetting) Next() PlaybackSetting {
	return (s + 1) % (Repeat + 1)
}

// ParsePlaybackSetting is the inverse of String.
func ParsePlaybackSetting(str string) (PlaybackSetting, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "all":
		return All, nil
	case "once":
		return Once, nil
	case "repeat":
		return Repeat, nil
	default:
		return All, fmt.Errorf("cdreader: unknown playback setting %q", str)
	}
}

// PlayAudio starts playing an audio track from index 1. It fails if the reader
// is closed or the track is not audio, in which case playback is stopped.
func (r *Reader) PlayAudio(track uint16, setting PlaybackSetting) bool {
	if !r.open {
		return false
	}
	r.audioPlaying = false
	if r.backend.SeekTrack(track, 1) != disc.Audio {
		return false
	}
	r.audioPlaying = true
	r.setting = setting
	r.log().WithFields(logrus.Fields{
		"track":   track,
		"setting": setting,
	}).Debug("cdreader: playing audio")
	return true
}

// SeekToFrame moves within the playing track. Seeking past the end of the
// track stops playback.
func (r *Reader) SeekToFrame(frame uint32) bool {
	if !r.open || !r.backend.SeekAudioFrame(frame) {
		r.audioPlaying = false
		return false
	}
	return true
}

// ReadAudio fills samples with interleaved stereo frames and returns the
// number of frames written.
//
// A read that runs past the end of the track continues according to the
// playback setting. Fewer frames than requested are returned only once
// playback has stopped; the caller pads the remainder.
func (r *Reader) ReadAudio(samples []int16) int {
	total := len(samples) / disc.Channels
	read := 0
	rewound := false
	for r.open && r.audioPlaying {
		n := r.backend.ReadFrames(samples[read*disc.Channels : total*disc.Channels])
		read += n
		if read == total {
			break
		}
		if n == 0 && rewound {
			// an empty track would repeat forever
			r.audioPlaying = false
			break
		}
		rewound = false

		switch r.setting {
		case All:
			track, _, _ := r.backend.State()
			if r.backend.SeekTrack(track+1, 1) != disc.Audio {
				r.audioPlaying = false
			} else {
				r.log().WithField("track", track+1).Debug("cdreader: next track")
			}
		case Once:
			r.audioPlaying = false
		case Repeat:
			rewound = r.SeekToFrame(0)
		}
	}
	return read
}

// StopAudio stops playback and leaves the cursor where it is.
func (r *Reader) StopAudio() {
	r.audioPlaying = false
}

// AudioPlaying reports whether ReadAudio will produce frames.
func (r *Reader) AudioPlaying() bool {
	return r.audioPlaying
}

func (r *Reader) PlaybackSetting() PlaybackSetting {
	return r.setting
}

// SetPlaybackSetting changes the setting of the playing track without
// restarting it.
func (r *Reader) SetPlaybackSetting(setting PlaybackSetting) {
	r.setting = setting
}
