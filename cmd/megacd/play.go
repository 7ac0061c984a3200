package main

import (
	"fmt"
	"time"

	"github.com/faiface/beep/speaker"
	"github.com/nsf/termbox-go"
	"github.com/rabidaudio/megacd/cdreader"
	"github.com/rabidaudio/megacd/config"
	"github.com/rabidaudio/megacd/disc"
	"github.com/rabidaudio/megacd/rewind"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// how often the status line is redrawn and a rewind state captured
const tick = 100 * time.Millisecond

// states wound back by one press of the rewind key
const rewindSteps = int(time.Second / tick)

func playCmd(cfg *config.Config, log *logrus.Logger) *cobra.Command {
	var track uint16

	cmd := &cobra.Command{
		Use:   "play IMAGE",
		Short: "Play the audio tracks of an image",
		Long: `Play the audio tracks of an image.

Keys: n next track, p previous track, m cycle playback mode,
b rewind one second, space stop/start, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			setting := cfg.PlaybackSetting()
			r, err := openReader(args[0], log)
			if err != nil {
				return err
			}
			defer r.Close()

			if track == 0 {
				track = firstAudioTrack(r.Tracks())
			}
			if !r.PlayAudio(track, setting) {
				return fmt.Errorf("track %d is not an audio track", track)
			}
			p := &player{
				reader:  r,
				tracks:  r.Tracks(),
				current: track,
				history: rewind.NewRing(cfg.RewindDepth),
			}
			return p.run(cfg.Buffer, log)
		},
	}
	cmd.Flags().Uint16Var(&track, "track", 0, "track to start from (default: first audio track)")
	cmd.Flags().StringVar(&cfg.Playback, "mode", cfg.Playback, "playback mode: all, once or repeat (MEGACD_PLAYBACK)")
	cmd.Flags().DurationVar(&cfg.Buffer, "buffer", cfg.Buffer, "speaker buffer length (MEGACD_BUFFER_MS)")
	return cmd
}

func firstAudioTrack(tracks []disc.TrackInfo) uint16 {
	for _, t := range tracks {
		if t.Type == disc.Audio {
			return t.Number
		}
	}
	return 1
}

type player struct {
	reader  *cdreader.Reader
	tracks  []disc.TrackInfo
	current uint16
	history *rewind.Ring
}

func (p *player) run(buffer time.Duration, log *logrus.Logger) error {
	format := cdreader.Format
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(buffer)); err != nil {
		return err
	}
	defer speaker.Close()

	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	// logs would garble the screen
	level := log.GetLevel()
	log.SetLevel(logrus.ErrorLevel)
	defer log.SetLevel(level)

	speaker.Play(&cdreader.Streamer{Reader: p.reader, Continuous: true})

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				termbox.Interrupt()
			case <-done:
				return
			}
		}
	}()

	for {
		p.draw()
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventError:
			return ev.Err
		case termbox.EventInterrupt:
			speaker.Lock()
			p.history.Capture(p.reader)
			speaker.Unlock()
		case termbox.EventKey:
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				return nil
			}
			speaker.Lock()
			p.key(ev)
			speaker.Unlock()
		}
	}
}

// key handles a key press. The speaker must be locked.
func (p *player) key(ev termbox.Event) {
	r := p.reader
	switch {
	case ev.Ch == 'n':
		p.play(p.current + 1)
	case ev.Ch == 'p' && p.current > 1:
		p.play(p.current - 1)
	case ev.Ch == 'm':
		r.SetPlaybackSetting(r.PlaybackSetting().Next())
	case ev.Ch == 'b':
		p.history.Rewind(r, min(rewindSteps, p.history.Len()))
	case ev.Key == termbox.KeySpace:
		if r.AudioPlaying() {
			r.StopAudio()
		} else {
			p.play(p.current)
		}
	}
}

// play starts a track, skipping data tracks in the direction of travel.
func (p *player) play(track uint16) {
	step := 1
	if track < p.current {
		step = -1
	}
	for track >= 1 && int(track) <= len(p.tracks) {
		if p.reader.PlayAudio(track, p.reader.PlaybackSetting()) {
			p.current = track
			p.history.Reset()
			return
		}
		track = uint16(int(track) + step)
	}
}

func (p *player) draw() {
	speaker.Lock()
	s := p.reader.CaptureState()
	speaker.Unlock()
	if s.Track != 0 && s.AudioPlaying {
		p.current = s.Track
	}

	status := "stopped"
	if s.AudioPlaying {
		status = "playing"
	}
	sec := s.Frame / disc.SampleRate
	lines := []string{
		fmt.Sprintf("track %02d/%02d  %02d:%02d  %s  mode: %v", p.current, len(p.tracks), sec/60, sec%60, status, s.Setting),
		"n next  p previous  m mode  b rewind  space stop/start  q quit",
	}

	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for y, line := range lines {
		for x, ch := range line {
			termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
		}
	}
	termbox.Flush()
}
