// Package config loads runtime settings of the megacd tool from the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rabidaudio/megacd/cdreader"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	LogLevel    string        // MEGACD_LOG_LEVEL, a logrus level name
	Playback    string        // MEGACD_PLAYBACK: all, once or repeat
	Buffer      time.Duration // MEGACD_BUFFER_MS, speaker buffer length
	RewindDepth int           // MEGACD_REWIND_DEPTH, states kept for rewind
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		LogLevel:    envStr("MEGACD_LOG_LEVEL", "info"),
		Playback:    envStr("MEGACD_PLAYBACK", "all"),
		Buffer:      time.Duration(envInt("MEGACD_BUFFER_MS", 100)) * time.Millisecond,
		RewindDepth: envInt("MEGACD_REWIND_DEPTH", 600),
	}
}

// Validate reports every invalid value.
func (c Config) Validate() error {
	var errs []error
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("config: log level: %w", err))
	}
	if _, err := cdreader.ParsePlaybackSetting(c.Playback); err != nil {
		errs = append(errs, fmt.Errorf("config: playback: %w", err))
	}
	if c.Buffer < time.Millisecond || c.Buffer > 5*time.Second {
		errs = append(errs, fmt.Errorf("config: buffer %v out of range 1ms-5s", c.Buffer))
	}
	if c.RewindDepth < 1 {
		errs = append(errs, fmt.Errorf("config: rewind depth must be positive, got %d", c.RewindDepth))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() logrus.Level {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

// PlaybackSetting returns the parsed playback setting, defaulting to all.
func (c Config) PlaybackSetting() cdreader.PlaybackSetting {
	s, _ := cdreader.ParsePlaybackSetting(c.Playback)
	return s
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
