package config

import (
	"testing"
	"time"

	"github.com/rabidaudio/megacd/cdreader"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MEGACD_LOG_LEVEL", "MEGACD_PLAYBACK", "MEGACD_BUFFER_MS", "MEGACD_REWIND_DEPTH"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, Config{
		LogLevel:    "info",
		Playback:    "all",
		Buffer:      100 * time.Millisecond,
		RewindDepth: 600,
	}, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.Equal(t, cdreader.All, cfg.PlaybackSetting())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MEGACD_LOG_LEVEL", "debug")
	t.Setenv("MEGACD_PLAYBACK", "repeat")
	t.Setenv("MEGACD_BUFFER_MS", "250")
	t.Setenv("MEGACD_REWIND_DEPTH", "60")

	cfg := Load()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, cdreader.Repeat, cfg.PlaybackSetting())
	assert.Equal(t, 250*time.Millisecond, cfg.Buffer)
	assert.Equal(t, 60, cfg.RewindDepth)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MEGACD_BUFFER_MS", "lots")
	t.Setenv("MEGACD_REWIND_DEPTH", "1e3")

	cfg := Load()
	assert.Equal(t, 100*time.Millisecond, cfg.Buffer)
	assert.Equal(t, 600, cfg.RewindDepth)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		LogLevel:    "chatty",
		Playback:    "shuffle",
		Buffer:      0,
		RewindDepth: 0,
	}
	err := cfg.Validate()
	assert.Error(t, err)
	for _, field := range []string{"log level", "playback", "buffer", "rewind depth"} {
		assert.Contains(t, err.Error(), field)
	}
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.Equal(t, cdreader.All, cfg.PlaybackSetting())
}
