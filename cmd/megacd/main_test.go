package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rabidaudio/megacd/disc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failIfErr(t *testing.T, err error) {
	if err != nil {
		t.Fatal(err)
	}
}

// writeISO creates a 4 sector image with a boot header.
func writeISO(t *testing.T) string {
	data := make([]byte, 4*disc.SectorSize)
	copy(data, "SEGADISCSYSTEM  ")
	copy(data[0x120:], "TEST DISC")
	copy(data[0x1F0:], "J")
	data[2*disc.SectorSize] = 0xAB
	path := filepath.Join(t.TempDir(), "test.iso")
	failIfErr(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Setenv("MEGACD_LOG_LEVEL", "")
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info", writeISO(t))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{"TRACK", "TYPE", "SECTORS", "LENGTH", "PREGAP", "POSTGAP"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"01", "MODE1/2048", "4", "00:00:04", "0", "0"}, strings.Fields(lines[1]))
	assert.Contains(t, out, "title:     TEST DISC")
	assert.Contains(t, out, "regions:   J")
}

func TestSector(t *testing.T) {
	out, err := run(t, "sector", writeISO(t), "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "00000000  ab 00"), out)

	_, err = run(t, "sector", writeISO(t), "9")
	assert.Error(t, err)
}

func TestInfoMissingFile(t *testing.T) {
	_, err := run(t, "info", filepath.Join(t.TempDir(), "nothing.cue"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBadLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "info", writeISO(t))
	assert.Error(t, err)
}

func TestPlayBadMode(t *testing.T) {
	// rejected while validating, before any audio device is opened
	_, err := run(t, "play", "--mode", "shuffle", writeISO(t))
	assert.ErrorContains(t, err, "playback")
}

func TestFirstAudioTrack(t *testing.T) {
	assert.Equal(t, uint16(2), firstAudioTrack([]disc.TrackInfo{
		{Number: 1, Type: disc.Data2048},
		{Number: 2, Type: disc.Audio},
	}))
	assert.Equal(t, uint16(1), firstAudioTrack(nil))
}
