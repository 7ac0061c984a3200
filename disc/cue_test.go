package disc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens, err := tokenize(`FILE "Sonic CD (Track 1).bin"   BINARY`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"FILE", "Sonic CD (Track 1).bin", "BINARY"}, tokens)

	tokens, err = tokenize("\tINDEX 01 00:02:00  ")
	assert.NoError(t, err)
	assert.Equal(t, []string{"INDEX", "01", "00:02:00"}, tokens)

	_, err = tokenize(`TITLE "unterminated`)
	assert.Error(t, err)
}

func TestParseTimecode(t *testing.T) {
	for str, want := range map[string]uint32{
		"00:00:00":  0,
		"00:00:74":  74,
		"00:01:00":  75,
		"01:00:00":  4500,
		"79:59:74":  79*4500 + 59*75 + 74,
		"100:00:00": 450000,
	} {
		got, err := parseTimecode(str)
		assert.NoError(t, err, str)
		assert.Equal(t, want, got, str)
	}

	for _, str := range []string{"", "00:00", "00:60:00", "00:00:75", "aa:00:00", "00::00", "-1:00:00", "0000:00:00"} {
		_, err := parseTimecode(str)
		assert.ErrorIs(t, err, ErrBadTimecode, str)
	}
}

const mixedSheet = `REM GENRE Game
CATALOG 0000000000000
TITLE "Mixed Mode"
FILE "game.bin" BINARY
  TRACK 01 MODE1/2352
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    FLAGS DCP
    PREGAP 00:02:00
    INDEX 01 00:00:04
  TRACK 03 AUDIO
    INDEX 00 00:00:07
    INDEX 01 00:00:08
FILE "bonus.wav" WAVE
  TRACK 04 AUDIO
    PERFORMER "Someone"
    INDEX 01 00:00:00
    POSTGAP 00:00:10
`

func TestParseCue(t *testing.T) {
	sheet, err := parseCue(strings.NewReader("\ufeff" + mixedSheet))
	require.NoError(t, err)
	require.Len(t, sheet.files, 2)
	assert.Equal(t, 4, sheet.trackCount())

	bin := sheet.files[0]
	assert.Equal(t, "game.bin", bin.name)
	assert.Equal(t, fileBinary, bin.kind)
	require.Len(t, bin.tracks, 3)

	assert.Equal(t, Data2352, bin.tracks[0].typ)
	assert.Equal(t, uint32(0), bin.tracks[0].first())

	t2 := bin.tracks[1]
	assert.Equal(t, Audio, t2.typ)
	assert.Equal(t, uint32(150), t2.pregap)
	assert.Equal(t, uint32(4), t2.first())

	t3 := bin.tracks[2]
	assert.Equal(t, uint32(7), t3.first())
	idx1, ok := t3.index(1)
	assert.True(t, ok)
	assert.Equal(t, uint32(8), idx1)

	wave := sheet.files[1]
	assert.Equal(t, fileWave, wave.kind)
	assert.Equal(t, uint16(4), wave.tracks[0].number)
	assert.Equal(t, uint32(10), wave.tracks[0].postgap)
}

func TestParseCueErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		sheet string
		err   error
	}{
		"empty": {"REM nothing\n", ErrNoTracks},
		"track before file": {
			"TRACK 01 AUDIO\n", ErrBadCueSheet},
		"unknown command": {
			"FILE \"a.bin\" BINARY\nHELLO\n", ErrBadCueSheet},
		"file type": {
			"FILE \"a.ogg\" OGG\n", ErrUnsupportedFileType},
		"track mode": {
			"FILE \"a.bin\" BINARY\nTRACK 01 MODE2/2352\nINDEX 01 00:00:00\n", ErrUnsupportedTrackMode},
		"first track not 1": {
			"FILE \"a.bin\" BINARY\nTRACK 02 AUDIO\nINDEX 01 00:00:00\n", ErrTrackOrder},
		"track skipped": {
			"FILE \"a.bin\" BINARY\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nTRACK 03 AUDIO\nINDEX 01 00:01:00\n", ErrTrackOrder},
		"no index 1": {
			"FILE \"a.bin\" BINARY\nTRACK 01 AUDIO\nINDEX 00 00:00:00\n", ErrMissingIndex},
		"duplicate index": {
			"FILE \"a.bin\" BINARY\nTRACK 01 AUDIO\nINDEX 01 00:00:00\nINDEX 01 00:00:00\n", ErrBadCueSheet},
		"index backwards": {
			"FILE \"a.bin\" BINARY\nTRACK 01 AUDIO\nINDEX 00 00:01:00\nINDEX 01 00:00:00\n", ErrBadCueSheet},
		"bad timecode": {
			"FILE \"a.bin\" BINARY\nTRACK 01 AUDIO\nINDEX 01 00:00:99\n", ErrBadTimecode},
		"data in wave": {
			"FILE \"a.wav\" WAVE\nTRACK 01 MODE1/2048\nINDEX 01 00:00:00\n", ErrBadCueSheet},
		"unterminated name": {
			"FILE \"a.bin BINARY\n", ErrBadCueSheet},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseCue(strings.NewReader(tc.sheet))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestIsCueKeyword(t *testing.T) {
	assert.True(t, isCueKeyword("file"))
	assert.True(t, isCueKeyword("REM"))
	assert.False(t, isCueKeyword("SEGADISCSYSTEM"))
	assert.False(t, isCueKeyword(""))
}
