package cdreader

import (
	"testing"

	"github.com/rabidaudio/megacd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frames splits interleaved samples into frames.
func frames(samples []int16) [][2]int16 {
	f := make([][2]int16, len(samples)/2)
	for i := range f {
		f[i] = [2]int16{samples[2*i], samples[2*i+1]}
	}
	return f
}

func TestParsePlaybackSetting(t *testing.T) {
	for _, s := range []PlaybackSetting{All, Once, Repeat} {
		p, err := ParsePlaybackSetting(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, p)
	}
	p, err := ParsePlaybackSetting(" Repeat ")
	assert.NoError(t, err)
	assert.Equal(t, Repeat, p)

	_, err = ParsePlaybackSetting("shuffle")
	assert.Error(t, err)

	assert.Equal(t, Once, All.Next())
	assert.Equal(t, Repeat, Once.Next())
	assert.Equal(t, All, Repeat.Next())
}

func TestReadAudioNotPlaying(t *testing.T) {
	var closed Reader
	assert.Equal(t, 0, closed.ReadAudio(make([]int16, 64)))

	r, _ := openMock(t, mock.Audio(100))
	assert.Equal(t, 0, r.ReadAudio(make([]int16, 64)))
}

func TestReadAudioOnce(t *testing.T) {
	r, _ := openMock(t, mock.Audio(100), mock.Audio(100))
	require.True(t, r.PlayAudio(1, Once))

	buf := make([]int16, 2*60)
	assert.Equal(t, 60, r.ReadAudio(buf))
	assert.True(t, r.AudioPlaying())

	n := r.ReadAudio(buf)
	assert.Equal(t, 40, n)
	assert.False(t, r.AudioPlaying())
	f := frames(buf[:2*n])
	assert.Equal(t, mock.Frame(1, 60), f[0])
	assert.Equal(t, mock.Frame(1, 99), f[39])

	assert.Equal(t, 0, r.ReadAudio(buf))
}

func TestReadAudioRepeat(t *testing.T) {
	const length = 37
	r, _ := openMock(t, mock.Audio(length), mock.Audio(100))
	require.True(t, r.PlayAudio(1, Repeat))

	var got [][2]int16
	buf := make([]int16, 2*25)
	for range 10 {
		n := r.ReadAudio(buf)
		require.Equal(t, 25, n)
		got = append(got, frames(buf)...)
		assert.True(t, r.AudioPlaying())
	}
	for i, f := range got {
		assert.Equal(t, mock.Frame(1, uint32(i%length)), f, "frame %d", i)
	}
}

func TestReadAudioRepeatEmptyTrack(t *testing.T) {
	r, _ := openMock(t, mock.Audio(0))
	require.True(t, r.PlayAudio(1, Repeat))

	assert.Equal(t, 0, r.ReadAudio(make([]int16, 20)))
	assert.False(t, r.AudioPlaying())
}

func TestReadAudioAllContinues(t *testing.T) {
	r, b := openMock(t, mock.Data(10), mock.Audio(30), mock.Audio(30))
	require.True(t, r.PlayAudio(2, All))

	buf := make([]int16, 2*50)
	assert.Equal(t, 50, r.ReadAudio(buf))
	assert.True(t, r.AudioPlaying())

	// no gap or repeated frame at the boundary
	f := frames(buf)
	for i := range 30 {
		assert.Equal(t, mock.Frame(2, uint32(i)), f[i])
	}
	for i := range 20 {
		assert.Equal(t, mock.Frame(3, uint32(i)), f[30+i])
	}
	track, _, frame := b.State()
	assert.Equal(t, uint16(3), track)
	assert.Equal(t, uint32(20), frame)
}

func TestReadAudioAllLastTrack(t *testing.T) {
	r, _ := openMock(t, mock.Data(10), mock.Audio(30))
	require.True(t, r.PlayAudio(2, All))

	buf := make([]int16, 2*50)
	assert.Equal(t, 30, r.ReadAudio(buf))
	assert.False(t, r.AudioPlaying())
	assert.Equal(t, 0, r.ReadAudio(buf))
}

func TestReadAudioAllStopsAtDataTrack(t *testing.T) {
	r, _ := openMock(t, mock.Audio(30), mock.Data(10), mock.Audio(30))
	require.True(t, r.PlayAudio(1, All))

	assert.Equal(t, 30, r.ReadAudio(make([]int16, 2*50)))
	assert.False(t, r.AudioPlaying())
}

func TestReadAudioAllSpansTracks(t *testing.T) {
	// a single request longer than several short tracks
	r, _ := openMock(t, mock.Audio(5), mock.Audio(0), mock.Audio(5), mock.Audio(5))
	require.True(t, r.PlayAudio(1, All))

	buf := make([]int16, 2*12)
	assert.Equal(t, 12, r.ReadAudio(buf))
	f := frames(buf)
	assert.Equal(t, mock.Frame(1, 4), f[4])
	assert.Equal(t, mock.Frame(3, 0), f[5])
	assert.Equal(t, mock.Frame(4, 1), f[11])
	assert.True(t, r.AudioPlaying())
}

func TestSeekToFrame(t *testing.T) {
	r, _ := openMock(t, mock.Audio(100))
	require.True(t, r.PlayAudio(1, Once))

	assert.True(t, r.SeekToFrame(90))
	assert.True(t, r.AudioPlaying())
	buf := make([]int16, 2)
	assert.Equal(t, 1, r.ReadAudio(buf))
	assert.Equal(t, mock.Frame(1, 90), frames(buf)[0])

	assert.False(t, r.SeekToFrame(101))
	assert.False(t, r.AudioPlaying())

	var closed Reader
	assert.False(t, closed.SeekToFrame(0))
}
