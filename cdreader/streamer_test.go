package cdreader

import (
	"testing"

	"github.com/rabidaudio/megacd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFrame(t *testing.T) {
	l, r := extractFrame([]int16{-32768, 16384})
	assert.Equal(t, -1.0, l)
	assert.Equal(t, 0.5, r)
}

func TestStreamer(t *testing.T) {
	r, _ := openMock(t, mock.Audio(30))
	require.True(t, r.PlayAudio(1, Once))
	s := NewStreamer(r)

	samples := make([][2]float64, 20)
	n, ok := s.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 20, n)
	assert.Equal(t, [2]float64{1.0 / (1 << 15), 5.0 / (1 << 15)}, samples[5])

	// the end of the track is a short stream
	n, ok = s.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	n, ok = s.Stream(samples)
	assert.False(t, ok)
	assert.Equal(t, 0, n)
	assert.NoError(t, s.Err())
}

func TestStreamerContinuous(t *testing.T) {
	r, _ := openMock(t, mock.Audio(30), mock.Audio(30))
	require.True(t, r.PlayAudio(1, Once))
	s := &Streamer{Reader: r, Continuous: true}

	samples := make([][2]float64, 40)
	for i := range samples {
		samples[i] = [2]float64{1, 1}
	}
	n, ok := s.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 40, n)
	for i := 30; i < 40; i++ {
		assert.Equal(t, [2]float64{}, samples[i])
	}

	n, ok = s.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 40, n)

	// a new track plays on the same streamer
	require.True(t, r.PlayAudio(2, Once))
	n, ok = s.Stream(samples[:1])
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, [2]float64{2.0 / (1 << 15), 0}, samples[0])
}
