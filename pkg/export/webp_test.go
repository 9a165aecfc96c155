package export

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidFrame(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestWebPSinkWritesAnimation(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "orbit.webp")
	s := NewWebPSink(dst)

	step := time.Second / 30
	for i := 0; i < 3; i++ {
		c := color.NRGBA{R: uint8(i * 80), G: 40, B: 200, A: 255}
		require.NoError(t, s.Add(solidFrame(16, 12, c), time.Duration(i)*step))
	}
	require.NoError(t, s.Close())

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// The temp file must be gone after a successful rename.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWebPSinkRejectsNonIncreasingPTS(t *testing.T) {
	s := NewWebPSink(filepath.Join(t.TempDir(), "orbit.webp"))

	require.NoError(t, s.Add(solidFrame(8, 8, color.NRGBA{A: 255}), 0))
	assert.Error(t, s.Add(solidFrame(8, 8, color.NRGBA{A: 255}), 0))
	assert.Error(t, s.Add(solidFrame(8, 8, color.NRGBA{A: 255}), -time.Millisecond))
}

func TestWebPSinkRejectsNilFrame(t *testing.T) {
	s := NewWebPSink(filepath.Join(t.TempDir(), "orbit.webp"))
	assert.Error(t, s.Add(nil, 0))
}

func TestWebPSinkCloseWithoutFrames(t *testing.T) {
	s := NewWebPSink(filepath.Join(t.TempDir(), "orbit.webp"))
	assert.Error(t, s.Close())
}

func TestWebPSinkAbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "orbit.webp")
	s := NewWebPSink(dst)

	require.NoError(t, s.Add(solidFrame(8, 8, color.NRGBA{A: 255}), 0))
	s.Abort()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "abort must leave no files behind")

	assert.Error(t, s.Add(solidFrame(8, 8, color.NRGBA{A: 255}), time.Second),
		"an aborted sink accepts no more frames")
}

func TestWebPSinkDurations(t *testing.T) {
	s := NewWebPSink(filepath.Join(t.TempDir(), "orbit.webp"))
	step := time.Second / 30
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Add(solidFrame(4, 4, color.NRGBA{A: 255}), time.Duration(i)*step))
	}

	d := s.durations()
	require.Len(t, d, 4)
	assert.Equal(t, d[0], d[1])
	assert.Equal(t, d[2], d[3], "the last frame holds as long as its predecessor")
	assert.InDelta(t, 33, float64(d[0]), 1)
}
