package export

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGSequenceSinkWritesNumberedFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	s, err := NewPNGSequenceSink(dir, "orbit")
	require.NoError(t, err)

	step := time.Second / 30
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Add(solidFrame(8, 8, color.NRGBA{R: uint8(i), A: 255}), time.Duration(i)*step))
	}
	require.NoError(t, s.Close())

	for i := 0; i < 3; i++ {
		name := filepath.Join(dir, "orbit_000"+string(rune('0'+i))+".png")
		_, err := os.Stat(name)
		assert.NoError(t, err, "expected %s", name)
	}
}

func TestPNGSequenceSinkDefaultPrefix(t *testing.T) {
	dir := t.TempDir()
	s, err := NewPNGSequenceSink(dir, "")
	require.NoError(t, err)

	require.NoError(t, s.Add(solidFrame(4, 4, color.NRGBA{A: 255}), 0))
	_, err = os.Stat(filepath.Join(dir, "frame_0000.png"))
	assert.NoError(t, err)
}

func TestPNGSequenceSinkRejectsNonIncreasingPTS(t *testing.T) {
	s, err := NewPNGSequenceSink(t.TempDir(), "orbit")
	require.NoError(t, err)

	require.NoError(t, s.Add(solidFrame(4, 4, color.NRGBA{A: 255}), 0))
	assert.Error(t, s.Add(solidFrame(4, 4, color.NRGBA{A: 255}), 0))
}

func TestPNGSequenceSinkAbortRemovesFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	s, err := NewPNGSequenceSink(dir, "orbit")
	require.NoError(t, err)

	step := time.Second / 30
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Add(solidFrame(4, 4, color.NRGBA{A: 255}), time.Duration(i)*step))
	}
	s.Abort()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "abort must remove all written frames")
}
