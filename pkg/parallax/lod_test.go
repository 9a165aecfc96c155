package parallax

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLOD(t *testing.T, w, h int) *LODManager {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	depth := gradientDepth(w, h)
	m, err := NewLODManager(img, depth, DefaultTuning())
	require.NoError(t, err)
	return m
}

func TestNewLODManagerInvalidGeometry(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 0, 10))
	_, err := NewLODManager(img, gradientDepth(8, 8), DefaultTuning())
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestLODPreviewFallsBackToFull(t *testing.T) {
	m := newTestLOD(t, 800, 600)

	// Before any target resolution is known the preview IS the full
	// pipeline.
	assert.Same(t, m.FullSnapshot(), m.PreviewSnapshot())
}

func TestLODFirstUpdateRebuilds(t *testing.T) {
	m := newTestLOD(t, 800, 600)

	rebuilt, err := m.UpdateTargetResolution(400)
	require.NoError(t, err)
	assert.True(t, rebuilt)

	snap := m.PreviewSnapshot()
	assert.NotSame(t, m.FullSnapshot(), snap)
	// 400 quantizes to 384; longest edge of the preview matches it.
	assert.Equal(t, 384, snap.Size.X)
	assert.Equal(t, 288, snap.Size.Y)
	// Depth follows the preview resolution.
	assert.Equal(t, 384, snap.Depth.Width())
	assert.Equal(t, 288, snap.Depth.Height())
}

func TestLODHysteresisSuppressesChurn(t *testing.T) {
	m := newTestLOD(t, 1600, 1200)

	rebuilt, err := m.UpdateTargetResolution(640)
	require.NoError(t, err)
	require.True(t, rebuilt)
	snap := m.PreviewSnapshot()

	// Same quantized edge: no work.
	rebuilt, err = m.UpdateTargetResolution(640)
	require.NoError(t, err)
	assert.False(t, rebuilt)

	// A wiggle inside the hysteresis band: still no work.
	rebuilt, err = m.UpdateTargetResolution(660)
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Same(t, snap, m.PreviewSnapshot(), "suppressed updates must keep the old snapshot")

	// A real size change rebuilds.
	rebuilt, err = m.UpdateTargetResolution(960)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.NotSame(t, snap, m.PreviewSnapshot())
}

func TestLODAtOrAboveSourceReusesFull(t *testing.T) {
	m := newTestLOD(t, 640, 480)

	rebuilt, err := m.UpdateTargetResolution(2000)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Same(t, m.FullSnapshot(), m.PreviewSnapshot(),
		"oversized targets must reuse the full pipeline instead of upscaling")
}

func TestLODSnapshotImmutable(t *testing.T) {
	m := newTestLOD(t, 1600, 1200)

	_, err := m.UpdateTargetResolution(400)
	require.NoError(t, err)
	old := m.PreviewSnapshot()
	oldSize := old.Size
	oldDepth := old.Depth

	_, err = m.UpdateTargetResolution(800)
	require.NoError(t, err)

	// The old snapshot is untouched; an in-flight render holding it
	// would finish against consistent data.
	assert.Equal(t, oldSize, old.Size)
	assert.Same(t, oldDepth, old.Depth)
}

func TestLODInvalidTarget(t *testing.T) {
	m := newTestLOD(t, 640, 480)

	_, err := m.UpdateTargetResolution(0)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	_, err = m.UpdateTargetResolution(-64)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
