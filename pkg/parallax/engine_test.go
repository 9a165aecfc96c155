package parallax

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dixieflatline76/Gaze/pkg/segment"
)

// failingProvider always errors, standing in for a missing model file or
// a detector crash.
type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) Segment(ctx context.Context, img image.Image) (*segment.Mask, error) {
	return nil, errors.New("detector unavailable")
}

// ellipseProvider returns a fixed subject ellipse.
type ellipseProvider struct{}

func (ellipseProvider) Name() string { return "ellipse" }

func (ellipseProvider) Segment(ctx context.Context, img image.Image) (*segment.Mask, error) {
	b := img.Bounds()
	m := segment.NewMask(b.Dx(), b.Dy())
	m.FillEllipse(float64(b.Dx())/2, float64(b.Dy())/2, float64(b.Dx())/4, float64(b.Dy())/3, 1.0, 0.2)
	return m, nil
}

func TestEngineNotPrepared(t *testing.T) {
	e := NewEngine(DefaultTuning())

	assert.False(t, e.Prepared())
	assert.ErrorIs(t, e.RequestPreview(Viewpoint{}), ErrNotPrepared)
	assert.ErrorIs(t, e.UpdateTargetResolution(640), ErrNotPrepared)

	_, err := e.RenderFull(Viewpoint{})
	assert.ErrorIs(t, err, ErrNotPrepared)
	_, err = e.RenderPreviewAt(Viewpoint{})
	assert.ErrorIs(t, err, ErrNotPrepared)
	_, err = e.FullSize()
	assert.ErrorIs(t, err, ErrNotPrepared)
	_, err = e.DepthRange()
	assert.ErrorIs(t, err, ErrNotPrepared)
	_, err = e.DepthGray()
	assert.ErrorIs(t, err, ErrNotPrepared)
}

func TestEnginePrepare(t *testing.T) {
	e := NewEngine(DefaultTuning())
	img := image.NewNRGBA(image.Rect(0, 0, 96, 72))

	require.NoError(t, e.Prepare(context.Background(), img, ellipseProvider{}))
	assert.True(t, e.Prepared())

	size, err := e.FullSize()
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 96, Y: 72}, size)

	rng, err := e.DepthRange()
	require.NoError(t, err)
	assert.Greater(t, rng, 0.0)

	out, err := e.RenderFull(Viewpoint{Yaw: 1, Intensity: 1})
	require.NoError(t, err)
	assert.NotNil(t, out.Frame)
}

func TestEnginePrepareInvalidGeometry(t *testing.T) {
	e := NewEngine(DefaultTuning())
	err := e.Prepare(context.Background(), image.NewNRGBA(image.Rect(0, 0, 0, 10)), nil)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.False(t, e.Prepared())
}

func TestEngineToleratesSegmentationFailure(t *testing.T) {
	e := NewEngine(DefaultTuning())
	img := image.NewNRGBA(image.Rect(0, 0, 96, 72))

	// A broken provider must not block preparation; the radial depth
	// fallback keeps the photo usable.
	require.NoError(t, e.Prepare(context.Background(), img, failingProvider{}))
	assert.True(t, e.Prepared())

	rng, err := e.DepthRange()
	require.NoError(t, err)
	assert.Greater(t, rng, DefaultTuning().MinDepthRangeForParallax)
}

func TestEnginePrepareCancelled(t *testing.T) {
	e := NewEngine(DefaultTuning())
	img := image.NewNRGBA(image.Rect(0, 0, 96, 72))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Prepare(ctx, img, failingProvider{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, e.Prepared())
}

func TestEnginePrepareReader(t *testing.T) {
	t.Run("valid png", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 48, 32))))

		e := NewEngine(DefaultTuning())
		require.NoError(t, e.PrepareReader(context.Background(), &buf, nil))
		assert.True(t, e.Prepared())
	})

	t.Run("undecodable input", func(t *testing.T) {
		e := NewEngine(DefaultTuning())
		err := e.PrepareReader(context.Background(), strings.NewReader("not an image"), nil)
		assert.Error(t, err)
		assert.False(t, e.Prepared())
	})
}

func TestEnginePrepareReplacesState(t *testing.T) {
	e := NewEngine(DefaultTuning())

	require.NoError(t, e.Prepare(context.Background(), image.NewNRGBA(image.Rect(0, 0, 64, 48)), nil))
	require.NoError(t, e.Prepare(context.Background(), image.NewNRGBA(image.Rect(0, 0, 128, 96)), nil))

	size, err := e.FullSize()
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 128, Y: 96}, size, "a new photo must replace the old state")
}

func TestEnginePreviewFlow(t *testing.T) {
	e := NewEngine(DefaultTuning())
	var collector frameCollector
	e.SetPublisher(collector.publish)

	require.NoError(t, e.Prepare(context.Background(), image.NewNRGBA(image.Rect(0, 0, 96, 72)), nil))
	require.NoError(t, e.UpdateTargetResolution(64))
	require.NoError(t, e.RequestPreview(Viewpoint{Yaw: 0.8, Intensity: 1}))

	require.Eventually(t, func() bool {
		return len(collector.snapshot()) > 0
	}, 2*time.Second, 5*time.Millisecond)

	frames := collector.snapshot()
	assert.NotNil(t, frames[0].Frame)
}
