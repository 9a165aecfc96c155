package parallax

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dixieflatline76/Gaze/pkg/segment"
)

func TestSynthesizeDepthRadial(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 120, 90))
	df, err := SynthesizeDepth(img, nil, DefaultTuning())
	require.NoError(t, err)

	assert.Equal(t, 120, df.Width())
	assert.Equal(t, 90, df.Height())

	center := float64(df.At(60, 45))
	corner := float64(df.At(0, 0))
	assert.Greater(t, center, 0.9, "radial fallback should be near 1 at the center")
	assert.Less(t, corner, 0.2, "radial fallback should be near 0 at the corners")
	assert.Greater(t, df.Range(), DefaultTuning().MinDepthRangeForParallax,
		"the radial fallback must always carry enough range for parallax")
}

func TestSynthesizeDepthWithMask(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 80, 80))
	mask := segment.NewMask(80, 80)
	mask.FillEllipse(40, 40, 18, 24, 1.0, 0.2)

	df, err := SynthesizeDepth(img, mask, DefaultTuning())
	require.NoError(t, err)

	inside := float64(df.At(40, 40))
	outside := float64(df.At(4, 4))
	assert.Greater(t, inside, outside, "subject pixels must read nearer than background")
	assert.Greater(t, inside, 0.5)
	assert.Less(t, outside, 0.3)
}

func TestSynthesizeDepthEmptyMaskFallsBack(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 60, 60))
	empty := segment.NewMask(60, 60)

	df, err := SynthesizeDepth(img, empty, DefaultTuning())
	require.NoError(t, err)

	// An empty mask must behave like no mask at all: radial gradient.
	assert.Greater(t, float64(df.At(30, 30)), float64(df.At(0, 0)))
}

func TestSynthesizeDepthInvalidGeometry(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 0, 10))
	_, err := SynthesizeDepth(img, nil, DefaultTuning())
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestSynthesizeDepthDeterministic(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	mask := segment.NewMask(64, 48)
	mask.FillEllipse(32, 24, 12, 16, 0.9, 0.3)

	a, err := SynthesizeDepth(img, mask, DefaultTuning())
	require.NoError(t, err)
	b, err := SynthesizeDepth(img, mask, DefaultTuning())
	require.NoError(t, err)

	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			require.Equal(t, a.At(x, y), b.At(x, y))
		}
	}
}
