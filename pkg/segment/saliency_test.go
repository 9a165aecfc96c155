package segment

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// busyTestImage returns a flat gray image with one detailed, colorful
// region so the energy analysis has something to lock onto.
func busyTestImage(w, h int, hot image.Rectangle) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{120, 120, 120, 255}}, image.Point{}, draw.Src)
	for y := hot.Min.Y; y < hot.Max.Y; y++ {
		for x := hot.Min.X; x < hot.Max.X; x++ {
			// Checkered saturated pattern: high edge energy and skin-ish tones.
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{220, 140, 110, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{40, 40, 200, 255})
			}
		}
	}
	return img
}

func TestSaliencyProviderProducesBoundedMask(t *testing.T) {
	img := busyTestImage(160, 120, image.Rect(10, 20, 70, 90))

	p := NewSaliencyProvider(imaging.Lanczos)
	mask, err := p.Segment(context.Background(), img)
	require.NoError(t, err)
	require.NotNil(t, mask)

	assert.Equal(t, 160, mask.Width())
	assert.Equal(t, 120, mask.Height())
	assert.False(t, mask.Empty())

	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			v := float64(mask.At(x, y))
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestSaliencyProviderHonorsCancellation(t *testing.T) {
	img := busyTestImage(160, 120, image.Rect(10, 20, 70, 90))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewSaliencyProvider(imaging.Lanczos)
	_, err := p.Segment(ctx, img)
	assert.Error(t, err)
}

func TestSaliencyProviderRejectsEmptyImage(t *testing.T) {
	p := NewSaliencyProvider(imaging.Lanczos)
	_, err := p.Segment(context.Background(), image.NewRGBA(image.Rectangle{}))
	assert.Error(t, err)
}
