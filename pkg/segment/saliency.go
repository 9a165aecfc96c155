package segment

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
)

// SaliencyProvider approximates a subject mask from smartcrop's energy
// analysis. The best square crop of the image is taken as the region of
// interest and converted into a soft-edged rectangular mask. It is a
// coarse signal, meant as the fallback behind the face provider for
// non-portrait photos.
type SaliencyProvider struct {
	resampler imaging.ResampleFilter
	// edgeFeather is the soft border width as a fraction of the crop size.
	edgeFeather float64
}

// NewSaliencyProvider creates a saliency provider with the given
// resampling filter (imaging.Lanczos in production).
func NewSaliencyProvider(resampler imaging.ResampleFilter) *SaliencyProvider {
	return &SaliencyProvider{resampler: resampler, edgeFeather: 0.25}
}

// Name returns the identifier of the provider.
func (s *SaliencyProvider) Name() string { return "smartcrop-saliency" }

// Segment finds the most interesting square region and masks it softly.
func (s *SaliencyProvider) Segment(ctx context.Context, img image.Image) (*Mask, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image has empty bounds")
	}

	side := w
	if h < side {
		side = h
	}

	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: s.resampler})

	// smartcrop has no context support; run it on the side and race the
	// context, same as the crop path elsewhere in the app.
	type cropResult struct {
		crop image.Rectangle
		err  error
	}
	resultChan := make(chan cropResult, 1)
	go func() {
		crop, err := analyzer.FindBestCrop(img, side, side)
		resultChan <- cropResult{crop: crop, err: err}
	}()

	var crop image.Rectangle
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.err != nil {
			return nil, fmt.Errorf("finding salient region: %w", res.err)
		}
		crop = res.crop
	}

	if crop.Empty() {
		return nil, nil
	}

	mask := NewMask(w, h)
	feather := s.edgeFeather * float64(side)
	if feather < 1 {
		feather = 1
	}
	for y := crop.Min.Y - b.Min.Y; y < crop.Max.Y-b.Min.Y; y++ {
		for x := crop.Min.X - b.Min.X; x < crop.Max.X-b.Min.X; x++ {
			// Distance to the nearest crop edge drives the soft border.
			d := float64(minInt(
				x-(crop.Min.X-b.Min.X),
				(crop.Max.X-b.Min.X)-1-x,
				y-(crop.Min.Y-b.Min.Y),
				(crop.Max.Y-b.Min.Y)-1-y,
			))
			v := d / feather
			if v > 1 {
				v = 1
			}
			mask.Set(x, y, float32(v))
		}
	}
	return mask, nil
}

// resizer adapts imaging to the smartcrop.Resizer interface.
type resizer struct {
	resampler imaging.ResampleFilter
}

// Resize satisfies smartcrop.Resizer.
func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
