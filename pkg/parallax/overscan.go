package parallax

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// OverscannedSource is an enlarged, re-centered copy of the source image.
// The extra margin guarantees that any allowed per-axis shift keeps the
// output rectangle fully covered by real pixels, so big tilts never
// expose empty edges.
type OverscannedSource struct {
	img   *image.NRGBA
	baseW int
	baseH int
	scale float64
}

// BuildOverscan scales the source uniformly by 1 + 2*(travel+margin) and
// keeps it centered over the original frame. travelFraction is the
// maximum shift as a fraction of the shorter dimension; safetyMargin is
// the extra slack on top.
func BuildOverscan(img image.Image, travelFraction, safetyMargin float64) (*OverscannedSource, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidGeometry
	}
	if travelFraction < 0 || safetyMargin < 0 {
		return nil, ErrInvalidGeometry
	}

	scale := 1 + 2*(travelFraction+safetyMargin)
	ow := int(math.Ceil(float64(w) * scale))
	oh := int(math.Ceil(float64(h) * scale))

	scaled := imaging.Resize(img, ow, oh, imaging.Lanczos)
	return &OverscannedSource{img: scaled, baseW: w, baseH: h, scale: scale}, nil
}

// BaseSize returns the original (pre-overscan) dimensions.
func (o *OverscannedSource) BaseSize() image.Point {
	return image.Point{X: o.baseW, Y: o.baseH}
}

// Bounds returns the extent of the overscanned raster.
func (o *OverscannedSource) Bounds() image.Rectangle {
	return o.img.Bounds()
}

// Scale returns the uniform enlargement factor that was applied.
func (o *OverscannedSource) Scale() float64 { return o.scale }

// MaxShift returns the per-axis slack: the largest offset from center,
// in pixels, for which a crop of the given output size stays inside the
// overscanned raster.
func (o *OverscannedSource) MaxShift(out image.Point) image.Point {
	return image.Point{
		X: (o.img.Bounds().Dx() - out.X) / 2,
		Y: (o.img.Bounds().Dy() - out.Y) / 2,
	}
}

// Crop extracts an out-sized window shifted by (dx, dy) pixels from the
// centered position. Offsets are clamped to the available slack, so the
// result is always fully populated.
func (o *OverscannedSource) Crop(dx, dy float64, out image.Point) *image.NRGBA {
	ow := o.img.Bounds().Dx()
	oh := o.img.Bounds().Dy()

	x0 := (ow-out.X)/2 + int(math.Round(dx))
	y0 := (oh-out.Y)/2 + int(math.Round(dy))

	x0 = clampI(x0, 0, ow-out.X)
	y0 = clampI(y0, 0, oh-out.Y)

	return imaging.Crop(o.img, image.Rect(x0, y0, x0+out.X, y0+out.Y))
}

func clampI(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
