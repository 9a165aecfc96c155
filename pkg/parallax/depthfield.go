package parallax

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// DepthField is a single-channel raster of relative nearness estimates.
// Values are clamped to [0,1] where 1.0 encodes nearest and 0.0 farthest.
// A field is built once at prepare time and never mutated afterwards;
// resolution variants are independently owned derived copies.
type DepthField struct {
	w, h int
	data []float32

	// min/max are computed once when the field is sealed, so the
	// feasibility gate never rescans the raster per frame.
	min, max float32
}

// newDepthField allocates an unsealed field. Callers fill data and then
// call seal.
func newDepthField(w, h int) *DepthField {
	return &DepthField{w: w, h: h, data: make([]float32, w*h)}
}

// NewDepthFieldFromGray builds a sealed depth field from an 8-bit
// grayscale raster, mapping 0..255 to 0..1.
func NewDepthFieldFromGray(g *image.Gray) *DepthField {
	b := g.Bounds()
	df := newDepthField(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride : (y-b.Min.Y)*g.Stride+df.w]
		for x := 0; x < df.w; x++ {
			df.data[i] = float32(row[x]) / 255
			i++
		}
	}
	df.seal()
	return df
}

// seal clamps all samples to [0,1] and caches the min/max pair.
func (df *DepthField) seal() {
	if len(df.data) == 0 {
		df.min, df.max = 0, 0
		return
	}
	df.min, df.max = 1, 0
	for i, v := range df.data {
		if v < 0 {
			v = 0
			df.data[i] = 0
		} else if v > 1 {
			v = 1
			df.data[i] = 1
		}
		if v < df.min {
			df.min = v
		}
		if v > df.max {
			df.max = v
		}
	}
}

// Width returns the field width in pixels.
func (df *DepthField) Width() int { return df.w }

// Height returns the field height in pixels.
func (df *DepthField) Height() int { return df.h }

// Bounds returns the field extent as an image.Rectangle.
func (df *DepthField) Bounds() image.Rectangle { return image.Rect(0, 0, df.w, df.h) }

// At returns the depth at (x, y). Out-of-bounds reads return 0 (farthest).
func (df *DepthField) At(x, y int) float32 {
	if x < 0 || x >= df.w || y < 0 || y >= df.h {
		return 0
	}
	return df.data[y*df.w+x]
}

// Min returns the smallest depth sample.
func (df *DepthField) Min() float64 { return float64(df.min) }

// Max returns the largest depth sample.
func (df *DepthField) Max() float64 { return float64(df.max) }

// Range returns max-min, the field's dynamic range. The feasibility gate
// compares this against MinDepthRangeForParallax.
func (df *DepthField) Range() float64 { return float64(df.max - df.min) }

// ToGray converts the field to an 8-bit grayscale image, 255 = nearest.
func (df *DepthField) ToGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, df.w, df.h))
	for i, v := range df.data {
		g.Pix[i] = uint8(v*255 + 0.5)
	}
	return g
}

// Rescale returns a new, independently owned field resampled to w x h
// with Catmull-Rom interpolation. The original is untouched.
func (df *DepthField) Rescale(w, h int) (*DepthField, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidGeometry
	}
	if w == df.w && h == df.h {
		out := newDepthField(w, h)
		copy(out.data, df.data)
		out.seal()
		return out, nil
	}
	src := df.ToGray()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return NewDepthFieldFromGray(dst), nil
}
