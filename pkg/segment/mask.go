package segment

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Mask is a single-channel subject-probability raster. Values are in
// [0,1] where 1 means "certainly subject/foreground". Masks are produced
// by Providers and consumed once during depth synthesis; they are never
// mutated after being returned.
type Mask struct {
	w, h int
	data []float32
}

// NewMask creates an all-zero mask with the given dimensions.
func NewMask(w, h int) *Mask {
	return &Mask{w: w, h: h, data: make([]float32, w*h)}
}

// NewMaskFromGray builds a mask from an 8-bit grayscale image,
// mapping 0..255 to 0..1.
func NewMaskFromGray(g *image.Gray) *Mask {
	b := g.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			m.data[y*m.w+x] = float32(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
		}
	}
	return m
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.w }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.h }

// Bounds returns the mask extent as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle { return image.Rect(0, 0, m.w, m.h) }

// At returns the mask value at (x, y). Out-of-bounds reads return 0.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return 0
	}
	return m.data[y*m.w+x]
}

// Set writes the mask value at (x, y), clamped to [0,1].
// Out-of-bounds writes are ignored.
func (m *Mask) Set(x, y int, v float32) {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	m.data[y*m.w+x] = v
}

// Max adds v on top of the existing value keeping the per-pixel maximum.
// Used when several detections contribute to one mask.
func (m *Mask) Max(x, y int, v float32) {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return
	}
	if v > 1 {
		v = 1
	}
	if v > m.data[y*m.w+x] {
		m.data[y*m.w+x] = v
	}
}

// Empty reports whether the mask carries no signal at all.
func (m *Mask) Empty() bool {
	for _, v := range m.data {
		if v > 0 {
			return false
		}
	}
	return true
}

// ToGray converts the mask to an 8-bit grayscale image.
func (m *Mask) ToGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.w, m.h))
	for i, v := range m.data {
		g.Pix[i] = uint8(v*255 + 0.5)
	}
	return g
}

// Resize returns a new mask rescaled to w x h. The original is untouched.
func (m *Mask) Resize(w, h int) *Mask {
	if w == m.w && h == m.h {
		return m
	}
	resized := imaging.Resize(m.ToGray(), w, h, imaging.Linear)
	out := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// imaging returns NRGBA; the channels are equal for gray input.
			out.data[y*w+x] = float32(resized.NRGBAAt(x, y).R) / 255
		}
	}
	return out
}

// FillEllipse paints a soft-edged ellipse into the mask. The value ramps
// from full strength inside (1-feather) of the radius down to zero at the
// boundary. feather is a fraction of the radius in (0,1).
func (m *Mask) FillEllipse(cx, cy, rx, ry float64, strength float32, feather float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	if feather <= 0 {
		feather = 0.01
	}
	minX := int(cx - rx - 1)
	maxX := int(cx + rx + 1)
	minY := int(cy - ry - 1)
	maxY := int(cy + ry + 1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			nx := (float64(x) - cx) / rx
			ny := (float64(y) - cy) / ry
			r := nx*nx + ny*ny
			if r >= 1 {
				continue
			}
			// Normalized radial distance, 0 at center, 1 at the edge.
			d := math.Sqrt(r)
			v := (1 - d) / feather
			if v > 1 {
				v = 1
			}
			m.Max(x, y, strength*float32(v))
		}
	}
}
