package parallax

import (
	"image"

	"github.com/disintegration/imaging"
)

// BandMask is an ephemeral single-channel raster selecting one depth
// interval. It is feathered and slightly dilated so adjacent bands
// overlap instead of leaving seams. Built on demand per band per frame,
// never cached.
type BandMask struct {
	W, H int
	Data []float32
}

// At returns the mask weight at (x, y). Out-of-bounds reads return 0.
func (bm *BandMask) At(x, y int) float32 {
	if x < 0 || x >= bm.W || y < 0 || y >= bm.H {
		return 0
	}
	return bm.Data[y*bm.W+x]
}

// BuildBandMask selects the depth interval [lower, upper) from the field
// as a soft mask at the target extent. The selection edges ramp over
// feather depth units, the raw mask is blurred to hide band boundaries,
// and a small dilation makes neighboring bands overlap.
//
// Degenerate bounds (lower == upper) yield an all-zero mask, which is a
// valid selection of nothing.
func BuildBandMask(depth *DepthField, lower, upper, feather float64, dilateRadius int, blurSigma float64, target image.Point) *BandMask {
	w, h := depth.Width(), depth.Height()

	// Raw selection: intersection of a rising ramp past lower and a
	// falling ramp before upper.
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := float64(depth.At(x, y))
			var v float64
			if feather <= 0 {
				if d >= lower && d < upper {
					v = 1
				}
			} else {
				up := clampF((d-lower)/feather, 0, 1)
				down := clampF((upper-d)/feather, 0, 1)
				v = up
				if down < v {
					v = down
				}
			}
			g.Pix[y*g.Stride+x] = uint8(v*255 + 0.5)
		}
	}

	g = blurGray(g, blurSigma)
	g = dilateGray(g, dilateRadius)

	if target.X != w || target.Y != h {
		resized := imaging.Resize(g, target.X, target.Y, imaging.Linear)
		g = grayFromNRGBA(resized)
	}

	bm := &BandMask{W: target.X, H: target.Y, Data: make([]float32, target.X*target.Y)}
	for y := 0; y < bm.H; y++ {
		for x := 0; x < bm.W; x++ {
			bm.Data[y*bm.W+x] = float32(g.Pix[y*g.Stride+x]) / 255
		}
	}
	return bm
}
