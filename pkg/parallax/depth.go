package parallax

import (
	"image"
	"math"

	"github.com/dixieflatline76/Gaze/pkg/segment"
	"github.com/dixieflatline76/Gaze/util/log"
)

// SynthesizeDepth produces a depth field for an image. With a subject
// mask the mask probability is treated directly as nearness: small holes
// are closed, edges are smoothed, and the result becomes the field. With
// no mask a radial gradient centered on the image guarantees some depth
// signal even for non-portrait photos.
//
// The function is pure: identical inputs yield identical fields.
func SynthesizeDepth(img image.Image, mask *segment.Mask, tun TuningConfig) (*DepthField, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidGeometry
	}

	var g *image.Gray
	if mask != nil && !mask.Empty() {
		g = depthFromMask(mask, w, h, tun)
	} else {
		g = radialDepth(w, h, tun)
	}

	// Final light blur hides quantization steps and mask artifacts.
	g = blurGray(g, tun.DepthFinalSigma)
	df := NewDepthFieldFromGray(g)
	log.Debugf("SynthesizeDepth: %dx%d range=%.3f (mask=%v)", w, h, df.Range(), mask != nil)
	return df, nil
}

// depthFromMask converts a subject mask into a nearness raster: close
// small holes with a dilate-then-erode pass, then low-pass the edges.
func depthFromMask(mask *segment.Mask, w, h int, tun TuningConfig) *image.Gray {
	m := mask.Resize(w, h)
	g := m.ToGray()

	r := tun.MaskHoleCloseRadius
	if r > 0 {
		g = erodeGray(dilateGray(g, r), r)
	}
	return blurGray(g, tun.MaskSmoothingSigma)
}

// radialDepth builds the fallback gradient: 1.0 inside the inner radius,
// falling linearly to 0.0 at the outer radius.
func radialDepth(w, h int, tun TuningConfig) *image.Gray {
	minDim := float64(w)
	if float64(h) < minDim {
		minDim = float64(h)
	}
	inner := tun.RadialInnerFraction * minDim
	outer := tun.RadialOuterFraction * minDim
	if outer <= inner {
		outer = inner + 1
	}
	cx := float64(w-1) / 2
	cy := float64(h-1) / 2

	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := math.Hypot(float64(x)-cx, float64(y)-cy)
			v := (outer - r) / (outer - inner)
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			g.Pix[y*g.Stride+x] = uint8(v*255 + 0.5)
		}
	}
	return g
}
