package parallax

import (
	"image"
	"math"
)

// Render converts an overscanned source, a depth field, and a viewpoint
// into one composited frame. The depth range is partitioned into equal
// bands; each band's pixels move rigidly by a depth-weighted fraction of
// the travel, and the shifted layers are blended back-to-front through
// soft band masks so nearer content occludes farther content.
//
// A feasibility gate runs first: when the depth field is too flat, the
// requested motion is sub-pixel, or the intensity is zero, the unshifted
// source crop is returned with UsedParallax=false and a human-readable
// reason. The gate keeps the preview from ever showing a blank frame and
// the exporter from wasting work on no-op composites.
//
// Render is deterministic: bit-identical inputs produce bit-identical
// frames. That property backs reproducible exports and golden-frame tests.
func Render(src *OverscannedSource, depth *DepthField, size image.Point, vp Viewpoint, tun TuningConfig) (*RenderOutput, error) {
	if src == nil || depth == nil || size.X <= 0 || size.Y <= 0 {
		return nil, ErrInvalidGeometry
	}
	vp = vp.Clamped()

	minDim := float64(size.X)
	if float64(size.Y) < minDim {
		minDim = float64(size.Y)
	}
	travel := minDim * tun.TravelFraction * math.Max(0, vp.Intensity)

	// Feasibility gate.
	if depth.Range() < tun.MinDepthRangeForParallax {
		return fallback(src, size, FallbackFlatDepth), nil
	}
	motion := math.Hypot(vp.Yaw*travel, vp.Pitch*travel)
	if motion < tun.MinMotionPixelsForParallax {
		if vp.Intensity <= 1e-9 {
			return fallback(src, size, FallbackZeroIntensity), nil
		}
		return fallback(src, size, FallbackTiltTooSmall), nil
	}

	// The unshifted base guarantees visible content everywhere even
	// where band coverage dips.
	acc := newAccumulator(src.Crop(0, 0, size))

	bands := tun.BandCount
	if bands < 1 {
		bands = 1
	}
	bandWidth := 1.0 / float64(bands)
	blurSigma := tun.Feather * tun.BandBlurPxPerFeather

	// Farthest (lowest depth) first; later bands draw over earlier ones
	// so near content wins at band boundaries.
	for i := 0; i < bands; i++ {
		lower := float64(i) * bandWidth
		upper := lower + bandWidth
		mid := (lower + upper) / 2
		weight := bandWeight(mid, tun.NearExponent)

		dx := vp.Yaw * travel * weight
		dy := vp.Pitch * travel * weight

		// The outermost ramps are one-sided: without the extension a
		// depth of exactly 0 or 1 would fall out of its own band's
		// selection and saturated fields would never move.
		maskLower, maskUpper := lower, upper
		if i == 0 {
			maskLower -= tun.Feather
		}
		if i == bands-1 {
			maskUpper += tun.Feather
		}

		layer := src.Crop(dx, dy, size)
		mask := BuildBandMask(depth, maskLower, maskUpper, tun.Feather, tun.DilateRadius, blurSigma, size)
		acc.lerp(layer, mask)
	}

	return &RenderOutput{Frame: acc.toNRGBA(), UsedParallax: true}, nil
}

// bandWeight maps a band's depth midpoint to its signed motion weight:
// +1 for the farthest band, -1 for the nearest. An exponent above 1
// exaggerates near-band motion relative to far-band motion, which is the
// "near things swing more" parallax cue; exponent 1 is linear.
func bandWeight(mid, nearExponent float64) float64 {
	signed := (0.5 - mid) * 2
	if signed == 0 {
		return 0
	}
	w := math.Pow(math.Abs(signed), nearExponent)
	if signed < 0 {
		return -w
	}
	return w
}

func fallback(src *OverscannedSource, size image.Point, reason string) *RenderOutput {
	return &RenderOutput{
		Frame:          src.Crop(0, 0, size),
		UsedParallax:   false,
		FallbackReason: reason,
	}
}

// accumulator keeps the composite in normalized float space so repeated
// per-band lerps do not accumulate quantization error.
type accumulator struct {
	w, h int
	pix  []float32 // RGBA, 4 floats per pixel
}

func newAccumulator(base *image.NRGBA) *accumulator {
	b := base.Bounds()
	acc := &accumulator{w: b.Dx(), h: b.Dy()}
	acc.pix = make([]float32, acc.w*acc.h*4)
	for y := 0; y < acc.h; y++ {
		src := base.Pix[y*base.Stride:]
		for x := 0; x < acc.w*4; x++ {
			acc.pix[y*acc.w*4+x] = float32(src[x]) / 255
		}
	}
	return acc
}

// lerp composites the layer over the accumulator using the mask as the
// layer's per-pixel opacity.
func (acc *accumulator) lerp(layer *image.NRGBA, mask *BandMask) {
	for y := 0; y < acc.h; y++ {
		row := layer.Pix[y*layer.Stride:]
		for x := 0; x < acc.w; x++ {
			m := mask.Data[y*mask.W+x]
			if m <= 0 {
				continue
			}
			ai := (y*acc.w + x) * 4
			li := x * 4
			for c := 0; c < 4; c++ {
				lv := float32(row[li+c]) / 255
				acc.pix[ai+c] += m * (lv - acc.pix[ai+c])
			}
		}
	}
}

func (acc *accumulator) toNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, acc.w, acc.h))
	for i, v := range acc.pix {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out.Pix[i] = uint8(v*255 + 0.5)
	}
	return out
}
