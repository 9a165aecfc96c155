package parallax

import "image"

// Viewpoint is the simulated gaze direction and effect strength for one
// rendered frame. Yaw and Pitch are normalized to [-1,1]; Intensity to
// [0,1]. Viewpoints are transient values supplied per render call.
type Viewpoint struct {
	Yaw       float64
	Pitch     float64
	Intensity float64
}

// Clamped returns a copy with all components forced into their legal ranges.
func (v Viewpoint) Clamped() Viewpoint {
	return Viewpoint{
		Yaw:       clampF(v.Yaw, -1, 1),
		Pitch:     clampF(v.Pitch, -1, 1),
		Intensity: clampF(v.Intensity, 0, 1),
	}
}

// RenderOutput bundles a rendered frame with the feasibility gate's
// verdict. When UsedParallax is false the frame is the unshifted source
// crop and FallbackReason says why.
type RenderOutput struct {
	Frame          *image.NRGBA
	UsedParallax   bool
	FallbackReason string
}

// PreviewSnapshot is an immutable bundle of everything one composition
// needs. It is captured under the owner's lock and handed to background
// compute, which therefore never observes a half-updated engine state.
type PreviewSnapshot struct {
	Source *OverscannedSource
	Depth  *DepthField
	Size   image.Point
	Tuning TuningConfig
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
