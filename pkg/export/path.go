package export

import (
	"math"

	"github.com/dixieflatline76/Gaze/pkg/parallax"
)

// Easing remaps normalized progress in [0,1] to eased progress in [0,1].
// Every easing must map 0 to 0 and 1 to 1 so orbit loops stay closed.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseInOut is the smoothstep curve: gentle start and finish, fastest
// motion in the middle.
func EaseInOut(t float64) float64 { return t * t * (3 - 2*t) }

// EasingByName resolves a configured easing name. Unknown names fall
// back to ease-in-out, the default configured in Config.
func EasingByName(name string) Easing {
	if name == "linear" {
		return Linear
	}
	return EaseInOut
}

// OrbitPath traces one full ellipse through viewpoint space: yaw swings
// the full amplitude while pitch sweeps a flatter arc, which reads as a
// head moving around the subject. The path is closed, so a looping
// animation has no visible seam between its last and first frame.
type OrbitPath struct {
	YawAmplitude   float64
	PitchAmplitude float64
	Intensity      float64
	Curve          Easing
}

// NewOrbitPath returns the default orbit: full yaw swing, flattened
// pitch, full intensity, smoothstep pacing.
func NewOrbitPath() OrbitPath {
	return OrbitPath{
		YawAmplitude:   1.0,
		PitchAmplitude: 0.35,
		Intensity:      1.0,
		Curve:          EaseInOut,
	}
}

// At evaluates the path at normalized progress t in [0,1).
func (p OrbitPath) At(t float64) parallax.Viewpoint {
	curve := p.Curve
	if curve == nil {
		curve = EaseInOut
	}
	theta := curve(clamp01(t)) * 2 * math.Pi
	return parallax.Viewpoint{
		Yaw:       math.Sin(theta) * p.YawAmplitude,
		Pitch:     math.Cos(theta) * p.PitchAmplitude,
		Intensity: p.Intensity,
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
