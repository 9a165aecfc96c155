package export

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEasingEndpoints(t *testing.T) {
	for _, e := range []struct {
		name string
		fn   Easing
	}{
		{"linear", Linear},
		{"ease-in-out", EaseInOut},
	} {
		t.Run(e.name, func(t *testing.T) {
			assert.InDelta(t, 0.0, e.fn(0), 1e-12)
			assert.InDelta(t, 1.0, e.fn(1), 1e-12)
		})
	}
}

func TestEaseInOutShape(t *testing.T) {
	// Slower than linear at the start, symmetric about the midpoint.
	assert.Less(t, EaseInOut(0.1), 0.1)
	assert.Greater(t, EaseInOut(0.9), 0.9)
	assert.InDelta(t, 0.5, EaseInOut(0.5), 1e-12)
}

func TestEasingByName(t *testing.T) {
	assert.InDelta(t, 0.25, EasingByName("linear")(0.25), 1e-12)
	assert.InDelta(t, EaseInOut(0.25), EasingByName("ease-in-out")(0.25), 1e-12)
	assert.InDelta(t, EaseInOut(0.25), EasingByName("garbage")(0.25), 1e-12,
		"unknown names fall back to ease-in-out")
}

func TestOrbitPathClosedLoop(t *testing.T) {
	p := NewOrbitPath()

	start := p.At(0)
	end := p.At(1)
	assert.InDelta(t, start.Yaw, end.Yaw, 1e-9)
	assert.InDelta(t, start.Pitch, end.Pitch, 1e-9)
	assert.InDelta(t, start.Intensity, end.Intensity, 1e-9)
}

func TestOrbitPathShape(t *testing.T) {
	p := NewOrbitPath()
	p.Curve = Linear

	// Quarter orbit: full yaw swing right, pitch crossing zero.
	quarter := p.At(0.25)
	assert.InDelta(t, 1.0, quarter.Yaw, 1e-9)
	assert.InDelta(t, 0.0, quarter.Pitch, 1e-9)

	// Pitch amplitude is flattened relative to yaw.
	start := p.At(0)
	assert.InDelta(t, 0.35, start.Pitch, 1e-9)
	assert.InDelta(t, 0.0, start.Yaw, 1e-9)

	// All viewpoints stay in legal ranges.
	for i := 0; i <= 100; i++ {
		vp := p.At(float64(i) / 100)
		assert.LessOrEqual(t, math.Abs(vp.Yaw), 1.0)
		assert.LessOrEqual(t, math.Abs(vp.Pitch), 1.0)
		assert.InDelta(t, 1.0, vp.Intensity, 1e-12)
	}
}

func TestOrbitPathNilCurve(t *testing.T) {
	p := OrbitPath{YawAmplitude: 1, PitchAmplitude: 0.35, Intensity: 1}
	vp := p.At(0.5)
	assert.False(t, math.IsNaN(vp.Yaw))
}

func TestOrbitPathClampsProgress(t *testing.T) {
	p := NewOrbitPath()
	assert.Equal(t, p.At(0), p.At(-3))
	assert.Equal(t, p.At(1), p.At(7))
}
