package parallax

// TuningConfig holds the internal magic numbers and thresholds for the
// parallax pipeline. The values are empirically tuned; they are
// centralized here (instead of hardcoded at call sites) so they can be
// overridden per install or, later, remotely.
type TuningConfig struct {
	// Band compositing
	BandCount    int     `json:"band_count"`    // Default: 8 (equal-width depth intervals)
	Feather      float64 `json:"feather"`       // Default: 0.15 (band edge softness, depth units)
	DilateRadius int     `json:"dilate_radius"` // Default: 2 (band overlap, pixels)
	NearExponent float64 `json:"near_exponent"` // Default: 1.15 (near bands swing slightly more)

	// Geometry
	TravelFraction float64 `json:"travel_fraction"` // Default: 0.06 (max shift as fraction of min dimension)
	SafetyMargin   float64 `json:"safety_margin"`   // Default: 0.02 (extra overscan beyond the travel)

	// Feasibility gate
	MinDepthRangeForParallax   float64 `json:"min_depth_range"`  // Default: 0.015 (flatter fields get no parallax)
	MinMotionPixelsForParallax float64 `json:"min_motion_px"`    // Default: 0.5 (sub-pixel shifts are skipped)

	// Depth synthesis
	MaskHoleCloseRadius int     `json:"mask_hole_close_radius"` // Default: 2 (dilate-then-erode, pixels)
	MaskSmoothingSigma  float64 `json:"mask_smoothing_sigma"`   // Default: 3.0 (mask edge blur)
	DepthFinalSigma     float64 `json:"depth_final_sigma"`      // Default: 1.5 (final depth field blur)
	RadialInnerFraction float64 `json:"radial_inner_fraction"`  // Default: 0.25 (full-near radius, fraction of min dim)
	RadialOuterFraction float64 `json:"radial_outer_fraction"`  // Default: 0.90 (zero-depth radius, fraction of min dim)

	// Band mask construction
	BandBlurPxPerFeather float64 `json:"band_blur_px_per_feather"` // Default: 20 (blur sigma = feather * this)

	// Level of detail
	LODQuantumPx          int     `json:"lod_quantum_px"`          // Default: 64 (target resolution grid)
	LODHysteresisPx       int     `json:"lod_hysteresis_px"`       // Default: 32 (rebuild threshold, pixels)
	LODRelativeHysteresis float64 `json:"lod_relative_hysteresis"` // Default: 0.04 (rebuild threshold, relative)
}

// DefaultTuning returns the standard pipeline tuning.
func DefaultTuning() TuningConfig {
	return TuningConfig{
		BandCount:                  8,
		Feather:                    0.15,
		DilateRadius:               2,
		NearExponent:               1.15,
		TravelFraction:             0.06,
		SafetyMargin:               0.02,
		MinDepthRangeForParallax:   0.015,
		MinMotionPixelsForParallax: 0.5,
		MaskHoleCloseRadius:        2,
		MaskSmoothingSigma:         3.0,
		DepthFinalSigma:            1.5,
		RadialInnerFraction:        0.25,
		RadialOuterFraction:        0.90,
		BandBlurPxPerFeather:       20,
		LODQuantumPx:               64,
		LODHysteresisPx:            32,
		LODRelativeHysteresis:      0.04,
	}
}
