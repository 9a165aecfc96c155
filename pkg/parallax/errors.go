package parallax

import "errors"

// ErrInvalidGeometry is returned when an image, output size, or depth
// field has non-positive dimensions.
var ErrInvalidGeometry = errors.New("invalid geometry: dimensions must be positive")

// ErrNotPrepared is returned when a render is requested before Prepare
// has succeeded for an image.
var ErrNotPrepared = errors.New("engine not prepared: no image loaded")

// Fallback reasons reported through RenderOutput when the feasibility
// gate declines to composite. These are not errors.
const (
	// FallbackFlatDepth means the depth field's dynamic range is too flat
	// to produce a convincing effect.
	FallbackFlatDepth = "depth field is too flat for parallax"

	// FallbackTiltTooSmall means the requested viewpoint shift is below
	// one half pixel and would not be visible.
	FallbackTiltTooSmall = "tilt too small for a visible shift"

	// FallbackZeroIntensity means the effect strength is dialed to zero.
	FallbackZeroIntensity = "intensity is zero"
)
