package segment

import (
	"context"
	"image"

	"github.com/dixieflatline76/Gaze/util/log"
)

// Provider produces a subject mask for an image. Implementations may
// legitimately find nothing: a nil mask with a nil error means "no
// subject detected", which callers treat as a valid outcome, not a
// failure. Errors are reserved for broken inputs or unavailable models.
type Provider interface {
	// Name returns the provider's identifier, used in logs.
	Name() string

	// Segment analyzes the image and returns a subject mask, or nil when
	// no subject could be isolated.
	Segment(ctx context.Context, img image.Image) (*Mask, error)
}

// ChainProvider tries a list of providers in order and returns the first
// non-empty mask. Provider errors are logged and tolerated; the chain
// only fails on context cancellation.
type ChainProvider struct {
	providers []Provider
}

// NewChainProvider creates a chain over the given providers.
func NewChainProvider(providers ...Provider) *ChainProvider {
	return &ChainProvider{providers: providers}
}

// Name returns the identifier of the chain.
func (c *ChainProvider) Name() string { return "chain" }

// Segment runs the chained providers until one yields a usable mask.
func (c *ChainProvider) Segment(ctx context.Context, img image.Image) (*Mask, error) {
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mask, err := p.Segment(ctx, img)
		if err != nil {
			log.Printf("Segmentation provider %q failed: %v", p.Name(), err)
			continue
		}
		if mask == nil || mask.Empty() {
			log.Debugf("Segmentation provider %q found no subject", p.Name())
			continue
		}
		log.Debugf("Segmentation provider %q produced a subject mask", p.Name())
		return mask, nil
	}
	return nil, nil
}
