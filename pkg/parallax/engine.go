package parallax

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for PrepareReader
	_ "image/png"  // register decoder for PrepareReader
	"io"
	"sync"

	"github.com/dixieflatline76/Gaze/pkg/segment"
	"github.com/dixieflatline76/Gaze/util/log"
)

// Engine owns the prepared state for one selected photo and hands out
// work to the compositor. Configuration is single-writer (the UI
// context); background compute only ever sees immutable snapshots, so
// readers need no locks.
type Engine struct {
	mu    sync.Mutex
	tun   TuningConfig
	lod   *LODManager
	sched *FrameScheduler

	publish    func(*RenderOutput)
	previewFPS float64
}

// NewEngine creates an engine with the given tuning. No image is loaded
// yet; Prepare must succeed before any render call.
func NewEngine(tun TuningConfig) *Engine {
	return &Engine{tun: tun}
}

// SetPublisher installs the callback that receives preview frames.
// Must be set before the first RequestPreview.
func (e *Engine) SetPublisher(fn func(*RenderOutput)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publish = fn
}

// SetPreviewFPSCap bounds the preview render loop rate. Zero disables
// the cap. Takes effect at the next Prepare.
func (e *Engine) SetPreviewFPSCap(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.previewFPS = fps
}

// PrepareReader decodes a photo from r and prepares it. Undecodable
// input fails fast with a descriptive error and leaves no partial state.
func (e *Engine) PrepareReader(ctx context.Context, r io.Reader, provider segment.Provider) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	log.Debugf("Engine: decoded %s image %v", format, img.Bounds().Size())
	return e.Prepare(ctx, img, provider)
}

// Prepare runs the one-time pipeline for a decoded photo: attempt
// segmentation (failure tolerated), synthesize the depth field, and
// build the full-resolution overscan. On success the previous prepared
// state, if any, is replaced atomically.
func (e *Engine) Prepare(ctx context.Context, img image.Image, provider segment.Provider) error {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ErrInvalidGeometry
	}

	var mask *segment.Mask
	if provider != nil {
		m, err := provider.Segment(ctx, img)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Segmentation is best-effort: fall back to the radial path.
			log.Printf("Segmentation failed, using radial depth: %v", err)
		} else {
			mask = m
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	depth, err := SynthesizeDepth(img, mask, e.tun)
	if err != nil {
		return fmt.Errorf("synthesizing depth: %w", err)
	}

	lod, err := NewLODManager(img, depth, e.tun)
	if err != nil {
		return fmt.Errorf("building overscan pipeline: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lod = lod
	e.sched = NewFrameScheduler(lod.PreviewSnapshot, e.publishFrame, e.previewFPS)
	log.Printf("Engine prepared: %dx%d, depth range %.3f", b.Dx(), b.Dy(), depth.Range())
	return nil
}

// publishFrame forwards a finished preview frame to the installed
// publisher, if any.
func (e *Engine) publishFrame(out *RenderOutput) {
	e.mu.Lock()
	fn := e.publish
	e.mu.Unlock()
	if fn != nil {
		fn(out)
	}
}

// Prepared reports whether an image is loaded and ready to render.
func (e *Engine) Prepared() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lod != nil
}

// UpdateTargetResolution forwards the current on-screen longest edge to
// the LOD manager.
func (e *Engine) UpdateTargetResolution(longestEdgePx int) error {
	e.mu.Lock()
	lod := e.lod
	e.mu.Unlock()
	if lod == nil {
		return ErrNotPrepared
	}
	_, err := lod.UpdateTargetResolution(longestEdgePx)
	return err
}

// RequestPreview schedules a coalesced preview render for the viewpoint.
func (e *Engine) RequestPreview(vp Viewpoint) error {
	e.mu.Lock()
	sched := e.sched
	e.mu.Unlock()
	if sched == nil {
		return ErrNotPrepared
	}
	sched.RequestRender(vp)
	return nil
}

// RenderFull renders one frame at export resolution. The export driver
// calls this once per output frame, sequentially.
func (e *Engine) RenderFull(vp Viewpoint) (*RenderOutput, error) {
	e.mu.Lock()
	lod := e.lod
	e.mu.Unlock()
	if lod == nil {
		return nil, ErrNotPrepared
	}
	snap := lod.FullSnapshot()
	return Render(snap.Source, snap.Depth, snap.Size, vp, snap.Tuning)
}

// RenderPreviewAt renders one frame synchronously from the active
// preview snapshot. Used by diagnostics tooling; the interactive path
// goes through RequestPreview.
func (e *Engine) RenderPreviewAt(vp Viewpoint) (*RenderOutput, error) {
	e.mu.Lock()
	lod := e.lod
	e.mu.Unlock()
	if lod == nil {
		return nil, ErrNotPrepared
	}
	snap := lod.PreviewSnapshot()
	return Render(snap.Source, snap.Depth, snap.Size, vp, snap.Tuning)
}

// FullSize returns the prepared image's full resolution.
func (e *Engine) FullSize() (image.Point, error) {
	e.mu.Lock()
	lod := e.lod
	e.mu.Unlock()
	if lod == nil {
		return image.Point{}, ErrNotPrepared
	}
	return lod.FullSnapshot().Size, nil
}

// DepthRange returns the prepared depth field's dynamic range.
func (e *Engine) DepthRange() (float64, error) {
	e.mu.Lock()
	lod := e.lod
	e.mu.Unlock()
	if lod == nil {
		return 0, ErrNotPrepared
	}
	return lod.FullSnapshot().Depth.Range(), nil
}

// DepthGray returns the prepared depth field rendered as an 8-bit
// grayscale image, for diagnostics.
func (e *Engine) DepthGray() (*image.Gray, error) {
	e.mu.Lock()
	lod := e.lod
	e.mu.Unlock()
	if lod == nil {
		return nil, ErrNotPrepared
	}
	return lod.FullSnapshot().Depth.ToGray(), nil
}
