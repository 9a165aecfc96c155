package parallax

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/dixieflatline76/Gaze/util"
	"github.com/dixieflatline76/Gaze/util/log"
)

// FrameScheduler coalesces a continuous stream of viewpoint updates into
// single in-flight compositions with latest-wins semantics. The pending
// slot has depth one: a newer request overwrites an older one that has
// not started yet, so the preview never lags arbitrarily far behind
// input, and at most one composition runs at a time.
//
// Superseded requests are silently dropped; only the newest viewpoint at
// the moment compute starts is guaranteed to eventually reach the display.
type FrameScheduler struct {
	mu      sync.Mutex
	pending *Viewpoint

	running  *util.SafeFlag
	snapshot func() *PreviewSnapshot
	publish  func(*RenderOutput)
	limiter  *rate.Limiter
}

// NewFrameScheduler wires a scheduler to a snapshot source and a frame
// publisher. maxFPS caps the render loop rate; 0 leaves it unbounded.
func NewFrameScheduler(snapshot func() *PreviewSnapshot, publish func(*RenderOutput), maxFPS float64) *FrameScheduler {
	s := &FrameScheduler{
		running:  util.NewSafeBool(),
		snapshot: snapshot,
		publish:  publish,
	}
	if maxFPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(maxFPS), 1)
	}
	return s
}

// RequestRender records the latest requested viewpoint, overwriting any
// pending-but-not-started request, and starts the render loop if idle.
func (s *FrameScheduler) RequestRender(vp Viewpoint) {
	s.mu.Lock()
	v := vp
	s.pending = &v
	start := s.running.CompareAndSet(false, true)
	s.mu.Unlock()

	if start {
		go s.loop()
	}
}

// Busy reports whether a render loop is currently active.
func (s *FrameScheduler) Busy() bool {
	return s.running.Value()
}

// loop drains the pending slot until it stays empty. Each iteration
// atomically takes a consistent (snapshot, viewpoint) pair before
// compositing off the caller's thread.
func (s *FrameScheduler) loop() {
	for {
		s.mu.Lock()
		vp := s.pending
		s.pending = nil
		if vp == nil {
			s.running.Set(false)
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		if s.limiter != nil {
			_ = s.limiter.Wait(context.Background())
		}

		snap := s.snapshot()
		if snap == nil {
			continue
		}
		out, err := Render(snap.Source, snap.Depth, snap.Size, *vp, snap.Tuning)
		if err != nil {
			// Preview render errors are self-healing: the next request
			// supersedes this frame.
			log.Printf("Preview render failed: %v", err)
			continue
		}
		s.publish(out)
	}
}
