package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"

	"github.com/dixieflatline76/Gaze/util/log"
)

// WebPSink accumulates frames in memory and encodes them as a looping
// animated WebP when closed. The encode goes to a hidden temp file next
// to the destination and only a successful encode renames it into
// place, so a crashed or aborted export never leaves a half-written
// animation behind.
type WebPSink struct {
	path    string
	tmpPath string

	frames []image.Image
	pts    []time.Duration
	closed bool
}

// NewWebPSink creates a sink that will write the finished animation to
// path. Nothing touches the filesystem until Close.
func NewWebPSink(path string) *WebPSink {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+uuid.NewString()+".webp.tmp")
	return &WebPSink{path: path, tmpPath: tmp}
}

// Add buffers one frame. Timestamps must be strictly increasing.
func (s *WebPSink) Add(frame *image.NRGBA, pts time.Duration) error {
	if s.closed {
		return fmt.Errorf("webp sink for %s is closed", s.path)
	}
	if frame == nil {
		return fmt.Errorf("webp sink for %s received a nil frame", s.path)
	}
	if n := len(s.pts); n > 0 && pts <= s.pts[n-1] {
		return fmt.Errorf("webp sink for %s: timestamp %v not after %v", s.path, pts, s.pts[n-1])
	}
	s.frames = append(s.frames, frame)
	s.pts = append(s.pts, pts)
	return nil
}

// Close encodes the buffered animation and atomically moves it to the
// destination path.
func (s *WebPSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if len(s.frames) == 0 {
		return fmt.Errorf("webp sink for %s has no frames", s.path)
	}

	anim := nativewebp.Animation{
		Images:    s.frames,
		Durations: s.durations(),
		Disposals: make([]uint, len(s.frames)),
		LoopCount: 0, // loop forever
	}

	f, err := os.Create(s.tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp animation file: %w", err)
	}
	if err := nativewebp.EncodeAll(f, &anim, nil); err != nil {
		f.Close()
		os.Remove(s.tmpPath)
		return fmt.Errorf("encoding animation: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(s.tmpPath)
		return fmt.Errorf("finishing temp animation file: %w", err)
	}
	if err := os.Rename(s.tmpPath, s.path); err != nil {
		os.Remove(s.tmpPath)
		return fmt.Errorf("moving animation into place: %w", err)
	}
	log.Printf("Exported %d-frame animation to %s", len(s.frames), s.path)
	return nil
}

// Abort discards all buffered frames and any partially written file.
func (s *WebPSink) Abort() {
	s.closed = true
	s.frames = nil
	s.pts = nil
	os.Remove(s.tmpPath)
}

// durations converts absolute timestamps into per-frame display times
// in milliseconds. The last frame holds as long as the one before it,
// which keeps a constant-rate loop perfectly even.
func (s *WebPSink) durations() []uint {
	out := make([]uint, len(s.pts))
	for i := 0; i < len(s.pts)-1; i++ {
		out[i] = uint((s.pts[i+1] - s.pts[i]).Milliseconds())
	}
	if n := len(out); n > 1 {
		out[n-1] = out[n-2]
	} else if n == 1 {
		out[0] = 33
	}
	return out
}
