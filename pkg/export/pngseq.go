package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// PNGSequenceSink writes each frame as a numbered PNG into a directory.
// It is the inspection-friendly sink: individual frames can be diffed,
// opened, or reassembled by external tools.
type PNGSequenceSink struct {
	dir     string
	prefix  string
	written []string
	lastPTS time.Duration
	count   int
	closed  bool
}

// NewPNGSequenceSink creates a sink writing prefix_NNNN.png files into
// dir. The directory is created if missing.
func NewPNGSequenceSink(dir, prefix string) (*PNGSequenceSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}
	if prefix == "" {
		prefix = "frame"
	}
	return &PNGSequenceSink{dir: dir, prefix: prefix}, nil
}

// Add writes one frame to disk immediately.
func (s *PNGSequenceSink) Add(frame *image.NRGBA, pts time.Duration) error {
	if s.closed {
		return fmt.Errorf("png sequence sink for %s is closed", s.dir)
	}
	if frame == nil {
		return fmt.Errorf("png sequence sink for %s received a nil frame", s.dir)
	}
	if s.count > 0 && pts <= s.lastPTS {
		return fmt.Errorf("png sequence sink for %s: timestamp %v not after %v", s.dir, pts, s.lastPTS)
	}

	name := filepath.Join(s.dir, fmt.Sprintf("%s_%04d.png", s.prefix, s.count))
	if err := imaging.Save(frame, name); err != nil {
		return fmt.Errorf("writing frame %d: %w", s.count, err)
	}
	s.written = append(s.written, name)
	s.lastPTS = pts
	s.count++
	return nil
}

// Close finalizes the sequence. Frames are already on disk, so this
// only seals the sink.
func (s *PNGSequenceSink) Close() error {
	s.closed = true
	return nil
}

// Abort removes every frame written so far.
func (s *PNGSequenceSink) Abort() {
	s.closed = true
	for _, name := range s.written {
		os.Remove(name)
	}
	s.written = nil
}
