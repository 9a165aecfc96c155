package export

import (
	"image"
	"time"
)

// Sink receives finished frames in presentation order. Add blocks until
// the sink has accepted the frame, which is the job's back-pressure:
// rendering never runs unboundedly ahead of encoding. Timestamps must be
// strictly increasing.
//
// Exactly one of Close or Abort ends a sink's life. Close finalizes the
// output; Abort discards all partial output and never fails.
type Sink interface {
	Add(frame *image.NRGBA, pts time.Duration) error
	Close() error
	Abort()
}
