package export

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dixieflatline76/Gaze/pkg/parallax"
	"github.com/dixieflatline76/Gaze/util/log"
)

// Renderer produces export-resolution frames. *parallax.Engine satisfies
// this; tests substitute fakes.
type Renderer interface {
	RenderFull(vp parallax.Viewpoint) (*parallax.RenderOutput, error)
	FullSize() (image.Point, error)
}

// Options configures one export job.
type Options struct {
	Seconds float64
	FPS     float64
	Path    OrbitPath

	// OnProgress, when set, is called after each frame reaches the sink.
	OnProgress func(done, total int)
}

// Job drives one export: it walks the orbit path at a fixed frame rate,
// renders every frame sequentially, and streams them into a sink.
// Rendering and encoding run concurrently on an errgroup pair joined by
// an ordered unbuffered channel, so encoding time hides behind render
// time without ever reordering frames.
type Job struct {
	id       string
	renderer Renderer
	sink     Sink
	opts     Options
}

type timedFrame struct {
	img *image.NRGBA
	pts time.Duration
}

// NewJob creates an export job. The sink is owned by the job from here
// on: Run either Closes it on success or Aborts it on failure.
func NewJob(renderer Renderer, sink Sink, opts Options) *Job {
	return &Job{
		id:       uuid.NewString(),
		renderer: renderer,
		sink:     sink,
		opts:     opts,
	}
}

// ID returns the job's unique identifier, used in logs.
func (j *Job) ID() string { return j.id }

// FrameCount returns the number of frames this job will render.
func (j *Job) FrameCount() int {
	return int(j.opts.Seconds*j.opts.FPS + 0.5)
}

// Run executes the export. Cancellation is cooperative and checked per
// frame; on any failure all partial output is removed.
func (j *Job) Run(ctx context.Context) error {
	total := j.FrameCount()
	if total < 1 {
		j.sink.Abort()
		return fmt.Errorf("export job %s: %gs at %g fps yields no frames", j.id, j.opts.Seconds, j.opts.FPS)
	}
	if _, err := j.renderer.FullSize(); err != nil {
		j.sink.Abort()
		return fmt.Errorf("export job %s: %w", j.id, err)
	}

	log.Printf("Export job %s: %d frames (%gs at %g fps)", j.id, total, j.opts.Seconds, j.opts.FPS)

	frames := make(chan timedFrame)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(frames)
		for i := 0; i < total; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			// t covers [0,1) so the loop closes without duplicating
			// the first frame at the end.
			t := float64(i) / float64(total)
			out, err := j.renderer.RenderFull(j.opts.Path.At(t))
			if err != nil {
				return fmt.Errorf("rendering frame %d: %w", i, err)
			}
			pts := time.Duration(i) * time.Duration(float64(time.Second)/j.opts.FPS)
			select {
			case frames <- timedFrame{img: out.Frame, pts: pts}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	g.Go(func() error {
		done := 0
		for f := range frames {
			if err := j.sink.Add(f.img, f.pts); err != nil {
				return fmt.Errorf("encoding frame %d: %w", done, err)
			}
			done++
			if j.opts.OnProgress != nil {
				j.opts.OnProgress(done, total)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		j.sink.Abort()
		log.Printf("Export job %s aborted: %v", j.id, err)
		return err
	}
	if err := j.sink.Close(); err != nil {
		return fmt.Errorf("export job %s: %w", j.id, err)
	}
	return nil
}
