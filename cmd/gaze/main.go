package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dixieflatline76/Gaze/config"
	"github.com/dixieflatline76/Gaze/pkg/export"
	"github.com/dixieflatline76/Gaze/pkg/parallax"
	"github.com/dixieflatline76/Gaze/pkg/segment"
	"github.com/dixieflatline76/Gaze/ui"
	"github.com/dixieflatline76/Gaze/util/log"

	"github.com/disintegration/imaging"
)

func main() {
	exportPath := flag.String("export", "", "render an orbit animation to this file and exit (headless mode)")
	inPath := flag.String("in", "", "photo to load (required with -export)")
	seconds := flag.Float64("seconds", 0, "clip length in seconds (0 = configured default)")
	fps := flag.Int("fps", 0, "frames per second (0 = configured default)")
	easing := flag.String("easing", "", "orbit pacing: linear or ease-in-out (empty = configured default)")
	flag.Parse()

	if *exportPath != "" {
		if *inPath == "" {
			fmt.Fprintln(os.Stderr, "-export requires -in <photo>")
			os.Exit(2)
		}
		if err := runHeadless(*inPath, *exportPath, *seconds, *fps, *easing); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	ui.GetInstance().Run()
}

// runHeadless performs one export without bringing up a window.
func runHeadless(in, out string, seconds float64, fps int, easing string) error {
	cfg := config.GetConfig()
	if seconds <= 0 {
		seconds = cfg.ExportSeconds
	}
	if fps <= 0 {
		fps = cfg.ExportFPS
	}
	if easing == "" {
		easing = cfg.DefaultEasing
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening photo: %w", err)
	}
	defer f.Close()

	engine := parallax.NewEngine(parallax.DefaultTuning())
	if err := engine.PrepareReader(context.Background(), f, buildSegmenter(cfg)); err != nil {
		return err
	}

	path := export.NewOrbitPath()
	path.Curve = export.EasingByName(easing)

	var sink export.Sink
	if strings.HasSuffix(strings.ToLower(out), ".webp") {
		sink = export.NewWebPSink(out)
	} else {
		// Any other destination is treated as a directory for a PNG
		// frame sequence.
		s, err := export.NewPNGSequenceSink(out, "orbit")
		if err != nil {
			return err
		}
		sink = s
	}

	job := export.NewJob(engine, sink, export.Options{
		Seconds: seconds,
		FPS:     float64(fps),
		Path:    path,
		OnProgress: func(done, total int) {
			if done%30 == 0 || done == total {
				log.Printf("Rendered %d/%d frames", done, total)
			}
		},
	})
	return job.Run(context.Background())
}

// buildSegmenter assembles the same provider chain the UI uses.
func buildSegmenter(cfg *config.Config) segment.Provider {
	providers := []segment.Provider{}
	face, err := segment.NewFaceProvider(cfg.GetModelPath("facefinder"), segment.DefaultFaceConfig())
	if err != nil {
		log.Printf("Face detection unavailable: %v", err)
	} else {
		providers = append(providers, face)
	}
	providers = append(providers, segment.NewSaliencyProvider(imaging.Lanczos))
	return segment.NewChainProvider(providers...)
}
