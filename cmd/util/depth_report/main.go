package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/dixieflatline76/Gaze/config"
	"github.com/dixieflatline76/Gaze/pkg/parallax"
	"github.com/dixieflatline76/Gaze/pkg/segment"
	"github.com/dixieflatline76/Gaze/util/log"
)

// depth_report renders an HTML gallery for a directory of tuning images:
// the synthesized depth map plus composited frames at a few extreme
// viewpoints. Useful for eyeballing tuning changes before committing them.

func main() {
	log.Println("Starting Depth Report Generator...")

	sourceDir := filepath.Join("test_assets", "tuning_images")
	if len(os.Args) > 1 {
		sourceDir = os.Args[1]
	}

	outputDir := "depth_report_output"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	cfg := config.GetConfig()
	tun := parallax.DefaultTuning()

	// Face detection is optional here; the chain degrades to saliency
	// and then to the radial gradient.
	providers := []segment.Provider{}
	face, err := segment.NewFaceProvider(cfg.GetModelPath("facefinder"), segment.DefaultFaceConfig())
	if err != nil {
		log.Printf("Warning: face detection unavailable: %v", err)
	} else {
		providers = append(providers, face)
	}
	providers = append(providers, segment.NewSaliencyProvider(imaging.Lanczos))
	chain := segment.NewChainProvider(providers...)

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		log.Fatalf("Failed to read source directory %s: %v", sourceDir, err)
	}

	var html strings.Builder
	html.WriteString(`<html><head><style>
		body { font-family: sans-serif; background: #222; color: #eee; padding: 20px; }
		.test-case { margin-bottom: 50px; border-bottom: 1px solid #444; padding-bottom: 20px; }
		h2 { color: #f0a500; }
		.grid { display: grid; grid-template-columns: repeat(5, 1fr); gap: 10px; }
		.cell { text-align: center; }
		img { max-width: 100%; height: auto; border: 2px solid #555; }
		.label { margin-top: 5px; font-size: 0.9em; color: #aaa; }
		.meta { font-size: 0.8em; color: #777; }
	</style></head><body><h1>Depth &amp; Parallax Report</h1>`)

	viewpoints := []struct {
		Name string
		VP   parallax.Viewpoint
	}{
		{"Center", parallax.Viewpoint{Intensity: 1}},
		{"Full Left", parallax.Viewpoint{Yaw: -1, Intensity: 1}},
		{"Full Right", parallax.Viewpoint{Yaw: 1, Intensity: 1}},
		{"Up-Right", parallax.Viewpoint{Yaw: 0.7, Pitch: -0.7, Intensity: 1}},
	}

	processed := 0
	for _, f := range entries {
		name := f.Name()
		if f.IsDir() || !(strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".png")) {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		log.Printf("Processing %s...", name)

		img, err := imaging.Open(filepath.Join(sourceDir, name))
		if err != nil {
			log.Printf("Failed to open %s: %v", name, err)
			continue
		}

		engine := parallax.NewEngine(tun)
		start := time.Now()
		if err := engine.Prepare(context.Background(), img, chain); err != nil {
			log.Printf("Failed to prepare %s: %v", name, err)
			continue
		}
		prepTime := time.Since(start)

		depthRange, _ := engine.DepthRange()
		html.WriteString(fmt.Sprintf(`<div class="test-case"><h2>%s</h2><div class="meta">prepare: %v, depth range: %.3f</div><div class="grid">`,
			base, prepTime.Round(time.Millisecond), depthRange))

		// Depth map cell.
		depthGray, err := engine.DepthGray()
		if err == nil {
			depthFile := base + "_depth.png"
			if err := imaging.Save(depthGray, filepath.Join(outputDir, depthFile)); err != nil {
				log.Printf("Error saving depth map: %v", err)
			}
			html.WriteString(fmt.Sprintf(`
				<div class="cell">
					<img src="%s" />
					<div class="label">Depth</div>
				</div>`, depthFile))
		}

		// Rendered viewpoint cells.
		for _, v := range viewpoints {
			out, err := engine.RenderFull(v.VP)
			if err != nil {
				html.WriteString(fmt.Sprintf(`<div class="cell" style="color:#ff6b6b">Error: %v</div>`, err))
				continue
			}
			frameFile := fmt.Sprintf("%s_%s.jpg", base, sanitize(v.Name))
			if err := imaging.Save(out.Frame, filepath.Join(outputDir, frameFile)); err != nil {
				log.Printf("Error saving %s: %v", frameFile, err)
			}
			verdict := "parallax"
			if !out.UsedParallax {
				verdict = out.FallbackReason
			}
			html.WriteString(fmt.Sprintf(`
				<div class="cell">
					<img src="%s" />
					<div class="label">%s</div>
					<div class="meta">%s</div>
				</div>`, frameFile, v.Name, verdict))
		}

		html.WriteString(`</div></div>`)
		processed++
	}

	if processed == 0 {
		log.Fatalf("No images found in %s", sourceDir)
	}

	html.WriteString(`</body></html>`)
	if err := os.WriteFile(filepath.Join(outputDir, "report.html"), []byte(html.String()), 0644); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}
	log.Printf("Report generated successfully at %s/report.html", outputDir)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
