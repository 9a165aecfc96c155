package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"

	"github.com/dixieflatline76/Gaze/config"
	"github.com/dixieflatline76/Gaze/pkg/export"
	"github.com/dixieflatline76/Gaze/pkg/parallax"
	"github.com/dixieflatline76/Gaze/pkg/segment"
	"github.com/dixieflatline76/Gaze/util"
	"github.com/dixieflatline76/Gaze/util/log"
)

// GazeApp represents the application
type GazeApp struct {
	app    fyne.App
	win    fyne.Window
	cfg    *config.Config
	engine *parallax.Engine

	surface   *viewerSurface
	status    *widget.Label
	intensity *widget.Slider
	exportBtn *widget.Button

	exporting *util.SafeFlag
}

var (
	instance *GazeApp  // Singleton instance of the application
	once     sync.Once // Ensures the singleton is created only once
)

// GetInstance returns the singleton instance of the application
func GetInstance() *GazeApp {
	once.Do(func() {
		a := app.NewWithID(config.ServiceName)
		cfg := config.GetConfig()

		engine := parallax.NewEngine(parallax.DefaultTuning())
		engine.SetPreviewFPSCap(cfg.PreviewFPSCap)

		instance = &GazeApp{
			app:       a,
			cfg:       cfg,
			engine:    engine,
			exporting: util.NewSafeBool(),
		}
		instance.buildMainWindow()
	})
	return instance
}

func (ga *GazeApp) buildMainWindow() {
	ga.win = ga.app.NewWindow(config.AppName)
	ga.win.Resize(fyne.NewSize(960, 720))
	ga.win.CenterOnScreen()

	ga.surface = newViewerSurface(ga.onPointerMoved, ga.onPointerLeft)
	ga.status = widget.NewLabel("Open a photo to begin")

	ga.intensity = widget.NewSlider(0, 1)
	ga.intensity.Step = 0.01
	ga.intensity.Value = 1
	ga.intensity.OnChanged = func(float64) {
		// Re-render the centered view so the strength change is visible
		// without moving the mouse.
		ga.requestPreview(0, 0)
	}

	openBtn := widget.NewButton("Open Photo", ga.openPhoto)
	ga.exportBtn = widget.NewButton("Export Animation", ga.exportAnimation)
	ga.exportBtn.Disable()

	toolbar := container.NewHBox(
		openBtn,
		ga.exportBtn,
		widget.NewLabel("Strength:"),
	)
	top := container.NewBorder(nil, nil, toolbar, nil, ga.intensity)

	ga.win.SetContent(container.NewBorder(top, ga.status, nil, nil, ga.surface))

	// Preview frames arrive from a background render loop; hop onto the
	// UI thread before touching any canvas object.
	ga.engine.SetPublisher(func(out *parallax.RenderOutput) {
		fyne.Do(func() {
			ga.surface.SetFrame(out.Frame)
			if !out.UsedParallax {
				ga.status.SetText(out.FallbackReason)
			} else {
				ga.status.SetText("")
			}
		})
	})
}

// openPhoto shows the file picker and prepares the selected image.
func (ga *GazeApp) openPhoto() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ga.win)
			return
		}
		if reader == nil {
			return // cancelled
		}
		ga.cfg.LastPhotoDir = filepath.Dir(reader.URI().Path())
		ga.cfg.Save()
		go ga.loadPhoto(reader)
	}, ga.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".jpg", ".jpeg", ".png"}))
	fd.Show()
}

// loadPhoto runs the prepare pipeline off the UI thread.
func (ga *GazeApp) loadPhoto(reader fyne.URIReadCloser) {
	defer reader.Close()
	name := reader.URI().Name()

	fyne.Do(func() {
		ga.status.SetText(fmt.Sprintf("Analyzing %s...", name))
		ga.exportBtn.Disable()
	})

	err := ga.engine.PrepareReader(context.Background(), reader, ga.buildSegmenter())
	if err != nil {
		log.Printf("Failed to prepare %s: %v", name, err)
		fyne.Do(func() {
			ga.status.SetText("")
			dialog.ShowError(err, ga.win)
		})
		return
	}

	fyne.Do(func() {
		ga.status.SetText(fmt.Sprintf("%s ready. Move the mouse over the photo.", name))
		ga.exportBtn.Enable()
		ga.updateLOD()
	})
	ga.requestPreview(0, 0)
}

// buildSegmenter assembles the provider chain: faces first, saliency as
// the fallback. A missing face model just drops that link.
func (ga *GazeApp) buildSegmenter() segment.Provider {
	providers := []segment.Provider{}
	face, err := segment.NewFaceProvider(ga.cfg.GetModelPath("facefinder"), segment.DefaultFaceConfig())
	if err != nil {
		log.Printf("Face detection unavailable: %v", err)
	} else {
		providers = append(providers, face)
	}
	providers = append(providers, segment.NewSaliencyProvider(imaging.Lanczos))
	return segment.NewChainProvider(providers...)
}

// updateLOD tells the engine how large the preview currently is on
// screen so it can pick a matching level of detail.
func (ga *GazeApp) updateLOD() {
	size := ga.surface.Size()
	edge := int(size.Width)
	if int(size.Height) > edge {
		edge = int(size.Height)
	}
	if edge <= 0 {
		return
	}
	if err := ga.engine.UpdateTargetResolution(edge); err != nil {
		log.Debugf("LOD update skipped: %v", err)
	}
}

func (ga *GazeApp) onPointerMoved(yaw, pitch float64) {
	ga.requestPreview(yaw, pitch)
}

func (ga *GazeApp) onPointerLeft() {
	ga.requestPreview(0, 0)
}

func (ga *GazeApp) requestPreview(yaw, pitch float64) {
	vp := parallax.Viewpoint{Yaw: yaw, Pitch: pitch, Intensity: ga.intensity.Value}
	if err := ga.engine.RequestPreview(vp); err != nil {
		log.Debugf("Preview request dropped: %v", err)
	}
}

// exportAnimation prompts for a destination and runs an export job with
// a progress dialog. Only one export runs at a time.
func (ga *GazeApp) exportAnimation() {
	if !ga.exporting.CompareAndSet(false, true) {
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			ga.exporting.Set(false)
			if err != nil {
				dialog.ShowError(err, ga.win)
			}
			return
		}
		dst := writer.URI().Path()
		writer.Close() // the sink writes the file itself

		path := export.NewOrbitPath()
		path.Curve = export.EasingByName(ga.cfg.DefaultEasing)
		path.Intensity = ga.intensity.Value

		progress := widget.NewProgressBar()
		pd := dialog.NewCustomWithoutButtons("Exporting animation", progress, ga.win)
		pd.Show()

		job := export.NewJob(ga.engine, export.NewWebPSink(dst), export.Options{
			Seconds: ga.cfg.ExportSeconds,
			FPS:     float64(ga.cfg.ExportFPS),
			Path:    path,
			OnProgress: func(done, total int) {
				fyne.Do(func() {
					progress.SetValue(float64(done) / float64(total))
				})
			},
		})

		go func() {
			err := job.Run(context.Background())
			ga.exporting.Set(false)
			fyne.Do(func() {
				pd.Hide()
				if err != nil {
					dialog.ShowError(err, ga.win)
					return
				}
				ga.status.SetText(fmt.Sprintf("Exported %s", dst))
			})
		}()
	}, ga.win)
	fd.SetFileName("orbit.webp")
	fd.Show()
}

// Run shows the main window and enters the event loop.
func (ga *GazeApp) Run() {
	ga.win.Show()
	ga.app.Run()
}
