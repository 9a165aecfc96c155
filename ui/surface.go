package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// viewerSurface is the interactive preview area. It shows the latest
// composited frame and translates mouse position into a normalized
// viewpoint: the cursor at the center means looking straight on, the
// edges mean full tilt.
type viewerSurface struct {
	widget.BaseWidget
	img *canvas.Image

	onMove  func(yaw, pitch float64)
	onLeave func()
}

var _ desktop.Hoverable = (*viewerSurface)(nil)

func newViewerSurface(onMove func(yaw, pitch float64), onLeave func()) *viewerSurface {
	s := &viewerSurface{
		img:     canvas.NewImageFromImage(image.NewNRGBA(image.Rect(0, 0, 1, 1))),
		onMove:  onMove,
		onLeave: onLeave,
	}
	s.img.FillMode = canvas.ImageFillContain
	s.img.ScaleMode = canvas.ImageScaleSmooth
	s.ExtendBaseWidget(s)
	return s
}

// CreateRenderer returns the renderer drawing the current frame.
func (s *viewerSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.img)
}

// SetFrame swaps the displayed frame. Must be called on the UI thread.
func (s *viewerSurface) SetFrame(frame image.Image) {
	s.img.Image = frame
	s.img.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (s *viewerSurface) MouseIn(ev *desktop.MouseEvent) {
	s.MouseMoved(ev)
}

// MouseMoved maps the cursor position to yaw/pitch in [-1,1].
func (s *viewerSurface) MouseMoved(ev *desktop.MouseEvent) {
	size := s.Size()
	if size.Width <= 0 || size.Height <= 0 || s.onMove == nil {
		return
	}
	yaw := float64(ev.Position.X)/float64(size.Width)*2 - 1
	pitch := float64(ev.Position.Y)/float64(size.Height)*2 - 1
	s.onMove(clampUnit(yaw), clampUnit(pitch))
}

// MouseOut recenters the view when the cursor leaves the surface.
func (s *viewerSurface) MouseOut() {
	if s.onLeave != nil {
		s.onLeave()
	}
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
