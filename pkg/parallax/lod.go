package parallax

import (
	"image"
	"math"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/dixieflatline76/Gaze/util/log"
)

// LODManager maintains the two resolution variants of the prepared
// pipeline: the full-resolution snapshot used for export, built once,
// and a screen-matched downscaled snapshot for the interactive preview.
// The preview variant is rebuilt only when the requested on-screen size
// moves meaningfully, so sub-pixel UI layout churn never triggers work.
//
// Snapshots are immutable; a rebuild replaces the pointer under the
// mutex, and in-flight renders holding the old snapshot finish unaffected.
type LODManager struct {
	mu  sync.Mutex
	tun TuningConfig

	srcImg *image.NRGBA // full-resolution decoded source
	full   *PreviewSnapshot

	preview     *PreviewSnapshot
	previewEdge int // quantized longest-edge of the current preview LOD, 0 = none
}

// NewLODManager builds the full-resolution pipeline for a prepared image
// and its depth field.
func NewLODManager(img image.Image, depth *DepthField, tun TuningConfig) (*LODManager, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrInvalidGeometry
	}

	src := imaging.Clone(img)
	over, err := BuildOverscan(src, tun.TravelFraction, tun.SafetyMargin)
	if err != nil {
		return nil, err
	}

	return &LODManager{
		tun:    tun,
		srcImg: src,
		full: &PreviewSnapshot{
			Source: over,
			Depth:  depth,
			Size:   image.Point{X: b.Dx(), Y: b.Dy()},
			Tuning: tun,
		},
	}, nil
}

// FullSnapshot returns the export-resolution snapshot.
func (m *LODManager) FullSnapshot() *PreviewSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.full
}

// PreviewSnapshot returns the active preview snapshot, falling back to
// the full-resolution one before any target resolution is known.
func (m *LODManager) PreviewSnapshot() *PreviewSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.preview != nil {
		return m.preview
	}
	return m.full
}

// UpdateTargetResolution informs the manager of the current on-screen
// longest edge in pixels. The request is quantized to the LOD grid and a
// rebuild only happens outside the hysteresis band. Reports whether a
// rebuild took place.
func (m *LODManager) UpdateTargetResolution(longestEdgePx int) (bool, error) {
	if longestEdgePx <= 0 {
		return false, ErrInvalidGeometry
	}

	q := m.quantize(longestEdgePx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.previewEdge != 0 && !m.beyondHysteresis(q, m.previewEdge) {
		return false, nil
	}

	snap, err := m.buildPreview(q)
	if err != nil {
		return false, err
	}
	m.preview = snap
	m.previewEdge = q
	log.Debugf("LOD: preview rebuilt for longest edge %d (%dx%d)", q, snap.Size.X, snap.Size.Y)
	return true, nil
}

// quantize snaps a requested edge to the coarse LOD grid.
func (m *LODManager) quantize(edge int) int {
	quantum := m.tun.LODQuantumPx
	if quantum < 1 {
		quantum = 1
	}
	q := (edge + quantum/2) / quantum * quantum
	if q < quantum {
		q = quantum
	}
	return q
}

// beyondHysteresis reports whether the quantized target differs enough
// from the current scale to justify a rebuild.
func (m *LODManager) beyondHysteresis(next, current int) bool {
	diff := next - current
	if diff < 0 {
		diff = -diff
	}
	if diff > m.tun.LODHysteresisPx {
		return true
	}
	rel := float64(diff) / float64(current)
	return rel > m.tun.LODRelativeHysteresis
}

// buildPreview derives a downscaled snapshot for the given longest edge.
// Requests at or above the source resolution reuse the full pipeline.
func (m *LODManager) buildPreview(edge int) (*PreviewSnapshot, error) {
	fullW := m.srcImg.Bounds().Dx()
	fullH := m.srcImg.Bounds().Dy()
	longest := fullW
	if fullH > longest {
		longest = fullH
	}
	if edge >= longest {
		return m.full, nil
	}

	scale := float64(edge) / float64(longest)
	w := int(math.Round(float64(fullW) * scale))
	h := int(math.Round(float64(fullH) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	scaled := imaging.Resize(m.srcImg, w, h, imaging.Lanczos)
	over, err := BuildOverscan(scaled, m.tun.TravelFraction, m.tun.SafetyMargin)
	if err != nil {
		return nil, err
	}
	depth, err := m.full.Depth.Rescale(w, h)
	if err != nil {
		return nil, err
	}

	return &PreviewSnapshot{
		Source: over,
		Depth:  depth,
		Size:   image.Point{X: w, Y: h},
		Tuning: m.tun,
	}, nil
}
