package segment

import (
	"context"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/dixieflatline76/Gaze/util/log"
)

// FaceConfig holds the detection thresholds for the face provider.
// These are tuned empirically; treat them as configuration.
type FaceConfig struct {
	ScaleFactor    float64 `json:"scale_factor"`      // Default: 1.1 (pigo pyramid step)
	ShiftFactor    float64 `json:"shift_factor"`      // Default: 0.1 (detection window stride)
	MinSizePct     int     `json:"min_size_pct"`      // Default: 1 (% of min dimension)
	IoUThreshold   float64 `json:"iou_threshold"`     // Default: 0.2 (cluster merging)
	QualityCutoff  float32 `json:"quality_cutoff"`    // Default: 10.0 (discard weak detections)
	EllipseFeather float64 `json:"ellipse_feather"`   // Default: 0.35 (soft edge fraction)
	TorsoStrength  float32 `json:"torso_strength"`    // Default: 0.85 (body weaker than face)
}

// DefaultFaceConfig returns the standard face detection thresholds.
func DefaultFaceConfig() FaceConfig {
	return FaceConfig{
		ScaleFactor:    1.1,
		ShiftFactor:    0.1,
		MinSizePct:     1,
		IoUThreshold:   0.2,
		QualityCutoff:  10.0,
		EllipseFeather: 0.35,
		TorsoStrength:  0.85,
	}
}

// FaceProvider isolates portrait subjects with the pigo face detector.
// Detected faces become soft elliptical mask regions, extended downward
// to cover the implied torso so the whole subject moves as one band.
type FaceProvider struct {
	classifier *pigo.Pigo
	cfg        FaceConfig
}

// NewFaceProvider loads the facefinder cascade from the given path.
// A missing or unreadable cascade is an error; callers usually wrap this
// provider in a chain so the app degrades instead of failing.
func NewFaceProvider(cascadePath string, cfg FaceConfig) (*FaceProvider, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("reading face cascade: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpacking face cascade: %w", err)
	}
	return &FaceProvider{classifier: classifier, cfg: cfg}, nil
}

// Name returns the identifier of the provider.
func (f *FaceProvider) Name() string { return "pigo-face" }

// Segment runs the cascade over the image and paints one soft ellipse
// pair (face + torso) per clustered detection.
func (f *FaceProvider) Segment(ctx context.Context, img image.Image) (*Mask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := pigo.ImgToNRGBA(img)
	cols := src.Bounds().Dx()
	rows := src.Bounds().Dy()
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("image has empty bounds")
	}

	minDim := cols
	if rows < minDim {
		minDim = rows
	}
	minSize := minDim * f.cfg.MinSizePct / 100
	if minSize < 20 {
		minSize = 20
	}

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     minDim,
		ShiftFactor: f.cfg.ShiftFactor,
		ScaleFactor: f.cfg.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := f.classifier.RunCascade(params, 0.0)
	dets = f.classifier.ClusterDetections(dets, f.cfg.IoUThreshold)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mask := NewMask(cols, rows)
	found := 0
	for _, det := range dets {
		if det.Q < f.cfg.QualityCutoff {
			continue
		}
		found++
		cx := float64(det.Col)
		cy := float64(det.Row)
		r := float64(det.Scale) / 2

		// Face: slightly taller than wide.
		mask.FillEllipse(cx, cy, r*1.1, r*1.4, 1.0, f.cfg.EllipseFeather)
		// Torso: wider, centered below the chin. Keeps shoulders and
		// chest in the near band instead of splitting the subject.
		mask.FillEllipse(cx, cy+r*2.2, r*1.9, r*2.1, f.cfg.TorsoStrength, f.cfg.EllipseFeather)
	}

	if found == 0 {
		return nil, nil
	}
	log.Debugf("FaceProvider: %d face(s) above quality cutoff", found)
	return mask, nil
}
