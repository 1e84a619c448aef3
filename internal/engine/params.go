package engine

import (
	"strings"

	"github.com/steplab/ocrprep/internal/plan"
)

// Each operation owns a typed parameter struct with explicit defaults,
// decoded from the step's generic key/value bag. Unknown keys are
// ignored; missing keys fall back to the documented defaults.

// RotateParams configures the rotate operation.
type RotateParams struct {
	Angle float64 // degrees, counter-clockwise
}

func decodeRotateParams(s plan.PlanStep) RotateParams {
	p := RotateParams{Angle: 0}
	if v, ok := s.Number("angle"); ok {
		p.Angle = v
	}
	return p
}

// ZoomParams configures the zoom operation. When either explicit
// dimension is present it wins over the scale factor.
type ZoomParams struct {
	Width     int
	Height    int
	HasWidth  bool
	HasHeight bool
	Scale     float64
}

func decodeZoomParams(s plan.PlanStep) ZoomParams {
	p := ZoomParams{Scale: 1.0}
	if v, ok := s.Number("width"); ok {
		p.Width, p.HasWidth = int(v), true
	}
	if v, ok := s.Number("height"); ok {
		p.Height, p.HasHeight = int(v), true
	}
	if v, ok := s.Number("scale"); ok && v > 0 {
		p.Scale = v
	}
	return p
}

// AutocontrastParams configures percentile-clipped contrast stretching.
type AutocontrastParams struct {
	Cutoff float64 // fraction of pixels clipped from each histogram end
}

func decodeAutocontrastParams(s plan.PlanStep) AutocontrastParams {
	p := AutocontrastParams{Cutoff: 0.01}
	if v, ok := s.Number("cutoff"); ok {
		p.Cutoff = v
	}
	p.Cutoff = clampFloat(p.Cutoff, 0, 0.49)
	return p
}

// CLAHEParams configures contrast-limited adaptive histogram equalization.
type CLAHEParams struct {
	ClipLimit    float64
	TileGridSize int
}

func decodeCLAHEParams(s plan.PlanStep) CLAHEParams {
	p := CLAHEParams{ClipLimit: 2.0, TileGridSize: 8}
	if v, ok := s.Number("clipLimit"); ok {
		p.ClipLimit = v
	}
	if v, ok := s.Number("tileGridSize"); ok {
		p.TileGridSize = int(v)
	}
	if p.ClipLimit < 0.1 {
		p.ClipLimit = 0.1
	}
	if p.TileGridSize < 2 {
		p.TileGridSize = 2
	}
	return p
}

// Denoise strength levels.
const (
	DenoiseLight  = "light"
	DenoiseMedium = "medium"
	DenoiseStrong = "strong"
)

// DenoiseParams configures noise removal.
type DenoiseParams struct {
	Strength string
}

func decodeDenoiseParams(s plan.PlanStep) DenoiseParams {
	p := DenoiseParams{Strength: DenoiseLight}
	if v, ok := s.String("strength"); ok {
		switch strings.ToLower(v) {
		case DenoiseLight, DenoiseMedium, DenoiseStrong:
			p.Strength = strings.ToLower(v)
		}
	}
	return p
}

// Binarize methods.
const (
	BinarizeOtsu     = "otsu"
	BinarizeAdaptive = "adaptive"
)

// BinarizeParams configures thresholding. Threshold is nil unless an
// explicit fixed threshold was supplied.
type BinarizeParams struct {
	Method    string
	Threshold *float64
	BlockSize int // adaptive neighborhood size, forced odd, min 3
	C         float64
}

func decodeBinarizeParams(s plan.PlanStep) BinarizeParams {
	p := BinarizeParams{Method: BinarizeOtsu, BlockSize: 21, C: 5}
	if v, ok := s.String("method"); ok {
		switch strings.ToLower(v) {
		case BinarizeOtsu, BinarizeAdaptive:
			p.Method = strings.ToLower(v)
		}
	}
	if v, ok := s.Number("threshold"); ok {
		p.Threshold = &v
	}
	if v, ok := s.Number("blockSize"); ok {
		p.BlockSize = int(v)
	}
	if p.BlockSize < 3 {
		p.BlockSize = 3
	}
	if p.BlockSize%2 == 0 {
		p.BlockSize++
	}
	if v, ok := s.Number("c"); ok {
		p.C = v
	}
	return p
}

// BrightnessParams configures an additive intensity shift.
type BrightnessParams struct {
	Delta float64
}

func decodeBrightnessParams(s plan.PlanStep) BrightnessParams {
	p := BrightnessParams{Delta: 0}
	if v, ok := s.Number("delta"); ok {
		p.Delta = v
	}
	return p
}

// GammaParams configures LUT-based gamma correction.
type GammaParams struct {
	Value float64
}

func decodeGammaParams(s plan.PlanStep) GammaParams {
	p := GammaParams{Value: 1.0}
	if v, ok := s.Number("value"); ok {
		p.Value = v
	}
	p.Value = clampFloat(p.Value, 0.1, 10.0)
	return p
}

// SharpenParams configures unsharp masking. "strength" is accepted as an
// alias for "amount".
type SharpenParams struct {
	Amount float64
	Sigma  float64
}

func decodeSharpenParams(s plan.PlanStep) SharpenParams {
	p := SharpenParams{Amount: 1.2, Sigma: 1.0}
	if v, ok := s.Number("amount"); ok {
		p.Amount = v
	} else if v, ok := s.Number("strength"); ok {
		p.Amount = v
	}
	if v, ok := s.Number("sigma"); ok {
		p.Sigma = v
	}
	p.Amount = clampFloat(p.Amount, 0, 5)
	p.Sigma = clampFloat(p.Sigma, 0.1, 10)
	return p
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
