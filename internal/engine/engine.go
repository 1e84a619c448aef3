// Package engine interprets ordered enhancement steps against an
// in-memory image and produces a new losslessly encoded image. Steps
// execute strictly in order; each operates on the result of the previous
// step. Unknown operation names abort the whole run.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/steplab/ocrprep/internal/plan"
	_ "golang.org/x/image/bmp"
)

// decodeSampleBytes is how many leading bytes are included in decode
// failure diagnostics.
const decodeSampleBytes = 16

// epsilon below which angle/delta parameters are treated as no-ops.
const opEpsilon = 1e-4

// Executor applies plan steps to image byte streams.
type Executor struct{}

// NewExecutor creates a step executor.
func NewExecutor() *Executor { return &Executor{} }

// Apply decodes input, executes steps in order and returns the result
// encoded as PNG. Cancellation is observed between steps.
func (e *Executor) Apply(ctx context.Context, input []byte, steps []plan.PlanStep) ([]byte, error) {
	img, err := decodeImage(input)
	if err != nil {
		return nil, err
	}

	work := imaging.Clone(img)
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		work, err = applyStep(work, step, i)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, work); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeImage decodes raw bytes, attaching byte-count and leading-byte
// diagnostics on failure.
func decodeImage(input []byte) (image.Image, error) {
	if len(input) == 0 {
		return nil, &DecodeError{ByteCount: 0, Sample: nil, Err: errors.New("empty input")}
	}
	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		n := decodeSampleBytes
		if len(input) < n {
			n = len(input)
		}
		return nil, &DecodeError{ByteCount: len(input), Sample: input[:n], Err: err}
	}
	return img, nil
}

// applyStep dispatches one step to its operation handler.
func applyStep(img *image.NRGBA, step plan.PlanStep, index int) (*image.NRGBA, error) {
	switch ParseKind(step.Op) {
	case KindNone:
		return img, nil
	case KindRotate:
		return applyRotate(img, decodeRotateParams(step)), nil
	case KindZoom:
		return applyZoom(img, decodeZoomParams(step)), nil
	case KindAutocontrast:
		return applyAutocontrast(img, decodeAutocontrastParams(step)), nil
	case KindCLAHE:
		return applyCLAHE(img, decodeCLAHEParams(step)), nil
	case KindDenoise:
		return applyDenoise(img, decodeDenoiseParams(step)), nil
	case KindBinarize:
		return applyBinarize(img, decodeBinarizeParams(step)), nil
	case KindBrightness:
		return applyBrightness(img, decodeBrightnessParams(step)), nil
	case KindGamma:
		return applyGamma(img, decodeGammaParams(step)), nil
	case KindSharpen:
		return applySharpen(img, decodeSharpenParams(step)), nil
	case KindDeskew:
		// Skew-angle estimation is not implemented; kept as a
		// pass-through so plans referencing it keep working.
		return img, nil
	default:
		return nil, &UnsupportedOpError{Op: step.Op, Index: index}
	}
}
