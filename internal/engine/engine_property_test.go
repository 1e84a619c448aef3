package engine

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/steplab/ocrprep/internal/plan"
	"github.com/steplab/ocrprep/internal/testutil"
)

// TestRotate_ThereAndBackNeverCrops verifies that rotating by θ and then
// by −θ yields a canvas at least as large as the original in both
// dimensions.
func TestRotate_ThereAndBackNeverCrops(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rotation never crops", prop.ForAll(
		func(width, height int, angle float64) bool {
			if math.Abs(angle) < 0.0001 {
				return true
			}
			img := testutil.GradientImage(width, height)
			exec := NewExecutor()

			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return false
			}
			out, err := exec.Apply(context.Background(), buf.Bytes(), []plan.PlanStep{
				{Op: "rotate", Params: map[string]any{"angle": angle}},
				{Op: "rotate", Params: map[string]any{"angle": -angle}},
			})
			if err != nil {
				return false
			}
			decoded, err := png.Decode(bytes.NewReader(out))
			if err != nil {
				return false
			}
			return decoded.Bounds().Dx() >= width && decoded.Bounds().Dy() >= height
		},
		gen.IntRange(8, 64),
		gen.IntRange(8, 64),
		gen.Float64Range(-180, 180),
	))

	properties.TestingRun(t)
}

// TestGammaLUT_Properties verifies the lookup table is monotonically
// non-decreasing and pins both endpoints.
func TestGammaLUT_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("gamma LUT is monotonic with fixed endpoints", prop.ForAll(
		func(value float64) bool {
			lut := gammaLUT(value)
			if lut[0] != 0 || lut[255] != 255 {
				return false
			}
			for i := 1; i < 256; i++ {
				if lut[i] < lut[i-1] {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0.1, 10.0),
	))

	properties.TestingRun(t)
}

// TestZoom_TargetsAlwaysPositive verifies zoom never produces a
// zero-sized canvas, however extreme the scale.
func TestZoom_TargetsAlwaysPositive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("zoom floors dimensions at 1", prop.ForAll(
		func(width, height int, scale float64) bool {
			img := testutil.GradientImage(width, height)
			out := applyZoom(imaging.Clone(img), ZoomParams{Scale: scale})
			return out.Bounds().Dx() >= 1 && out.Bounds().Dy() >= 1
		},
		gen.IntRange(2, 64),
		gen.IntRange(2, 64),
		gen.Float64Range(0.0001, 3.0),
	))

	properties.TestingRun(t)
}

// TestOtsu_ThresholdSeparatesSpikes verifies Otsu lands between the two
// modes of any bimodal plane.
func TestOtsu_ThresholdSeparatesSpikes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("otsu separates two spikes", prop.ForAll(
		func(dark, gap int) bool {
			light := dark + gap
			plane := make([]uint8, 256)
			for i := range plane {
				if i%2 == 0 {
					plane[i] = uint8(dark)
				} else {
					plane[i] = uint8(light)
				}
			}
			th := otsuThreshold(plane)
			return int(th) >= dark && int(th) < light
		},
		gen.IntRange(0, 100),
		gen.IntRange(20, 155),
	))

	properties.TestingRun(t)
}
