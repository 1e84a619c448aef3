package engine

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steplab/ocrprep/internal/plan"
	"github.com/steplab/ocrprep/internal/testutil"
)

func applySteps(t *testing.T, img image.Image, steps ...plan.PlanStep) image.Image {
	t.Helper()
	exec := NewExecutor()
	out, err := exec.Apply(context.Background(), testutil.EncodePNG(t, img), steps)
	require.NoError(t, err)
	return testutil.DecodePNG(t, out)
}

func step(op string, params map[string]any) plan.PlanStep {
	return plan.PlanStep{Op: op, Params: params}
}

func TestApply_EmptyInputFailsWithDiagnostics(t *testing.T) {
	exec := NewExecutor()
	_, err := exec.Apply(context.Background(), nil, nil)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 0, decodeErr.ByteCount)
}

func TestApply_CorruptInputFailsWithByteSample(t *testing.T) {
	exec := NewExecutor()
	garbage := []byte("this is definitely not an image at all")
	_, err := exec.Apply(context.Background(), garbage, nil)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, len(garbage), decodeErr.ByteCount)
	assert.Equal(t, garbage[:decodeSampleBytes], decodeErr.Sample)
}

func TestApply_UnsupportedOpFailsFast(t *testing.T) {
	exec := NewExecutor()
	input := testutil.EncodePNG(t, testutil.GradientImage(32, 32))
	steps := []plan.PlanStep{
		step("gamma", map[string]any{"value": 2.0}),
		step("sparkle", nil),
		step("rotate", map[string]any{"angle": 90.0}),
	}
	_, err := exec.Apply(context.Background(), input, steps)
	require.Error(t, err)

	var unsupported *UnsupportedOpError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "sparkle", unsupported.Op)
	assert.Equal(t, 1, unsupported.Index)
}

func TestApply_EmptyOpNameIsNoOp(t *testing.T) {
	img := testutil.GradientImage(16, 16)
	out := applySteps(t, img, step("", nil), step("  ", nil))
	assert.Equal(t, img.Bounds().Dx(), out.Bounds().Dx())
	assert.Equal(t, img.Bounds().Dy(), out.Bounds().Dy())
}

func TestApply_CancellationObservedBetweenSteps(t *testing.T) {
	exec := NewExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	input := testutil.EncodePNG(t, testutil.GradientImage(16, 16))
	_, err := exec.Apply(ctx, input, []plan.PlanStep{step("gamma", nil)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRotate_180KeepsDimensions(t *testing.T) {
	img := testutil.TextImage("Rotate Me", 200, 80)
	out := applySteps(t, img, step("rotate", map[string]any{"angle": 180.0}))
	assert.InDelta(t, 200, out.Bounds().Dx(), 1)
	assert.InDelta(t, 80, out.Bounds().Dy(), 1)
}

func TestRotate_ExpandsCanvas(t *testing.T) {
	img := testutil.TextImage("Tilted", 200, 100)
	out := applySteps(t, img, step("rotate", map[string]any{"angle": 45.0}))
	// 45 degrees on a 200x100 canvas needs roughly 212x212.
	assert.Greater(t, out.Bounds().Dx(), 200)
	assert.Greater(t, out.Bounds().Dy(), 100)
}

func TestRotate_TinyAngleIsNoOp(t *testing.T) {
	img := testutil.GradientImage(64, 48)
	out := applySteps(t, img, step("rotate", map[string]any{"angle": 0.00005}))
	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 48, out.Bounds().Dy())
}

func TestZoom_NoKeysIsDimensionNoOp(t *testing.T) {
	img := testutil.GradientImage(64, 48)
	out := applySteps(t, img, step("zoom", nil))
	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 48, out.Bounds().Dy())
}

func TestZoom_UnitScaleIsDimensionNoOp(t *testing.T) {
	img := testutil.GradientImage(64, 48)
	out := applySteps(t, img, step("zoom", map[string]any{"scale": 1.0}))
	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 48, out.Bounds().Dy())
}

func TestZoom_ExplicitDimensionsWin(t *testing.T) {
	img := testutil.GradientImage(64, 48)
	out := applySteps(t, img, step("zoom", map[string]any{"width": 100.0, "scale": 3.0}))
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 48, out.Bounds().Dy(), "missing dimension defaults to current size")
}

func TestZoom_ScaleResizesBothDimensions(t *testing.T) {
	img := testutil.GradientImage(64, 48)
	out := applySteps(t, img, step("zoom", map[string]any{"scale": 0.5}))
	assert.Equal(t, 32, out.Bounds().Dx())
	assert.Equal(t, 24, out.Bounds().Dy())
}

func TestZoom_NonPositiveScaleTreatedAsUnit(t *testing.T) {
	img := testutil.GradientImage(64, 48)
	out := applySteps(t, img, step("zoom", map[string]any{"scale": -2.0}))
	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 48, out.Bounds().Dy())
}

func TestGamma_UnitValueIsIdentity(t *testing.T) {
	img := testutil.GradientImage(64, 16)
	out := applySteps(t, img, step("gamma", map[string]any{"value": 1.0}))

	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			r0, g0, b0, _ := img.At(x, y).RGBA()
			r1, g1, b1, _ := out.At(x, y).RGBA()
			require.Equal(t, r0, r1, "pixel (%d,%d)", x, y)
			require.Equal(t, g0, g1)
			require.Equal(t, b0, b1)
		}
	}
}

func TestGamma_BrightensWithHighValue(t *testing.T) {
	img := testutil.UniformImageGray(32, 32, 64)
	out := applySteps(t, img, step("gamma", map[string]any{"value": 2.0}))
	r, _, _, _ := out.At(16, 16).RGBA()
	// 255*(64/255)^(1/2) ≈ 127.7
	assert.InDelta(t, 128, int(r>>8), 2)
}

func TestBinarize_DefaultOtsuSeparatesBimodal(t *testing.T) {
	img := testutil.BimodalImage(64, 64, 40, 200)
	out := applySteps(t, img, step("binarize", nil))

	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			r, g, b, _ := out.At(x, y).RGBA()
			v := uint8(r >> 8)
			require.True(t, v == 0 || v == 255, "pixel (%d,%d) is %d, want 0 or 255", x, y, v)
			require.Equal(t, r, g, "channels must agree after binarize")
			require.Equal(t, g, b)
		}
	}
}

func TestBinarize_ExplicitThreshold(t *testing.T) {
	img := testutil.BimodalImage(32, 32, 40, 200)
	out := applySteps(t, img, step("binarize", map[string]any{"threshold": 100.0}))

	r, _, _, _ := out.At(0, 0).RGBA()
	assert.Equal(t, uint8(0), uint8(r>>8), "dark half below threshold")
	r, _, _, _ = out.At(31, 0).RGBA()
	assert.Equal(t, uint8(255), uint8(r>>8), "light half above threshold")
}

func TestBinarize_AdaptiveProducesBinaryOutput(t *testing.T) {
	img := testutil.TextImage("Adaptive", 120, 60)
	out := applySteps(t, img, step("binarize", map[string]any{
		"method": "adaptive", "blockSize": 11.0, "c": 3.0,
	}))
	for y := 0; y < 60; y += 7 {
		for x := 0; x < 120; x += 7 {
			r, _, _, _ := out.At(x, y).RGBA()
			v := uint8(r >> 8)
			require.True(t, v == 0 || v == 255)
		}
	}
}

func TestBrightness_ShiftsAndClamps(t *testing.T) {
	img := testutil.UniformImageGray(16, 16, 200)
	out := applySteps(t, img, step("brightness", map[string]any{"delta": 100.0}))
	r, _, _, _ := out.At(8, 8).RGBA()
	assert.Equal(t, uint8(255), uint8(r>>8), "clamped at 255")

	out = applySteps(t, img, step("brightness", map[string]any{"delta": -50.0}))
	r, _, _, _ = out.At(8, 8).RGBA()
	assert.Equal(t, uint8(150), uint8(r>>8))
}

func TestBrightness_TinyDeltaIsNoOp(t *testing.T) {
	img := testutil.UniformImageGray(8, 8, 100)
	out := applySteps(t, img, step("brightness", map[string]any{"delta": 0.00005}))
	r, _, _, _ := out.At(4, 4).RGBA()
	assert.Equal(t, uint8(100), uint8(r>>8))
}

func TestAutocontrast_StretchesNarrowRange(t *testing.T) {
	// Narrow band around mid gray: left half 100, right half 150.
	img := testutil.BimodalImage(64, 64, 100, 150)
	out := applySteps(t, img, step("autocontrast", map[string]any{"cutoff": 0.0}))

	rl, _, _, _ := out.At(0, 0).RGBA()
	rr, _, _, _ := out.At(63, 0).RGBA()
	assert.Less(t, uint8(rl>>8), uint8(20), "low end stretched toward 0")
	assert.Greater(t, uint8(rr>>8), uint8(235), "high end stretched toward 255")
}

func TestAutocontrast_UniformImageIsNoOp(t *testing.T) {
	img := testutil.UniformImageGray(16, 16, 128)
	out := applySteps(t, img, step("autocontrast", nil))
	r, _, _, _ := out.At(8, 8).RGBA()
	assert.Equal(t, uint8(128), uint8(r>>8), "high<=low leaves pixels untouched")
}

func TestCLAHE_RunsAndPreservesDimensions(t *testing.T) {
	img := testutil.GradientImage(80, 60)
	out := applySteps(t, img, step("clahe", map[string]any{"clipLimit": 2.0, "tileGridSize": 4.0}))
	assert.Equal(t, 80, out.Bounds().Dx())
	assert.Equal(t, 60, out.Bounds().Dy())
}

func TestDenoise_AllStrengthsPreserveDimensions(t *testing.T) {
	img := testutil.TextImage("Noise", 60, 40)
	for _, strength := range []string{"light", "medium", "strong"} {
		out := applySteps(t, img, step("denoise", map[string]any{"strength": strength}))
		assert.Equal(t, 60, out.Bounds().Dx(), strength)
		assert.Equal(t, 40, out.Bounds().Dy(), strength)
	}
}

func TestSharpen_ZeroAmountIsNoOp(t *testing.T) {
	img := testutil.GradientImage(32, 32)
	out := applySteps(t, img, step("sharpen", map[string]any{"amount": 0.0}))
	r0, _, _, _ := img.At(10, 10).RGBA()
	r1, _, _, _ := out.At(10, 10).RGBA()
	assert.Equal(t, r0, r1)
}

func TestDeskew_IsPassThrough(t *testing.T) {
	img := testutil.TextImage("Skewed", 100, 50)
	out := applySteps(t, img, step("deskew", nil))
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestParseKind_UnknownMapsToUnsupported(t *testing.T) {
	assert.Equal(t, KindRotate, ParseKind("  ROTATE "))
	assert.Equal(t, KindNone, ParseKind("   "))
	assert.Equal(t, KindUnsupported, ParseKind("rotat"))
}

func TestDecodeErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &DecodeError{ByteCount: 3, Sample: []byte{1, 2, 3}, Err: inner}
	assert.ErrorIs(t, err, inner)
}
