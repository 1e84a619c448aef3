package engine

import (
	"image"
	"math"
)

// rgbToYCbCr converts 8-bit RGB to floating point luma/chroma (BT.601).
func rgbToYCbCr(r, g, b uint8) (y, cb, cr float64) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	y = 0.299*rf + 0.587*gf + 0.114*bf
	cb = -0.168736*rf - 0.331264*gf + 0.5*bf + 128
	cr = 0.5*rf - 0.418688*gf - 0.081312*bf + 128
	return y, cb, cr
}

// ycbcrToRGB converts floating point luma/chroma back to clamped 8-bit RGB.
func ycbcrToRGB(y, cb, cr float64) (uint8, uint8, uint8) {
	r := y + 1.402*(cr-128)
	g := y - 0.344136*(cb-128) - 0.714136*(cr-128)
	b := y + 1.772*(cb-128)
	return clampU8(r), clampU8(g), clampU8(b)
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// lumaHistogram computes a 256-bin histogram of the luma channel.
func lumaHistogram(img *image.NRGBA) [256]int {
	var hist [256]int
	b := img.Bounds()
	for yy := 0; yy < b.Dy(); yy++ {
		row := img.Pix[yy*img.Stride : yy*img.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			y, _, _ := rgbToYCbCr(row[x*4], row[x*4+1], row[x*4+2])
			hist[clampU8(y)]++
		}
	}
	return hist
}

// mapLuminance rewrites each pixel's luma through f, leaving chroma
// untouched, and converts back to RGB.
func mapLuminance(img *image.NRGBA, f func(y float64) float64) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for yy := 0; yy < b.Dy(); yy++ {
		src := img.Pix[yy*img.Stride : yy*img.Stride+b.Dx()*4]
		dst := out.Pix[yy*out.Stride : yy*out.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			y, cb, cr := rgbToYCbCr(src[x*4], src[x*4+1], src[x*4+2])
			r, g, bl := ycbcrToRGB(f(y), cb, cr)
			dst[x*4], dst[x*4+1], dst[x*4+2], dst[x*4+3] = r, g, bl, src[x*4+3]
		}
	}
	return out
}

// applyAutocontrast linearly stretches the luma channel between the
// percentile-clipped histogram endpoints. Chroma is preserved.
func applyAutocontrast(img *image.NRGBA, p AutocontrastParams) *image.NRGBA {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return img
	}
	hist := lumaHistogram(img)
	clip := int(p.Cutoff * float64(total))

	low, high := 0, 255
	cum := 0
	for i := 0; i < 256; i++ {
		cum += hist[i]
		if cum > clip {
			low = i
			break
		}
	}
	cum = 0
	for i := 255; i >= 0; i-- {
		cum += hist[i]
		if cum > clip {
			high = i
			break
		}
	}
	if high <= low {
		return img
	}

	scale := 255.0 / float64(high-low)
	return mapLuminance(img, func(y float64) float64 {
		return (y - float64(low)) * scale
	})
}

// applyBrightness shifts all channels additively, clamped to [0,255].
func applyBrightness(img *image.NRGBA, p BrightnessParams) *image.NRGBA {
	if math.Abs(p.Delta) < opEpsilon {
		return img
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for yy := 0; yy < b.Dy(); yy++ {
		src := img.Pix[yy*img.Stride : yy*img.Stride+b.Dx()*4]
		dst := out.Pix[yy*out.Stride : yy*out.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			dst[x*4] = clampU8(float64(src[x*4]) + p.Delta)
			dst[x*4+1] = clampU8(float64(src[x*4+1]) + p.Delta)
			dst[x*4+2] = clampU8(float64(src[x*4+2]) + p.Delta)
			dst[x*4+3] = src[x*4+3]
		}
	}
	return out
}

// gammaLUT builds the 256-entry lookup table for gamma correction:
// lut[i] = round(clamp(255*(i/255)^(1/value), 0, 255)).
func gammaLUT(value float64) [256]uint8 {
	var lut [256]uint8
	inv := 1.0 / value
	for i := 0; i < 256; i++ {
		lut[i] = clampU8(255.0 * math.Pow(float64(i)/255.0, inv))
	}
	return lut
}

// applyGamma applies LUT-based gamma correction to all channels.
func applyGamma(img *image.NRGBA, p GammaParams) *image.NRGBA {
	if math.Abs(p.Value-1.0) < opEpsilon {
		return img
	}
	lut := gammaLUT(p.Value)
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for yy := 0; yy < b.Dy(); yy++ {
		src := img.Pix[yy*img.Stride : yy*img.Stride+b.Dx()*4]
		dst := out.Pix[yy*out.Stride : yy*out.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			dst[x*4] = lut[src[x*4]]
			dst[x*4+1] = lut[src[x*4+1]]
			dst[x*4+2] = lut[src[x*4+2]]
			dst[x*4+3] = src[x*4+3]
		}
	}
	return out
}
