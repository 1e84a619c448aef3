package engine

import (
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
)

// applyDenoise removes noise with strength-dependent filters: light and
// medium use median filters (3x3 and 5x5), strong uses a slower
// edge-preserving bilateral filter.
func applyDenoise(img *image.NRGBA, p DenoiseParams) *image.NRGBA {
	switch p.Strength {
	case DenoiseMedium:
		return medianFilter(img, 2)
	case DenoiseStrong:
		return bilateralFilter(img, 3, 2.0, 30.0)
	default:
		return medianFilter(img, 1)
	}
}

// medianFilter replaces each channel value with the median of its
// (2r+1)x(2r+1) neighborhood. Borders are replicated.
func medianFilter(img *image.NRGBA, radius int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	side := 2*radius + 1
	window := make([]int, 0, side*side)

	at := func(x, y, c int) uint8 {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return img.Pix[y*img.Stride+x*4+c]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				window = window[:0]
				for dy := -radius; dy <= radius; dy++ {
					for dx := -radius; dx <= radius; dx++ {
						window = append(window, int(at(x+dx, y+dy, c)))
					}
				}
				sort.Ints(window)
				out.Pix[y*out.Stride+x*4+c] = uint8(window[len(window)/2])
			}
			out.Pix[y*out.Stride+x*4+3] = img.Pix[y*img.Stride+x*4+3]
		}
	}
	return out
}

// bilateralFilter smooths while preserving edges: neighbor contributions
// are weighted by both spatial distance and color distance.
func bilateralFilter(img *image.NRGBA, radius int, sigmaSpace, sigmaColor float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	// Spatial weights are fixed per offset; precompute them.
	side := 2*radius + 1
	spatial := make([]float64, side*side)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*side+(dx+radius)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}

	clampCoord := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ci := y*img.Stride + x*4
			cr, cg, cb := float64(img.Pix[ci]), float64(img.Pix[ci+1]), float64(img.Pix[ci+2])

			var sumR, sumG, sumB, sumW float64
			for dy := -radius; dy <= radius; dy++ {
				ny := clampCoord(y+dy, h)
				for dx := -radius; dx <= radius; dx++ {
					nx := clampCoord(x+dx, w)
					ni := ny*img.Stride + nx*4
					nr, ng, nb := float64(img.Pix[ni]), float64(img.Pix[ni+1]), float64(img.Pix[ni+2])

					dc2 := (nr-cr)*(nr-cr) + (ng-cg)*(ng-cg) + (nb-cb)*(nb-cb)
					wgt := spatial[(dy+radius)*side+(dx+radius)] *
						math.Exp(-dc2/(2*sigmaColor*sigmaColor))

					sumR += nr * wgt
					sumG += ng * wgt
					sumB += nb * wgt
					sumW += wgt
				}
			}
			oi := y*out.Stride + x*4
			out.Pix[oi] = clampU8(sumR / sumW)
			out.Pix[oi+1] = clampU8(sumG / sumW)
			out.Pix[oi+2] = clampU8(sumB / sumW)
			out.Pix[oi+3] = img.Pix[ci+3]
		}
	}
	return out
}

// applySharpen performs unsharp masking: output = original*(1+amount) -
// gaussianBlur(sigma)*amount. Non-positive amounts are no-ops.
func applySharpen(img *image.NRGBA, p SharpenParams) *image.NRGBA {
	if p.Amount <= 0 {
		return img
	}
	blurred := imaging.Blur(img, p.Sigma)

	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		blr := blurred.Pix[y*blurred.Stride : y*blurred.Stride+b.Dx()*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			for c := 0; c < 3; c++ {
				v := float64(src[x*4+c])*(1+p.Amount) - float64(blr[x*4+c])*p.Amount
				dst[x*4+c] = clampU8(v)
			}
			dst[x*4+3] = src[x*4+3]
		}
	}
	return out
}
