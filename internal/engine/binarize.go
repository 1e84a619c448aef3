package engine

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// applyBinarize converts the image to grayscale and thresholds it.
// Method "adaptive" uses a Gaussian-weighted local threshold; otherwise
// an explicit fixed threshold wins when present, falling back to Otsu's
// global method. The result keeps the 3-channel representation so
// downstream steps can assume a consistent channel count.
func applyBinarize(img *image.NRGBA, p BinarizeParams) *image.NRGBA {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	plane := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		for x := 0; x < w; x++ {
			plane[y*w+x] = row[x*4]
		}
	}

	var binary []uint8
	switch {
	case p.Method == BinarizeAdaptive:
		binary = adaptiveThreshold(plane, w, h, p.BlockSize, p.C)
	case p.Threshold != nil:
		binary = fixedThreshold(plane, clampU8(*p.Threshold))
	default:
		binary = fixedThreshold(plane, otsuThreshold(plane))
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := binary[y*w+x]
			i := y*out.Stride + x*4
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = v, v, v
			out.Pix[i+3] = img.Pix[y*img.Stride+x*4+3]
		}
	}
	return out
}

func fixedThreshold(plane []uint8, threshold uint8) []uint8 {
	out := make([]uint8, len(plane))
	for i, v := range plane {
		if v > threshold {
			out[i] = 255
		}
	}
	return out
}

// otsuThreshold finds the global threshold maximizing between-class
// variance of the intensity histogram.
func otsuThreshold(plane []uint8) uint8 {
	var hist [256]int
	for _, v := range plane {
		hist[v]++
	}
	total := len(plane)
	if total == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < 256; i++ {
		sum += float64(i) * float64(hist[i])
	}

	var sumB, wB float64
	var best float64
	var threshold uint8
	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = uint8(i)
		}
	}
	return threshold
}

// adaptiveThreshold binarizes against a Gaussian-weighted local mean over
// a blockSize neighborhood, offset by c. Borders are replicated.
func adaptiveThreshold(plane []uint8, w, h, blockSize int, c float64) []uint8 {
	radius := blockSize / 2
	kernel := gaussianKernel1D(blockSize)

	clampCoord := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}

	// Separable Gaussian: horizontal pass, then vertical.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * float64(plane[y*w+clampCoord(x+k, w)])
			}
			tmp[y*w+x] = acc
		}
	}
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * tmp[clampCoord(y+k, h)*w+x]
			}
			if float64(plane[y*w+x]) > acc-c {
				out[y*w+x] = 255
			}
		}
	}
	return out
}

// gaussianKernel1D builds a normalized kernel of the given odd size with
// sigma derived from the size the way OpenCV's getGaussianKernel does.
func gaussianKernel1D(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	radius := size / 2
	kernel := make([]float64, size)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
