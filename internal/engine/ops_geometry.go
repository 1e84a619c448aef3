package engine

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// applyRotate rotates about the image center onto a white canvas expanded
// to the minimal bounding box of the rotated image.
func applyRotate(img *image.NRGBA, p RotateParams) *image.NRGBA {
	if math.Abs(p.Angle) < opEpsilon {
		return img
	}
	return imaging.Rotate(img, p.Angle, color.White)
}

// applyZoom resizes to explicit dimensions when either is present,
// otherwise by the scale factor. Each target dimension is floored at 1.
func applyZoom(img *image.NRGBA, p ZoomParams) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var tw, th int
	if p.HasWidth || p.HasHeight {
		tw, th = w, h
		if p.HasWidth {
			tw = p.Width
		}
		if p.HasHeight {
			th = p.Height
		}
	} else {
		tw = int(math.Round(float64(w) * p.Scale))
		th = int(math.Round(float64(h) * p.Scale))
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	if tw == w && th == h {
		return img
	}
	return imaging.Resize(img, tw, th, imaging.CatmullRom)
}
