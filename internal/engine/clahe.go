package engine

import (
	"image"
	"math"
)

// applyCLAHE performs contrast-limited adaptive histogram equalization on
// the luma channel only. The image is divided into a square tile grid;
// each tile gets a clip-limited equalization mapping, and per-pixel
// output is bilinearly interpolated between the four surrounding tile
// mappings to avoid visible tile seams.
func applyCLAHE(img *image.NRGBA, p CLAHEParams) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	grid := p.TileGridSize
	if grid > w {
		grid = w
	}
	if grid > h {
		grid = h
	}
	if grid < 1 {
		grid = 1
	}

	// Luma plane.
	luma := make([]uint8, w*h)
	for yy := 0; yy < h; yy++ {
		row := img.Pix[yy*img.Stride : yy*img.Stride+w*4]
		for x := 0; x < w; x++ {
			y, _, _ := rgbToYCbCr(row[x*4], row[x*4+1], row[x*4+2])
			luma[yy*w+x] = clampU8(y)
		}
	}

	tileW := (w + grid - 1) / grid
	tileH := (h + grid - 1) / grid
	maps := buildTileMappings(luma, w, h, grid, tileW, tileH, p.ClipLimit)

	return mapLuminancePositional(img, func(x, y int, in float64) float64 {
		return interpolateTileMapping(maps, grid, tileW, tileH, x, y, clampU8(in))
	})
}

// buildTileMappings computes one clip-limited equalization LUT per tile.
func buildTileMappings(luma []uint8, w, h, grid, tileW, tileH int, clipLimit float64) [][256]uint8 {
	maps := make([][256]uint8, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := x0+tileW, y0+tileH
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}

			var hist [256]int
			for yy := y0; yy < y1; yy++ {
				for xx := x0; xx < x1; xx++ {
					hist[luma[yy*w+xx]]++
				}
			}
			pixels := (x1 - x0) * (y1 - y0)
			if pixels == 0 {
				continue
			}

			// Clip histogram bins and redistribute the excess evenly.
			clip := int(clipLimit * float64(pixels) / 256.0)
			if clip < 1 {
				clip = 1
			}
			excess := 0
			for i := 0; i < 256; i++ {
				if hist[i] > clip {
					excess += hist[i] - clip
					hist[i] = clip
				}
			}
			share := excess / 256
			rem := excess % 256
			for i := 0; i < 256; i++ {
				hist[i] += share
				if i < rem {
					hist[i]++
				}
			}

			cum := 0
			var m [256]uint8
			for i := 0; i < 256; i++ {
				cum += hist[i]
				m[i] = clampU8(255.0 * float64(cum) / float64(pixels))
			}
			maps[ty*grid+tx] = m
		}
	}
	return maps
}

// interpolateTileMapping evaluates the CLAHE mapping at a pixel by
// bilinear interpolation between the four nearest tile centers.
func interpolateTileMapping(maps [][256]uint8, grid, tileW, tileH, x, y int, v uint8) float64 {
	fx := (float64(x) - float64(tileW)/2 + 0.5) / float64(tileW)
	fy := (float64(y) - float64(tileH)/2 + 0.5) / float64(tileH)

	tx0 := int(math.Floor(fx))
	ty0 := int(math.Floor(fy))
	wx := fx - float64(tx0)
	wy := fy - float64(ty0)

	clampTile := func(t int) int {
		if t < 0 {
			return 0
		}
		if t >= grid {
			return grid - 1
		}
		return t
	}
	tx1 := clampTile(tx0 + 1)
	ty1 := clampTile(ty0 + 1)
	tx0 = clampTile(tx0)
	ty0 = clampTile(ty0)

	m00 := float64(maps[ty0*grid+tx0][v])
	m10 := float64(maps[ty0*grid+tx1][v])
	m01 := float64(maps[ty1*grid+tx0][v])
	m11 := float64(maps[ty1*grid+tx1][v])

	top := m00*(1-wx) + m10*wx
	bot := m01*(1-wx) + m11*wx
	return top*(1-wy) + bot*wy
}

// mapLuminancePositional is mapLuminance with pixel coordinates exposed
// to the mapping function.
func mapLuminancePositional(img *image.NRGBA, f func(x, y int, luma float64) float64) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for yy := 0; yy < b.Dy(); yy++ {
		src := img.Pix[yy*img.Stride : yy*img.Stride+b.Dx()*4]
		dst := out.Pix[yy*out.Stride : yy*out.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			y, cb, cr := rgbToYCbCr(src[x*4], src[x*4+1], src[x*4+2])
			r, g, bl := ycbcrToRGB(f(x, yy, y), cb, cr)
			dst[x*4], dst[x*4+1], dst[x*4+2], dst[x*4+3] = r, g, bl, src[x*4+3]
		}
	}
	return out
}
