package parallax

import (
	"image"

	"github.com/disintegration/imaging"
)

// Grayscale filter primitives for depth and band mask processing. Blur
// defers to imaging's Gaussian; the morphological operators are plain
// separable min/max filters since neither imaging nor x/image ships
// them and the radii involved are tiny (1-3 px).

// blurGray applies a Gaussian blur to a grayscale raster.
func blurGray(g *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return g
	}
	blurred := imaging.Blur(g, sigma)
	return grayFromNRGBA(blurred)
}

// grayFromNRGBA extracts the red channel of an NRGBA raster that is
// known to be gray (all channels equal).
func grayFromNRGBA(n *image.NRGBA) *image.Gray {
	b := n.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Pix[y*g.Stride+x] = n.Pix[y*n.Stride+x*4]
		}
	}
	return g
}

// dilateGray grows bright regions by radius pixels (separable max filter).
func dilateGray(g *image.Gray, radius int) *image.Gray {
	return morphGray(g, radius, true)
}

// erodeGray shrinks bright regions by radius pixels (separable min filter).
func erodeGray(g *image.Gray, radius int) *image.Gray {
	return morphGray(g, radius, false)
}

func morphGray(g *image.Gray, radius int, dilate bool) *image.Gray {
	if radius <= 0 {
		return g
	}
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()

	// Horizontal pass.
	tmp := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := g.Pix[y*g.Stride+x]
			for dx := -radius; dx <= radius; dx++ {
				nx := x + dx
				if nx < 0 || nx >= w {
					continue
				}
				v := g.Pix[y*g.Stride+nx]
				if dilate == (v > best) {
					best = v
				}
			}
			tmp.Pix[y*tmp.Stride+x] = best
		}
	}

	// Vertical pass.
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := tmp.Pix[y*tmp.Stride+x]
			for dy := -radius; dy <= radius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				v := tmp.Pix[ny*tmp.Stride+x]
				if dilate == (v > best) {
					best = v
				}
			}
			out.Pix[y*out.Stride+x] = best
		}
	}
	return out
}
