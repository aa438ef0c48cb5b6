package preview

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/mfauzaan/mica/internal/silica"
)

// TargetSize returns the render-target extent for a document: the canvas
// size with width and height swapped for odd orientations.
func TargetSize(doc *silica.Document) (w, h int) {
	w, h = int(doc.Size.Width), int(doc.Size.Height)
	if doc.Orientation%2 == 1 {
		w, h = h, w
	}
	return w, h
}

// Oriented applies the document's mirror flags and quarter-turn orientation
// to a decoded slot image. The identity case returns src unchanged.
func Oriented(src *image.RGBA, orientation uint32, flipped silica.Flipped) *image.RGBA {
	turns := orientation % 4
	if turns == 0 && !flipped.Horizontally && !flipped.Vertically {
		return src
	}

	w := float64(src.Rect.Dx())
	h := float64(src.Rect.Dy())

	// Flips first, in source space.
	m := f64.Aff3{1, 0, 0, 0, 1, 0}
	if flipped.Horizontally {
		m = mul(f64.Aff3{-1, 0, w, 0, 1, 0}, m)
	}
	if flipped.Vertically {
		m = mul(f64.Aff3{1, 0, 0, 0, -1, h}, m)
	}

	// Then the counter-clockwise quarter turns.
	dstW, dstH := src.Rect.Dx(), src.Rect.Dy()
	switch turns {
	case 1:
		m = mul(f64.Aff3{0, 1, 0, -1, 0, w}, m)
		dstW, dstH = dstH, dstW
	case 2:
		m = mul(f64.Aff3{-1, 0, w, 0, -1, h}, m)
	case 3:
		m = mul(f64.Aff3{0, -1, h, 1, 0, 0}, m)
		dstW, dstH = dstH, dstW
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.NearestNeighbor.Transform(dst, m, src, src.Rect, draw.Src, nil)
	return dst
}

// mul composes two affine maps: applying the result equals applying b, then a.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
