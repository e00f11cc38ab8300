package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/transform"

	"github.com/matzehuels/hextile/pkg/layout"
)

// compositePad is the gap between composite cells in pixels.
const compositePad = 8

// GridSize returns the column and row count for n composite cells.
func GridSize(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// RenderComposite draws patterns side by side in a near-square grid and
// encodes the sheet as PNG. Each pattern is scaled to fit a square cell of
// the thumbnail width, keeping its proportions.
func RenderComposite(patterns []*layout.Pattern, opts ...Option) ([]byte, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("render: no patterns for composite")
	}
	o := newOptions(opts)
	cell := o.thumbWidth
	cols, rows := GridSize(len(patterns))
	sheet := image.NewRGBA(image.Rect(0, 0,
		cols*cell+(cols+1)*compositePad,
		rows*cell+(rows+1)*compositePad))
	if o.background != color.Transparent {
		draw.Draw(sheet, sheet.Bounds(), image.NewUniform(o.background), image.Point{}, draw.Src)
	}

	for i, p := range patterns {
		img, err := RenderImage(p, opts...)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		thumb := fit(img, cell)
		col, row := i%cols, i/cols
		x0 := compositePad + col*(cell+compositePad) + (cell-thumb.Bounds().Dx())/2
		y0 := compositePad + row*(cell+compositePad) + (cell-thumb.Bounds().Dy())/2
		dst := image.Rect(x0, y0, x0+thumb.Bounds().Dx(), y0+thumb.Bounds().Dy())
		draw.Draw(sheet, dst, thumb, image.Point{}, draw.Over)
	}
	return encodePNG(sheet)
}

// fit scales img to fit inside a size×size square.
func fit(img *image.RGBA, size int) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	k := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	tw := max(1, int(math.Round(float64(w)*k)))
	th := max(1, int(math.Round(float64(h)*k)))
	if tw == w && th == h {
		return img
	}
	return transform.Resize(img, tw, th, transform.Lanczos)
}
