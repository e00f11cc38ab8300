package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout"
)

// RenderImage rasterizes p. The image origin is always (0,0).
func RenderImage(p *layout.Pattern, opts ...Option) (*image.RGBA, error) {
	if p == nil || p.Len() == 0 {
		return nil, fmt.Errorf("render: empty pattern")
	}
	o := newOptions(opts)
	f := newFrame(p, o.scale)
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	if o.background != color.Transparent {
		draw.Draw(img, img.Bounds(), image.NewUniform(o.background), image.Point{}, draw.Src)
	}

	fills := make(map[string]color.RGBA)
	for _, c := range p.Colors {
		if _, ok := fills[c]; ok {
			continue
		}
		rgba, err := ParseColor(c)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		fills[c] = rgba
	}

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetLineWidth(f.lineWidth(p))
	gc.SetStrokeColor(color.Black)

	strokeTiles := o.border && o.style == StyleFlat
	for i, h := range p.Hexes {
		gc.SetFillColor(fills[p.Colors[i]])
		corners := h.Corners(p.Radius)
		tracePath(gc, f, corners[:])
		if strokeTiles {
			gc.FillStroke()
		} else {
			gc.Fill()
		}
	}

	if o.border && o.style == StyleSeamless {
		for _, ring := range hex.Outline(p.Set(), p.Radius) {
			tracePath(gc, f, ring)
			gc.Stroke()
		}
	}
	return img, nil
}

// RenderPNG rasterizes p and encodes it as PNG.
func RenderPNG(p *layout.Pattern, opts ...Option) ([]byte, error) {
	img, err := RenderImage(p, opts...)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func tracePath(gc *draw2dimg.GraphicContext, f frame, pts []hex.Point) {
	gc.BeginPath()
	for i, pt := range pts {
		x, y := f.point(pt)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	gc.Close()
}
