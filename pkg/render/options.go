package render

import (
	"image/color"
	"math"
	"strconv"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout"
)

// Visual styles.
const (
	StyleFlat     = "flat"
	StyleSeamless = "seamless"
)

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleFlat:     true,
	StyleSeamless: true,
}

const (
	// DefaultScale is the size of one hex radius in pixels.
	DefaultScale = 40.0
	// DefaultThumbWidth is the composite cell width in pixels.
	DefaultThumbWidth = 320
	// marginUnits is the blank frame around a pattern, in radius units.
	marginUnits = 0.25
)

// Option configures rendering.
type Option func(*options)

type options struct {
	scale      float64
	border     bool
	style      string
	background color.Color
	caption    bool
	thumbWidth int
}

func newOptions(opts []Option) options {
	o := options{
		scale:      DefaultScale,
		border:     true,
		style:      StyleFlat,
		background: color.Transparent,
		thumbWidth: DefaultThumbWidth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.scale > 0) {
		o.scale = DefaultScale
	}
	if o.thumbWidth <= 0 {
		o.thumbWidth = DefaultThumbWidth
	}
	if !ValidStyles[o.style] {
		o.style = StyleFlat
	}
	return o
}

// WithScale sets the size of one hex radius in pixels.
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithBorder toggles black tile strokes.
func WithBorder(on bool) Option { return func(o *options) { o.border = on } }

// WithStyle selects [StyleFlat] or [StyleSeamless].
func WithStyle(s string) Option { return func(o *options) { o.style = s } }

// WithBackground fills the frame before drawing. Default is transparent.
func WithBackground(c color.Color) Option { return func(o *options) { o.background = c } }

// WithCaption adds the physical dimensions under an SVG drawing.
func WithCaption() Option { return func(o *options) { o.caption = true } }

// WithThumbWidth sets the width of each composite cell.
func WithThumbWidth(px int) Option { return func(o *options) { o.thumbWidth = px } }

// ParseColor parses "#RRGGBB" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return color.RGBA{}, err
	}
	v, _ := strconv.ParseUint(s[1:], 16, 32)
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// frame maps pattern units to image pixels.
type frame struct {
	minX, minY float64
	scale      float64
	w, h       int
}

func newFrame(p *layout.Pattern, scale float64) frame {
	m := marginUnits * p.Radius
	b := p.Bounds().Pad(m, m)
	return frame{
		minX:  b.MinX,
		minY:  b.MinY,
		scale: scale / p.Radius,
		w:     int(math.Ceil(b.Width() * scale / p.Radius)),
		h:     int(math.Ceil(b.Height() * scale / p.Radius)),
	}
}

func (f frame) point(p hex.Point) (float64, float64) {
	return (p.X - f.minX) * f.scale, (p.Y - f.minY) * f.scale
}

// lineWidth is the stroke width in pixels for a frame.
func (f frame) lineWidth(p *layout.Pattern) float64 {
	return math.Max(1, 0.04*p.Radius*f.scale)
}
