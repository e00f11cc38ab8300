// Package overlay sizes a generated pattern for display on top of an
// uploaded photo.
//
// A pattern has a fixed physical size in inches. On screen it starts
// [BaseWidth] pixels wide with its physical proportions and is then scaled
// and rotated by the user. [Calculate] reports both sizes plus the axis
// aligned box the rotated pattern occupies.
package overlay

import (
	"math"

	"github.com/matzehuels/hextile/pkg/errors"
)

const (
	// BaseWidth is the on-screen width of an unscaled pattern in pixels.
	BaseWidth = 200.0

	MinScale    = 0.1
	MaxScale    = 10.0
	MaxRotation = 180.0
)

// State is the transform the user applied to the pattern.
type State struct {
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"` // degrees, clockwise
}

// Validate checks scale and rotation bounds.
func (s State) Validate() error {
	if err := errors.ValidateFloatRange("overlay_state.scaleX", s.ScaleX, MinScale, MaxScale); err != nil {
		return err
	}
	if err := errors.ValidateFloatRange("overlay_state.scaleY", s.ScaleY, MinScale, MaxScale); err != nil {
		return err
	}
	if err := errors.ValidateFloatRange("overlay_state.rotation", s.Rotation, -MaxRotation, MaxRotation); err != nil {
		return err
	}
	if math.IsNaN(s.Left) || math.IsInf(s.Left, 0) || math.IsNaN(s.Top) || math.IsInf(s.Top, 0) {
		return errors.Field(errors.ErrCodeInvalidParams, "overlay_state", "position must be finite")
	}
	return nil
}

// Request is a pattern's physical size and the transform to apply to it.
type Request struct {
	WidthInches  float64
	HeightInches float64
	State        State
}

// Physical is the real-world size of the pattern.
type Physical struct {
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
}

// Visual is the on-screen size of the scaled pattern before rotation.
type Visual struct {
	WidthPx  float64 `json:"width_px"`
	HeightPx float64 `json:"height_px"`
}

// Box is an axis-aligned rectangle in screen pixels.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result is the outcome of [Calculate].
type Result struct {
	Physical Physical `json:"physical_dimensions"`
	Visual   Visual   `json:"visual_dimensions"`
	Bounds   Box      `json:"bounding_box"`
}

// Calculate sizes the pattern on screen. Rotation is about the centre of
// the scaled rectangle whose top-left corner is (Left, Top).
func Calculate(req Request) (Result, error) {
	if !(req.WidthInches > 0) || !(req.HeightInches > 0) {
		return Result{}, errors.New(errors.ErrCodeInvalidInput,
			"pattern size %gx%g in must be positive", req.WidthInches, req.HeightInches)
	}
	s := req.State
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	w := BaseWidth * s.ScaleX
	h := BaseWidth * (req.HeightInches / req.WidthInches) * s.ScaleY

	return Result{
		Physical: Physical{WidthInches: req.WidthInches, HeightInches: req.HeightInches},
		Visual:   Visual{WidthPx: w, HeightPx: h},
		Bounds:   rotatedBounds(s.Left, s.Top, w, h, s.Rotation),
	}, nil
}

func rotatedBounds(left, top, w, h, degrees float64) Box {
	theta := degrees * math.Pi / 180
	sin, cos := math.Abs(math.Sin(theta)), math.Abs(math.Cos(theta))
	bw := w*cos + h*sin
	bh := w*sin + h*cos
	cx, cy := left+w/2, top+h/2
	return Box{Left: cx - bw/2, Top: cy - bh/2, Width: bw, Height: bh}
}
