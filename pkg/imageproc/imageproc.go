// Package imageproc prepares uploaded room photos for pattern overlays.
//
// Uploads are decoded, bounded in size, downscaled so the longest side fits
// [MaxDimension] and re-encoded as a data URL the browser can use directly.
package imageproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"time"

	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/hextile/pkg/errors"
)

const (
	// MaxUploadBytes is the largest accepted upload.
	MaxUploadBytes = 10 << 20

	// MaxDimension bounds the longest side of a processed image.
	MaxDimension = 800

	// maxPixels rejects images whose header claims an absurd size before
	// the pixel data is decoded.
	maxPixels = 64 << 20

	jpegQuality = 90
)

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Image is a processed upload.
type Image struct {
	ID       string `json:"image_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Original Size   `json:"original_size"`
	DataURL  string `json:"processed_data"`

	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// ContentType is the MIME type of Data.
func (img *Image) ContentType() string { return "image/" + img.Format }

// Process reads an upload named filename from r and returns the processed
// image with a fresh id. JPEG sources stay JPEG; everything else becomes PNG.
func Process(r io.Reader, filename string) (*Image, error) {
	if err := errors.ValidateUploadFilename(filename); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "empty file uploaded")
	}
	if len(raw) > MaxUploadBytes {
		return nil, errors.New(errors.ErrCodeTooLarge, "file exceeds %d MB", MaxUploadBytes>>20)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "unrecognized image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, errors.New(errors.ErrCodeTooLarge, "image is %dx%d pixels", cfg.Width, cfg.Height)
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode %s", filename)
	}

	b := src.Bounds()
	out := &Image{
		ID:        uuid.NewString(),
		Original:  Size{Width: b.Dx(), Height: b.Dy()},
		CreatedAt: time.Now(),
	}

	dst := src
	if w, h := FitSize(b.Dx(), b.Dy(), MaxDimension); w != b.Dx() || h != b.Dy() {
		dst = transform.Resize(src, w, h, transform.Lanczos)
	}
	out.Width, out.Height = dst.Bounds().Dx(), dst.Bounds().Dy()

	var buf bytes.Buffer
	if format == "jpeg" {
		out.Format = "jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	} else {
		out.Format = "png"
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", out.Format)
	}
	out.Data = buf.Bytes()
	out.DataURL = "data:" + out.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(out.Data)
	return out, nil
}

// FitSize scales w×h down so that neither side exceeds limit, keeping the
// aspect ratio. Sizes already within limit are returned unchanged.
func FitSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
