package imageproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/hextile/pkg/errors"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func encoded(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, solid(w, h))
	case "jpeg":
		err = jpeg.Encode(&buf, solid(w, h), nil)
	case "gif":
		err = gif.Encode(&buf, solid(w, h), nil)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, limit int
		wantW       int
		wantH       int
	}{
		{640, 480, 800, 640, 480},
		{800, 800, 800, 800, 800},
		{1600, 400, 800, 800, 200},
		{400, 1600, 800, 200, 800},
		{1000, 999, 800, 800, 799},
		{10000, 1, 800, 800, 1},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, tt.limit)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.limit, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestProcessDownscales(t *testing.T) {
	img, err := Process(bytes.NewReader(encoded(t, "png", 1600, 400)), "room.png")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if img.Width != 800 || img.Height != 200 {
		t.Errorf("size = %dx%d, want 800x200", img.Width, img.Height)
	}
	if img.Original != (Size{Width: 1600, Height: 400}) {
		t.Errorf("original = %+v", img.Original)
	}
	if img.Format != "png" {
		t.Errorf("format = %q", img.Format)
	}
	if img.ID == "" {
		t.Error("missing id")
	}

	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(img.DataURL, prefix) {
		t.Fatalf("data url prefix = %q", img.DataURL[:min(len(img.DataURL), 30)])
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(img.DataURL, prefix))
	if err != nil {
		t.Fatalf("decode data url: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("data url is not a PNG: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 200 {
		t.Errorf("encoded size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessFormats(t *testing.T) {
	tests := []struct {
		src      string
		filename string
		want     string
	}{
		{"jpeg", "photo.JPG", "jpeg"},
		{"gif", "anim.gif", "png"},
		{"png", "plan.png", "png"},
	}
	for _, tt := range tests {
		img, err := Process(bytes.NewReader(encoded(t, tt.src, 120, 90)), tt.filename)
		if err != nil {
			t.Fatalf("%s: %v", tt.filename, err)
		}
		if img.Format != tt.want {
			t.Errorf("%s: format = %q, want %q", tt.filename, img.Format, tt.want)
		}
		if img.Width != 120 || img.Height != 90 {
			t.Errorf("%s: small image resized to %dx%d", tt.filename, img.Width, img.Height)
		}
		if img.ContentType() != "image/"+tt.want {
			t.Errorf("%s: content type = %q", tt.filename, img.ContentType())
		}
	}
}

func TestProcessRejects(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		code     errors.Code
	}{
		{"empty", nil, "a.png", errors.ErrCodeInvalidImage},
		{"garbage", []byte("definitely not an image"), "a.png", errors.ErrCodeInvalidImage},
		{"too large", bytes.Repeat([]byte{0}, MaxUploadBytes+1), "a.png", errors.ErrCodeTooLarge},
		{"bad extension", []byte("x"), "notes.txt", errors.ErrCodeInvalidImage},
		{"path in name", []byte("x"), "../a.png", errors.ErrCodeInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(bytes.NewReader(tt.data), tt.filename)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(2)
	for i := range 3 {
		r.Put(&Image{ID: fmt.Sprintf("img-%d", i)})
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}

	_, err := r.Get("img-0")
	if !errors.Is(err, errors.ErrCodeImageNotFound) {
		t.Errorf("oldest image should be evicted, got %v", err)
	}
	for _, id := range []string{"img-1", "img-2"} {
		img, err := r.Get(id)
		if err != nil || img.ID != id {
			t.Errorf("Get(%s) = %v, %v", id, img, err)
		}
	}

	// Re-putting an id replaces it without growing the registry.
	r.Put(&Image{ID: "img-2", Format: "png"})
	if r.Len() != 2 {
		t.Errorf("Len after replace = %d", r.Len())
	}
	if img, _ := r.Get("img-2"); img.Format != "png" {
		t.Error("replace did not take effect")
	}
}
