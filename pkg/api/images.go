package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/imageproc"
	"github.com/matzehuels/hextile/pkg/overlay"
)

// multipart overhead allowed on top of the image itself
const uploadSlack = 1 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imageproc.MaxUploadBytes+uploadSlack)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidImage, err, "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	if ct := hdr.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidImage, "unsupported file type %q, must be an image", ct))
		return
	}

	img, err := imageproc.Process(file, hdr.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.images.Put(img)
	s.logger.Debug("processed upload",
		"id", img.ID,
		"original", img.Original,
		"width", img.Width,
		"height", img.Height)
	s.writeJSON(w, http.StatusOK, img)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePatternID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	img, err := s.images.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, img)
}

// OverlayRequest is the body of POST /api/overlay/calculate.
type OverlayRequest struct {
	ImageID   string        `json:"image_id"`
	PatternID string        `json:"pattern_id"`
	State     overlay.State `json:"overlay_state"`
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	var req OverlayRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.images.Get(req.ImageID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidatePatternID(req.PatternID); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), req.PatternID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := overlay.Calculate(overlay.Request{
		WidthInches:  rec.Pattern.WidthInches,
		HeightInches: rec.Pattern.HeightInches,
		State:        req.State,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}
