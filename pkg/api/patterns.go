package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hextile/pkg/buildinfo"
	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/hex"
	"github.com/matzehuels/hextile/pkg/layout"
	"github.com/matzehuels/hextile/pkg/pipeline"
	"github.com/matzehuels/hextile/pkg/store"
)

// GenerateRequest is the body of POST /api/patterns/generate and the first
// websocket message on /api/patterns/stream. Optional fields fall back to
// [layout.DefaultParams].
type GenerateRequest struct {
	AspectW         float64        `json:"aspect_w"`
	AspectH         float64        `json:"aspect_h"`
	AspectAdherence *float64       `json:"aspect_adherence,omitempty"`
	TotalTiles      int            `json:"total_tiles"`
	Colors          []string       `json:"colors"`
	Counts          []int          `json:"counts"`
	ColorMode       string         `json:"color_mode"`
	GradientAxis    string         `json:"gradient_axis,omitempty"`
	GradientOrder   []int          `json:"gradient_order,omitempty"`
	Roles           map[string]int `json:"roles,omitempty"`
	Tendrils        *int           `json:"tendrils,omitempty"`
	TendrilLenMin   *int           `json:"tendril_len_min,omitempty"`
	TendrilLenMax   *int           `json:"tendril_len_max,omitempty"`
	Radius          *float64       `json:"radius,omitempty"`
	Seed            int64          `json:"seed"`
	NumLayouts      int            `json:"num_layouts"`
	Border          bool           `json:"border,omitempty"`
}

// Options converts the request into pipeline options producing PNGs.
func (req GenerateRequest) Options() (pipeline.Options, error) {
	if err := errors.ValidateIntRange("num_layouts", req.NumLayouts, 1, pipeline.MaxVariations); err != nil {
		return pipeline.Options{}, err
	}
	p := layout.DefaultParams()
	p.AspectW, p.AspectH = req.AspectW, req.AspectH
	p.TotalTiles = req.TotalTiles
	p.Colors, p.Counts = req.Colors, req.Counts
	p.ColorMode = req.ColorMode
	p.GradientOrder, p.Roles = req.GradientOrder, req.Roles
	p.Seed = req.Seed
	if req.GradientAxis != "" {
		p.GradientAxis = req.GradientAxis
	}
	if req.AspectAdherence != nil {
		p.AspectAdherence = *req.AspectAdherence
	}
	if req.Tendrils != nil {
		p.Tendrils = *req.Tendrils
	}
	if req.TendrilLenMin != nil {
		p.TendrilLenMin = *req.TendrilLenMin
	}
	if req.TendrilLenMax != nil {
		p.TendrilLenMax = *req.TendrilLenMax
	}
	if req.Radius != nil {
		p.Radius = *req.Radius
	}

	opts := pipeline.Options{
		Params:     p,
		Variations: req.NumLayouts,
		Formats:    []string{pipeline.FormatPNG},
		Border:     req.Border,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// PatternResponse is one generated pattern as returned to clients.
type PatternResponse struct {
	ID              string         `json:"id"`
	Seed            int64          `json:"seed"`
	WidthInches     float64        `json:"width_inches"`
	HeightInches    float64        `json:"height_inches"`
	AspectRatio     float64        `json:"aspect_ratio"`
	AspectDeviation float64        `json:"aspect_deviation"`
	PNGData         string         `json:"png_data,omitempty"`
	Hexes           []hex.Axial    `json:"hexes"`
	Colors          []string       `json:"colors"`
	TendrilTiles    int            `json:"tendril_tiles"`
	Metrics         layout.Metrics `json:"metrics"`
	CreatedAt       time.Time      `json:"created_at"`
}

// GenerateResponse is the body of a successful generate call.
type GenerateResponse struct {
	Patterns []PatternResponse `json:"patterns"`
}

func newPatternResponse(rec *store.Record, withPNG bool) PatternResponse {
	p := rec.Pattern
	out := PatternResponse{
		ID:              rec.ID,
		Seed:            rec.Seed,
		WidthInches:     p.WidthInches,
		HeightInches:    p.HeightInches,
		AspectRatio:     p.AspectRatio,
		AspectDeviation: p.AspectDeviation,
		Hexes:           p.Hexes,
		Colors:          p.Colors,
		TendrilTiles:    p.TendrilTiles(),
		Metrics:         p.Metrics,
		CreatedAt:       rec.CreatedAt,
	}
	if withPNG {
		out.PNGData = base64.StdEncoding.EncodeToString(rec.PNG)
	}
	return out
}

// save stores a finished variation so it can be fetched and downloaded.
func (s *Server) save(ctx context.Context, v *pipeline.Variation) (*store.Record, error) {
	rec := &store.Record{
		ID:        v.ID,
		Seed:      v.Seed,
		Variation: v.Index,
		Params:    v.Params,
		Pattern:   v.Pattern,
		PNG:       v.Artifacts[pipeline.FormatPNG],
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store pattern %s", v.ID)
	}
	return rec, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := req.Options()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := GenerateResponse{Patterns: make([]PatternResponse, 0, len(result.Variations))}
	for _, v := range result.Variations {
		rec, err := s.save(r.Context(), v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Patterns = append(resp.Patterns, newPatternResponse(rec, true))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.Field(errors.ErrCodeInvalidInput, "limit", "must be a positive integer"))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]PatternResponse, len(recs))
	for i, rec := range recs {
		out[i] = newPatternResponse(rec, false)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"patterns": out})
}

// record loads the pattern named by the {id} URL parameter.
func (s *Server) record(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePatternID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) handleGetPattern(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPatternResponse(rec, true))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(rec.PNG) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeFileNotFound, "pattern %s has no PNG", rec.ID))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "attachment; filename="+rec.ID+".png")
	w.Header().Set("Content-Length", strconv.Itoa(len(rec.PNG)))
	_, _ = w.Write(rec.PNG)
}

func (s *Server) handleDeletePattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePatternID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
