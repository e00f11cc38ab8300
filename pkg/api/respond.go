package api

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hextile/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "err", err)
		http.Error(w, `{"detail":"internal server error","code":"INTERNAL_ERROR"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError maps err to a status and error body. Server-side failures are
// logged and their details withheld from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	body := errorBody{Detail: errors.UserMessage(err), Code: string(errors.GetCode(err))}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err)
		body.Detail = "internal server error"
	}
	if body.Code == "" {
		body.Code = string(errors.ErrCodeInternal)
	}
	s.writeJSON(w, status, body)
}

// decode reads a JSON request body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := sonic.ConfigStd.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

const maxBodyBytes = 1 << 20
