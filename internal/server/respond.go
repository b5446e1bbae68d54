package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	apperr "github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/storage"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      apperr.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps err to a status code and a coded JSON body. Internal
// failures are logged and masked.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, status := classify(err)
	msg := apperr.UserMessage(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err,
			"request_id", middleware.GetReqID(r.Context()))
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

// classify returns the code and HTTP status for err. Storage sentinels map
// onto the generic codes.
func classify(err error) (apperr.Code, int) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.ErrCodeNotFound, http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidID):
		return apperr.ErrCodeInvalidInput, http.StatusBadRequest
	}
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	return code, apperr.HTTPStatus(err)
}

func errNotFound(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeNotFound, format, args...)
}

func errInvalid(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvalidInput, format, args...)
}
