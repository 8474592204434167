package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gagyebu/internal/core"
	"gagyebu/internal/grouping"
	"gagyebu/internal/log"
	"gagyebu/internal/services"
	"gagyebu/internal/store"
)

// errBadRequest marks malformed parameters and bodies.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

type writeResult struct {
	Path     string `json:"path"`
	Revision int64  `json:"revision"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw sends an already encoded JSON value; nil becomes null.
func writeRaw(w http.ResponseWriter, status int, raw json.RawMessage) {
	if raw == nil {
		raw = json.RawMessage("null")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidRecord):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, core.ErrInvalidSource),
		errors.Is(err, store.ErrInvalidPath),
		errors.Is(err, store.ErrNotList),
		errors.Is(err, grouping.ErrUnknownView),
		errors.Is(err, services.ErrNotAdjustable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err to the client. Server errors are logged and their
// detail stays out of the response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op,
			log.NewFields().WithErrorType(log.ErrorTypeInternal))
		writeJSON(w, status, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
