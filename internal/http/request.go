package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

// readBody reads a JSON request body of at most maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("body larger than %d bytes: %w", maxBodyBytes, errBadRequest)
		}
		return nil, fmt.Errorf("read body: %w", errBadRequest)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("body is not valid JSON: %w", errBadRequest)
	}
	return body, nil
}

// intParam parses an integer query or path value. An empty value yields def.
func intParam(name, value string, def int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number: %w", name, value, errBadRequest)
	}
	return n, nil
}

// requiredIndex parses the mandatory ?index= of item edits.
func requiredIndex(r *http.Request) (int, error) {
	value := r.URL.Query().Get("index")
	if strings.TrimSpace(value) == "" {
		return 0, fmt.Errorf("index is required: %w", errBadRequest)
	}
	return intParam("index", value, 0)
}

// yearParam reads ?year=, defaulting to the current year.
func (s *Server) yearParam(r *http.Request) (int, error) {
	return intParam("year", r.URL.Query().Get("year"), s.summary.CurrentYear())
}
