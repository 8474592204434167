package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gagyebu/internal/log"
)

// write runs fn and answers with the store revision it produced.
func (s *Server) write(w http.ResponseWriter, r *http.Request, op string, status int, fn func(ctx context.Context, path string) error) {
	path := r.PathValue("path")
	if err := fn(r.Context(), path); err != nil {
		s.writeError(w, r, op, err)
		return
	}
	rev, err := s.ledger.Revision(r.Context())
	if err != nil {
		s.writeError(w, r, op, err)
		return
	}
	writeJSON(w, status, writeResult{Path: path, Revision: rev})
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, log.OpPut, err)
		return
	}
	s.write(w, r, log.OpPut, http.StatusOK, func(ctx context.Context, path string) error {
		return s.ledger.Put(ctx, path, body)
	})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, log.OpAdd, err)
		return
	}
	s.write(w, r, log.OpAdd, http.StatusCreated, func(ctx context.Context, path string) error {
		return s.ledger.Add(ctx, path, body)
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	index, err := requiredIndex(r)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	s.write(w, r, log.OpUpdate, http.StatusOK, func(ctx context.Context, path string) error {
		return s.ledger.Update(ctx, path, index, body)
	})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	index, err := requiredIndex(r)
	if err != nil {
		s.writeError(w, r, log.OpRemove, err)
		return
	}
	s.write(w, r, log.OpRemove, http.StatusOK, func(ctx context.Context, path string) error {
		return s.ledger.Remove(ctx, path, index)
	})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, log.OpReorder, err)
		return
	}
	s.write(w, r, log.OpReorder, http.StatusOK, func(ctx context.Context, path string) error {
		return s.ledger.Reorder(ctx, path, body)
	})
}

type adjustRequest struct {
	Index int `json:"index"`
	// Month selects the cell of a recurring row; ignored for other records.
	Month int `json:"month"`
}

// handleAdjust applies the current year's discrepancy to one record and
// returns the summary after the write.
func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	var req adjustRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, log.OpUpdate, fmt.Errorf("adjust request: %w", errBadRequest))
		return
	}

	year := s.summary.CurrentYear()
	before, err := s.summary.Summary(r.Context(), year)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	if err := s.ledger.AutoAdjust(r.Context(), r.PathValue("path"), req.Index, req.Month, year, before.Discrepancy); err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	after, err := s.summary.Summary(r.Context(), year)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, after)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, log.OpPut, err)
		return
	}
	keys, err := s.ledger.Import(r.Context(), body)
	if err != nil {
		s.writeError(w, r, log.OpPut, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	rev, err := s.ledger.Revision(r.Context())
	if err != nil {
		s.writeError(w, r, log.OpPut, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": keys, "revision": rev})
}
