package http

import (
	"net/http"

	"gagyebu/internal/core"
	"gagyebu/internal/grouping"
	"gagyebu/internal/log"
	"gagyebu/internal/store"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, err := s.yearParam(r)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	summary, err := s.summary.Summary(r.Context(), year)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	year, err := s.yearParam(r)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	report, err := s.summary.Budget(r.Context(), year)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.summary.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	if results == nil {
		results = []core.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	source, err := core.ParseSource(r.PathValue("source"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	years, err := s.summary.Years(r.Context(), source)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, years)
}

func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	source, err := core.ParseSource(r.PathValue("source"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	year, err := intParam("year", r.PathValue("year"), 0)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	section, err := store.ParseSection(r.PathValue("section"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	view, err := grouping.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	tabs, err := s.summary.Tabs(r.Context(), source, year, section, view)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	if tabs == nil {
		tabs = []grouping.Tab{}
	}
	writeJSON(w, http.StatusOK, tabs)
}

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	source, err := core.ParseSource(r.PathValue("source"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	year, err := intParam("year", r.PathValue("year"), 0)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	section, err := store.ParseSection(r.PathValue("section"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	grid, err := s.summary.Recurring(r.Context(), source, year, section)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	source, err := core.ParseSource(r.PathValue("source"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	projects, err := s.summary.Projects(r.Context(), source)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source, err := core.ParseSource(r.PathValue("source"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	section, err := store.ParseSection(r.PathValue("section"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	sub := store.SubItems
	if v := q.Get("sub"); v != "" {
		if sub, err = store.ParseSub(v); err != nil {
			s.writeError(w, r, log.OpRead, err)
			return
		}
	}
	year, err := s.yearParam(r)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	month, err := intParam("month", q.Get("month"), 0)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	categories, err := s.summary.Categories(r.Context(), source, year, section, sub, month)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleRevision(w http.ResponseWriter, r *http.Request) {
	rev, err := s.ledger.Revision(r.Context())
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"revision": rev})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	raw, err := s.ledger.Get(r.Context(), r.PathValue("path"))
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	writeRaw(w, http.StatusOK, raw)
}
