package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/evidence-matcher/internal/cache"
	"github.com/jonathan/evidence-matcher/internal/types"
	"go.uber.org/zap"
)

// SearchRequest carries the listings fetched for one job search.
// SearchID is assigned when omitted.
type SearchRequest struct {
	SearchID   string                 `json:"job_search_id,omitempty"`
	Parameters types.SearchParameters `json:"parameters"`
	Listings   []types.JobListing     `json:"listings"`
}

// SearchResponse identifies a cached search.
type SearchResponse struct {
	SearchID string `json:"job_search_id"`
	JobCount int    `json:"job_count"`
}

// UxInfoResponse names a cached project bundle. ID is accepted as-is by
// /api/project-evidence and /api/history.
type UxInfoResponse struct {
	ID string `json:"id"`
}

func (s *Server) handlePutSearch(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		s.fail(w, r, &ErrUnavailable{Service: "cache"})
		return
	}

	var req SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	id := uuid.NewString()
	if req.SearchID != "" {
		parsed, err := parseSearchID(req.SearchID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		id = parsed
	}

	if err := req.Parameters.Validate(); err != nil {
		s.fail(w, r, &ErrValidation{Field: "parameters", Message: err.Error()})
		return
	}
	if err := validateListings(req.Listings); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.cache.PutSearch(r.Context(), id, req.Parameters, req.Listings); err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Info("cached search", zap.String("id", id), zap.Int("listings", len(req.Listings)))
	s.jsonResponse(w, http.StatusCreated, SearchResponse{SearchID: id, JobCount: len(req.Listings)})
}

func (s *Server) handleGetSearch(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		s.fail(w, r, &ErrUnavailable{Service: "cache"})
		return
	}
	id, err := parseSearchID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	listings, err := s.cache.GetSearch(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if listings == nil {
		listings = []types.JobListing{}
	}
	s.jsonResponse(w, http.StatusOK, listings)
}

// handlePutProjects pairs a project list with a cached search and caches
// the resulting bundle for the evidence and save steps.
func (s *Server) handlePutProjects(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		s.fail(w, r, &ErrUnavailable{Service: "cache"})
		return
	}
	id, err := parseSearchID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var list types.ProjectList
	if err := decodeJSON(w, r, &list); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := list.Validate(); err != nil {
		s.fail(w, r, &ErrValidation{Field: "projects", Message: err.Error()})
		return
	}

	meta, err := s.cache.GetSearchMetadata(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	listings, err := s.cache.GetSearch(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	info := &types.UxInformation{
		Parameters:  meta.Parameters,
		ProjectList: list,
		Evidence:    listings,
	}
	if err := s.cache.PutUxInfo(r.Context(), id, info); err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Info("cached projects", zap.String("id", id), zap.Int("projects", len(list.Projects)))
	s.jsonResponse(w, http.StatusCreated, UxInfoResponse{ID: cache.UxInfoKey(id)})
}

// parseSearchID accepts only UUIDs so a search can never be stored over
// another cache key.
func parseSearchID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", &ErrValidation{Field: "job_search_id", Message: "invalid search ID"}
	}
	return id.String(), nil
}
