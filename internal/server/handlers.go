package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/evidence-matcher/internal/schemas"
	"github.com/jonathan/evidence-matcher/internal/types"
	schemafiles "github.com/jonathan/evidence-matcher/schemas"
	"go.uber.org/zap"
)

// MatchRequest carries projects and listings inline.
type MatchRequest struct {
	Projects []types.Project    `json:"projects"`
	Listings []types.JobListing `json:"listings"`
}

// EvidenceRequest names a cached bundle by ID or carries one inline.
type EvidenceRequest struct {
	ID     string          `json:"id,omitempty"`
	UxInfo json.RawMessage `json:"ux_info,omitempty"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	list := types.ProjectList{Projects: req.Projects}
	if err := list.Validate(); err != nil {
		s.fail(w, r, &ErrValidation{Field: "projects", Message: err.Error()})
		return
	}
	if err := validateListings(req.Listings); err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeMatches(w, r, req.Projects, req.Listings)
}

func validateListings(listings []types.JobListing) error {
	for i := range listings {
		if err := listings[i].Validate(); err != nil {
			return &ErrValidation{Field: "listings[" + strconv.Itoa(i) + "]", Message: err.Error()}
		}
	}
	return nil
}

func (s *Server) handleProjectEvidence(w http.ResponseWriter, r *http.Request) {
	var req EvidenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	info, err := s.resolveUxInfo(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeMatches(w, r, info.ProjectList.Projects, info.Evidence)
}

func (s *Server) writeMatches(w http.ResponseWriter, r *http.Request, projects []types.Project, listings []types.JobListing) {
	matches, err := s.matcher.Match(r.Context(), projects, listings)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if matches == nil {
		matches = types.MatchCollection{}
	}

	s.log.Debug("matched",
		zap.Int("projects", len(projects)),
		zap.Int("listings", len(listings)),
		zap.Int("matches", len(matches)))
	s.jsonResponse(w, http.StatusOK, matches)
}

// resolveUxInfo returns the inline bundle when present, otherwise the cached one.
func (s *Server) resolveUxInfo(r *http.Request, req EvidenceRequest) (*types.UxInformation, error) {
	if len(req.UxInfo) > 0 && string(req.UxInfo) != "null" {
		if err := schemas.Validate(schemafiles.UxInfo, req.UxInfo); err != nil {
			return nil, err
		}
		var info types.UxInformation
		if err := json.Unmarshal(req.UxInfo, &info); err != nil {
			return nil, &ErrValidation{Field: "ux_info", Message: err.Error()}
		}
		return &info, nil
	}

	if req.ID == "" {
		return nil, &ErrValidation{Field: "id", Message: "id or ux_info is required"}
	}
	if s.cache == nil {
		return nil, &ErrUnavailable{Service: "cache"}
	}
	return s.cache.GetUxInfo(r.Context(), req.ID)
}

func (s *Server) handleRecentSearches(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		s.fail(w, r, &ErrUnavailable{Service: "cache"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			s.fail(w, r, &ErrValidation{Field: "limit", Message: "must be an integer between 1 and 50"})
			return
		}
		limit = n
	}

	recent, err := s.cache.RecentSearches(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recent)
}
