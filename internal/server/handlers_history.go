package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/evidence-matcher/internal/history"
	"github.com/jonathan/evidence-matcher/internal/schemas"
	"github.com/jonathan/evidence-matcher/internal/server/middleware"
	"github.com/jonathan/evidence-matcher/internal/types"
	schemafiles "github.com/jonathan/evidence-matcher/schemas"
	"go.uber.org/zap"
)

// SaveRequest names the bundle to save and optionally its precomputed evidence.
type SaveRequest struct {
	EvidenceRequest
	Evidence json.RawMessage `json:"evidence,omitempty"`
}

func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, r, &ErrUnavailable{Service: "database"})
		return
	}

	var req SaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	info, err := s.resolveUxInfo(r, req.EvidenceRequest)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var matches types.MatchCollection
	if len(req.Evidence) > 0 && string(req.Evidence) != "null" {
		if err := schemas.Validate(schemafiles.Matches, req.Evidence); err != nil {
			s.fail(w, r, err)
			return
		}
		if err := json.Unmarshal(req.Evidence, &matches); err != nil {
			s.fail(w, r, &ErrValidation{Field: "evidence", Message: err.Error()})
			return
		}
	} else {
		matches, err = s.matcher.Match(r.Context(), info.ProjectList.Projects, info.Evidence)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}

	entry := history.NewEntry(*info, matches, s.now())
	entry.UserID = middleware.UserIDFromRequest(r)

	saved, err := s.store.SaveHistory(r.Context(), &entry)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Info("saved history", zap.String("id", saved.ID.String()), zap.String("title", saved.Title))
	s.jsonResponse(w, http.StatusCreated, saved)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, r, &ErrUnavailable{Service: "database"})
		return
	}

	summaries, err := s.store.ListHistory(r.Context(), middleware.UserIDFromRequest(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summaries)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.loadOwnedEntry(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

func (s *Server) handleGetEvidence(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, r, &ErrUnavailable{Service: "database"})
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Owned entries are only visible to their owner
	entry, err := s.store.GetHistory(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entry != nil && !visibleTo(entry, r) {
		s.jsonResponse(w, http.StatusOK, types.MatchCollection{})
		return
	}

	evidence, err := s.store.GetEvidence(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, evidence)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.loadOwnedEntry(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteHistory(r.Context(), entry.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.fail(w, r, &ErrNotFound{Resource: "history", ID: entry.ID.String()})
		return
	}

	s.log.Info("deleted history", zap.String("id", entry.ID.String()))
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// loadOwnedEntry fetches the entry named in the path and writes an error
// response when it is missing or owned by someone else.
func (s *Server) loadOwnedEntry(w http.ResponseWriter, r *http.Request) (*types.HistoryEntry, bool) {
	if s.store == nil {
		s.fail(w, r, &ErrUnavailable{Service: "database"})
		return nil, false
	}
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	entry, err := s.store.GetHistory(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	if entry == nil || !visibleTo(entry, r) {
		s.fail(w, r, &ErrNotFound{Resource: "history", ID: id.String()})
		return nil, false
	}
	return entry, true
}

// visibleTo reports whether the caller may see entry. Anonymous entries
// are public.
func visibleTo(entry *types.HistoryEntry, r *http.Request) bool {
	if entry.UserID == nil {
		return true
	}
	caller := middleware.UserIDFromRequest(r)
	return caller != nil && *caller == *entry.UserID
}

func parseID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid history ID"}
	}
	return id, nil
}
