package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/placeseek/places-export/pkg/csvexport"
	"github.com/placeseek/places-export/pkg/places"
)

// searchRequest is the body of POST /api/search.
type searchRequest struct {
	Query string `json:"query"`
}

// searchResponse is the body of a successful POST /api/search.
type searchResponse struct {
	SessionID  string          `json:"session_id"`
	Places     []places.Record `json:"places"`
	HasMore    bool            `json:"has_more"`
	TotalCount int             `json:"total_count"`
	Filename   string          `json:"filename"`
}

// moreRequest is the body of POST /api/search/more.
type moreRequest struct {
	SessionID string `json:"session_id"`
}

// moreResponse is the body of a successful POST /api/search/more.
type moreResponse struct {
	Places     []places.Record `json:"places"`
	HasMore    bool            `json:"has_more"`
	TotalCount int             `json:"total_count"`
	PageCount  int             `json:"page_count"`
}

// handleSearch runs the first page of a search and opens a session.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be JSON with a query field")
		return
	}

	sess, err := s.manager.Start(r.Context(), req.Query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		SessionID:  sess.ID,
		Places:     sess.Records,
		HasMore:    sess.HasMore(),
		TotalCount: len(sess.Records),
		Filename:   sess.Filename,
	})
}

// handleSearchMore fetches the next page for an existing session.
func (s *Server) handleSearchMore(w http.ResponseWriter, r *http.Request) {
	var req moreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be JSON with a session_id field")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "Invalid session")
		return
	}

	added, sess, err := s.manager.FetchNext(r.Context(), req.SessionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, moreResponse{
		Places:     added,
		HasMore:    sess.HasMore(),
		TotalCount: len(sess.Records),
		PageCount:  sess.PageCount,
	})
}

// handleDownload streams the accumulated records of a session as a CSV
// attachment named by the derived filename.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := s.manager.Get(r.Context(), sessionID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if len(sess.Records) == 0 {
		writeError(w, http.StatusBadRequest, "No data to download")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.Filename))

	if err := csvexport.Write(w, sess.Records); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("CSV download failed mid-stream")
	}
}
