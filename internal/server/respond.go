package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/placeseek/places-export/pkg/places"
	"github.com/placeseek/places-export/pkg/session"
)

// errorResponse is the structured error body every failure maps to. Internal
// error text never reaches clients verbatim for upstream or server faults.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps internal failures to distinct user-facing responses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var reqErr *places.RequestError
	var parseErr *places.ParseError

	switch {
	case errors.Is(err, places.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "Search query is required")

	case errors.Is(err, session.ErrNoResults):
		writeError(w, http.StatusNotFound, "No places found matching your search criteria")

	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusBadRequest, "Invalid session")

	case errors.Is(err, session.ErrNoMoreResults):
		writeError(w, http.StatusBadRequest, "No more results available")

	case errors.Is(err, session.ErrPageLimitReached):
		writeError(w, http.StatusBadRequest, "Maximum results limit reached (60 results)")

	case errors.As(err, &reqErr):
		s.logger.Error().Err(err).Str("error_class", string(reqErr.ErrorClass)).Msg("Upstream search failed")
		writeError(w, http.StatusBadGateway, "Place search service is unavailable, please try again later")

	case errors.As(err, &parseErr):
		s.logger.Error().Err(err).Msg("Upstream response undecodable")
		writeError(w, http.StatusBadGateway, "Place search service returned an unexpected response")

	default:
		s.logger.Error().Err(err).Msg("Unhandled internal error")
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
