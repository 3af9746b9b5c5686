// Package testutil provides testing utilities for the place-search exporter.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockPageResponse defines the behavior of the mock upstream for one page
// token.
type MockPageResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// searchRequest mirrors the request body of a text-search call.
type searchRequest struct {
	TextQuery string `json:"textQuery"`
	PageToken string `json:"pageToken"`
}

// MockPlaces is a configurable mock Places API server for testing. Pages are
// keyed by the pageToken of the incoming request; the empty token selects the
// first page.
type MockPlaces struct {
	server *httptest.Server
	mu     sync.RWMutex
	pages  map[string]MockPageResponse

	// Tracking
	RequestCount      int
	LastQuery         string
	LastPageToken     string
	LastRequestHeader http.Header
}

// NewMockPlaces creates a new mock Places API server.
func NewMockPlaces() *MockPlaces {
	mock := &MockPlaces{
		pages: make(map[string]MockPageResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/places:searchText") {
			http.NotFound(w, r)
			return
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error": "bad request"}`, http.StatusBadRequest)
			return
		}

		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = req.TextQuery
		mock.LastPageToken = req.PageToken
		mock.LastRequestHeader = r.Header.Clone()
		resp, exists := mock.pages[req.PageToken]
		mock.mu.Unlock()

		if !exists {
			// Default: one empty result page.
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
			return
		}

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPlaces) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPlaces) Close() {
	m.server.Close()
}

// Reset clears all configured pages and tracking counters.
func (m *MockPlaces) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = make(map[string]MockPageResponse)
	m.RequestCount = 0
	m.LastQuery = ""
	m.LastPageToken = ""
	m.LastRequestHeader = nil
}

// SetPage configures the response served for a page token. The empty token
// is the first page.
func (m *MockPlaces) SetPage(token string, resp MockPageResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[token] = resp
}

// GetRequestCount returns the number of search requests received.
func (m *MockPlaces) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// NewPageBody builds a result-page body with one place per name. nextToken,
// when non-empty, is included as the continuation token.
func NewPageBody(nextToken string, names ...string) string {
	var sb strings.Builder
	sb.WriteString(`{"places": [`)
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb,
			`{"id": "place-%s", "displayName": {"text": %q}, "formattedAddress": "%s Street 1", "primaryType": "establishment", "rating": 4.5, "userRatingCount": %d, "businessStatus": "OPERATIONAL"}`,
			strings.ToLower(strings.ReplaceAll(name, " ", "-")), name, name, 10+i)
	}
	sb.WriteString(`]`)
	if nextToken != "" {
		fmt.Fprintf(&sb, `, "nextPageToken": %q`, nextToken)
	}
	sb.WriteString(`}`)
	return sb.String()
}

// NewResultPage creates a standard 200 OK page response.
func NewResultPage(nextToken string, names ...string) MockPageResponse {
	return MockPageResponse{
		StatusCode: http.StatusOK,
		Body:       NewPageBody(nextToken, names...),
	}
}

// NewEmptyPage creates a 200 OK response with no places list.
func NewEmptyPage() MockPageResponse {
	return MockPageResponse{
		StatusCode: http.StatusOK,
		Body:       `{}`,
	}
}

// NewServerErrorPage creates a 500 Internal Server Error response.
func NewServerErrorPage() MockPageResponse {
	return MockPageResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": {"code": 500, "message": "Internal error"}}`,
	}
}

// NewInvalidKeyPage creates the 403 response the upstream returns for a bad
// API key.
func NewInvalidKeyPage() MockPageResponse {
	return MockPageResponse{
		StatusCode: http.StatusForbidden,
		Body:       `{"error": {"code": 403, "message": "The provided API key is invalid.", "status": "PERMISSION_DENIED"}}`,
	}
}
