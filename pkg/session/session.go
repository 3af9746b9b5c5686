// Package session holds the per-search pagination state: accumulated records,
// the continuation token, and the page count, together with the store that
// keeps sessions between requests.
package session

import (
	"time"

	"github.com/placeseek/places-export/pkg/places"
)

// MaxPages is the pagination cap. The upstream returns at most 20 places per
// page and stops serving tokens after the third page (60 results).
const MaxPages = 3

// TokenDelay is the interval a continuation token needs before it becomes
// valid upstream. This is an external constraint of the Places API, not a
// tunable.
const TokenDelay = 3 * time.Second

// State describes where a session is in its pagination lifecycle.
type State string

const (
	// StateFresh means only the first page has been fetched and more are
	// available.
	StateFresh State = "fresh"

	// StatePaginated means at least one continuation page has been fetched
	// and more are available.
	StatePaginated State = "paginated"

	// StateExhausted means no further pagination is permitted: the page cap
	// was reached or the upstream stopped issuing tokens.
	StateExhausted State = "exhausted"
)

// Session accumulates all pages fetched for one query. Records are
// append-only and keep the upstream response order, concatenated across pages
// in fetch order; nothing is deduplicated or re-sorted.
type Session struct {
	// ID is the opaque session identifier handed to clients.
	ID string `json:"id"`

	// Query is the original search text.
	Query string `json:"query"`

	// Records are all places fetched so far.
	Records []places.Record `json:"records"`

	// NextPageToken is the continuation token for the next page, empty when
	// the upstream reported no further pages.
	NextPageToken string `json:"next_page_token,omitempty"`

	// PageCount is the number of pages fetched, at least 1.
	PageCount int `json:"page_count"`

	// Filename is the CSV filename derived from the query at creation time.
	Filename string `json:"filename"`

	// NotBefore is the earliest instant the continuation token may be used.
	NotBefore time.Time `json:"not_before,omitempty"`
}

// State derives the lifecycle state from the token and page count.
func (s *Session) State() State {
	switch {
	case s.NextPageToken == "" || s.PageCount >= MaxPages:
		return StateExhausted
	case s.PageCount == 1:
		return StateFresh
	default:
		return StatePaginated
	}
}

// HasMore reports whether another page can still be fetched.
func (s *Session) HasMore() bool {
	return s.State() != StateExhausted
}
