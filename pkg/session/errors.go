package session

import "errors"

// Errors returned by the session manager and stores.
var (
	// ErrSessionNotFound indicates the session id is unknown to the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoResults indicates the first page of a search returned zero places.
	// No session is created in that case.
	ErrNoResults = errors.New("no places found matching the search criteria")

	// ErrNoMoreResults indicates the upstream reported no further pages.
	ErrNoMoreResults = errors.New("no more results available")

	// ErrPageLimitReached indicates the pagination cap was hit.
	ErrPageLimitReached = errors.New("maximum results limit reached")
)
