// Package filename derives filesystem-safe CSV filenames from free-text
// search queries.
package filename

import (
	"regexp"
	"strings"
)

var (
	// locationPattern matches "in <location>" up to the next comma.
	locationPattern = regexp.MustCompile(`(?i)in\s+([^,]+)`)

	// inSeparator finds the first " in " occurrence, case-insensitively.
	inSeparator = regexp.MustCompile(`(?i) in `)

	// unsafeChars matches everything except word characters, whitespace, and
	// hyphens. Letters and digits are matched as Unicode classes so accented
	// place names survive.
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

	// separatorRuns matches runs of whitespace and hyphens.
	separatorRuns = regexp.MustCompile(`[-\s]+`)
)

// Derive turns a search query into a CSV filename of the form
// "{location}_{category}_results.csv".
//
// The location is the text after "in" up to the next comma; without an "in"
// clause it falls back to the last two query tokens, or "search_results" for
// queries of at most two tokens. The category is the text before the first
// " in ", or the first token. Both parts are stripped to word characters with
// separator runs collapsed to single underscores.
//
// Identical queries always derive identical names; distinct queries may
// collide, so callers must not rely on uniqueness.
func Derive(query string) string {
	var location string
	if m := locationPattern.FindStringSubmatch(query); m != nil {
		location = strings.TrimSpace(m[1])
	} else if parts := strings.Fields(query); len(parts) > 2 {
		location = parts[len(parts)-2] + "_" + parts[len(parts)-1]
	} else {
		location = "search_results"
	}

	var category string
	if loc := inSeparator.FindStringIndex(query); loc != nil {
		category = strings.TrimSpace(query[:loc[0]])
	} else if parts := strings.Fields(query); len(parts) > 0 {
		category = parts[0]
	}

	return sanitize(location) + "_" + sanitize(category) + "_results.csv"
}

// sanitize strips unsafe characters and collapses separator runs into single
// underscores.
func sanitize(s string) string {
	s = strings.TrimSpace(unsafeChars.ReplaceAllString(s, ""))
	return separatorRuns.ReplaceAllString(s, "_")
}
