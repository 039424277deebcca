// Package compose turns raw generated text into tweets that satisfy the
// platform rules: bounded length, no markup, no enumeration labels.
package compose

import (
	"regexp"
	"strings"
)

const (
	// DefaultLimit is a conservative tweet length ceiling. The platform
	// weights emoji and URLs differently than plain characters, so the
	// limit stays under the nominal 280.
	DefaultLimit = 260

	// FillerTweet pads a generation result that came back short.
	FillerTweet = "More updates soon. #News"

	ellipsis = "..."
)

var (
	markupPattern     = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// "Tweet 3:" (colon optional) or "2." labels some models prepend.
	tweetLabelPattern = regexp.MustCompile(`(?i)^tweet\s*\d+\s*:?\s*`)
	numberedPattern   = regexp.MustCompile(`^\d+\.\s*`)
)

// Formatter cleans tweet drafts down to a character limit.
// Clean is pure and idempotent; a Formatter is safe for concurrent use.
type Formatter struct {
	limit int
}

// NewFormatter creates a Formatter with the given rune limit.
// A non-positive limit picks DefaultLimit.
func NewFormatter(limit int) *Formatter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Formatter{limit: limit}
}

// Limit returns the configured tweet length ceiling in runes.
func (f *Formatter) Limit() int {
	return f.limit
}

// Clean normalizes a tweet draft: strips HTML-like markup, collapses
// whitespace runs, removes leading enumeration labels, and truncates to the
// limit with a trailing "...". Empty or whitespace-only input yields "";
// callers treat an empty result as a discarded candidate.
func (f *Formatter) Clean(text string) string {
	t := markupPattern.ReplaceAllString(text, "")
	t = whitespacePattern.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)

	// Strip stacked labels ("1. 2. text") until stable so Clean stays
	// idempotent.
	for {
		stripped := tweetLabelPattern.ReplaceAllString(t, "")
		stripped = numberedPattern.ReplaceAllString(stripped, "")
		if stripped == t {
			break
		}
		t = stripped
	}

	runes := []rune(t)
	if len(runes) > f.limit {
		return string(runes[:f.limit-len(ellipsis)]) + ellipsis
	}
	return t
}
