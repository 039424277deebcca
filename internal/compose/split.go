package compose

import (
	"regexp"
	"strings"
)

// delimiterPattern matches a delimiter line consisting solely of ---,
// with blank lines allowed around it.
var delimiterPattern = regexp.MustCompile(`\n\s*---\s*\n`)

// Splitter parses a generated block into an exact number of tweets.
// It never fails: short or malformed input is padded with FillerTweet.
type Splitter struct {
	formatter *Formatter
}

// NewSplitter creates a Splitter that cleans segments with formatter.
func NewSplitter(formatter *Formatter) *Splitter {
	return &Splitter{formatter: formatter}
}

// Split cuts raw on --- delimiter lines, cleans each segment, drops the ones
// that clean to empty, and returns exactly expected tweets in original
// order. A shortfall is padded with the filler tweet; extra segments are
// discarded, never merged.
func (s *Splitter) Split(raw string, expected int) []string {
	if expected <= 0 {
		return nil
	}

	parts := delimiterPattern.Split(strings.TrimSpace(raw), -1)

	out := make([]string, 0, expected)
	for _, part := range parts {
		if len(out) == expected {
			break
		}
		cleaned := s.formatter.Clean(part)
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}

	filler := s.formatter.Clean(FillerTweet)
	for len(out) < expected {
		out = append(out, filler)
	}

	return out
}
