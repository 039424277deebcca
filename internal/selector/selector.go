// Package selector partitions a raw article batch into one lead story and
// up to three supporting stories.
package selector

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/models"
)

const (
	maxSupporting = 3

	// Below this many chosen supporting stories a repeated source is
	// still accepted.
	repeatSourceThreshold = 2

	// How many articles the last-resort fallback takes when no candidate
	// has both a title and a description.
	fallbackSupporting = 2

	logTitleLen = 80
)

// Options tunes the advisory filters applied before selection.
type Options struct {
	// MaxAgeHours drops articles published more than this many hours ago.
	// Zero or negative disables the freshness filter.
	MaxAgeHours int

	// Keywords keeps only articles mentioning at least one keyword in
	// title or description, case-insensitive. Empty disables the filter.
	Keywords []string
}

// Selector picks the lead story and supporting stories for a run.
type Selector struct {
	opts Options
	log  logger.Logger
}

// New creates a Selector.
func New(opts Options, log logger.Logger) *Selector {
	return &Selector{opts: opts, log: log}
}

// Select filters and sorts articles, then partitions them into a lead
// story and up to three supporting stories. The lead is the most recently
// published article; supporting entries prefer sources distinct from the
// lead and from each other. Returns models.ErrEmptyInput when articles
// is empty; any non-empty input yields a selection.
func (s *Selector) Select(articles []models.Article) (models.StorySelection, error) {
	if len(articles) == 0 {
		return models.StorySelection{}, fmt.Errorf("selecting stories: %w", models.ErrEmptyInput)
	}

	pool := s.applyFilters(articles)

	// ISO-8601 timestamps compare lexicographically in chronological
	// order, so plain string comparison sorts most-recent-first. Empty
	// timestamps sort last.
	sorted := make([]models.Article, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt > sorted[j].PublishedAt
	})

	lead := sorted[0]
	supporting := pickSupporting(lead, sorted[1:])

	s.log.Info("Selected stories",
		logger.String("lead", shortTitle(lead.Title)),
		logger.String("lead_source", lead.SourceName),
		logger.Int("supporting", len(supporting)),
	)

	return models.StorySelection{Lead: lead, Supporting: supporting}, nil
}

// applyFilters runs the advisory filters in order: non-empty title,
// freshness window, keyword relevance. Each filter is skipped with a
// warning when it would eliminate every remaining article; selection
// must always have something to work with.
func (s *Selector) applyFilters(articles []models.Article) []models.Article {
	pool := s.advisory(articles, "title", func(a models.Article) bool {
		return strings.TrimSpace(a.Title) != ""
	})

	if s.opts.MaxAgeHours > 0 {
		cutoff := time.Now().UTC().Add(-time.Duration(s.opts.MaxAgeHours) * time.Hour)
		pool = s.advisory(pool, "freshness", func(a models.Article) bool {
			ts, err := time.Parse(time.RFC3339, a.PublishedAt)
			if err != nil {
				return false
			}
			return !ts.Before(cutoff)
		})
	}

	if len(s.opts.Keywords) > 0 {
		pool = s.advisory(pool, "keywords", func(a models.Article) bool {
			haystack := strings.ToLower(a.Title + " " + a.Description)
			for _, kw := range s.opts.Keywords {
				if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
					return true
				}
			}
			return false
		})
	}

	return pool
}

// advisory returns the articles that pass keep, unless none do, in which
// case the filter is skipped and the input returned unchanged.
func (s *Selector) advisory(articles []models.Article, name string, keep func(models.Article) bool) []models.Article {
	kept := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if keep(a) {
			kept = append(kept, a)
		}
	}

	if len(kept) == 0 {
		s.log.Warn("Filter would drop every article, skipping it",
			logger.String("filter", name),
			logger.Int("articles", len(articles)),
		)
		return articles
	}

	if dropped := len(articles) - len(kept); dropped > 0 {
		s.log.Debug("Filter dropped articles",
			logger.String("filter", name),
			logger.Int("dropped", dropped),
			logger.Int("remaining", len(kept)),
		)
	}

	return kept
}

// pickSupporting walks the remaining articles most-recent-first and
// accumulates up to maxSupporting entries. Sources not yet used by the
// lead or an earlier pick are preferred; a repeated or unnamed source is
// accepted only while fewer than repeatSourceThreshold entries are
// chosen. Articles missing a title or description never qualify. When
// nothing qualifies, the most recent articles are taken regardless, so
// supporting stays populated whenever candidates exist.
func pickSupporting(lead models.Article, rest []models.Article) []models.Article {
	supporting := make([]models.Article, 0, maxSupporting)
	seen := map[string]bool{lead.SourceName: true}

	for _, a := range rest {
		if len(supporting) >= maxSupporting {
			break
		}
		if !a.HasContent() {
			continue
		}

		switch {
		case a.SourceName != "" && !seen[a.SourceName]:
			supporting = append(supporting, a)
			seen[a.SourceName] = true
		case len(supporting) < repeatSourceThreshold:
			supporting = append(supporting, a)
		}
	}

	if len(supporting) == 0 {
		n := len(rest)
		if n > fallbackSupporting {
			n = fallbackSupporting
		}
		supporting = append(supporting, rest[:n]...)
	}

	return supporting
}

func shortTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= logTitleLen {
		return title
	}
	return string(runes[:logTitleLen]) + "..."
}
