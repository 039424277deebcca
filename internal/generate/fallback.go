package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/gotweet/internal/models"
)

const fallbackDateLayout = "02 Jan 2006 15:04 UTC"

// Fallback synthesizes a thread directly from the lead article's fields.
// It terminates the thread backend chain and never fails, so every run
// produces a factual thread even with every remote backend down.
type Fallback struct{}

// NewFallback creates a Fallback.
func NewFallback() *Fallback { return &Fallback{} }

// Name returns the backend identifier.
func (f *Fallback) Name() string { return "fallback" }

// Generate builds a five-part delimited thread from the lead article:
// a breaking-style hook, the summary, source and timestamp, the link,
// and a follow call-to-action. Empty article fields leave their line in
// place rather than dropping it, keeping the thread shape stable.
func (f *Fallback) Generate(_ context.Context, req models.GenerationRequest, _ Options) (string, error) {
	a := req.Lead()

	published := a.PublishedAt
	if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		published = ts.UTC().Format(fallbackDateLayout)
	}

	link := "More updates soon."
	if a.URL != "" {
		link = "More: " + a.URL
	}

	lines := []string{
		fmt.Sprintf("🔔 BREAKING: %s (%s)", a.Title, a.SourceName),
		"Summary: " + a.Description,
		fmt.Sprintf("Source: %s · Published: %s", a.SourceName, published),
		link,
		"Follow for verified updates. #News",
	}

	return strings.Join(lines, "\n---\n"), nil
}
