// Package generate turns selected stories into tweet text. Remote model
// backends are tried in a configured order; the thread path ends in a
// deterministic synthesizer so a thread always comes out.
package generate

import (
	"context"
	"errors"

	"github.com/jonesrussell/gotweet/internal/models"
)

// ErrEmptyResponse reports a backend that returned no usable text.
var ErrEmptyResponse = errors.New("backend returned empty text")

// Options carries the prompt and sampling limits for one backend attempt.
type Options struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Backend is one text-generation provider. Generate returns raw tweet
// text with "---" delimiter lines; any error counts as a failed attempt
// and sends the caller to the next backend in the chain.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req models.GenerationRequest, opts Options) (string, error)
}
