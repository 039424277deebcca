// Package news fetches candidate articles from external providers.
package news

import (
	"context"

	"github.com/jonesrussell/gotweet/internal/models"
)

// Source yields candidate articles for a publishing run.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Fetch returns the source's current articles.
	Fetch(ctx context.Context) ([]models.Article, error)
}
