package models

// GenerationKind distinguishes the two generation paths. The thread path is
// mandatory and always yields output; the supporting path is best-effort.
type GenerationKind string

const (
	// KindThread generates the multi-tweet thread for the lead story.
	KindThread GenerationKind = "thread"

	// KindSupporting generates standalone tweets for supporting stories.
	KindSupporting GenerationKind = "supporting"
)

// GenerationRequest drives both the backend chain and the deterministic
// fallback, so every path honors the same expected output cardinality.
type GenerationRequest struct {
	Kind          GenerationKind
	Articles      []Article
	ExpectedCount int
}

// Lead returns the first source article, or a zero Article when none exist.
func (r GenerationRequest) Lead() Article {
	if len(r.Articles) == 0 {
		return Article{}
	}
	return r.Articles[0]
}
