// Package models defines the data types shared across the pipeline stages.
package models

import "strings"

// Article is one headline as delivered by a news source. Fields the source
// omits are empty strings; an Article is never mutated after fetch.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	SourceName  string `json:"source_name"`
	PublishedAt string `json:"published_at"` // RFC3339/ISO-8601 or empty
}

// HasContent reports whether the article carries both a title and a
// description, the minimum needed to write a standalone tweet about it.
func (a Article) HasContent() bool {
	return strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.Description) != ""
}

// StorySelection is the output of story selection: one lead story that
// becomes the thread, and up to three supporting stories for standalone
// tweets. The lead never appears in Supporting.
type StorySelection struct {
	Lead       Article   `json:"lead"`
	Supporting []Article `json:"supporting"`
}
