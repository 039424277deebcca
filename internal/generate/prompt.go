package generate

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/gotweet/internal/models"
)

// Prompt tweets are asked for under 250 chars so the formatter's 260
// ceiling rarely has to truncate.
const promptTweetChars = 250

func threadSystem(count int) string {
	return fmt.Sprintf(`You are an assistant writing factual news threads for X.
- Keep every tweet under %d characters.
- Output exactly %d tweets separated by a line containing only '---'.
- Cover, in order: the hook, the background, the key facts, why it matters, and a closing call to follow for updates.
- Neutral, factual, verified tone. No invented details.`, promptTweetChars, count)
}

func threadUser(a models.Article, count int) string {
	return fmt.Sprintf(`Title: %s
Description: %s
Source: %s
Published: %s
URL: %s

Write %d tweets separated by '---'.`, a.Title, a.Description, a.SourceName, a.PublishedAt, count)
}

func supportingSystem() string {
	return fmt.Sprintf("Write one short tweet per story below. Neutral tone. Under %d characters each. Separate tweets with a line containing only '---'.", promptTweetChars)
}

func supportingUser(articles []models.Article) string {
	var b strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&b, "- %s | %s\n", a.Title, a.Description)
	}
	return b.String()
}
