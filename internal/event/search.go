package event

import (
	"regexp"
	"strings"
)

var (
	markdownNoise = regexp.MustCompile("[*_~`#>\\[\\]()|-]+")
	urlPattern    = regexp.MustCompile(`https?://\S+`)
	spaces        = regexp.MustCompile(`\s+`)
	tsqueryNoise  = regexp.MustCompile(`[!&|:'"()<>]`)
)

// sanitizeDescription strips markdown and URL noise before the description is
// folded into the search vector at its lowest weight.
func sanitizeDescription(s string) string {
	s = urlPattern.ReplaceAllString(s, " ")
	s = markdownNoise.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// sanitizeSearch removes tsquery operators from a user-supplied term so it is
// only ever data, never query syntax.
func sanitizeSearch(s string) string {
	s = tsqueryNoise.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// searchVectorSQL rebuilds the weighted vector for one event: name at weight
// A, creator and venue names at B, sanitized description at C. Runs on every
// create/update, never at read time.
const searchVectorSQL = `
UPDATE events SET search_vector =
	setweight(to_tsvector('english', coalesce(name, '')), 'A') ||
	setweight(to_tsvector('english', coalesce(user_name, '') || ' ' || coalesce(estate_name, '') || ' ' || coalesce(server, '')), 'B') ||
	setweight(to_tsvector('english', ?), 'C')
WHERE id = ?`
