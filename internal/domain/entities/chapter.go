package entities

import "regexp"

// slugPattern keeps slugs usable as file names and URL path segments.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Chapter is the question bank of one study chapter.
// Questions use the structured schema, Legacy holds two-line text blocks
// ("question: <text>\n<correct>, <wrong>, <wrong>, <wrong>").
type Chapter struct {
	Slug      string     `json:"slug"`      // url-safe identifier, also the output file name
	Title     string     `json:"title"`     // human readable title
	Questions []Question `json:"questions"` // structured questions
	Legacy    []string   `json:"legacy"`    // text-schema blocks
}

// Size returns the number of raw items in the bank, valid or not.
func (c *Chapter) Size() int {
	return len(c.Questions) + len(c.Legacy)
}

// ValidSlug reports whether slug is lowercase letters, digits and dashes.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
