package normalizer

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	slugSpace   = regexp.MustCompile(`[\s\v\p{Z}\x{feff}]+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify lowercases title, turns whitespace runs into a hyphen and drops
// everything outside [a-z0-9-]. Distinct titles may map to the same slug.
func Slugify(title string) string {
	s := cases.Lower(language.Und).String(title)
	s = slugSpace.ReplaceAllString(s, "-")

	return slugInvalid.ReplaceAllString(s, "")
}
