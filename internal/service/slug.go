package service

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slugify derives a company handle from its name: every run of characters
// that is not a letter or digit becomes a single "-", and leading or trailing
// dashes are dropped. Case is kept ("Test Name" → "Test-Name").
//
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(name, "-"), "-")
}
