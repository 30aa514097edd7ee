package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var slugReplacer = regexp.MustCompile("[^a-zA-Z0-9]")

// Slugify turns a display name into a hub safe object id.
func Slugify(name string) string {
	return strings.ToLower(slugReplacer.ReplaceAllString(name, "_"))
}

// Unslugify is the display counterpart of Slugify: underscores become spaces
// and every word is title-cased. Slugify(Unslugify(s)) == s for any slug s.
func Unslugify(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "_", " "))
}
