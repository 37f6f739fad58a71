package helpers

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases name and replaces every run of characters outside
// [a-z0-9] with a single "-".
func Slugify(name string) string {
	return nonSlug.ReplaceAllString(strings.ToLower(name), "-")
}

// NullableString maps blank strings to nil.
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeURL upgrades scheme-relative URLs ("//host/path") to https.
func NormalizeURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
