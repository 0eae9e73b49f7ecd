package utils

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// NormalizeName trims and collapses whitespace and upper-cases the first
// letter of every word. Existing capitals are kept ("McEnroe", "DEL").
func NormalizeName(raw string) string {
	return titleCaser.String(strings.Join(strings.Fields(raw), " "))
}

// SearchKey folds a name to lower-case ASCII so "Müller" matches "muller".
func SearchKey(parts ...string) string {
	joined := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return strings.ToLower(unidecode.Unidecode(joined))
}

// MatchSlug builds a readable, URL-safe match identifier such as
// "roland-garros-qf-alcaraz-vs-sinner".
func MatchSlug(tournament, round, lastNameA, lastNameB string) string {
	return slug.Make(fmt.Sprintf("%s %s %s vs %s", tournament, round, lastNameA, lastNameB))
}

// ArchiveKey is the object key of a session archive.
func ArchiveKey(matchSlug, sessionID string) string {
	dir := slug.Make(matchSlug)
	if dir == "" {
		dir = "unnamed"
	}
	return fmt.Sprintf("archives/%s/%s.json", dir, sessionID)
}
