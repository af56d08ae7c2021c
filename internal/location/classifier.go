// Package location classifies free-text job locations into a city and either
// a French department or the literal "international" marker.
//
// Classification is a pure function of the input string and two static
// reference sets (French department names, international keywords); it never
// touches the network or the database.
package location

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// International is the department value assigned to locations outside France.
const International = "international"

var (
	segmentSplit   = regexp.MustCompile(`[.,/;\n]+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)

	// NFKD decomposition followed by removal of combining marks folds
	// accented characters to their base Latin letters.
	accentFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize folds accents to base letters, collapses whitespace runs and
// trims. It returns nil for empty input, empty results, and the "N/A"
// placeholder stored by ingestion.
func Normalize(value string) *string {
	folded, _, err := transform.String(accentFold, value)
	if err != nil {
		folded = value
	}
	cleaned := strings.TrimSpace(whitespaceRuns.ReplaceAllString(folded, " "))
	if cleaned == "" || strings.EqualFold(cleaned, "n/a") {
		return nil
	}
	return &cleaned
}

// canonicalKey produces the form used for set membership and keyword matching:
// accents folded, lowercased, hyphens and apostrophes replaced by spaces,
// whitespace collapsed.
func canonicalKey(value string) string {
	n := Normalize(value)
	if n == nil {
		return ""
	}
	s := strings.ToLower(*n)
	s = strings.NewReplacer("-", " ", "'", " ", "’", " ").Replace(s)
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}

func containsSubstring(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

// Classify decomposes a raw location into a candidate city and department.
// The first comma/slash/semicolon-separated segment is the city, the second
// (if present) the department. Any segment matching an international keyword
// forces the department to International; a city that is itself a country
// name is nulled.
func Classify(raw string) (city, department *string) {
	cleaned := Normalize(raw)
	if cleaned == nil {
		return nil, nil
	}

	var segments []string
	for _, part := range segmentSplit.Split(*cleaned, -1) {
		if p := strings.TrimSpace(part); p != "" {
			segments = append(segments, p)
		}
	}
	if len(segments) == 0 {
		return nil, nil
	}

	city = &segments[0]
	if len(segments) > 1 {
		department = &segments[1]
	}

	international := false
	for _, seg := range segments {
		if matchesInternational(canonicalKey(seg)) {
			international = true
			break
		}
	}
	if international {
		department = strPtr(International)
		if matchesInternational(canonicalKey(segments[0])) {
			city = nil // a country name is not a city
		}
	}
	return city, department
}

// ClassifyStrict behaves like Classify and additionally rewrites any
// department that is not a recognized French department to International.
// Used by the full-scan migration to re-validate historical data.
func ClassifyStrict(raw string) (city, department *string) {
	city, department = Classify(raw)
	return city, StrictDepartment(department)
}

// StrictDepartment enforces the closed-set rule on a department value:
// anything that is neither a French department nor already the International
// marker becomes International. Nil stays nil.
func StrictDepartment(department *string) *string {
	if department == nil {
		return nil
	}
	if *department == International || IsFrenchDepartment(*department) {
		return department
	}
	return strPtr(International)
}

func strPtr(s string) *string {
	return &s
}
