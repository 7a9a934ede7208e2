// Package email generates candidate addresses for discovered executives and
// verifies them against the recipient domain's mail infrastructure.
package email

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/domains"
)

var nonAlpha = regexp.MustCompile(`[^a-z]`)

// normalizeName lowercases a name part and strips everything but letters.
func normalizeName(text string) string {
	return nonAlpha.ReplaceAllString(strings.ToLower(text), "")
}

// GeneratePatterns returns a prioritized, deduplicated list of likely email
// addresses for a person at a domain. Returns nil when any part normalizes
// to empty.
func GeneratePatterns(firstName, lastName, domain string) []string {
	first := normalizeName(firstName)
	last := normalizeName(lastName)
	dom := domains.NormalizeDomain(domain)
	if first == "" || last == "" || dom == "" {
		return nil
	}

	initial := first[:1]
	patterns := []string{
		fmt.Sprintf("%s.%s@%s", first, last, dom),
		fmt.Sprintf("%s%s@%s", initial, last, dom),
		fmt.Sprintf("%s@%s", first, dom),
		fmt.Sprintf("%s_%s@%s", first, last, dom),
		fmt.Sprintf("%s.%s@%s", initial, last, dom),
	}

	seen := make(map[string]bool, len(patterns))
	var unique []string
	for _, p := range patterns {
		if !seen[p] {
			unique = append(unique, p)
			seen[p] = true
		}
	}
	return unique
}
