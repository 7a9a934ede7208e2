// Package search builds prioritized search queries for locating organization
// leadership pages and defines the backend interface that resolves a query to
// candidate URLs.
package search

import (
	"fmt"
	"regexp"
	"strings"
)

// UnionAbbreviations are common union abbreviations used when normalizing
// "Local ###" organization names.
var UnionAbbreviations = []string{
	"IBEW", "IBT", "TEAMSTERS", "SEIU", "UAW", "AFSCME", "CWA", "LIUNA",
	"UFCW", "AFT", "UNITE HERE", "IATSE", "USW", "IUOE", "IAM", "SMART",
}

// GeneralKeywords are appended to quoted organization names for primary
// queries.
var GeneralKeywords = []string{
	"leadership executives",
	"leadership team",
	"executive team",
	"board of directors",
	"about us",
	"officers",
}

var localNumber = regexp.MustCompile(`(?i)local\s*#?\s*(\d+)`)

// QueryBuilder creates search queries targeting official organization sites.
type QueryBuilder struct {
	abbrevPattern *regexp.Regexp
}

// NewQueryBuilder creates a query builder with the default abbreviation set.
func NewQueryBuilder() *QueryBuilder {
	escaped := make([]string, len(UnionAbbreviations))
	for i, a := range UnionAbbreviations {
		escaped[i] = regexp.QuoteMeta(a)
	}
	return &QueryBuilder{
		abbrevPattern: regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`),
	}
}

// NormalizeUnionName rewrites union names into a consistent
// "ABBREV Local ###" form: "Local 123 IBEW" becomes "IBEW Local 123".
// Names without both an abbreviation and a local number pass through trimmed.
func (b *QueryBuilder) NormalizeUnionName(name string) string {
	if name == "" {
		return name
	}
	localMatch := localNumber.FindStringSubmatch(name)
	abbrevMatch := b.abbrevPattern.FindString(name)
	if localMatch != nil && abbrevMatch != "" {
		return fmt.Sprintf("%s Local %s", strings.ToUpper(abbrevMatch), localMatch[1])
	}
	return strings.TrimSpace(name)
}

// baseNames returns the distinct normalized names to build queries from.
func (b *QueryBuilder) baseNames(orgName, dbaName string) []string {
	names := []string{b.NormalizeUnionName(orgName)}
	dba := strings.TrimSpace(dbaName)
	if dba != "" && !strings.EqualFold(dba, strings.TrimSpace(orgName)) {
		names = append(names, b.NormalizeUnionName(dba))
	}

	seen := make(map[string]bool, len(names))
	var unique []string
	for _, n := range names {
		if !seen[n] {
			unique = append(unique, n)
			seen[n] = true
		}
	}
	return unique
}

// PrimaryQueries returns high-priority queries for locating leadership
// information, optionally covering a "doing business as" name.
func (b *QueryBuilder) PrimaryQueries(orgName, dbaName string) []string {
	var queries []string
	for _, name := range b.baseNames(orgName, dbaName) {
		for _, kw := range GeneralKeywords {
			queries = append(queries, fmt.Sprintf("%q %s", name, kw))
		}
	}
	return queries
}

// TitleQueries returns queries targeting specific executive titles still
// missing after a crawl.
func (b *QueryBuilder) TitleQueries(orgName string, missingTitles []string) []string {
	var queries []string
	for _, name := range b.baseNames(orgName, "") {
		for _, title := range missingTitles {
			clean := strings.Trim(strings.TrimSpace(title), `"`)
			queries = append(queries, fmt.Sprintf("%q %q", name, clean))
		}
	}
	return queries
}

// FallbackQueries returns generic queries used when primary searches fail.
func (b *QueryBuilder) FallbackQueries(orgName string) []string {
	name := b.NormalizeUnionName(orgName)
	return []string{
		fmt.Sprintf("%q contact", name),
		fmt.Sprintf("%q phone", name),
		fmt.Sprintf("%q address", name),
		fmt.Sprintf("%q staff directory", name),
	}
}
