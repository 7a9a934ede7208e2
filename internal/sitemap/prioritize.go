package sitemap

import "strings"

// FilterKeywords select URLs worth fetching at all: pages whose path or text
// suggests organizational or leadership content.
var FilterKeywords = []string{"about", "leadership", "board", "team", "governance", "staff"}

// PriorityKeywords mark the highest-value pages, fetched before the rest.
var PriorityKeywords = []string{"leadership", "about/board", "team", "governance"}

// Prioritize filters URLs by keyword relevance and orders them so priority
// matches come first. Both partitions preserve the relative order of the
// input (stable partition, not a full sort).
func Prioritize(urls []string) []string {
	var filtered []string
	for _, u := range urls {
		if containsAny(strings.ToLower(u), FilterKeywords) {
			filtered = append(filtered, u)
		}
	}

	var priority, others []string
	for _, u := range filtered {
		if containsAny(strings.ToLower(u), PriorityKeywords) {
			priority = append(priority, u)
		} else {
			others = append(others, u)
		}
	}
	return append(priority, others...)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
