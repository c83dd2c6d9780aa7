package catalog

import (
	"sort"
	"strings"
)

// SplitTags splits a comma-separated tag string, trimming each tag and
// dropping empties.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// UniqueTags returns the distinct tags used across products, sorted.
func UniqueTags(products []Product) []string {
	seen := make(map[string]struct{})
	for i := range products {
		for _, t := range products[i].Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
