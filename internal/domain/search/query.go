// Package search holds the pure text rules shared by the catalog search and the alert engine.
package search

import (
	"fmt"
	"slices"
	"strings"
)

// NormalizeQuery collapses whitespace runs into single spaces and trims the result.
func NormalizeQuery(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ParseStoreIDList accepts a comma-delimited string or a list of ids and
// returns the trimmed, non-empty ids de-duplicated in first-seen order.
func ParseStoreIDList(input any) []string {
	var raw []string
	switch v := input.(type) {
	case nil:
		return []string{}
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		raw = make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = strings.Split(fmt.Sprint(v), ",")
	}

	return uniqueTrimmed(raw)
}

// BuildQueryVariants returns the search phrases to try, most specific first:
// the normalized phrase, the phrase rebuilt from tokens of two or more
// characters when that differs, then each such token on its own.
func BuildQueryVariants(text string) []string {
	normalized := NormalizeQuery(text)
	if normalized == "" {
		return []string{}
	}

	tokens := make([]string, 0)
	for _, token := range strings.Split(normalized, " ") {
		if len([]rune(token)) < 2 || slices.Contains(tokens, token) {
			continue
		}
		tokens = append(tokens, token)
	}

	variants := []string{normalized}
	if joined := strings.Join(tokens, " "); len(tokens) > 1 && joined != normalized {
		variants = append(variants, joined)
	}
	for _, token := range tokens {
		if !slices.Contains(variants, token) {
			variants = append(variants, token)
		}
	}

	return variants
}

func uniqueTrimmed(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}
