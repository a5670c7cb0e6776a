package config

import (
	"path"
	"strings"
)

// Normalize trims namespace filters and removes empty values.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.Namespaces = normalizePatterns(c.Namespaces)
	c.ExcludeNamespaces = normalizePatterns(c.ExcludeNamespaces)
}

// IsNamespaceExcluded reports whether a namespace matches the exclude
// patterns, or falls outside an explicit --namespace selection.
func (c *Config) IsNamespaceExcluded(namespace string) bool {
	if c == nil {
		return false
	}

	value := normalizePattern(namespace)
	if value == "" {
		return true
	}

	if len(c.Namespaces) > 0 && !containsPattern(c.Namespaces, value) {
		return true
	}

	for _, pattern := range c.ExcludeNamespaces {
		if patternMatches(pattern, value) {
			return true
		}
	}

	return false
}

func containsPattern(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if patternMatches(pattern, value) {
			return true
		}
	}
	return false
}

func normalizePatterns(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, pattern := range values {
		p := normalizePattern(pattern)
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}

func normalizePattern(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func patternMatches(pattern, value string) bool {
	normalizedPattern := normalizePattern(pattern)
	normalizedValue := normalizePattern(value)
	if normalizedPattern == "" || normalizedValue == "" {
		return false
	}

	// Invalid glob patterns are treated as exact matches.
	matched, err := path.Match(normalizedPattern, normalizedValue)
	if err == nil {
		return matched
	}
	return normalizedPattern == normalizedValue
}
