// Package util holds small path-matching helpers shared by the discovery
// layer and its tests.
package util

import (
	"path/filepath"
	"strings"
)

// MatchesIgnore checks if a slash-separated relative path matches a
// gitignore-style glob pattern. This is a simplified matcher built on
// filepath.Match: a pattern without a slash matches any single path segment
// at any depth, a pattern with slashes matches against the whole relative
// path and against every sub-path suffix.
func MatchesIgnore(pattern, relPath string) bool {
	pattern = filepath.ToSlash(pattern)
	relPath = filepath.ToSlash(relPath)
	if pattern == "" || relPath == "" || relPath == "." {
		return false
	}

	if match, _ := filepath.Match(pattern, relPath); match {
		return true
	}

	parts := strings.Split(relPath, "/")
	if !strings.Contains(pattern, "/") {
		// Segment patterns like "*.min.js" or "node_modules" match anywhere.
		for _, part := range parts {
			if match, _ := filepath.Match(pattern, part); match {
				return true
			}
		}
		return false
	}

	// Slash patterns still match deeper sub-paths.
	for i := 1; i < len(parts); i++ {
		if match, _ := filepath.Match(pattern, strings.Join(parts[i:], "/")); match {
			return true
		}
	}
	return false
}

// NormalizeExtension lowercases an extension and guarantees a leading dot,
// so config values "Go" and ".go" select the same files.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
