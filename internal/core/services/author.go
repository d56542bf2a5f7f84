package services

import (
	"regexp"
	"strings"
	"unicode"
)

// unknownAuthor is the fallback when no author can be inferred.
const unknownAuthor = "Unknown Author"

// authorPatterns match common attribution lines in document content.
var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)authors?[\s:]+([A-Za-z .,]+)`),
	regexp.MustCompile(`(?i)written by[\s:]+([A-Za-z .,]+)`),
	regexp.MustCompile(`(?i)submitted by[\s:]+([A-Za-z .,]+)`),
	regexp.MustCompile(`(?i)prepared by[\s:]+([A-Za-z .,]+)`),
	regexp.MustCompile(`(?i)\bby[\s:]+([A-Za-z .,]+)`),
}

// extractAuthor tries to infer the author from document content using
// simple attribution-line heuristics, falling back to a plausible name
// line at the top of the document.
func extractAuthor(content string) string {
	if content == "" {
		return unknownAuthor
	}

	for _, pattern := range authorPatterns {
		match := pattern.FindStringSubmatch(content)
		if match == nil {
			continue
		}
		author := strings.TrimSpace(match[1])
		if len(author) > 2 && len(author) < 100 {
			return author
		}
	}

	// A short alphabetic line near the top is likely a name, e.g. in a
	// letter or personal statement.
	lines := strings.Split(content, "\n")
	limit := 10
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if len(line) > 2 && len(line) < 50 && isNameLine(line) {
			return line
		}
	}

	return unknownAuthor
}

// isNameLine reports whether the line contains only letters, spaces and
// light punctuation.
func isNameLine(line string) bool {
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '.', ',', '\'', '"', '-':
			continue
		}
		return false
	}
	return true
}
