package content

import (
	"regexp"
	"strings"
)

// Tag shapes. RE2 has no backreferences, so "balanced" means the same
// tag name shows up in both an opening and a closing position, checked
// by set intersection rather than nesting.
var (
	openingTag     = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9-]*)(\s[^<>]*)?>`)
	closingTag     = regexp.MustCompile(`</([a-zA-Z][a-zA-Z0-9-]*)\s*>`)
	selfClosingTag = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9-]*)(\s[^<>]*)?/>`)

	// Named entities are a fixed whitelist: a generic &word; pattern
	// would light up on ordinary code and URLs.
	htmlEntity = regexp.MustCompile(`&(?:nbsp|amp|lt|gt|quot|apos|copy|reg|trade|hellip|mdash|ndash|lsquo|rsquo|ldquo|rdquo|bull|middot|deg|times|divide|laquo|raquo|#[0-9]{1,6}|#x[0-9a-fA-F]{1,6});`)
)

// HasHTML reports whether s contains an HTML fragment: a balanced
// open/close tag pair, a self-closing tag, or an entity reference.
// Lone angle-bracket shapes such as generics (List<String>) or
// comparisons (a < b) do not qualify.
func HasHTML(s string) bool {
	if selfClosingTag.MatchString(s) || htmlEntity.MatchString(s) {
		return true
	}
	return hasBalancedTag(s)
}

func hasBalancedTag(s string) bool {
	closes := closingTag.FindAllStringSubmatch(s, -1)
	if len(closes) == 0 {
		return false
	}
	closed := make(map[string]struct{}, len(closes))
	for _, m := range closes {
		closed[strings.ToLower(m[1])] = struct{}{}
	}
	for _, m := range openingTag.FindAllStringSubmatch(s, -1) {
		if _, ok := closed[strings.ToLower(m[1])]; ok {
			return true
		}
	}
	return false
}

// Markdown cues, each anchored tightly enough that prose and source
// code rarely trip them. Detection prefers false negatives: content
// that slips past is stored as-is, while a false positive would mangle
// it through conversion.
var markdownPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}[ \t]+\S`),                          // ATX header
	regexp.MustCompile("(?m)^[ \t]{0,3}```"),                           // fenced code block
	regexp.MustCompile("`[^`\n]+`"),                                    // inline code span
	regexp.MustCompile(`\*\*[^*\n]+\*\*`),                              // strong emphasis
	regexp.MustCompile(`__[^_\n]+__`),                                  // strong emphasis (underscore)
	regexp.MustCompile(`(?m)(?:^|\s)\*\S(?:[^*\n]*\S)?\*(?:\s|$)`),     // emphasis
	regexp.MustCompile(`(?m)(?:^|\s)_\S(?:[^_\n]*\S)?_(?:\s|$)`),       // emphasis (underscore)
	regexp.MustCompile(`\[[^\]\n]+\]\([^)\n]*\)`),                      // bracketed link
	regexp.MustCompile(`(?m)^[ \t]{0,3}[-*+][ \t]+\S`),                 // list bullet
	regexp.MustCompile(`(?m)^[ \t]{0,3}> `),                            // blockquote
	regexp.MustCompile(`(?m)^[ \t]{0,3}(?:-{3,}|\*{3,}|_{3,})[ \t]*$`), // horizontal rule
}

// IsMarkdown reports whether s carries at least one Markdown cue.
func IsMarkdown(s string) bool {
	for _, p := range markdownPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
