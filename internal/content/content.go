package content

import (
	"fmt"
	"strings"
)

// Kind is a note type as the upstream store understands it. Only the
// kinds below may be created or updated through this server; search
// results may additionally carry file, image, and canvas notes, which
// are read-only here.
type Kind string

const (
	KindText        Kind = "text"
	KindCode        Kind = "code"
	KindRender      Kind = "render"
	KindSearch      Kind = "search"
	KindRelationMap Kind = "relationMap"
	KindBook        Kind = "book"
	KindNoteMap     Kind = "noteMap"
	KindMermaid     Kind = "mermaid"
	KindWebView     Kind = "webView"
)

// WritableKinds lists every kind accepted by create and update, in the
// order they are advertised in tool schemas.
func WritableKinds() []string {
	return []string{
		string(KindText),
		string(KindCode),
		string(KindRender),
		string(KindSearch),
		string(KindRelationMap),
		string(KindBook),
		string(KindNoteMap),
		string(KindMermaid),
		string(KindWebView),
	}
}

// Valid reports whether k is a writable kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindCode, KindRender, KindSearch, KindRelationMap,
		KindBook, KindNoteMap, KindMermaid, KindWebView:
		return true
	}
	return false
}

// ShapeError reports content whose shape is inadmissible for its kind.
type ShapeError struct {
	Kind     Kind
	Expected string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("content for %s notes must be %s", e.Kind, e.Expected)
}

// Prepare validates and shapes raw content for the given kind, returning
// the body to send upstream.
//
// text notes store HTML: Markdown-looking input is converted, input
// without any HTML tag is wrapped in a paragraph, and HTML passes
// through. code and mermaid notes store plain text and reject HTML.
// render and webView notes hold HTML but may be empty. The container
// kinds (book, search, relationMap, noteMap) accept anything, which in
// practice is an empty body.
func Prepare(kind Kind, raw string) (string, error) {
	switch kind {
	case KindText:
		return prepareText(raw), nil
	case KindCode, KindMermaid:
		if HasHTML(raw) {
			return "", &ShapeError{Kind: kind, Expected: "plain text without HTML tags"}
		}
		return raw, nil
	case KindRender, KindWebView:
		if strings.TrimSpace(raw) == "" {
			return raw, nil
		}
		if !HasHTML(raw) {
			return "", &ShapeError{Kind: kind, Expected: "HTML, or empty"}
		}
		return raw, nil
	case KindBook, KindSearch, KindRelationMap, KindNoteMap:
		return raw, nil
	default:
		return "", fmt.Errorf("unknown note kind %q", kind)
	}
}

func prepareText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if IsMarkdown(raw) {
		html, err := ToHTML(raw)
		if err != nil {
			// Conversion is best-effort; fall back to a paragraph.
			return "<p>" + strings.TrimSpace(raw) + "</p>"
		}
		return html
	}
	if HasHTML(raw) {
		return raw
	}
	return "<p>" + strings.TrimSpace(raw) + "</p>"
}

// Join concatenates an existing body with an addition prepared for the
// same kind, inserting a single newline unless the existing body is
// empty or already ends with one.
func Join(existing, addition string) string {
	if existing == "" {
		return addition
	}
	if addition == "" {
		return existing
	}
	if strings.HasSuffix(existing, "\n") {
		return existing + addition
	}
	return existing + "\n" + addition
}
