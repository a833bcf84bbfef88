package search

import (
	"regexp"
	"strings"
	"time"
)

// valueClass drives quoting and value validation for a note property.
type valueClass int

const (
	classString valueClass = iota
	classNumeric
	classBoolean
	classDate
)

// scalarProperties enumerates the recognized system properties of a
// note together with the class of their values. Anything outside this
// table (and the navigation paths below) fails compilation.
var scalarProperties = map[string]valueClass{
	"title":           classString,
	"content":         classString,
	"type":            classString,
	"mime":            classString,
	"isArchived":      classBoolean,
	"isProtected":     classBoolean,
	"dateCreated":     classDate,
	"dateModified":    classDate,
	"labelCount":      classNumeric,
	"ownedLabelCount": classNumeric,
	"attributeCount":  classNumeric,
	"relationCount":   classNumeric,
	"parentCount":     classNumeric,
	"childrenCount":   classNumeric,
	"contentSize":     classNumeric,
	"revisionCount":   classNumeric,
}

// navigationLeaves are the fields reachable through a navigation root.
var navigationLeaves = map[string]valueClass{
	"title":  classString,
	"noteId": classString,
}

func isNavigationRoot(segment string) bool {
	switch segment {
	case "parents", "children", "ancestors":
		return true
	}
	return false
}

// resolveNoteProperty validates a note-property access path and returns
// the value class of its target. Accepted shapes:
//
//	<scalar>                      e.g. note.dateModified
//	<nav>.<leaf>                  e.g. note.parents.title
//	parents.parents.<leaf>        one extra hop up
//	children.children.<leaf>      one extra hop down
//
// "ancestors" is already transitive, so it does not repeat.
func resolveNoteProperty(path string) (valueClass, error) {
	segments := strings.Split(path, ".")
	switch len(segments) {
	case 1:
		if class, ok := scalarProperties[path]; ok {
			return class, nil
		}
		if isNavigationRoot(path) {
			return 0, compileErrorf("note property %q requires a sub-path such as %s.title", path, path)
		}
	case 2:
		if isNavigationRoot(segments[0]) {
			if class, ok := navigationLeaves[segments[1]]; ok {
				return class, nil
			}
			return 0, compileErrorf("note property %q: %q is not reachable through %s (use title or noteId)", path, segments[1], segments[0])
		}
	case 3:
		if (segments[0] == "parents" || segments[0] == "children") && segments[0] == segments[1] {
			if class, ok := navigationLeaves[segments[2]]; ok {
				return class, nil
			}
			return 0, compileErrorf("note property %q: %q is not reachable through %s.%s (use title or noteId)", path, segments[2], segments[0], segments[1])
		}
	}
	return 0, compileErrorf("unrecognized note property %q", path)
}

// numericLiteral matches plain decimal numbers. Exponent forms are not
// part of the upstream DSL.
var numericLiteral = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

func isNumericLiteral(v string) bool {
	return numericLiteral.MatchString(v)
}

func isBooleanLiteral(v string) bool {
	return v == "true" || v == "false"
}

// isISODate accepts strict ISO-8601 only: a plain date or a full
// timestamp with timezone. Relative "smart date" expressions such as
// TODAY-7 are rejected at this boundary.
func isISODate(v string) bool {
	if _, err := time.Parse("2006-01-02", v); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, v); err == nil {
		return true
	}
	return false
}
