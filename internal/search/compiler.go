package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// operatorTokens maps each comparison operator to the token the
// upstream search DSL expects.
//
// Token notes:
//   - contains is the infix *=*
//   - starts_with is =* and ends_with is *=
//   - regex is %=
//   - the six relational operators are their own glyphs
//
// exists and not_exists have no token here; they render as sigil
// prefixes instead (#name, #!name, ~name, ~!name).
var operatorTokens = map[Operator]string{
	OpEquals:     "=",
	OpNotEquals:  "!=",
	OpGreaterEq:  ">=",
	OpLessEq:     "<=",
	OpGreater:    ">",
	OpLess:       "<",
	OpContains:   "*=*",
	OpStartsWith: "=*",
	OpEndsWith:   "*=",
	OpRegex:      "%=",
}

// Compiled is the result of a successful compilation.
type Compiled struct {
	// Query is a well-formed expression in the upstream search DSL.
	Query string
	// FastEligible is true when the upstream's indexed fast path can
	// serve the request.
	FastEligible bool
}

// Compile translates a structured search request into a query string in
// the upstream search DSL and decides fast-search eligibility.
//
// Assembly order:
//  1. The full-text token, emitted verbatim, when present.
//  2. The criteria sequence. Each criterion's logic value binds it to
//     the NEXT criterion; contiguous OR-joined runs are parenthesized
//     and joined by " OR ", and adjacent groups are joined by plain
//     whitespace (the upstream parser treats juxtaposition as AND).
//     The last criterion's logic is ignored.
//  3. A trailing "limit N" when a limit is set.
//
// The upstream parser rejects an expression that begins with an opening
// parenthesis; whenever the assembled query does, Compile prefixes the
// expression-separator sentinel "~". This is an upstream grammar rule,
// not an optimization, and is applied unconditionally.
//
// Fast-search eligibility holds only for text-only requests: the
// indexed fast path honors neither structured clauses nor limit.
//
// Compile is pure and deterministic; nothing is sent upstream here.
// Failures are *CompileError values naming the offending criterion by
// its index in searchCriteria.
func Compile(req Request) (Compiled, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && len(req.Criteria) == 0 {
		return Compiled{}, compileErrorf("empty query: provide text or searchCriteria")
	}
	if req.Limit < 0 {
		return Compiled{}, compileErrorf("limit must be positive, got %d", req.Limit)
	}

	terms := make([]string, len(req.Criteria))
	for i, c := range req.Criteria {
		term, err := renderTerm(c)
		if err != nil {
			var ce *CompileError
			if errors.As(err, &ce) {
				return Compiled{}, compileErrorf("searchCriteria[%d]: %s", i, ce.Msg)
			}
			return Compiled{}, err
		}
		terms[i] = term
	}

	parts := make([]string, 0, len(terms)+2)
	if text != "" {
		parts = append(parts, text)
	}
	parts = append(parts, groupTerms(terms, req.Criteria)...)
	if req.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit %d", req.Limit))
	}

	query := strings.Join(parts, " ")
	if strings.HasPrefix(query, "(") {
		query = "~" + query
	}

	fast := text != "" && len(req.Criteria) == 0 && req.Limit == 0
	return Compiled{Query: query, FastEligible: fast}, nil
}

// groupTerms folds the rendered terms into AND-joined parts, wrapping
// each contiguous OR-joined run in parentheses. criteria[i].Logic joins
// term i with term i+1, so the scan never reads the final logic value.
func groupTerms(terms []string, criteria []Criterion) []string {
	groups := make([]string, 0, len(terms))
	for start := 0; start < len(terms); {
		end := start
		for end < len(terms)-1 && criteria[end].Logic == LogicOr {
			end++
		}
		if end == start {
			groups = append(groups, terms[start])
		} else {
			groups = append(groups, "("+strings.Join(terms[start:end+1], " OR ")+")")
		}
		start = end + 1
	}
	return groups
}

// renderTerm emits the DSL fragment for one criterion.
func renderTerm(c Criterion) (string, error) {
	if !c.Type.Valid() {
		return "", compileErrorf("unknown criterion type %q", c.Type)
	}
	if !c.Op.Valid() {
		return "", compileErrorf("unknown operator %q", c.Op)
	}
	if !c.Logic.Valid() {
		return "", compileErrorf("logic must be AND or OR, got %q", c.Logic)
	}
	if !c.Op.Existence() && c.Value == "" {
		return "", compileErrorf("operator %q requires a value", c.Op)
	}

	switch c.Type {
	case TypeFulltext:
		return renderFulltextTerm(c)
	case TypeLabel:
		return renderAttributeTerm(c, "#")
	case TypeRelation:
		return renderAttributeTerm(c, "~")
	default:
		return renderNotePropertyTerm(c)
	}
}

// fulltextBare matches tokens that can be emitted without quoting.
var fulltextBare = regexp.MustCompile(`^[\p{L}\p{N}_./-]+$`)

func renderFulltextTerm(c Criterion) (string, error) {
	if c.Op.Existence() {
		return "", compileErrorf("operator %q does not apply to fulltext criteria", c.Op)
	}
	if fulltextBare.MatchString(c.Value) {
		return c.Value, nil
	}
	return quoteValue(c.Value)
}

// renderAttributeTerm emits label (#) and relation (~) conditions.
//
// Existence checks take the bare attribute name. Comparisons against
// relations must go through a property access path (~author.title);
// the upstream DSL has no meaning for a bare relation compared to a
// value, so that shape is rejected.
func renderAttributeTerm(c Criterion, sigil string) (string, error) {
	name := strings.TrimSpace(c.Property)
	if name == "" {
		return "", compileErrorf("property is required for %s criteria", c.Type)
	}

	if c.Op.Existence() {
		if strings.Contains(name, ".") {
			return "", compileErrorf("existence checks take a bare %s name, got %q", c.Type, name)
		}
		if c.Op == OpNotExists {
			return sigil + "!" + name, nil
		}
		return sigil + name, nil
	}

	if sigil == "~" && !strings.Contains(name, ".") {
		return "", compileErrorf("relation %q must be compared through an access path such as %s.title", name, name)
	}

	value, err := renderAttributeValue(c.Op, c.Value)
	if err != nil {
		return "", err
	}
	return sigil + name + " " + operatorTokens[c.Op] + " " + value, nil
}

// renderNotePropertyTerm emits note.<path> conditions. The path must
// resolve against the recognized property table, and the value must fit
// the property's class: numerics and booleans go unquoted, dates must
// be strict ISO-8601 and go quoted, everything else goes quoted.
func renderNotePropertyTerm(c Criterion) (string, error) {
	path := strings.TrimSpace(c.Property)
	if path == "" {
		return "", compileErrorf("property is required for noteProperty criteria")
	}
	if c.Op.Existence() {
		return "", compileErrorf("operator %q does not apply to note properties; compare against a value instead", c.Op)
	}

	class, err := resolveNoteProperty(path)
	if err != nil {
		return "", err
	}

	var value string
	switch class {
	case classDate:
		if !isISODate(c.Value) {
			return "", compileErrorf("%s requires an ISO-8601 date (YYYY-MM-DD or a full timestamp with timezone), got %q", path, c.Value)
		}
		value, err = quoteValue(c.Value)
		if err != nil {
			return "", err
		}
	case classBoolean:
		if !isBooleanLiteral(c.Value) {
			return "", compileErrorf("%s requires true or false, got %q", path, c.Value)
		}
		value = c.Value
	case classNumeric:
		if !isNumericLiteral(c.Value) {
			return "", compileErrorf("%s requires a numeric value, got %q", path, c.Value)
		}
		value = c.Value
	default:
		value, err = quoteValue(c.Value)
		if err != nil {
			return "", err
		}
	}

	return "note." + path + " " + operatorTokens[c.Op] + " " + value, nil
}

// renderAttributeValue renders a comparison value for labels and
// relations. Attribute values are stored as strings upstream, so the
// value is quoted except when a numeric literal meets an ordering
// operator, where quoting would defeat numeric comparison.
func renderAttributeValue(op Operator, v string) (string, error) {
	if op.Ordering() && isNumericLiteral(v) {
		return v, nil
	}
	return quoteValue(v)
}

// quoteValue wraps v in single quotes, falling back to double quotes
// when v itself contains a single quote. The DSL has no escape syntax,
// so a value carrying both quote kinds cannot be expressed.
func quoteValue(v string) (string, error) {
	if !strings.Contains(v, "'") {
		return "'" + v + "'", nil
	}
	if !strings.Contains(v, `"`) {
		return `"` + v + `"`, nil
	}
	return "", compileErrorf("value %q mixes single and double quotes, which the search DSL cannot express", v)
}
