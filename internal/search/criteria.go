package search

import "fmt"

// CriterionType discriminates what a criterion addresses: a user label,
// a relation to another note, a built-in note property, or a bare
// full-text token.
type CriterionType string

const (
	TypeLabel        CriterionType = "label"
	TypeRelation     CriterionType = "relation"
	TypeNoteProperty CriterionType = "noteProperty"
	TypeFulltext     CriterionType = "fulltext"
)

// Valid reports whether the type is one of the recognized variants.
func (t CriterionType) Valid() bool {
	switch t {
	case TypeLabel, TypeRelation, TypeNoteProperty, TypeFulltext:
		return true
	}
	return false
}

// Operator is the comparison applied by a criterion.
type Operator string

const (
	OpExists     Operator = "exists"
	OpNotExists  Operator = "not_exists"
	OpEquals     Operator = "="
	OpNotEquals  Operator = "!="
	OpGreaterEq  Operator = ">="
	OpLessEq     Operator = "<="
	OpGreater    Operator = ">"
	OpLess       Operator = "<"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "starts_with"
	OpEndsWith   Operator = "ends_with"
	OpRegex      Operator = "regex"
)

// Valid reports whether the operator is recognized.
func (o Operator) Valid() bool {
	_, ok := operatorTokens[o]
	return ok || o.Existence()
}

// Existence reports whether the operator tests presence rather than
// comparing a value.
func (o Operator) Existence() bool {
	return o == OpExists || o == OpNotExists
}

// Ordering reports whether the operator compares magnitudes.
func (o Operator) Ordering() bool {
	switch o {
	case OpGreater, OpLess, OpGreaterEq, OpLessEq:
		return true
	}
	return false
}

// Logic joins a criterion with the next one in the sequence. The zero
// value means AND. The last criterion's logic is ignored.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Valid reports whether the logic value is recognized; the empty string
// counts as valid because it defaults to AND.
func (l Logic) Valid() bool {
	return l == "" || l == LogicAnd || l == LogicOr
}

// Criterion is one clause of a structured search request.
type Criterion struct {
	// Property names the label, relation, or note property addressed.
	// For relations compared against a value it must be an access path
	// such as "author.title". Unused for fulltext criteria.
	Property string        `json:"property"`
	Type     CriterionType `json:"type"`
	Op       Operator      `json:"op"`
	// Value is required for every operator except exists/not_exists.
	// For fulltext criteria it carries the search token.
	Value string `json:"value,omitempty"`
	Logic Logic  `json:"logic,omitempty"`
}

// Request is the compiler input: an optional full-text token, an
// optional ordered criteria sequence, and an optional result limit.
type Request struct {
	Text     string      `json:"text,omitempty"`
	Criteria []Criterion `json:"searchCriteria,omitempty"`
	Limit    int         `json:"limit,omitempty"`
}

// CompileError reports a request the compiler cannot express in the
// upstream search DSL. It is a caller error; nothing was sent upstream.
type CompileError struct {
	Msg string
}

func (e *CompileError) Error() string {
	return e.Msg
}

func compileErrorf(format string, args ...any) *CompileError {
	return &CompileError{Msg: fmt.Sprintf(format, args...)}
}
