package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lumocms/lumo-backend/internal/common"
)

// Operator is a filter comparison operator
type Operator string

// Supported operators
const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpLessThan    Operator = "less_than"
	OpGreaterThan Operator = "greater_than"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpExists      Operator = "exists"
	OpNotExists   Operator = "not_exists"
	OpBeginsWith  Operator = "begins_with"
)

var supportedOperators = map[Operator]bool{
	OpEquals:      true,
	OpNotEquals:   true,
	OpLessThan:    true,
	OpGreaterThan: true,
	OpContains:    true,
	OpNotContains: true,
	OpExists:      true,
	OpNotExists:   true,
	OpBeginsWith:  true,
}

// Predicate is a single filter condition: field[operator]value
type Predicate struct {
	Field    string
	Operator Operator
	Value    string
}

// Group is a conjunction (AND) of predicates. The overall filter is a
// disjunction (OR) of groups.
type Group struct {
	Predicates []Predicate
}

// Tokens of the filter grammar
const (
	tokenOr  = "[or]"
	tokenAnd = "[and]"
)

// condPattern matches field[operator]value where field is everything
// before the first bracket and value is everything after the closing one.
// Field names and values are taken verbatim; there is no escaping.
var condPattern = regexp.MustCompile(`^([^\[]+)\[([^\[\]]*)\](.*)$`)

// Parse converts a filter string into OR-groups of AND-predicates.
// An empty input (after trimming) means "no filter" and yields nil.
func Parse(input string) ([]Group, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	var groups []Group
	for _, rawGroup := range strings.Split(input, tokenOr) {
		var group Group
		for _, rawCond := range strings.Split(rawGroup, tokenAnd) {
			pred, err := parseCondition(rawCond)
			if err != nil {
				return nil, err
			}
			group.Predicates = append(group.Predicates, pred)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func parseCondition(raw string) (Predicate, error) {
	m := condPattern.FindStringSubmatch(raw)
	if m == nil {
		return Predicate{}, fmt.Errorf("%w: %q", common.ErrInvalidFilterSyntax, raw)
	}

	field, op, value := m[1], Operator(m[2]), m[3]
	if !supportedOperators[op] {
		return Predicate{}, fmt.Errorf("%w: %q", common.ErrUnsupportedOperator, string(op))
	}
	if (op == OpExists || op == OpNotExists) && value != "" {
		return Predicate{}, fmt.Errorf("%w: %q takes no value", common.ErrInvalidFilterSyntax, string(op))
	}

	return Predicate{Field: field, Operator: op, Value: value}, nil
}
