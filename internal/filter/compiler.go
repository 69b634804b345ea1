package filter

import (
	"strings"
)

// Condition is a parameter-bound SQL fragment for the storage layer.
// Comparison values are always carried in Args, never interpolated
// into Query.
type Condition struct {
	Query string
	Args  []interface{}
}

// Identity field name
const identityField = "id"

// System timestamp fields and their columns
var systemColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
	"revisedAt":   "revised_at",
}

// Compiler turns predicate groups into conditions over the content
// record table. The snapshot expression selects which JSON payload
// user-defined fields are matched against.
type Compiler struct {
	snapshotExpr string
}

// NewCompiler creates a compiler. With useDraft the draft snapshot is
// preferred for user-field access, falling back to the published one.
func NewCompiler(useDraft bool) *Compiler {
	if useDraft {
		return &Compiler{snapshotExpr: "COALESCE(draft_snapshot, published_snapshot)"}
	}
	return &Compiler{snapshotExpr: "published_snapshot"}
}

// Compile builds an OR of per-group ANDs. Returns nil for empty input
// ("match all"). Groups emptied by dropped conditions contribute nothing.
func (c *Compiler) Compile(groups []Group) *Condition {
	type compiledGroup struct {
		expr  string
		args  []interface{}
		multi bool
	}

	var compiled []compiledGroup
	for _, g := range groups {
		var exprs []string
		var args []interface{}
		for _, p := range g.Predicates {
			expr, predArgs, ok := c.compilePredicate(p)
			if !ok {
				continue
			}
			exprs = append(exprs, expr)
			args = append(args, predArgs...)
		}
		if len(exprs) == 0 {
			continue
		}
		compiled = append(compiled, compiledGroup{
			expr:  strings.Join(exprs, " AND "),
			args:  args,
			multi: len(exprs) > 1,
		})
	}

	if len(compiled) == 0 {
		return nil
	}
	if len(compiled) == 1 {
		return &Condition{Query: compiled[0].expr, Args: compiled[0].args}
	}

	var parts []string
	var args []interface{}
	for _, g := range compiled {
		if g.multi {
			parts = append(parts, "("+g.expr+")")
		} else {
			parts = append(parts, g.expr)
		}
		args = append(args, g.args...)
	}
	return &Condition{Query: strings.Join(parts, " OR "), Args: args}
}

// compilePredicate resolves a single condition. Resolution order:
// identity field, system timestamp fields, user-defined JSON fields.
// The third return is false when the condition is dropped.
func (c *Compiler) compilePredicate(p Predicate) (string, []interface{}, bool) {
	if p.Field == identityField {
		return compileIdentity(p)
	}
	if col, ok := systemColumns[p.Field]; ok {
		return compileSystem(col, p)
	}
	return c.compileUserField(p)
}

// compileIdentity matches against the primary key column. Only
// equality and existence operators apply; anything else is dropped.
func compileIdentity(p Predicate) (string, []interface{}, bool) {
	switch p.Operator {
	case OpEquals:
		return "id = ?", []interface{}{p.Value}, true
	case OpNotEquals:
		return "id <> ?", []interface{}{p.Value}, true
	case OpExists:
		return "id IS NOT NULL", nil, true
	case OpNotExists:
		return "id IS NULL", nil, true
	default:
		return "", nil, false
	}
}

// compileSystem matches against a timestamp column. Values are handed
// to the storage layer's native comparison as raw strings; a malformed
// date is a storage-layer concern, not validated here.
func compileSystem(col string, p Predicate) (string, []interface{}, bool) {
	switch p.Operator {
	case OpEquals:
		return col + " = ?", []interface{}{p.Value}, true
	case OpNotEquals:
		return col + " <> ?", []interface{}{p.Value}, true
	case OpLessThan:
		return col + " < ?", []interface{}{p.Value}, true
	case OpGreaterThan:
		return col + " > ?", []interface{}{p.Value}, true
	case OpContains:
		return "LOWER(CAST(" + col + " AS CHAR)) LIKE ?", []interface{}{containsPattern(p.Value)}, true
	case OpNotContains:
		return "LOWER(CAST(" + col + " AS CHAR)) NOT LIKE ?", []interface{}{containsPattern(p.Value)}, true
	case OpBeginsWith:
		return "LOWER(CAST(" + col + " AS CHAR)) LIKE ?", []interface{}{prefixPattern(p.Value)}, true
	case OpExists:
		return col + " IS NOT NULL", nil, true
	case OpNotExists:
		return col + " IS NULL", nil, true
	default:
		return "", nil, false
	}
}

// compileUserField matches against the JSON payload by field key.
// Comparisons operate on the text form of the JSON value, so ordering
// on numbers is lexical. Existence tests key presence, not null-ness.
func (c *Compiler) compileUserField(p Predicate) (string, []interface{}, bool) {
	path := jsonPath(p.Field)
	valueExpr := "JSON_UNQUOTE(JSON_EXTRACT(" + c.snapshotExpr + ", ?))"

	switch p.Operator {
	case OpEquals:
		return valueExpr + " = ?", []interface{}{path, p.Value}, true
	case OpNotEquals:
		return valueExpr + " <> ?", []interface{}{path, p.Value}, true
	case OpLessThan:
		return valueExpr + " < ?", []interface{}{path, p.Value}, true
	case OpGreaterThan:
		return valueExpr + " > ?", []interface{}{path, p.Value}, true
	case OpContains:
		return "LOWER(" + valueExpr + ") LIKE ?", []interface{}{path, containsPattern(p.Value)}, true
	case OpNotContains:
		return "LOWER(" + valueExpr + ") NOT LIKE ?", []interface{}{path, containsPattern(p.Value)}, true
	case OpBeginsWith:
		return "LOWER(" + valueExpr + ") LIKE ?", []interface{}{path, prefixPattern(p.Value)}, true
	case OpExists:
		return "COALESCE(JSON_CONTAINS_PATH(" + c.snapshotExpr + ", 'one', ?), 0) = 1", []interface{}{path}, true
	case OpNotExists:
		return "COALESCE(JSON_CONTAINS_PATH(" + c.snapshotExpr + ", 'one', ?), 0) = 0", []interface{}{path}, true
	default:
		return "", nil, false
	}
}

var jsonPathEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// jsonPath builds the bound JSON path argument for a field key
func jsonPath(field string) string {
	return `$."` + jsonPathEscaper.Replace(field) + `"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}

func prefixPattern(value string) string {
	return likeEscaper.Replace(strings.ToLower(value)) + "%"
}
