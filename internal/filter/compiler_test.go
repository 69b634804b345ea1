package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile_Empty(t *testing.T) {
	c := NewCompiler(false)

	assert.Nil(t, c.Compile(nil))
	assert.Nil(t, c.Compile([]Group{}))
}

func TestCompile_SingleCondition(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("title[equals]Hello")

	cond := c.Compile(groups)

	assert.Equal(t, `JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ?`, cond.Query)
	assert.Equal(t, []interface{}{`$."title"`, "Hello"}, cond.Args)
}

func TestCompile_AndGroup(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("title[equals]Hello[and]count[greater_than]5")

	cond := c.Compile(groups)

	assert.Equal(t,
		`JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ? AND JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) > ?`,
		cond.Query)
	assert.Equal(t, []interface{}{`$."title"`, "Hello", `$."count"`, "5"}, cond.Args)
}

func TestCompile_Disjunction(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("category[equals]news[or]category[equals]blog")

	cond := c.Compile(groups)

	assert.Equal(t,
		`JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ? OR JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ?`,
		cond.Query)
	assert.Equal(t, []interface{}{`$."category"`, "news", `$."category"`, "blog"}, cond.Args)
}

func TestCompile_MultiConditionGroupsParenthesized(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("a[equals]1[and]b[equals]2[or]c[equals]3")

	cond := c.Compile(groups)

	assert.Equal(t,
		`(JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ? AND JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ?) OR JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ?`,
		cond.Query)
	assert.Len(t, cond.Args, 6)
}

func TestCompile_IdentityField(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("id[equals]abc-123")

	cond := c.Compile(groups)

	assert.Equal(t, "id = ?", cond.Query)
	assert.Equal(t, []interface{}{"abc-123"}, cond.Args)
}

func TestCompile_IdentityUnsupportedOperatorDropped(t *testing.T) {
	c := NewCompiler(false)

	// less_than on id contributes no constraint
	groups, _ := Parse("id[less_than]zzz")
	assert.Nil(t, c.Compile(groups))

	// but the rest of the group survives
	groups, _ = Parse("id[less_than]zzz[and]title[equals]x")
	cond := c.Compile(groups)
	assert.Equal(t, `JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ?`, cond.Query)
	assert.Equal(t, []interface{}{`$."title"`, "x"}, cond.Args)
}

func TestCompile_SystemFields(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("publishedAt[greater_than]2024-01-01T00:00:00Z[and]createdAt[less_than]2025-01-01T00:00:00Z")

	cond := c.Compile(groups)

	assert.Equal(t, "published_at > ? AND created_at < ?", cond.Query)
	assert.Equal(t, []interface{}{"2024-01-01T00:00:00Z", "2025-01-01T00:00:00Z"}, cond.Args)
}

func TestCompile_SystemFieldExists(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("revisedAt[exists]")

	cond := c.Compile(groups)

	assert.Equal(t, "revised_at IS NOT NULL", cond.Query)
	assert.Empty(t, cond.Args)
}

func TestCompile_UserFieldContains(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("title[contains]Hello")

	cond := c.Compile(groups)

	assert.Equal(t, `LOWER(JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?))) LIKE ?`, cond.Query)
	assert.Equal(t, []interface{}{`$."title"`, "%hello%"}, cond.Args)
}

func TestCompile_UserFieldBeginsWith(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("slug[begins_with]intro")

	cond := c.Compile(groups)

	assert.Equal(t, `LOWER(JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?))) LIKE ?`, cond.Query)
	assert.Equal(t, []interface{}{`$."slug"`, "intro%"}, cond.Args)
}

func TestCompile_UserFieldExistsTestsKeyPresence(t *testing.T) {
	c := NewCompiler(false)

	groups, _ := Parse("thumbnail[exists]")
	cond := c.Compile(groups)
	assert.Equal(t, `COALESCE(JSON_CONTAINS_PATH(published_snapshot, 'one', ?), 0) = 1`, cond.Query)
	assert.Equal(t, []interface{}{`$."thumbnail"`}, cond.Args)

	groups, _ = Parse("thumbnail[not_exists]")
	cond = c.Compile(groups)
	assert.Equal(t, `COALESCE(JSON_CONTAINS_PATH(published_snapshot, 'one', ?), 0) = 0`, cond.Query)
}

func TestCompile_DraftSnapshotFallback(t *testing.T) {
	c := NewCompiler(true)
	groups, _ := Parse("title[equals]x")

	cond := c.Compile(groups)

	assert.Equal(t, `JSON_UNQUOTE(JSON_EXTRACT(COALESCE(draft_snapshot, published_snapshot), ?)) = ?`, cond.Query)
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	c := NewCompiler(false)
	hostile := `x' OR '1'='1`
	groups, err := Parse(fmt.Sprintf("title[equals]%s[and]body[contains]%s", hostile, hostile))
	assert.NoError(t, err)

	cond := c.Compile(groups)

	assert.NotContains(t, cond.Query, hostile)
	assert.NotContains(t, cond.Query, "'1'")
	// hostile values travel only as bound args
	assert.Contains(t, cond.Args, hostile)
}

func TestCompile_LikeWildcardsEscaped(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse("title[contains]100%_done")

	cond := c.Compile(groups)

	assert.Equal(t, []interface{}{`$."title"`, `%100\%\_done%`}, cond.Args)
}

func TestCompile_JSONPathQuoteEscaped(t *testing.T) {
	c := NewCompiler(false)
	groups, _ := Parse(`weird"field[equals]x`)

	cond := c.Compile(groups)

	assert.Equal(t, []interface{}{`$."weird\"field"`, "x"}, cond.Args)
}

func TestCompile_FullyDroppedGroupOmittedFromDisjunction(t *testing.T) {
	c := NewCompiler(false)

	// a branch reduced to nothing is left out of the OR entirely,
	// it does not widen the result to match-all
	groups, _ := Parse("id[contains]x[or]title[equals]hello")
	cond := c.Compile(groups)

	assert.Equal(t, `JSON_UNQUOTE(JSON_EXTRACT(published_snapshot, ?)) = ?`, cond.Query)
	assert.Equal(t, []interface{}{`$."title"`, "hello"}, cond.Args)

	// only when every branch is dropped does the filter vanish
	groups, _ = Parse("id[contains]x[or]id[begins_with]y")
	assert.Nil(t, c.Compile(groups))
}
