package sqlrender

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	sql, err := Render("SELECT * FROM @resultsTableQualifier.cca_attrition WHERE execution_id = @executionId",
		[]string{"resultsTableQualifier", "executionId"}, []string{"results", "12"})
	require.Nil(t, err)
	assert.Equal(t, "SELECT * FROM results.cca_attrition WHERE execution_id = 12", sql)

	sql, err = Render("@executionIdList @executionId @unknown",
		[]string{"executionId", "executionIdList"}, []string{"1", "1,2"})
	require.Nil(t, err)
	assert.Equal(t, "1,2 1 @unknown", sql)

	_, err = Render("SELECT 1", []string{"a"}, nil)
	assert.NotNil(t, err)
}

func TestRenderDefault(t *testing.T) {
	tmpl := heredoc.Doc(`
		{DEFAULT @limit = 5}SELECT @limit`)
	sql, err := Render(tmpl, nil, nil)
	require.Nil(t, err)
	assert.Equal(t, "SELECT 5", strings.TrimSpace(sql))

	sql, err = RenderMap(tmpl, map[string]string{"limit": "10"})
	require.Nil(t, err)
	assert.Equal(t, "SELECT 10", strings.TrimSpace(sql))
}

func TestRenderConditional(t *testing.T) {
	sql, err := RenderMap("SELECT 1 {@x == 1} ? {, 2} : {, 3}", map[string]string{"x": "1"})
	require.Nil(t, err)
	assert.Equal(t, "SELECT 1 , 2", sql)

	sql, err = RenderMap("SELECT 1 {@x == 1} ? {, 2} : {, 3}", map[string]string{"x": "0"})
	require.Nil(t, err)
	assert.Equal(t, "SELECT 1 , 3", sql)

	sql, err = RenderMap("SELECT a FROM t{@flag}?{ WHERE a = 1}", map[string]string{"flag": "false"})
	require.Nil(t, err)
	assert.Equal(t, "SELECT a FROM t", sql)

	sql, err = RenderMap("{@a == 1}?{{@b == 2}?{x}:{y}}:{z}", map[string]string{"a": "1", "b": "3"})
	require.Nil(t, err)
	assert.Equal(t, "y", sql)

	_, err = RenderMap("{@a == 1}?{x", map[string]string{"a": "1"})
	assert.NotNil(t, err)
}

func TestEvaluateCondition(t *testing.T) {
	cases := map[string]bool{
		"true":                           true,
		"1":                              true,
		"0":                              false,
		"'a' == 'a'":                     true,
		"'a' != 'a'":                     false,
		"1.0 == 1":                       true,
		"'pg' IN ('oracle','pg')":        true,
		"'mysql' in ('oracle', 'pg')":    false,
		"!(1 == 2) & true":               true,
		"0 | false":                      false,
		"false | (1 == 1 && 'x' != 'y')": true,
	}
	for expr, expect := range cases {
		got, err := EvaluateCondition(expr)
		assert.Nil(t, err, expr)
		assert.Equal(t, expect, got, expr)
	}

	_, err := EvaluateCondition("")
	assert.NotNil(t, err)
	_, err = EvaluateCondition("(1 == 1")
	assert.NotNil(t, err)
}
