package sqlrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateSQL(t *testing.T) {
	cases := []struct {
		dialect string
		in      string
		out     string
	}{
		{DialectPostgreSQL,
			"SELECT TOP 1 auc FROM r.cca_auc WHERE execution_id = 3;",
			"SELECT auc FROM r.cca_auc WHERE execution_id = 3 LIMIT 1;"},
		{DialectPostgreSQL,
			"SELECT * FROM (SELECT TOP 1 a FROM t) x",
			"SELECT * FROM (SELECT a FROM t LIMIT 1) x"},
		{DialectPostgreSQL,
			"SELECT ISNULL(a, 0) FROM t",
			"SELECT COALESCE(a, 0) FROM t"},
		{DialectPostgreSQL,
			"SELECT DATEADD(day, 30, start_date) FROM t",
			"SELECT (start_date + 30*INTERVAL'1 day') FROM t"},
		{DialectPostgreSQL,
			"SELECT ROUND(ps, 2) AS ps FROM t",
			"SELECT ROUND(CAST(ps AS NUMERIC),2) AS ps FROM t"},
		{DialectPostgreSQL,
			"SELECT 'ISNULL(' FROM t",
			"SELECT 'ISNULL(' FROM t"},
		{DialectRedshift,
			"SELECT CAST(a AS VARCHAR(MAX)) FROM t",
			"SELECT CAST(a AS VARCHAR(65535)) FROM t"},
		{DialectMySQL,
			"SELECT DATEADD(day, 30, start_date) FROM t",
			"SELECT DATE_ADD(start_date, INTERVAL 30 DAY) FROM t"},
		{DialectOracle,
			"SELECT TOP 10 * FROM t",
			"SELECT * FROM t FETCH FIRST 10 ROWS ONLY"},
		{DialectSqlServer,
			"SELECT TOP 1 auc FROM r.cca_auc",
			"SELECT TOP 1 auc FROM r.cca_auc"},
	}
	for _, c := range cases {
		out, err := TranslateSQL(c.in, "sql server", c.dialect)
		require.Nil(t, err, c.in)
		assert.Equal(t, c.out, out, c.dialect)
	}
}

func TestTranslateSQLUnsupported(t *testing.T) {
	_, err := TranslateSQL("SELECT 1", "sql server", "sybase")
	assert.NotNil(t, err)
	_, err = TranslateSQL("SELECT 1", "postgresql", "sql server")
	assert.NotNil(t, err)

	out, err := TranslateSQL("SELECT GETDATE()", "mssql", "Postgres")
	assert.Nil(t, err)
	assert.Equal(t, "SELECT CURRENT_DATE", out)
}

func TestDialects(t *testing.T) {
	assert.Equal(t, []string{"mysql", "oracle", "pdw", "postgresql", "redshift", "sql server"}, Dialects())
}

func TestSplitSQL(t *testing.T) {
	assert.Equal(t, []string{"SELECT 1", "SELECT ';'"}, SplitSQL("SELECT 1; SELECT ';'; "))
	assert.Equal(t, []string{"SELECT 1 -- a;b"}, SplitSQL("SELECT 1 -- a;b"))
}
