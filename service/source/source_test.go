package source

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/housepower/cohortcmp/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mockOpen(t *testing.T, mock *sqlmock.Sqlmock, opened *int) OpenFunc {
	return func(src model.Source) (*gorm.DB, error) {
		db, m, err := sqlmock.New()
		require.Nil(t, err)
		*mock = m
		*opened++
		return gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	}
}

var synpuf = model.Source{SourceKey: "SYNPUF", SourceDialect: "postgresql", SourceConnection: "jdbc:postgresql://localhost/cdm"}

func TestQueryAttrition(t *testing.T) {
	var mock sqlmock.Sqlmock
	var opened int
	s := NewSourceService(mockOpen(t, &mock, &opened))

	db, err := s.DB(synpuf)
	require.Nil(t, err)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT attrition_order")).
		WillReturnRows(sqlmock.NewRows([]string{"attrition_order", "description", "treated_persons", "comparator_persons", "treated_exposures", "comparator_exposures"}).
			AddRow(1, "Original cohorts", 1200, 1400, 1300, 1500).
			AddRow(2, "Matched on propensity score", 900, 900, 950, 960))

	results, err := Query[model.AttritionResult](context.Background(), db, "SELECT attrition_order, description FROM results.cca_attrition WHERE execution_id = 3;")
	require.Nil(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Matched on propensity score", results[1].Description)
	assert.Equal(t, 1400, results[0].ComparatorPersons)
	assert.Equal(t, 960, results[1].ComparatorExposures)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestQueryEmptyAndScript(t *testing.T) {
	var mock sqlmock.Sqlmock
	var opened int
	s := NewSourceService(mockOpen(t, &mock, &opened))
	db, err := s.DB(synpuf)
	require.Nil(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TEMP TABLE")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT auc")).
		WillReturnRows(sqlmock.NewRows([]string{"auc"}))

	results, err := Query[model.AucResult](context.Background(), db, "CREATE TEMP TABLE t (x INT);\nSELECT auc FROM t;")
	require.Nil(t, err)
	assert.NotNil(t, results)
	assert.Len(t, results, 0)
	assert.Nil(t, mock.ExpectationsWereMet())

	_, err = Query[model.AucResult](context.Background(), db, " ; ")
	assert.NotNil(t, err)
}

func TestConnectionCache(t *testing.T) {
	var mock sqlmock.Sqlmock
	var opened int
	s := NewSourceService(mockOpen(t, &mock, &opened))

	db1, err := s.DB(synpuf)
	require.Nil(t, err)
	db2, err := s.DB(synpuf)
	require.Nil(t, err)
	assert.Equal(t, db1, db2)
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, s.ConnectionCount())

	mock.ExpectClose()
	s.Evict(synpuf.SourceKey)
	assert.Equal(t, 0, s.ConnectionCount())
	assert.Nil(t, mock.ExpectationsWereMet())

	_, err = s.DB(synpuf)
	require.Nil(t, err)
	assert.Equal(t, 2, opened)
}
