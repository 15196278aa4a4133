package vocabulary

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/housepower/cohortcmp/repository/local"
	"github.com/housepower/cohortcmp/service/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestBuildResolveSql(t *testing.T) {
	expr := model.ConceptSetExpression{Items: []model.ConceptSetItem{
		{ConceptId: 1308216, IncludeDescendants: true},
		{ConceptId: 1310756},
	}}
	sql, ok, err := BuildResolveSql(expr, "vocab", "postgresql")
	require.Nil(t, err)
	require.True(t, ok)
	assert.True(t, strings.Contains(sql, "FROM vocab.concept c"))
	assert.True(t, strings.Contains(sql, "IN (1308216,1310756)"))
	assert.True(t, strings.Contains(sql, "vocab.concept_ancestor ca"))
	assert.True(t, strings.Contains(sql, "ancestor_concept_id IN (1308216)"))
	assert.False(t, strings.Contains(sql, "concept_relationship"))
	assert.False(t, strings.Contains(sql, "LEFT JOIN"))
	assert.False(t, strings.Contains(sql, "@"))
	assert.False(t, strings.Contains(sql, "{"))

	expr.Items = append(expr.Items,
		model.ConceptSetItem{ConceptId: 974166, IncludeMapped: true},
		model.ConceptSetItem{ConceptId: 1310756, IsExcluded: true, IncludeDescendants: true})
	sql, ok, err = BuildResolveSql(expr, "vocab", "sql server")
	require.Nil(t, err)
	require.True(t, ok)
	assert.True(t, strings.Contains(sql, "cr.concept_id_2 IN (974166)"))
	assert.True(t, strings.Contains(sql, "LEFT JOIN"))
	assert.True(t, strings.Contains(sql, "WHERE c.concept_id IN (1310756)"))
	assert.True(t, strings.Contains(sql, "ca.ancestor_concept_id IN (1310756)"))
	assert.True(t, strings.Contains(sql, "WHERE e.concept_id IS NULL"))
}

func TestBuildResolveSqlNothingIncluded(t *testing.T) {
	expr := model.ConceptSetExpression{Items: []model.ConceptSetItem{{ConceptId: 1, IsExcluded: true}}}
	_, ok, err := BuildResolveSql(expr, "vocab", "postgresql")
	require.Nil(t, err)
	assert.False(t, ok)

	_, ok, err = BuildResolveSql(model.ConceptSetExpression{}, "vocab", "postgresql")
	require.Nil(t, err)
	assert.False(t, ok)

	_, _, err = BuildResolveSql(model.ConceptSetExpression{Items: []model.ConceptSetItem{{ConceptId: 1}}}, "vocab", "informix")
	assert.NotNil(t, err)
}

func TestResolveConceptSetExpression(t *testing.T) {
	lp := local.NewLocalPersistent()
	require.Nil(t, lp.Init(local.LocalConfig{ConfigDir: t.TempDir()}))
	repository.Ps = lp
	defer func() { repository.Ps = nil }()

	require.Nil(t, lp.CreateSource(&model.Source{
		SourceKey:        "SYNPUF",
		SourceDialect:    "postgresql",
		SourceConnection: "jdbc:postgresql://localhost/cdm",
		Daimons: []model.SourceDaimon{
			{DaimonType: model.DaimonTypeCDM, TableQualifier: "cdm"},
			{DaimonType: model.DaimonTypeVocabulary, TableQualifier: "vocab"},
		},
	}))

	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	defer db.Close()
	sources := source.NewSourceService(func(src model.Source) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT i.concept_id")).
		WillReturnRows(sqlmock.NewRows([]string{"concept_id"}).AddRow(1310756).AddRow(1308216).AddRow(1310756))

	s := NewVocabularyService(sources)
	ids, err := s.ResolveConceptSetExpression(context.Background(), "SYNPUF", model.ConceptSetExpression{
		Items: []model.ConceptSetItem{{ConceptId: 1308216}, {ConceptId: 1310756}},
	})
	require.Nil(t, err)
	assert.Equal(t, []int64{1308216, 1310756}, ids)
	assert.Nil(t, mock.ExpectationsWereMet())

	ids, err = s.ResolveConceptSetExpression(context.Background(), "SYNPUF", model.ConceptSetExpression{})
	require.Nil(t, err)
	assert.Equal(t, []int64{}, ids)

	_, err = s.ResolveConceptSetExpression(context.Background(), "NOSUCH", model.ConceptSetExpression{})
	assert.Equal(t, repository.ErrRecordNotFound, err)
}
