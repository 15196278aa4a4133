package cohort

import (
	"testing"

	"github.com/MakeNowJust/heredoc"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/housepower/cohortcmp/repository/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConceptSetExpression(t *testing.T) {
	data := heredoc.Doc(`
		{
		  "items": [
		    {"concept": {"CONCEPT_ID": 1308216, "CONCEPT_NAME": "Lisinopril"}, "includeDescendants": true},
		    {"concept": {"CONCEPT_ID": 1310756}, "isExcluded": true},
		    {"conceptId": 974166, "includeMapped": true}
		  ]
		}`)
	expr, err := ParseConceptSetExpression(data)
	require.Nil(t, err)
	require.Len(t, expr.Items, 3)
	assert.Equal(t, model.ConceptSetItem{ConceptId: 1308216, IncludeDescendants: true}, expr.Items[0])
	assert.Equal(t, model.ConceptSetItem{ConceptId: 1310756, IsExcluded: true}, expr.Items[1])
	assert.Equal(t, model.ConceptSetItem{ConceptId: 974166, IncludeMapped: true}, expr.Items[2])
}

func TestParseConceptSetExpressionEmpty(t *testing.T) {
	for _, data := range []string{`{"items":[]}`, `{"items": null}`, `{}`} {
		expr, err := ParseConceptSetExpression(data)
		require.Nil(t, err, data)
		assert.NotNil(t, expr.Items, data)
		assert.Len(t, expr.Items, 0, data)
	}
}

func TestParseConceptSetExpressionInvalid(t *testing.T) {
	expr, err := ParseConceptSetExpression("")
	require.Nil(t, err)
	assert.NotNil(t, expr.Items)
	assert.Len(t, expr.Items, 0)

	_, err = ParseConceptSetExpression(`{"items": [`)
	assert.NotNil(t, err)
	_, err = ParseConceptSetExpression(`{"items": {"conceptId": 1}}`)
	assert.NotNil(t, err)
	_, err = ParseConceptSetExpression(`{"items": 3}`)
	assert.NotNil(t, err)
	_, err = ParseConceptSetExpression(`{"items": [{"isExcluded": true}]}`)
	assert.NotNil(t, err)
}

func TestConceptSet(t *testing.T) {
	lp := local.NewLocalPersistent()
	require.Nil(t, lp.Init(local.LocalConfig{ConfigDir: t.TempDir()}))
	repository.Ps = lp
	defer func() { repository.Ps = nil }()

	s := NewCohortService()
	assert.NotNil(t, s.SaveConceptSet(&model.ConceptSet{Name: "broken", Expression: "{"}))
	assert.NotNil(t, s.SaveConceptSet(&model.ConceptSet{Expression: `{"items":[]}`}))

	set := model.ConceptSet{Name: "prior angioedema", Expression: `{"items":[{"conceptId":432791,"includeDescendants":true}]}`}
	require.Nil(t, s.SaveConceptSet(&set))
	expr, err := s.GetConceptSetExpression(set.Id)
	require.Nil(t, err)
	require.Len(t, expr.Items, 1)
	assert.Equal(t, int64(432791), expr.Items[0].ConceptId)

	empty := model.ConceptSet{Name: "empty"}
	require.Nil(t, s.SaveConceptSet(&empty))
	got, err := s.GetConceptSet(empty.Id)
	require.Nil(t, err)
	assert.Equal(t, `{"items":[]}`, got.Expression)
	expr, err = s.GetConceptSetExpression(empty.Id)
	require.Nil(t, err)
	assert.Len(t, expr.Items, 0)

	_, err = s.GetConceptSetExpression(999)
	assert.Equal(t, repository.ErrRecordNotFound, err)

	def := model.CohortDefinition{Name: "New users of ACE inhibitors"}
	require.Nil(t, s.SaveCohortDefinition(&def))
	defs, err := s.GetAllCohortDefinitions()
	require.Nil(t, err)
	assert.Len(t, defs, 1)
	assert.NotNil(t, s.SaveCohortDefinition(&model.CohortDefinition{}))
}
