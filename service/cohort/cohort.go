// Package cohort serves the cohort definitions and concept sets an analysis
// refers to.
package cohort

import (
	"strings"

	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

type CohortService struct{}

func NewCohortService() *CohortService {
	return &CohortService{}
}

func (s *CohortService) GetCohortDefinition(id int) (model.CohortDefinition, error) {
	return repository.Ps.GetCohortDefinition(id)
}

func (s *CohortService) GetAllCohortDefinitions() ([]model.CohortDefinition, error) {
	return repository.Ps.GetAllCohortDefinitions()
}

func (s *CohortService) SaveCohortDefinition(def *model.CohortDefinition) error {
	if strings.TrimSpace(def.Name) == "" {
		return errors.New("cohort definition name is required")
	}
	return repository.Ps.SaveCohortDefinition(def)
}

func (s *CohortService) GetConceptSet(id int) (model.ConceptSet, error) {
	return repository.Ps.GetConceptSet(id)
}

func (s *CohortService) GetAllConceptSets() ([]model.ConceptSet, error) {
	return repository.Ps.GetAllConceptSets()
}

func (s *CohortService) SaveConceptSet(set *model.ConceptSet) error {
	if strings.TrimSpace(set.Name) == "" {
		return errors.New("concept set name is required")
	}
	if set.Expression == "" {
		set.Expression = `{"items":[]}`
	}
	if _, err := ParseConceptSetExpression(set.Expression); err != nil {
		return err
	}
	return repository.Ps.SaveConceptSet(set)
}

func (s *CohortService) GetConceptSetExpression(id int) (model.ConceptSetExpression, error) {
	set, err := repository.Ps.GetConceptSet(id)
	if err != nil {
		return model.ConceptSetExpression{}, err
	}
	return ParseConceptSetExpression(set.Expression)
}

// ParseConceptSetExpression reads the items of a concept set expression. The
// concept id is taken from item.concept.CONCEPT_ID as written by the concept
// set editor, or from item.conceptId.
func ParseConceptSetExpression(data string) (model.ConceptSetExpression, error) {
	expr := model.ConceptSetExpression{Items: make([]model.ConceptSetItem, 0)}
	if strings.TrimSpace(data) == "" {
		return expr, nil
	}
	var p fastjson.Parser
	v, err := p.Parse(data)
	if err != nil {
		return expr, errors.Wrap(err, "parse concept set expression")
	}
	var items []*fastjson.Value
	if it := v.Get("items"); it != nil {
		switch it.Type() {
		case fastjson.TypeArray:
			items = it.GetArray()
		case fastjson.TypeNull:
		default:
			return expr, errors.New("concept set expression: items is not an array")
		}
	}
	for i, item := range items {
		var id int64
		switch {
		case item.Exists("concept", "CONCEPT_ID"):
			id = item.GetInt64("concept", "CONCEPT_ID")
		case item.Exists("conceptId"):
			id = item.GetInt64("conceptId")
		default:
			return expr, errors.Errorf("concept set expression: item %d has no concept id", i)
		}
		expr.Items = append(expr.Items, model.ConceptSetItem{
			ConceptId:          id,
			IsExcluded:         item.GetBool("isExcluded"),
			IncludeDescendants: item.GetBool("includeDescendants"),
			IncludeMapped:      item.GetBool("includeMapped"),
		})
	}
	return expr, nil
}
