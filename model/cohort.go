package model

type CohortDefinition struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ConceptSet keeps its expression as the raw JSON document produced by the
// concept set editor.
type ConceptSet struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

type ConceptSetItem struct {
	ConceptId          int64 `json:"conceptId"`
	IsExcluded         bool  `json:"isExcluded"`
	IncludeDescendants bool  `json:"includeDescendants"`
	IncludeMapped      bool  `json:"includeMapped"`
}

type ConceptSetExpression struct {
	Items []ConceptSetItem `json:"items"`
}
