package local

import "github.com/housepower/cohortcmp/model"

type PersistentData struct {
	Analyses          map[int]model.Analysis         `json:"analyses" yaml:"analyses"`
	Executions        map[int]model.Execution        `json:"executions" yaml:"executions"`
	Sources           map[string]model.Source        `json:"sources" yaml:"sources"`
	CohortDefinitions map[int]model.CohortDefinition `json:"cohort_definitions" yaml:"cohort_definitions"`
	ConceptSets       map[int]model.ConceptSet       `json:"concept_sets" yaml:"concept_sets"`
	Jobs              map[string]model.Job           `json:"jobs" yaml:"jobs"`
	// last id handed out per entity
	Sequences map[string]int `json:"sequences" yaml:"sequences"`
}

func newPersistentData() PersistentData {
	return PersistentData{
		Analyses:          make(map[int]model.Analysis),
		Executions:        make(map[int]model.Execution),
		Sources:           make(map[string]model.Source),
		CohortDefinitions: make(map[int]model.CohortDefinition),
		ConceptSets:       make(map[int]model.ConceptSet),
		Jobs:              make(map[string]model.Job),
		Sequences:         make(map[string]int),
	}
}

// fill keeps the maps usable after loading a file written by an older
// version that lacks some sections.
func (d *PersistentData) fill() {
	if d.Analyses == nil {
		d.Analyses = make(map[int]model.Analysis)
	}
	if d.Executions == nil {
		d.Executions = make(map[int]model.Execution)
	}
	if d.Sources == nil {
		d.Sources = make(map[string]model.Source)
	}
	if d.CohortDefinitions == nil {
		d.CohortDefinitions = make(map[int]model.CohortDefinition)
	}
	if d.ConceptSets == nil {
		d.ConceptSets = make(map[int]model.ConceptSet)
	}
	if d.Jobs == nil {
		d.Jobs = make(map[string]model.Job)
	}
	if d.Sequences == nil {
		d.Sequences = make(map[string]int)
	}
}
