package local

const (
	LocalPersistentName string = "local"

	FORMAT_JSON string = "json"
	FORMAT_YAML string = "yaml"

	CohortDataDir  string = "/etc/cohortcmp/conf"
	CohortDataFile string = "cohortcmp"

	SeqAnalysis   string = "analysis"
	SeqExecution  string = "execution"
	SeqSource     string = "source"
	SeqCohort     string = "cohort_definition"
	SeqConceptSet string = "concept_set"
)
