package migrate

import (
	"os"
	"path"
	"testing"

	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	file := path.Join(t.TempDir(), "migrate.hjson")
	require.Nil(t, os.WriteFile(file, []byte(`{
	source: old
	target: new
	persistent_config: {
		old: {
			policy: local
			config: {
				format: json
				config_dir: "/tmp/old"
			}
		}
		new: {
			policy: local
			config: {
				format: yaml
				config_dir: "/tmp/new"
			}
		}
	}
}`), 0644))
	config, err := ParseConfig(file)
	require.Nil(t, err)
	assert.Equal(t, "old", config.Source)
	assert.Equal(t, "local", config.PsConf["new"].Policy)
	assert.Equal(t, "yaml", config.PsConf["new"].Config["format"])
	assert.Equal(t, "/tmp/old", config.PsConf["old"].Config["config_dir"])

	_, err = PersistentCheck(config, "nosuch")
	assert.NotNil(t, err)
}

func TestMigrate(t *testing.T) {
	src := local.NewLocalPersistent()
	require.Nil(t, src.Init(local.LocalConfig{ConfigDir: t.TempDir()}))
	dst := local.NewLocalPersistent()
	require.Nil(t, dst.Init(local.LocalConfig{ConfigDir: t.TempDir(), Format: local.FORMAT_YAML}))

	other := model.CohortDefinition{Name: "Thiazides"}
	require.Nil(t, src.SaveCohortDefinition(&other))
	treatment := model.CohortDefinition{Name: "ACE inhibitors"}
	require.Nil(t, src.SaveCohortDefinition(&treatment))
	require.Equal(t, 2, treatment.Id)
	set := model.ConceptSet{Name: "Prior angioedema", Expression: `{"items":[]}`}
	require.Nil(t, src.SaveConceptSet(&set))
	require.Nil(t, src.CreateSource(&model.Source{SourceKey: "SYNPUF", SourceDialect: "postgresql", SourceConnection: "jdbc:postgresql://localhost/cdm"}))

	analysis := model.Analysis{Name: "ace vs thiazide", TreatmentId: treatment.Id, ExclusionId: set.Id}
	require.Nil(t, src.SaveAnalysis(&analysis))
	execution := model.NewExecution(analysis, "SYNPUF", 0)
	require.Nil(t, src.CreateExecution(&execution))
	require.Nil(t, src.CreateJob(model.Job{JobId: "job-1", Status: model.JobStatusCompleted,
		Step: model.RsbStep{FunctionName: "executeComparativeCohortAnalysis", ExecutionId: execution.Id, Parameters: map[string]interface{}{}}}))
	// leaves a gap in the source ids that the target does not reproduce
	require.Nil(t, src.DeleteAnalysis(analysis.Id))
	analysis.Id = 0
	require.Nil(t, src.SaveAnalysis(&analysis))
	require.Equal(t, 2, analysis.Id)
	moved := execution
	moved.AnalysisId = analysis.Id
	require.Nil(t, src.UpdateExecution(moved))

	require.Nil(t, Migrate(src, dst))

	analyses, err := dst.GetAllAnalyses()
	require.Nil(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, 1, analyses[0].Id)
	def, err := dst.GetCohortDefinition(analyses[0].TreatmentId)
	require.Nil(t, err)
	assert.Equal(t, "ACE inhibitors", def.Name)

	executions, err := dst.GetExecutionsByAnalysisId(1)
	require.Nil(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, analyses[0].TreatmentId, executions[0].TreatmentId)

	job, err := dst.GetJobById("job-1")
	require.Nil(t, err)
	assert.Equal(t, executions[0].Id, job.Step.ExecutionId)

	source, err := dst.GetSourceByKey("SYNPUF")
	require.Nil(t, err)
	assert.Equal(t, "jdbc:postgresql://localhost/cdm", source.SourceConnection)
}
