package local

import (
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersistent(t *testing.T, format string) *LocalPersistent {
	lp := NewLocalPersistent()
	require.Nil(t, lp.Init(LocalConfig{Format: format, ConfigDir: t.TempDir()}))
	return lp
}

func TestUnmarshalConfig(t *testing.T) {
	lp := NewLocalPersistent()
	cfg := lp.UnmarshalConfig(map[string]interface{}{
		"format":     "yaml",
		"config_dir": "/tmp/cohortcmp",
	})
	require.NotNil(t, cfg)
	local := cfg.(LocalConfig)
	local.Normalize()
	assert.Equal(t, "yaml", local.Format)
	assert.Equal(t, "/tmp/cohortcmp", local.ConfigDir)
	assert.Equal(t, "cohortcmp.yaml", local.ConfigFile)
}

func TestAnalysis(t *testing.T) {
	lp := newTestPersistent(t, FORMAT_JSON)

	now := time.Now()
	a := model.Analysis{Name: "ace vs thiazide", TreatmentId: 1, ComparatorId: 2, OutcomeId: 3, Created: &now}
	require.Nil(t, lp.SaveAnalysis(&a))
	assert.Equal(t, 1, a.Id)

	b := model.Analysis{Name: "second"}
	require.Nil(t, lp.SaveAnalysis(&b))
	assert.Equal(t, 2, b.Id)

	a.TimeAtRisk = 365
	require.Nil(t, lp.SaveAnalysis(&a))
	got, err := lp.GetAnalysisById(1)
	require.Nil(t, err)
	assert.Equal(t, 365, got.TimeAtRisk)

	all, err := lp.GetAllAnalyses()
	require.Nil(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ace vs thiazide", all[0].Name)

	_, err = lp.GetAnalysisById(99)
	assert.Equal(t, repository.ErrRecordNotFound, err)
	explicit := model.Analysis{Id: 99, Name: "imported"}
	require.Nil(t, lp.SaveAnalysis(&explicit))
	got, err = lp.GetAnalysisById(99)
	require.Nil(t, err)
	assert.Equal(t, "imported", got.Name)
	next := model.Analysis{Name: "after import"}
	require.Nil(t, lp.SaveAnalysis(&next))
	assert.Equal(t, 100, next.Id)
	require.Nil(t, lp.DeleteAnalysis(99))
	require.Nil(t, lp.DeleteAnalysis(100))

	require.Nil(t, lp.DeleteAnalysis(2))
	all, _ = lp.GetAllAnalyses()
	assert.Len(t, all, 1)
}

func TestExecution(t *testing.T) {
	lp := newTestPersistent(t, FORMAT_JSON)

	older := model.Execution{AnalysisId: 1, SourceKey: "SYNPUF", Executed: time.Now().Add(-time.Hour), ExecutionStatus: model.ExecutionStatusCompleted}
	newer := model.Execution{AnalysisId: 1, SourceKey: "SYNPUF", Executed: time.Now(), ExecutionStatus: model.ExecutionStatusRunning}
	other := model.Execution{AnalysisId: 2, SourceKey: "SYNPUF", Executed: time.Now()}
	require.Nil(t, lp.CreateExecution(&older))
	require.Nil(t, lp.CreateExecution(&newer))
	require.Nil(t, lp.CreateExecution(&other))
	assert.Equal(t, 2, newer.Id)

	executions, err := lp.GetExecutionsByAnalysisId(1)
	require.Nil(t, err)
	require.Len(t, executions, 2)
	assert.Equal(t, newer.Id, executions[0].Id)

	executions, err = lp.GetExecutionsByAnalysisId(42)
	require.Nil(t, err)
	assert.NotNil(t, executions)
	assert.Len(t, executions, 0)

	newer.ExecutionStatus = model.ExecutionStatusFailed
	newer.Duration = 12
	require.Nil(t, lp.UpdateExecution(newer))
	got, err := lp.GetExecutionById(newer.Id)
	require.Nil(t, err)
	assert.Equal(t, model.ExecutionStatusFailed, got.ExecutionStatus)
	assert.Equal(t, 12, got.Duration)

	assert.Equal(t, repository.ErrRecordNotFound, lp.UpdateExecution(model.Execution{Id: 100}))
}

func TestSourceEncrypted(t *testing.T) {
	lp := newTestPersistent(t, FORMAT_JSON)
	conn := "jdbc:postgresql://localhost:5432/cdm?user=ohdsi&password=secret"
	source := model.Source{
		SourceKey:        "SYNPUF",
		SourceName:       "synpuf 1k",
		SourceDialect:    "postgresql",
		SourceConnection: conn,
		Daimons:          []model.SourceDaimon{{DaimonType: model.DaimonTypeCDM, TableQualifier: "cdm"}},
	}
	require.Nil(t, lp.CreateSource(&source))
	assert.Equal(t, 1, source.SourceId)
	assert.Equal(t, conn, source.SourceConnection)
	assert.Equal(t, repository.ErrRecordExists, lp.CreateSource(&source))

	data, err := os.ReadFile(path.Join(lp.Config.ConfigDir, lp.Config.ConfigFile))
	require.Nil(t, err)
	assert.False(t, strings.Contains(string(data), "password=secret"))

	got, err := lp.GetSourceByKey("SYNPUF")
	require.Nil(t, err)
	assert.Equal(t, conn, got.SourceConnection)

	got.SourceName = "renamed"
	require.Nil(t, lp.UpdateSource(got))
	sources, err := lp.GetAllSources()
	require.Nil(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "renamed", sources[0].SourceName)
	assert.Equal(t, conn, sources[0].SourceConnection)

	require.Nil(t, lp.DeleteSource("SYNPUF"))
	_, err = lp.GetSourceByKey("SYNPUF")
	assert.Equal(t, repository.ErrRecordNotFound, err)
}

func TestJobs(t *testing.T) {
	lp := newTestPersistent(t, FORMAT_YAML)
	now := time.Now()
	jobs := []model.Job{
		{JobId: "a", Status: model.JobStatusWaiting, ServerIp: "10.0.0.1", CreateTime: now.Add(-time.Minute)},
		{JobId: "b", Status: model.JobStatusWaiting, ServerIp: "10.0.0.2", CreateTime: now},
		{JobId: "c", Status: model.JobStatusCompleted, ServerIp: "10.0.0.1", CreateTime: now},
	}
	for _, job := range jobs {
		require.Nil(t, lp.CreateJob(job))
	}
	assert.Equal(t, repository.ErrRecordExists, lp.CreateJob(jobs[0]))

	pending, err := lp.GetPendingJobs("10.0.0.1")
	require.Nil(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a", pending[0].JobId)

	jobs[0].Status = model.JobStatusRunning
	require.Nil(t, lp.UpdateJob(jobs[0]))
	pending, _ = lp.GetPendingJobs("10.0.0.1")
	assert.Len(t, pending, 0)

	all, err := lp.GetAllJobs()
	require.Nil(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "a", all[2].JobId)

	require.Nil(t, lp.DeleteJob("c"))
	_, err = lp.GetJobById("c")
	assert.Equal(t, repository.ErrRecordNotFound, err)
}

func TestTransaction(t *testing.T) {
	lp := newTestPersistent(t, FORMAT_JSON)
	require.Nil(t, lp.SaveCohortDefinition(&model.CohortDefinition{Name: "new users of ACE inhibitors"}))

	require.Nil(t, lp.Begin())
	assert.Equal(t, repository.ErrTransActionBegin, lp.Begin())
	require.Nil(t, lp.SaveCohortDefinition(&model.CohortDefinition{Name: "rolled back"}))
	require.Nil(t, lp.Rollback())

	defs, err := lp.GetAllCohortDefinitions()
	require.Nil(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "new users of ACE inhibitors", defs[0].Name)

	require.Nil(t, lp.Begin())
	set := model.ConceptSet{Name: "exclusions", Expression: `{"items":[]}`}
	require.Nil(t, lp.SaveConceptSet(&set))
	require.Nil(t, lp.Commit())
	assert.Equal(t, repository.ErrTransActionEnd, lp.Commit())

	got, err := lp.GetConceptSet(set.Id)
	require.Nil(t, err)
	assert.Equal(t, "exclusions", got.Name)
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{FORMAT_JSON, FORMAT_YAML} {
		lp := NewLocalPersistent()
		require.Nil(t, lp.Init(LocalConfig{Format: format, ConfigDir: dir}))
		a := model.Analysis{Name: "persisted " + format}
		require.Nil(t, lp.SaveAnalysis(&a))
		require.Nil(t, lp.CreateJob(model.Job{JobId: "job-" + format, StepType: model.StepTypeRsb}))

		reloaded := NewLocalPersistent()
		require.Nil(t, reloaded.Init(LocalConfig{Format: format, ConfigDir: dir}))
		got, err := reloaded.GetAnalysisById(a.Id)
		require.Nil(t, err)
		assert.Equal(t, a.Name, got.Name)
		job, err := reloaded.GetJobById("job-" + format)
		require.Nil(t, err)
		assert.Equal(t, model.StepTypeRsb, job.StepType)

		// ids continue after a reload
		b := model.Analysis{Name: "next"}
		require.Nil(t, reloaded.SaveAnalysis(&b))
		assert.Equal(t, a.Id+1, b.Id)
	}
}
