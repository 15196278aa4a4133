package rdbms

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockPersistent(t *testing.T) (*GormPersistent, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.Nil(t, err)
	return NewGormPersistent(gdb), mock
}

func TestGetAnalysisById(t *testing.T) {
	gp, mock := newMockPersistent(t)

	rows := sqlmock.NewRows([]string{"id", "name", "config"}).
		AddRow(7, "ace vs thiazide", `{"id":0,"name":"ace vs thiazide","treatmentId":1,"comparatorId":2,"outcomeId":3,"timeAtRisk":365}`)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tbl_cca_analysis" WHERE id = $1`)).
		WithArgs(7).
		WillReturnRows(rows)

	analysis, err := gp.GetAnalysisById(7)
	require.Nil(t, err)
	assert.Equal(t, 7, analysis.Id)
	assert.Equal(t, 365, analysis.TimeAtRisk)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetAnalysisNotFound(t *testing.T) {
	gp, mock := newMockPersistent(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tbl_cca_analysis" WHERE id = $1`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "config"}))

	_, err := gp.GetAnalysisById(9)
	assert.Equal(t, repository.ErrRecordNotFound, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestSaveAnalysisExplicitId(t *testing.T) {
	gp, mock := newMockPersistent(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tbl_cca_analysis" WHERE id = $1`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "config"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tbl_cca_analysis"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tbl_cca_analysis" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	analysis := model.Analysis{Id: 42, Name: "imported"}
	require.Nil(t, gp.SaveAnalysis(&analysis))
	assert.Equal(t, 42, analysis.Id)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetExecutionsEmpty(t *testing.T) {
	gp, mock := newMockPersistent(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tbl_cca_execution" WHERE analysis_id = $1 ORDER BY id DESC`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "analysis_id", "config"}))

	executions, err := gp.GetExecutionsByAnalysisId(3)
	require.Nil(t, err)
	assert.NotNil(t, executions)
	assert.Len(t, executions, 0)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetSourceDecoded(t *testing.T) {
	gp, mock := newMockPersistent(t)

	conn := "jdbc:postgresql://localhost:5432/cdm?user=ohdsi&password=secret"
	config := `{"sourceName":"synpuf","sourceDialect":"postgresql","sourceConnection":"` + common.AesEncryptECB(conn) + `","daimons":[{"daimonType":"CDM","tableQualifier":"cdm","priority":0}]}`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tbl_source" WHERE source_key = $1`)).
		WithArgs("SYNPUF").
		WillReturnRows(sqlmock.NewRows([]string{"id", "source_key", "config"}).AddRow(2, "SYNPUF", config))

	source, err := gp.GetSourceByKey("SYNPUF")
	require.Nil(t, err)
	assert.Equal(t, 2, source.SourceId)
	assert.Equal(t, "SYNPUF", source.SourceKey)
	assert.Equal(t, conn, source.SourceConnection)
	qualifier, err := source.TableQualifier(model.DaimonTypeVocabulary)
	require.Nil(t, err)
	assert.Equal(t, "cdm", qualifier)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetPendingJobs(t *testing.T) {
	gp, mock := newMockPersistent(t)

	job := model.Job{JobId: "3f1c", JobName: "executing cohort comparison on SYNPUF", StepType: model.StepTypeRsb, ServerIp: "10.0.0.1"}
	config, err := json.Marshal(job)
	require.Nil(t, err)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tbl_job" WHERE status = $1 AND server_ip = $2 ORDER BY create_time`)).
		WithArgs(model.JobStatusWaiting, "10.0.0.1").
		WillReturnRows(sqlmock.NewRows([]string{"job_id", "status", "server_ip", "create_time", "config"}).
			AddRow("3f1c", model.JobStatusWaiting, "10.0.0.1", time.Now(), string(config)))

	jobs, err := gp.GetPendingJobs("10.0.0.1")
	require.Nil(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.JobName, jobs[0].JobName)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestUpdateJobNotFound(t *testing.T) {
	gp, mock := newMockPersistent(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tbl_job" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := gp.UpdateJob(model.Job{JobId: "missing"})
	assert.Equal(t, repository.ErrRecordNotFound, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestTransaction(t *testing.T) {
	gp, mock := newMockPersistent(t)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	require.Nil(t, gp.Begin())
	assert.Equal(t, repository.ErrTransActionBegin, gp.Begin())
	require.Nil(t, gp.Commit())
	assert.Equal(t, repository.ErrTransActionEnd, gp.Commit())

	require.Nil(t, gp.Begin())
	require.Nil(t, gp.Rollback())
	assert.Equal(t, repository.ErrTransActionEnd, gp.Rollback())
	assert.Nil(t, mock.ExpectationsWereMet())
}
