package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/housepower/cohortcmp/repository/local"
	"github.com/housepower/cohortcmp/service/cohort"
	"github.com/housepower/cohortcmp/service/cohortcomparison"
	"github.com/housepower/cohortcmp/service/runner"
	"github.com/housepower/cohortcmp/service/source"
	"github.com/housepower/cohortcmp/service/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type testEnv struct {
	engine *gin.Engine
	mock   sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	lp := local.NewLocalPersistent()
	require.Nil(t, lp.Init(local.LocalConfig{ConfigDir: t.TempDir()}))
	repository.Ps = lp
	t.Cleanup(func() { repository.Ps = nil })

	env := &testEnv{engine: gin.New()}
	sources := source.NewSourceService(func(src model.Source) (*gorm.DB, error) {
		db, m, err := sqlmock.New()
		require.Nil(t, err)
		env.mock = m
		return gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	})
	cohorts := cohort.NewCohortService()
	jobs := runner.NewRunnerService("127.0.0.1", config.CohortServerConfig{TaskInterval: 1}, nil)
	t.Cleanup(jobs.Pool.Close)
	services := Services{
		CohortComparison: cohortcomparison.NewCohortComparisonService(sources, cohorts, vocabulary.NewVocabularyService(sources), jobs),
		Sources:          sources,
		Cohorts:          cohorts,
		Runner:           jobs,
	}
	InitRouter(env.engine.Group("/"), services)
	return env
}

func (env *testEnv) do(method, url, body string) (int, ResponseBody) {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	var resp ResponseBody
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

const sourceBody = `{
	"sourceName": "SynPUF",
	"sourceKey": "SYNPUF",
	"sourceDialect": "postgresql",
	"sourceConnection": "jdbc:postgresql://127.0.0.1:5432/cdm?user=ohdsi&password=ohdsi",
	"daimons": [
		{"daimonType": "CDM", "tableQualifier": "cdm"},
		{"daimonType": "Vocabulary", "tableQualifier": "vocab"},
		{"daimonType": "Results", "tableQualifier": "results"}
	]
}`

func TestHttpStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HttpStatus(model.E_SUCCESS))
	assert.Equal(t, http.StatusBadRequest, HttpStatus(model.E_INVALID_PARAMS))
	assert.Equal(t, http.StatusNotFound, HttpStatus(model.E_RECORD_NOT_FOUND))
	assert.Equal(t, http.StatusUnauthorized, HttpStatus(model.E_JWT_TOKEN_NONE))
	assert.Equal(t, http.StatusInternalServerError, HttpStatus(model.E_RESULT_QUERY_FAILED))
}

func TestAnalysisLifecycle(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(http.MethodGet, "/comparativecohortanalysis/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.E_SUCCESS, resp.Code)
	assert.Equal(t, []interface{}{}, resp.Data)

	code, resp = env.do(http.MethodPost, "/cohortdefinition/", `{"name": "ACE inhibitors"}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = env.do(http.MethodPost, "/cohortdefinition/", `{"name": ""}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = env.do(http.MethodPost, "/comparativecohortanalysis/", `{"name": "ace vs thiazide", "treatmentId": 1, "comparatorId": 2, "outcomeId": 3, "timeAtRisk": 365}`)
	require.Equal(t, http.StatusOK, code)
	saved := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), saved["id"])
	assert.Equal(t, saved["created"], saved["modified"])

	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/1", "")
	require.Equal(t, http.StatusOK, code)
	info := resp.Data.(map[string]interface{})
	assert.Equal(t, "ACE inhibitors", info["treatmentCaption"])
	assert.Equal(t, "", info["comparatorCaption"])

	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/42", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, model.E_RECORD_NOT_FOUND, resp.Code)
	assert.Nil(t, resp.Data)

	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, model.E_INVALID_PARAMS, resp.Code)

	code, _ = env.do(http.MethodGet, "/comparativecohortanalysis/1/execute/SYNPUF", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(http.MethodPost, "/source/", sourceBody)
	require.Equal(t, http.StatusOK, code)
	code, resp = env.do(http.MethodGet, "/source/", "")
	require.Equal(t, http.StatusOK, code)
	sources := resp.Data.([]interface{})
	require.Len(t, sources, 1)
	assert.Equal(t, "", sources[0].(map[string]interface{})["sourceConnection"])

	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/1/execute/SYNPUF", "")
	require.Equal(t, http.StatusOK, code)
	job := resp.Data.(map[string]interface{})
	assert.Equal(t, "STARTING", job["status"])
	assert.Equal(t, "executing cohort comparison on SYNPUF", job["jobInstanceResource"].(map[string]interface{})["name"])

	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/1/executions", "")
	require.Equal(t, http.StatusOK, code)
	executions := resp.Data.([]interface{})
	require.Len(t, executions, 1)
	execution := executions[0].(map[string]interface{})
	assert.Equal(t, model.ExecutionStatusRunning, execution["executionStatus"])
	assert.Equal(t, job["executionId"], execution["jobId"])

	code, resp = env.do(http.MethodGet, "/job/"+job["executionId"].(string), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "STARTING", resp.Data.(map[string]interface{})["status"])

	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/execution/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SYNPUF", resp.Data.(map[string]interface{})["sourceKey"])
}

func TestResultEndpoints(t *testing.T) {
	env := newTestEnv(t)
	code, _ := env.do(http.MethodPost, "/source/", sourceBody)
	require.Equal(t, http.StatusOK, code)
	e := model.NewExecution(model.Analysis{Id: 1}, "SYNPUF", 0)
	require.Nil(t, repository.Ps.CreateExecution(&e))

	code, resp := env.do(http.MethodGet, "/comparativecohortanalysis/execution/99/attrition", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, model.E_RECORD_NOT_FOUND, resp.Code)

	// the first result request opens the mocked connection
	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/execution/1/psmodeldist", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, model.E_RESULT_QUERY_FAILED, resp.Code)

	env.mock.ExpectQuery(`FROM results\.cca_ps`).
		WillReturnRows(sqlmock.NewRows([]string{"ps", "treatment", "comparator"}).AddRow(0.25, 40, 52))
	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/execution/1/psmodeldist", "")
	require.Equal(t, http.StatusOK, code)
	values := resp.Data.([]interface{})
	require.Len(t, values, 1)
	assert.Equal(t, float64(52), values[0].(map[string]interface{})["comparator"])

	env.mock.ExpectQuery(`FROM results\.cca_matched_pop`).
		WillReturnRows(sqlmock.NewRows([]string{"ps", "treatment", "person_count"}))
	code, resp = env.do(http.MethodGet, "/comparativecohortanalysis/execution/1/matchedpopdist", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{}, resp.Data)
	require.Nil(t, env.mock.ExpectationsWereMet())
}
