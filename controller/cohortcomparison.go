package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/go-errors/errors"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/service/cohortcomparison"
)

const (
	AnalysisIdPath  = "id"
	ExecutionIdPath = "eid"
	SourceKeyPath   = "sourceKey"
)

type CohortComparisonController struct {
	Controller
	service *cohortcomparison.CohortComparisonService
}

func NewCohortComparisonController(service *cohortcomparison.CohortComparisonService, wrapfunc Wrapfunc) *CohortComparisonController {
	return &CohortComparisonController{
		Controller: Controller{
			wrapfunc: wrapfunc,
		},
		service: service,
	}
}

// @Summary ListAnalyses
// @Description Get all comparative cohort analyses
// @version 1.0
// @Security ApiKeyAuth
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"id":1,"name":"ace vs thiazide","treatmentId":1,"comparatorId":2,"outcomeId":3,"exclusionId":9,"timeAtRisk":365,"created":"2023-09-01T10:00:00Z","modified":"2023-09-01T10:00:00Z","userId":0}]}"
// @Router /comparativecohortanalysis/ [get]
func (controller *CohortComparisonController) ListAnalyses(c *gin.Context) {
	analyses, err := controller.service.ListAnalyses()
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, analyses)
}

// @Summary SaveAnalysis
// @Description Create an analysis, or update it when the body carries an id
// @version 1.0
// @Security ApiKeyAuth
// @Param req body model.Analysis true "analysis"
// @Failure 200 {string} json "{"code":"5000","msg":"invalid params","data":null}"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"id":1,"name":"ace vs thiazide","created":"2023-09-01T10:00:00Z","modified":"2023-09-01T10:00:00Z"}}"
// @Router /comparativecohortanalysis/ [post]
func (controller *CohortComparisonController) SaveAnalysis(c *gin.Context) {
	var analysis model.Analysis
	if err := model.DecodeRequestBody(c.Request, &analysis); err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	if analysis.Id < 0 {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, errors.Errorf("invalid analysis id %d", analysis.Id))
		return
	}
	if analysis.Id == 0 && analysis.UserId == 0 {
		analysis.UserId = userId(c)
	}
	if err := controller.service.SaveAnalysis(&analysis); err != nil {
		controller.fail(c, model.E_DATA_INSERT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, analysis)
}

// @Summary GetAnalysis
// @Description Get an analysis with the names of the cohorts and concept set it uses
// @version 1.0
// @Security ApiKeyAuth
// @Param id path int true "analysis id"
// @Failure 404 {string} json "{"code":"5100","msg":"record not found","data":null}"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"id":1,"treatmentCaption":"ACE inhibitors","comparatorCaption":"Thiazides","outcomeCaption":"Angioedema","exclusionCaption":"Prior angioedema"}}"
// @Router /comparativecohortanalysis/{id} [get]
func (controller *CohortComparisonController) GetAnalysis(c *gin.Context) {
	id, err := intParam(c, AnalysisIdPath)
	if err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	info, err := controller.service.GetAnalysisInfo(id)
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, info)
}

// @Summary GetExecutions
// @Description Get the executions of an analysis, latest first
// @version 1.0
// @Security ApiKeyAuth
// @Param id path int true "analysis id"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"id":3,"analysisId":1,"sourceKey":"SYNPUF","executionStatus":"RUNNING","duration":0}]}"
// @Router /comparativecohortanalysis/{id}/executions [get]
func (controller *CohortComparisonController) GetExecutions(c *gin.Context) {
	id, err := intParam(c, AnalysisIdPath)
	if err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	executions, err := controller.service.GetExecutions(id)
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, executions)
}

// @Summary Execute
// @Description Run an analysis against a source on the remote statistical service
// @version 1.0
// @Security ApiKeyAuth
// @Param id path int true "analysis id"
// @Param sourceKey path string true "source key" default(SYNPUF)
// @Failure 404 {string} json "{"code":"5100","msg":"record not found","data":null}"
// @Failure 500 {string} json "{"code":"5300","msg":"job launch failed","data":null}"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"executionId":"608e9e83-715e-7448-a149-9bef33f38cfe","status":"STARTING","startDate":"2023-09-01T10:00:00Z","jobInstanceResource":{"instanceId":"608e9e83-715e-7448-a149-9bef33f38cfe","name":"executing cohort comparison on SYNPUF"}}}"
// @Router /comparativecohortanalysis/{id}/execute/{sourceKey} [get]
func (controller *CohortComparisonController) Execute(c *gin.Context) {
	id, err := intParam(c, AnalysisIdPath)
	if err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	sourceKey := c.Param(SourceKeyPath)
	if sourceKey == "" {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, errors.New("expect sourceKey but got null"))
		return
	}
	resource, err := controller.service.Execute(c.Request.Context(), id, sourceKey, userId(c))
	if err != nil {
		controller.fail(c, model.E_JOB_LAUNCH_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, resource)
}

// @Summary GetExecution
// @Description Get an execution by id
// @version 1.0
// @Security ApiKeyAuth
// @Param eid path int true "execution id"
// @Failure 404 {string} json "{"code":"5100","msg":"record not found","data":null}"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"id":3,"analysisId":1,"sourceKey":"SYNPUF","executionStatus":"COMPLETED","duration":1820}}"
// @Router /comparativecohortanalysis/execution/{eid} [get]
func (controller *CohortComparisonController) GetExecution(c *gin.Context) {
	eid, err := intParam(c, ExecutionIdPath)
	if err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	execution, err := controller.service.GetExecution(eid)
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, execution)
}

// result serves one result endpoint of an execution.
func (controller *CohortComparisonController) result(c *gin.Context, query func(eid int) (interface{}, error)) {
	eid, err := intParam(c, ExecutionIdPath)
	if err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	data, err := query(eid)
	if err != nil {
		controller.fail(c, model.E_RESULT_QUERY_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, data)
}

// @Summary GetAttrition
// @Description Get the attrition table of an execution
// @version 1.0
// @Security ApiKeyAuth
// @Param eid path int true "execution id"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"attritionOrder":1,"description":"Original cohorts","treatedPersons":1200,"comparatorPersons":1400,"treatedExposures":1300,"comparatorExposures":1500}]}"
// @Router /comparativecohortanalysis/execution/{eid}/attrition [get]
func (controller *CohortComparisonController) GetAttrition(c *gin.Context) {
	controller.result(c, func(eid int) (interface{}, error) {
		return controller.service.GetAttrition(c.Request.Context(), eid)
	})
}

// @Summary GetBalance
// @Description Get the covariate balance before and after matching
// @version 1.0
// @Security ApiKeyAuth
// @Param eid path int true "execution id"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"covariateId":1002,"conceptId":0,"covariateName":"age group: 65-69","beforeMatchingStdDiff":0.21,"afterMatchingStdDiff":0.01}]}"
// @Router /comparativecohortanalysis/execution/{eid}/balance [get]
func (controller *CohortComparisonController) GetBalance(c *gin.Context) {
	controller.result(c, func(eid int) (interface{}, error) {
		return controller.service.GetBalance(c.Request.Context(), eid)
	})
}

// @Summary GetPsModelDistribution
// @Description Get the propensity score distribution of both arms
// @version 1.0
// @Security ApiKeyAuth
// @Param eid path int true "execution id"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"ps":0.12,"treatment":40,"comparator":52}]}"
// @Router /comparativecohortanalysis/execution/{eid}/psmodeldist [get]
func (controller *CohortComparisonController) GetPsModelDistribution(c *gin.Context) {
	controller.result(c, func(eid int) (interface{}, error) {
		return controller.service.GetPsModelDistribution(c.Request.Context(), eid)
	})
}

// @Summary GetMatchedPopDistribution
// @Description Get the propensity score distribution of the matched population
// @version 1.0
// @Security ApiKeyAuth
// @Param eid path int true "execution id"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"ps":0.12,"treatment":40,"comparator":40}]}"
// @Router /comparativecohortanalysis/execution/{eid}/matchedpopdist [get]
func (controller *CohortComparisonController) GetMatchedPopDistribution(c *gin.Context) {
	controller.result(c, func(eid int) (interface{}, error) {
		return controller.service.GetMatchedPopDistribution(c.Request.Context(), eid)
	})
}

// @Summary GetPropensityScoreModel
// @Description Get the auc and covariates of the propensity score model
// @version 1.0
// @Security ApiKeyAuth
// @Param eid path int true "execution id"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"auc":0.81,"covariates":[{"id":1002,"name":"age group: 65-69","value":0.35}]}}"
// @Router /comparativecohortanalysis/execution/{eid}/psmodel [get]
func (controller *CohortComparisonController) GetPropensityScoreModel(c *gin.Context) {
	controller.result(c, func(eid int) (interface{}, error) {
		return controller.service.GetPropensityScoreModelReport(c.Request.Context(), eid)
	})
}
