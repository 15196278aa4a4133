package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housepower/cohortcmp/controller"
	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/service/cohort"
	"github.com/housepower/cohortcmp/service/cohortcomparison"
	"github.com/housepower/cohortcmp/service/runner"
	"github.com/housepower/cohortcmp/service/source"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ResponseBody struct {
	Code string      `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// Services are the collaborators the controllers are built on.
type Services struct {
	CohortComparison *cohortcomparison.CohortComparisonService
	Sources          *source.SourceService
	Cohorts          *cohort.CohortService
	Runner           *runner.RunnerService
}

func HttpStatus(retCode string) int {
	switch retCode {
	case model.E_SUCCESS:
		return http.StatusOK
	case model.E_INVALID_PARAMS, model.E_DATA_CHECK_FAILED, model.E_DATA_EMPTY:
		return http.StatusBadRequest
	case model.E_RECORD_NOT_FOUND, model.E_DATA_NOT_EXIST:
		return http.StatusNotFound
	case model.E_JWT_TOKEN_INVALID, model.E_JWT_TOKEN_NONE:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func WrapMsg(c *gin.Context, retCode string, entity interface{}) {
	c.Status(HttpStatus(retCode))
	c.Header("Content-Type", "application/json; charset=utf-8")

	retMsg := model.GetMsg(c, retCode)
	if retCode != model.E_SUCCESS {
		log.Logger.Errorf("%s %s return %s, %v", c.Request.Method, c.Request.RequestURI, retCode, entity)
		if err, ok := entity.(error); ok {
			retMsg += ": " + err.Error()
		} else if s, ok := entity.(string); ok {
			retMsg += ": " + s
		}
		entity = nil
	}

	resp := ResponseBody{
		Code: retCode,
		Msg:  retMsg,
		Data: entity,
	}
	jsonBytes, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Logger.Errorf("%s %s marshal response body fail: %s", c.Request.Method, c.Request.RequestURI, err.Error())
		return
	}

	log.Logger.Debugf("[response] | %s | %s | %s \n%v", c.Request.Host, c.Request.Method, c.Request.URL, string(jsonBytes))

	_, err = c.Writer.Write(jsonBytes)
	if err != nil {
		log.Logger.Errorf("%s %s write response body fail: %s", c.Request.Method, c.Request.RequestURI, err.Error())
		return
	}
}

func InitRouter(group *gin.RouterGroup, services Services) {
	ccaController := controller.NewCohortComparisonController(services.CohortComparison, WrapMsg)
	sourceController := controller.NewSourceController(services.Sources, WrapMsg)
	cohortController := controller.NewCohortController(services.Cohorts, WrapMsg)
	jobController := controller.NewJobController(services.Runner, WrapMsg)
	configController := controller.NewConfigController(WrapMsg)

	cca := group.Group("/comparativecohortanalysis")
	cca.GET("/", ccaController.ListAnalyses)
	cca.POST("/", ccaController.SaveAnalysis)
	cca.GET(fmt.Sprintf("/execution/:%s", controller.ExecutionIdPath), ccaController.GetExecution)
	cca.GET(fmt.Sprintf("/execution/:%s/attrition", controller.ExecutionIdPath), ccaController.GetAttrition)
	cca.GET(fmt.Sprintf("/execution/:%s/balance", controller.ExecutionIdPath), ccaController.GetBalance)
	cca.GET(fmt.Sprintf("/execution/:%s/psmodeldist", controller.ExecutionIdPath), ccaController.GetPsModelDistribution)
	cca.GET(fmt.Sprintf("/execution/:%s/matchedpopdist", controller.ExecutionIdPath), ccaController.GetMatchedPopDistribution)
	cca.GET(fmt.Sprintf("/execution/:%s/psmodel", controller.ExecutionIdPath), ccaController.GetPropensityScoreModel)
	cca.GET(fmt.Sprintf("/:%s", controller.AnalysisIdPath), ccaController.GetAnalysis)
	cca.GET(fmt.Sprintf("/:%s/executions", controller.AnalysisIdPath), ccaController.GetExecutions)
	cca.GET(fmt.Sprintf("/:%s/execute/:%s", controller.AnalysisIdPath, controller.SourceKeyPath), ccaController.Execute)

	group.GET("/source/", sourceController.GetSources)
	group.POST("/source/", sourceController.SaveSource)
	group.GET(fmt.Sprintf("/source/:%s", controller.SourceKeyPath), sourceController.GetSource)
	group.DELETE(fmt.Sprintf("/source/:%s", controller.SourceKeyPath), sourceController.DeleteSource)

	group.GET("/cohortdefinition/", cohortController.GetCohortDefinitions)
	group.POST("/cohortdefinition/", cohortController.SaveCohortDefinition)
	group.GET(fmt.Sprintf("/cohortdefinition/:%s", controller.CohortIdPath), cohortController.GetCohortDefinition)
	group.GET("/conceptset/", cohortController.GetConceptSets)
	group.POST("/conceptset/", cohortController.SaveConceptSet)
	group.GET(fmt.Sprintf("/conceptset/:%s", controller.CohortIdPath), cohortController.GetConceptSet)

	group.GET("/job/", jobController.JobsList)
	group.GET(fmt.Sprintf("/job/:%s", controller.JobIdPath), jobController.GetJob)

	group.GET("/version", configController.GetVersion)
	group.GET("/dialects", configController.GetDialects)
}
