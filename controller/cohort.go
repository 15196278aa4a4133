package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/service/cohort"
)

const (
	CohortIdPath = "id"
)

type CohortController struct {
	Controller
	cohorts *cohort.CohortService
}

func NewCohortController(cohorts *cohort.CohortService, wrapfunc Wrapfunc) *CohortController {
	return &CohortController{
		Controller: Controller{
			wrapfunc: wrapfunc,
		},
		cohorts: cohorts,
	}
}

// @Summary GetCohortDefinitions
// @Description Get all cohort definitions
// @version 1.0
// @Security ApiKeyAuth
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"id":1,"name":"ACE inhibitors","description":""}]}"
// @Router /cohortdefinition/ [get]
func (controller *CohortController) GetCohortDefinitions(c *gin.Context) {
	defs, err := controller.cohorts.GetAllCohortDefinitions()
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, defs)
}

// @Summary GetCohortDefinition
// @Description Get a cohort definition by id
// @version 1.0
// @Security ApiKeyAuth
// @Param id path int true "cohort definition id"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"id":1,"name":"ACE inhibitors","description":""}}"
// @Router /cohortdefinition/{id} [get]
func (controller *CohortController) GetCohortDefinition(c *gin.Context) {
	id, err := intParam(c, CohortIdPath)
	if err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	def, err := controller.cohorts.GetCohortDefinition(id)
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, def)
}

// @Summary SaveCohortDefinition
// @Description Create or update a cohort definition
// @version 1.0
// @Security ApiKeyAuth
// @Param req body model.CohortDefinition true "cohort definition"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"id":1,"name":"ACE inhibitors","description":""}}"
// @Router /cohortdefinition/ [post]
func (controller *CohortController) SaveCohortDefinition(c *gin.Context) {
	var def model.CohortDefinition
	if err := model.DecodeRequestBody(c.Request, &def); err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	if err := controller.cohorts.SaveCohortDefinition(&def); err != nil {
		controller.fail(c, model.E_DATA_CHECK_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, def)
}

// @Summary GetConceptSets
// @Description Get all concept sets
// @version 1.0
// @Security ApiKeyAuth
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"id":9,"name":"Prior angioedema","expression":"{\"items\":[]}"}]}"
// @Router /conceptset/ [get]
func (controller *CohortController) GetConceptSets(c *gin.Context) {
	sets, err := controller.cohorts.GetAllConceptSets()
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, sets)
}

// @Summary GetConceptSet
// @Description Get a concept set by id
// @version 1.0
// @Security ApiKeyAuth
// @Param id path int true "concept set id"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"id":9,"name":"Prior angioedema","expression":"{\"items\":[]}"}}"
// @Router /conceptset/{id} [get]
func (controller *CohortController) GetConceptSet(c *gin.Context) {
	id, err := intParam(c, CohortIdPath)
	if err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	set, err := controller.cohorts.GetConceptSet(id)
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, set)
}

// @Summary SaveConceptSet
// @Description Create or update a concept set; the expression must parse
// @version 1.0
// @Security ApiKeyAuth
// @Param req body model.ConceptSet true "concept set"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"id":9,"name":"Prior angioedema","expression":"{\"items\":[]}"}}"
// @Router /conceptset/ [post]
func (controller *CohortController) SaveConceptSet(c *gin.Context) {
	var set model.ConceptSet
	if err := model.DecodeRequestBody(c.Request, &set); err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	if err := controller.cohorts.SaveConceptSet(&set); err != nil {
		controller.fail(c, model.E_DATA_CHECK_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, set)
}
