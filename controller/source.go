package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/go-errors/errors"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/service/source"
)

type SourceController struct {
	Controller
	sources *source.SourceService
}

func NewSourceController(sources *source.SourceService, wrapfunc Wrapfunc) *SourceController {
	return &SourceController{
		Controller: Controller{
			wrapfunc: wrapfunc,
		},
		sources: sources,
	}
}

// @Summary GetSources
// @Description Get all sources; connection strings are left out
// @version 1.0
// @Security ApiKeyAuth
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"sourceId":1,"sourceName":"SynPUF","sourceKey":"SYNPUF","sourceDialect":"postgresql","sourceConnection":"","daimons":[{"daimonType":"CDM","tableQualifier":"cdm","priority":0}]}]}"
// @Router /source/ [get]
func (controller *SourceController) GetSources(c *gin.Context) {
	sources, err := controller.sources.GetAllSources()
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	for i := range sources {
		sources[i].SourceConnection = ""
	}
	controller.wrapfunc(c, model.E_SUCCESS, sources)
}

// @Summary GetSource
// @Description Get a source by key
// @version 1.0
// @Security ApiKeyAuth
// @Param sourceKey path string true "source key" default(SYNPUF)
// @Failure 404 {string} json "{"code":"5100","msg":"record not found","data":null}"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"sourceKey":"SYNPUF","sourceDialect":"postgresql","sourceConnection":"jdbc:postgresql://127.0.0.1:5432/cdm?user=ohdsi&password=ohdsi"}}"
// @Router /source/{sourceKey} [get]
func (controller *SourceController) GetSource(c *gin.Context) {
	src, err := controller.sources.GetSource(c.Param(SourceKeyPath))
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, src)
}

// @Summary SaveSource
// @Description Register a source or replace the one with the same key
// @version 1.0
// @Security ApiKeyAuth
// @Param req body model.Source true "source"
// @Failure 400 {string} json "{"code":"5000","msg":"invalid params","data":null}"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":null}"
// @Router /source/ [post]
func (controller *SourceController) SaveSource(c *gin.Context) {
	var src model.Source
	if err := model.DecodeRequestBody(c.Request, &src); err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	if err := src.Validate(); err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	if _, err := source.ToDSN(src.SourceDialect, src.SourceConnection); err != nil {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, err)
		return
	}
	if err := controller.sources.SaveSource(&src); err != nil {
		controller.fail(c, model.E_DATA_INSERT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, nil)
}

// @Summary DeleteSource
// @Description Delete a source and close its connections
// @version 1.0
// @Security ApiKeyAuth
// @Param sourceKey path string true "source key" default(SYNPUF)
// @Success 200 {string} json "{"code":"0000","msg":"success","data":null}"
// @Router /source/{sourceKey} [delete]
func (controller *SourceController) DeleteSource(c *gin.Context) {
	key := c.Param(SourceKeyPath)
	if key == "" {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, errors.New("expect sourceKey but got null"))
		return
	}
	if err := controller.sources.DeleteSource(key); err != nil {
		controller.fail(c, model.E_DATA_DELETE_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, nil)
}
