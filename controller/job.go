package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/go-errors/errors"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/service/runner"
)

const (
	JobIdPath = "jobId"
)

type JobController struct {
	Controller
	runner *runner.RunnerService
}

func NewJobController(runner *runner.RunnerService, wrapfunc Wrapfunc) *JobController {
	return &JobController{
		Controller: Controller{
			wrapfunc: wrapfunc,
		},
		runner: runner,
	}
}

// @Summary GetJobById
// @Description Get a job run by id
// @version 1.0
// @Security ApiKeyAuth
// @Param jobId path string true "job id" default(608e9e83-715e-7448-a149-9bef33f38cfe)
// @Failure 404 {string} json "{"code":"5100","msg":"record not found","data":null}"
// @Success 200 {string} json "{"code":"0000","msg":"success","data":{"executionId":"608e9e83-715e-7448-a149-9bef33f38cfe","status":"COMPLETED","startDate":"2023-09-01T10:00:00Z","endDate":"2023-09-01T10:30:20Z","exitMessage":"COMPLETED","jobInstanceResource":{"instanceId":"608e9e83-715e-7448-a149-9bef33f38cfe","name":"executing cohort comparison on SYNPUF"}}}"
// @Router /job/{jobId} [get]
func (controller *JobController) GetJob(c *gin.Context) {
	jobId := c.Param(JobIdPath)
	if jobId == "" {
		controller.wrapfunc(c, model.E_INVALID_PARAMS, errors.New("expect jobId but got null"))
		return
	}
	job, err := controller.runner.GetJob(jobId)
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, job)
}

// @Summary JobsList
// @Description Get all job runs, latest first
// @version 1.0
// @Security ApiKeyAuth
// @Success 200 {string} json "{"code":"0000","msg":"success","data":[{"executionId":"608e9e83-715e-7448-a149-9bef33f38cfe","status":"STARTED","startDate":"2023-09-01T10:00:00Z","jobInstanceResource":{"instanceId":"608e9e83-715e-7448-a149-9bef33f38cfe","name":"executing cohort comparison on SYNPUF"}}]}"
// @Router /job/ [get]
func (controller *JobController) JobsList(c *gin.Context) {
	jobs, err := controller.runner.GetAllJobs()
	if err != nil {
		controller.fail(c, model.E_DATA_SELECT_FAILED, err)
		return
	}
	controller.wrapfunc(c, model.E_SUCCESS, jobs)
}
