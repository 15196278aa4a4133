package model

import (
	"time"
)

const (
	JobStatusWaiting   int = 0
	JobStatusRunning   int = 1
	JobStatusCompleted int = 2
	JobStatusFailed    int = 3
	JobStatusStopped   int = 4

	StepTypeRsb string = "rsbTask"
)

var JobStatusMap = map[int]string{
	JobStatusWaiting:   "STARTING",
	JobStatusRunning:   "STARTED",
	JobStatusCompleted: "COMPLETED",
	JobStatusFailed:    "FAILED",
	JobStatusStopped:   "STOPPED",
}

// RsbStep is the step payload of a job that calls a function on the remote
// statistical service and reports back to an execution record.
type RsbStep struct {
	FunctionName string                 `json:"functionName"`
	Parameters   map[string]interface{} `json:"parameters"`
	ExecutionId  int                    `json:"executionId"`
}

type Job struct {
	JobId      string
	JobName    string
	StepType   string
	Step       RsbStep
	ServerIp   string
	Status     int
	Message    string
	CreateTime time.Time
	UpdateTime time.Time
	EndTime    time.Time
}

type JobInstanceResource struct {
	InstanceId string `json:"instanceId"`
	Name       string `json:"name"`
}

// JobExecutionResource identifies a launched job run, not its result.
type JobExecutionResource struct {
	ExecutionId string              `json:"executionId"`
	Status      string              `json:"status"`
	StartDate   time.Time           `json:"startDate"`
	EndDate     *time.Time          `json:"endDate,omitempty"`
	ExitMessage string              `json:"exitMessage,omitempty"`
	JobInstance JobInstanceResource `json:"jobInstanceResource"`
}

func NewJobExecutionResource(job Job) JobExecutionResource {
	resource := JobExecutionResource{
		ExecutionId: job.JobId,
		Status:      JobStatusMap[job.Status],
		StartDate:   job.CreateTime,
		JobInstance: JobInstanceResource{
			InstanceId: job.JobId,
			Name:       job.JobName,
		},
	}
	if job.Status == JobStatusCompleted || job.Status == JobStatusFailed || job.Status == JobStatusStopped {
		end := job.EndTime
		resource.EndDate = &end
		resource.ExitMessage = job.Message
	}
	return resource
}

type JobResources []JobExecutionResource

func (v JobResources) Len() int           { return len(v) }
func (v JobResources) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }
func (v JobResources) Less(i, j int) bool { return v[i].StartDate.After(v[j].StartDate) }
