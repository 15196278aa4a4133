package runner

import (
	"context"
	"time"

	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/pkg/errors"
)

// Invoker calls a function on the remote statistical service.
type Invoker interface {
	Invoke(ctx context.Context, functionName string, params map[string]interface{}) ([]byte, error)
}

// RsbTaskHandle runs the remote function of a job and reports the outcome on
// the execution record the step points to.
func RsbTaskHandle(invoker Invoker) StepHandler {
	return func(ctx context.Context, job *model.Job) error {
		step := job.Step
		if step.FunctionName == "" {
			return errors.Errorf("job %s has no function to invoke", job.JobId)
		}
		start := time.Now()
		_, invokeErr := invoker.Invoke(ctx, step.FunctionName, step.Parameters)
		status := model.ExecutionStatusCompleted
		if invokeErr != nil {
			status = model.ExecutionStatusFailed
		}
		if err := finishExecution(step.ExecutionId, status, time.Since(start)); err != nil {
			log.Logger.Errorf("update execution %d of job %s failed: %v", step.ExecutionId, job.JobId, err)
			if invokeErr == nil {
				return err
			}
		}
		if invokeErr != nil {
			return errors.Wrapf(invokeErr, "invoke %s", step.FunctionName)
		}
		log.Logger.Infof("job %s: %s finished in %v", job.JobId, step.FunctionName, time.Since(start))
		return nil
	}
}

func finishExecution(executionId int, status string, elapsed time.Duration) error {
	if executionId == 0 {
		return nil
	}
	execution, err := repository.Ps.GetExecutionById(executionId)
	if err != nil {
		return err
	}
	execution.ExecutionStatus = status
	execution.Duration = int(elapsed.Seconds())
	return repository.Ps.UpdateExecution(execution)
}
