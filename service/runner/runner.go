package runner

import (
	"context"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-basic/uuid"
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
	"github.com/housepower/cohortcmp/service/prometheus"
	"github.com/pkg/errors"
)

type StepHandler func(ctx context.Context, job *model.Job) error

type RunnerService struct {
	Pool     *common.WorkerPool
	ServerIp string
	Interval int
	Done     chan struct{}
	Handlers map[string]StepHandler

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	checking int32
}

func NewRunnerService(serverIp string, config config.CohortServerConfig, invoker Invoker) *RunnerService {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &RunnerService{
		ServerIp: serverIp,
		Interval: config.TaskInterval,
		Pool:     common.NewWorkerPool(config.MaxWorkers, 2*config.MaxWorkers),
		Done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	runner.Handlers = map[string]StepHandler{
		model.StepTypeRsb: RsbTaskHandle(invoker),
	}
	return runner
}

// Launch persists a job for this instance and returns at once; the job is
// picked up by the next poll.
func (runner *RunnerService) Launch(jobName, stepType string, step model.RsbStep) (model.JobExecutionResource, error) {
	if _, ok := runner.Handlers[stepType]; !ok {
		return model.JobExecutionResource{}, errors.Errorf("unknown step type %s", stepType)
	}
	now := time.Now()
	job := model.Job{
		JobId:      uuid.New(),
		JobName:    jobName,
		StepType:   stepType,
		Step:       step,
		ServerIp:   runner.ServerIp,
		Status:     model.JobStatusWaiting,
		Message:    model.JobStatusMap[model.JobStatusWaiting],
		CreateTime: now,
		UpdateTime: now,
	}
	if err := repository.Ps.CreateJob(job); err != nil {
		return model.JobExecutionResource{}, err
	}
	log.Logger.Infof("job %s [%s] launched", job.JobId, jobName)
	return model.NewJobExecutionResource(job), nil
}

func (runner *RunnerService) Start() {
	log.Logger.Infof("runner service starting...")
	go runner.Run()
}

func (runner *RunnerService) Run() {
	interval := runner.Interval
	if interval <= 0 {
		interval = 5
	}
	ticker := time.NewTicker(time.Second * time.Duration(interval))
	defer ticker.Stop()
	for {
		select {
		case <-runner.Done:
			return
		case <-ticker.C:
			runner.poll()
		}
	}
}

// poll starts a check unless the previous one is still blocked submitting to
// a full pool.
func (runner *RunnerService) poll() bool {
	if !atomic.CompareAndSwapInt32(&runner.checking, 0, 1) {
		return false
	}
	go func() {
		defer atomic.StoreInt32(&runner.checking, 0)
		runner.CheckJobEvent()
	}()
	return true
}

// CheckJobEvent claims the waiting jobs of this instance and hands them to
// the pool. It does not wait for them to finish.
func (runner *RunnerService) CheckJobEvent() {
	jobs, err := repository.Ps.GetPendingJobs(runner.ServerIp)
	if err != nil {
		log.Logger.Errorf("get pending jobs failed: %v", err)
		return
	}

	for _, job := range jobs {
		job := job
		// claim before submitting so the next tick does not pick it again
		if err := SetJobStatus(&job, model.JobStatusRunning, model.JobStatusMap[model.JobStatusRunning]); err != nil {
			log.Logger.Errorf("claim job %s failed: %v", job.JobId, err)
			continue
		}
		err := runner.Pool.Submit(func() {
			if err := runner.ProcessWithStepType(&job); err != nil {
				log.Logger.Errorf("%s failed: %v", job.StepType, err)
			}
		})
		if err != nil {
			// pool closed by Stop, hand the job back for the next start
			_ = SetJobStatus(&job, model.JobStatusWaiting, model.JobStatusMap[model.JobStatusWaiting])
		}
	}
}

// ProcessWithStepType runs a claimed job to its end state.
func (runner *RunnerService) ProcessWithStepType(job *model.Job) (err error) {
	log.Logger.Infof("job %s [%s] %s is triggered", job.JobId, job.JobName, job.StepType)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			// update job status failed while the step panics
			_ = SetJobStatus(job, model.JobStatusFailed, "panic")
			log.Logger.Errorf("panic: %v", string(debug.Stack()))
			err = errors.Errorf("job %s panic: %v", job.JobId, r)
		}
		prometheus.JobDuration.Observe(time.Since(start).Seconds())
	}()
	handler, ok := runner.Handlers[job.StepType]
	if !ok {
		err = errors.Errorf("unknown step type %s", job.StepType)
		_ = SetJobStatus(job, model.JobStatusFailed, err.Error())
		return err
	}
	if err = handler(runner.ctx, job); err != nil {
		_ = SetJobStatus(job, model.JobStatusFailed, err.Error())
		return err
	}
	return SetJobStatus(job, model.JobStatusCompleted, model.JobStatusMap[model.JobStatusCompleted])
}

func SetJobStatus(job *model.Job, status int, message string) error {
	job.Status = status
	job.Message = message
	job.UpdateTime = time.Now()
	switch status {
	case model.JobStatusCompleted, model.JobStatusFailed, model.JobStatusStopped:
		job.EndTime = job.UpdateTime
		prometheus.JobsFinished.WithLabelValues(model.JobStatusMap[status]).Inc()
	}
	return repository.Ps.UpdateJob(*job)
}

func (runner *RunnerService) Stop() {
	runner.Pool.Close()
	if runner.checkDone() {
		log.Logger.Infof("all jobs are finished, exit gracefully")
		runner.Shutdown()
		return
	}

	//if have job still running, hold on 60000ms, then force shutdown
	log.Logger.Infof("still have job running, programe will exit after 60000ms")
	ticker := time.NewTicker(time.Second * time.Duration(10))
	timeout := time.NewTicker(time.Minute * time.Duration(1))
	defer ticker.Stop()
	defer timeout.Stop()
	for {
		select {
		case <-ticker.C: //check every 10s
			if runner.checkDone() {
				log.Logger.Infof("all jobs are finished, exit gracefully")
				runner.Shutdown()
				return
			}
		case <-timeout.C:
			log.Logger.Warnf("time out waiting for job running, ignore and force exit.")
			runner.StopRunningJobs()
			runner.Shutdown()
			return
		}
	}
}

// StopRunningJobs cancels in-flight remote calls and marks the running jobs
// of this instance stopped, failing the executions they were computing.
func (runner *RunnerService) StopRunningJobs() {
	runner.cancel()
	jobs, _ := repository.Ps.GetAllJobs()
	for _, job := range jobs {
		if job.Status == model.JobStatusRunning && job.ServerIp == runner.ServerIp {
			job := job
			if job.StepType == model.StepTypeRsb {
				if err := finishExecution(job.Step.ExecutionId, model.ExecutionStatusFailed, time.Since(job.UpdateTime)); err != nil {
					log.Logger.Errorf("fail execution %d of stopped job %s: %v", job.Step.ExecutionId, job.JobId, err)
				}
			}
			_ = SetJobStatus(&job, model.JobStatusStopped, model.JobStatusMap[model.JobStatusStopped])
		}
	}
}

func (runner *RunnerService) Shutdown() {
	runner.stopOnce.Do(func() { close(runner.Done) })
}

func (runner *RunnerService) checkDone() bool {
	jobs, err := repository.Ps.GetAllJobs()
	if err != nil {
		return true
	}
	for _, job := range jobs {
		if job.Status == model.JobStatusRunning && job.ServerIp == runner.ServerIp {
			return false
		}
	}
	return true
}

func (runner *RunnerService) GetJob(jobId string) (model.JobExecutionResource, error) {
	job, err := repository.Ps.GetJobById(jobId)
	if err != nil {
		return model.JobExecutionResource{}, err
	}
	return model.NewJobExecutionResource(job), nil
}

func (runner *RunnerService) GetAllJobs() (model.JobResources, error) {
	jobs, err := repository.Ps.GetAllJobs()
	if err != nil {
		return nil, err
	}
	resources := make(model.JobResources, 0, len(jobs))
	for _, job := range jobs {
		resources = append(resources, model.NewJobExecutionResource(job))
	}
	sort.Sort(resources)
	return resources, nil
}
