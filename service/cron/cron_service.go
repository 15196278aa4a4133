package cron

import (
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/log"
	"github.com/robfig/cron/v3"
)

// Sweeper closes source connections that have been idle for too long.
type Sweeper interface {
	Sweep()
}

type CronService struct {
	config       config.CronJob
	jobSchedules map[int16]string
	jobList      map[int16]func() error
	cron         *cron.Cron
}

func NewCronService(config config.CronJob, sweeper Sweeper) *CronService {
	job := &CronService{
		config:       config,
		jobSchedules: make(map[int16]string),
		cron:         cron.New(cron.WithSeconds()),
	}
	job.jobList = map[int16]func() error{
		JOB_PURGE_JOBS: func() error {
			_, err := PurgeJobs(config.JobRetentionDays)
			return err
		},
		JOB_SWEEP_CONNECTIONS: func() error {
			sweeper.Sweep()
			return nil
		},
	}
	return job
}

func (job *CronService) schedulePadding() {
	job.jobSchedules[JOB_PURGE_JOBS] = common.GetStringwithDefault(job.config.PurgeJobs, SCHEDULE_EVERY_HOUR)
	job.jobSchedules[JOB_SWEEP_CONNECTIONS] = common.GetStringwithDefault(job.config.SweepConnections, SCHEDULE_SWEEP_DEFAULT)
}

func (job *CronService) Start() error {
	if !job.config.Enabled {
		log.Logger.Infof("cron service disabled")
		return nil
	}
	job.schedulePadding()
	for k, v := range job.jobList {
		k := k
		v := v
		if spec, ok := job.jobSchedules[k]; ok {
			if _, err := job.cron.AddFunc(spec, func() {
				if err := v(); err != nil {
					log.Logger.Errorf("cron job %d failed: %v", k, err)
				}
			}); err != nil {
				return err
			}
		}
	}
	job.cron.Start()
	return nil
}

func (job *CronService) Stop() {
	<-job.cron.Stop().Done()
	log.Logger.Infof("cron service stopped")
}
