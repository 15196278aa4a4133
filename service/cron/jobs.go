package cron

import (
	"time"

	"github.com/housepower/cohortcmp/log"
	"github.com/housepower/cohortcmp/model"
	"github.com/housepower/cohortcmp/repository"
)

// PurgeJobs deletes jobs that ended more than retentionDays ago and returns
// how many were removed. Execution records are kept.
func PurgeJobs(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	jobs, err := repository.Ps.GetAllJobs()
	if err != nil {
		return 0, err
	}
	deadline := time.Now().AddDate(0, 0, -retentionDays)
	purged := 0
	for _, job := range jobs {
		switch job.Status {
		case model.JobStatusCompleted, model.JobStatusFailed, model.JobStatusStopped:
		default:
			continue
		}
		if job.EndTime.IsZero() || job.EndTime.After(deadline) {
			continue
		}
		if err = repository.Ps.DeleteJob(job.JobId); err != nil {
			return purged, err
		}
		purged++
	}
	if purged > 0 {
		log.Logger.Infof("purged %d jobs finished before %s", purged, deadline.Format(time.RFC3339))
	}
	return purged, nil
}
