package cron

const (
	JOB_NULL = iota
	JOB_PURGE_JOBS
	JOB_SWEEP_CONNECTIONS
)

const (
	SCHEDULE_EVERY_DAY  = "0 0 0 * * ?"
	SCHEDULE_EVERY_HOUR = "0 0 * * * ?"
	SCHEDULE_EVERY_MIN  = "0 * * * * ?"
	SCHEDULE_EVERY_SEC  = "* * * * * ?"

	SCHEDULE_SWEEP_DEFAULT = "0 */5 * * * ?"
)
