// Package prometheus exposes the service's own metrics and a http service
// discovery document for the instance.
package prometheus

import (
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
)

const namespace = "cohortcmp"

var (
	Registry = promclient.NewRegistry()

	ExecutionsTriggered = promclient.NewCounterVec(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "executions_triggered_total",
		Help:      "Comparative cohort analysis executions triggered, by source.",
	}, []string{"source"})

	JobsFinished = promclient.NewCounterVec(promclient.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_finished_total",
		Help:      "Jobs run to an end, by final status.",
	}, []string{"status"})

	JobDuration = promclient.NewHistogram(promclient.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Wall time of jobs on the remote statistical service.",
		Buckets:   []float64{10, 30, 60, 300, 900, 1800, 3600, 7200},
	})

	ResultQueryDuration = promclient.NewHistogramVec(promclient.HistogramOpts{
		Namespace: namespace,
		Name:      "result_query_duration_seconds",
		Help:      "Latency of result queries against source databases, by result.",
		Buckets:   promclient.DefBuckets,
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		version.NewCollector(namespace),
		ExecutionsTriggered,
		JobsFinished,
		JobDuration,
		ResultQueryDuration,
	)
}

// RegisterGauge adds a gauge whose value is read from fn at scrape time.
func RegisterGauge(name, help string, fn func() float64) error {
	return Registry.Register(promclient.NewGaugeFunc(promclient.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// ObserveQuery records the time spent since start under result.
func ObserveQuery(result string, start time.Time) {
	ResultQueryDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
