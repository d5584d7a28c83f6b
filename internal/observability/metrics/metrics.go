// Package metrics exposes prometheus instruments for the workflow engine
// and the reconciliation scheduler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	workflowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finance_invoice_transitions_total",
		Help: "Invoice workflow transitions by resulting status.",
	}, []string{"status"})

	reconcileRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finance_reconcile_records_total",
		Help: "Reconciliation ledger records by processing result.",
	}, []string{"result"})

	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finance_scheduler_job_runs_total",
		Help: "Scheduler job executions.",
	}, []string{"job"})

	jobErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finance_scheduler_job_errors_total",
		Help: "Scheduler job executions that returned an error.",
	}, []string{"job"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "finance_scheduler_job_duration_seconds",
		Help:    "Scheduler job wall-clock duration.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"job"})
)

const (
	ReconcileResultInserted = "inserted"
	ReconcileResultUpdated  = "updated"
	ReconcileResultFailed   = "failed"
)

func IncTransition(status string) {
	workflowTransitions.WithLabelValues(status).Inc()
}

func IncReconcileRecord(result string) {
	reconcileRecords.WithLabelValues(result).Inc()
}

func IncJobRun(job string) {
	jobRuns.WithLabelValues(job).Inc()
}

func IncJobError(job string) {
	jobErrors.WithLabelValues(job).Inc()
}

func ObserveJobDuration(job string, d time.Duration) {
	jobDuration.WithLabelValues(job).Observe(d.Seconds())
}
