// Package metrics counts generate-pipeline events on a private Prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

const namespace = "taskbot"

// Notification results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics implements domain.MetricsRecorder.
type Metrics struct {
	registry          *prometheus.Registry
	reportsParsed     prometheus.Counter
	reportsSkipped    prometheus.Counter
	tasksExtracted    *prometheus.CounterVec
	tasksDefaulted    prometheus.Counter
	tasksDuplicates   prometheus.Counter
	tasksPersisted    prometheus.Counter
	notifications     *prometheus.CounterVec
	validatorDuration prometheus.Histogram
}

// Ensure Metrics implements domain.MetricsRecorder.
var _ domain.MetricsRecorder = (*Metrics)(nil)

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		reportsParsed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_parsed_total",
			Help:      "Daily reports parsed",
		}),
		reportsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_skipped_total",
			Help:      "Daily reports that could not be read",
		}),
		tasksExtracted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_extracted_total",
			Help:      "Tasks extracted from reports",
		}, []string{"kind"}),
		tasksDefaulted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_defaulted_total",
			Help:      "Required actions assigned to the operator by default",
		}),
		tasksDuplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_duplicates_total",
			Help:      "Tasks collapsed by (assignee, content)",
		}),
		tasksPersisted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_persisted_total",
			Help:      "Tasks newly added to the store",
		}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Chat notifications by result",
		}, []string{"result"}),
		validatorDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validator_duration_seconds",
			Help:      "Time spent validating tasks",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		}),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ReportParsed counts one parsed report.
func (m *Metrics) ReportParsed() { m.reportsParsed.Inc() }

// ReportSkipped counts one unreadable report.
func (m *Metrics) ReportSkipped() { m.reportsSkipped.Inc() }

// TasksExtracted adds n tasks of kind.
func (m *Metrics) TasksExtracted(kind domain.Kind, n int) {
	m.tasksExtracted.WithLabelValues(string(kind)).Add(float64(n))
}

// TasksDefaulted adds n operator-defaulted tasks.
func (m *Metrics) TasksDefaulted(n int) { m.tasksDefaulted.Add(float64(n)) }

// TasksDuplicated adds n collapsed duplicates.
func (m *Metrics) TasksDuplicated(n int) { m.tasksDuplicates.Add(float64(n)) }

// TasksPersisted adds n stored tasks.
func (m *Metrics) TasksPersisted(n int) { m.tasksPersisted.Add(float64(n)) }

// Notification counts one post with result.
func (m *Metrics) Notification(result string) {
	m.notifications.WithLabelValues(result).Inc()
}

// ObserveValidator records one validation pass.
func (m *Metrics) ObserveValidator(d time.Duration) {
	m.validatorDuration.Observe(d.Seconds())
}

// WriteToTextfile writes the registry in text exposition format, for node_exporter's textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
