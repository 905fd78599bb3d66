package usecase

import (
	"time"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// Notification results recorded in metrics.
const (
	notifySuccess = "success"
	notifyFailure = "failure"
)

// nopMetrics discards every observation.
type nopMetrics struct{}

var _ domain.MetricsRecorder = nopMetrics{}

func (nopMetrics) ReportParsed() {}
func (nopMetrics) ReportSkipped() {}
func (nopMetrics) TasksExtracted(domain.Kind, int) {}
func (nopMetrics) TasksDefaulted(int) {}
func (nopMetrics) TasksDuplicated(int) {}
func (nopMetrics) TasksPersisted(int) {}
func (nopMetrics) Notification(string) {}
func (nopMetrics) ObserveValidator(time.Duration) {}
