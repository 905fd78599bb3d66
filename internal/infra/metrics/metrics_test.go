package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

func TestMetrics_Counters(t *testing.T) {
	// Setup
	m := New()

	// Execute
	m.ReportParsed()
	m.ReportParsed()
	m.ReportSkipped()
	m.TasksExtracted(domain.KindNextAction, 3)
	m.TasksExtracted(domain.KindRequiredAction, 2)
	m.TasksDefaulted(1)
	m.TasksDuplicated(4)
	m.TasksPersisted(5)
	m.Notification(ResultSuccess)
	m.Notification(ResultFailure)
	m.Notification(ResultSuccess)

	// Assert
	assert.InDelta(t, 2, testutil.ToFloat64(m.reportsParsed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.reportsSkipped), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.tasksExtracted.WithLabelValues("next_action")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.tasksExtracted.WithLabelValues("required_action")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.tasksDefaulted), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(m.tasksDuplicates), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(m.tasksPersisted), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.notifications.WithLabelValues(ResultSuccess)), 0)
}

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.ReportParsed()

	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP taskbot_reports_parsed_total Daily reports parsed
# TYPE taskbot_reports_parsed_total counter
taskbot_reports_parsed_total 1
`), "taskbot_reports_parsed_total")

	assert.NoError(t, err)
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	m := New()
	m.ObserveValidator(150 * time.Millisecond)
	path := filepath.Join(t.TempDir(), "taskbot.prom")

	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "taskbot_validator_duration_seconds_count 1")
}
