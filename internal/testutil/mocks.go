// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockRosterProvider is a test double for domain.RosterProvider.
type MockRosterProvider struct {
	Roster  *domain.Roster
	LoadErr error
	Calls   int
}

// Ensure MockRosterProvider implements domain.RosterProvider interface.
var _ domain.RosterProvider = (*MockRosterProvider)(nil)

// Load returns the configured roster or error.
func (m *MockRosterProvider) Load(_ context.Context) (*domain.Roster, error) {
	m.Calls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Roster == nil {
		return &domain.Roster{}, nil
	}
	return m.Roster, nil
}

// MockReportSource is a test double for domain.ReportSource.
// Reports maps a path to its text; ReadErrs fails individual reads.
// With no refs, List fails with ErrNoReports unless ListEmpty is set.
// Fields are ordered to minimize memory padding.
type MockReportSource struct {
	Reports   map[string]string
	ReadErrs  map[string]error
	ListErr   error
	Refs      []domain.ReportRef
	LastSel   domain.Selection
	ListCalls int
	ListEmpty bool
}

// NewMockReportSource creates a source serving the given refs and texts.
func NewMockReportSource() *MockReportSource {
	return &MockReportSource{
		Reports:  make(map[string]string),
		ReadErrs: make(map[string]error),
	}
}

// Ensure MockReportSource implements domain.ReportSource interface.
var _ domain.ReportSource = (*MockReportSource)(nil)

// Add registers a report under path with the date taken from its name.
func (m *MockReportSource) Add(path, text string) {
	date, _ := domain.ParseReportDate(path)
	m.Refs = append(m.Refs, domain.ReportRef{Path: path, Date: date})
	m.Reports[path] = text
}

// List returns all registered refs or the configured error.
func (m *MockReportSource) List(_ context.Context, sel domain.Selection) ([]domain.ReportRef, error) {
	m.ListCalls++
	m.LastSel = sel
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if len(m.Refs) == 0 && !m.ListEmpty {
		return nil, domain.ErrNoReports
	}
	return m.Refs, nil
}

// Read returns the registered text or error.
func (m *MockReportSource) Read(_ context.Context, ref domain.ReportRef) (string, error) {
	if err, ok := m.ReadErrs[ref.Path]; ok {
		return "", err
	}
	text, ok := m.Reports[ref.Path]
	if !ok {
		return "", fmt.Errorf("report %s not found", ref.Path)
	}
	return text, nil
}

// MockTaskStore is an in-memory domain.TaskStore.
// Fields are ordered to minimize memory padding.
type MockTaskStore struct {
	InitErr     error
	ListErr     error
	AddErr      error
	CompleteErr error
	ClearErr    error
	Tasks       []domain.Task
	mu          sync.Mutex
	NextID      int
	Cleared     bool
	Initialized bool
}

// NewMockTaskStore creates an empty store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{NextID: 1}
}

// Ensure MockTaskStore implements domain.TaskStore interface.
var _ domain.TaskStore = (*MockTaskStore)(nil)

// Initialize records the call.
func (m *MockTaskStore) Initialize(_ context.Context) error {
	m.Initialized = true
	return m.InitErr
}

// List returns stored tasks matching the filter.
func (m *MockTaskStore) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []domain.Task
	for i := range m.Tasks {
		if filter.Matches(&m.Tasks[i]) {
			out = append(out, m.Tasks[i])
		}
	}
	return out, nil
}

// AddNew stores tasks whose key is not present yet.
func (m *MockTaskStore) AddNew(_ context.Context, tasks []domain.Task) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return nil, m.AddErr
	}
	seen := make(map[domain.TaskKey]bool, len(m.Tasks))
	for _, t := range m.Tasks {
		seen[t.Key()] = true
	}
	var added []domain.Task
	for _, t := range tasks {
		if seen[t.Key()] {
			continue
		}
		seen[t.Key()] = true
		t.ID = fmt.Sprintf("T%d", m.NextID)
		m.NextID++
		t.Status = domain.StatusPending
		m.Tasks = append(m.Tasks, t)
		added = append(added, t)
	}
	return added, nil
}

// Complete marks a stored task completed.
func (m *MockTaskStore) Complete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CompleteErr != nil {
		return m.CompleteErr
	}
	for i := range m.Tasks {
		if m.Tasks[i].ID == id {
			if !m.Tasks[i].Status.CanTransitionTo(domain.StatusCompleted) {
				return domain.ErrInvalidTransition
			}
			m.Tasks[i].Status = domain.StatusCompleted
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

// Clear removes every task.
func (m *MockTaskStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Tasks = nil
	m.Cleared = true
	return nil
}

// MockNotifier is a test double for domain.Notifier.
// Fields are ordered to minimize memory padding.
type MockNotifier struct {
	Err        error
	TeamLists  [][]domain.AssigneeTasks
	Personal   []domain.AssigneeTasks
	AccountIDs []string
	Summaries  []string
	Reminders  [][]domain.Task
}

// Ensure MockNotifier implements domain.Notifier interface.
var _ domain.Notifier = (*MockNotifier)(nil)

// PostTeamList records the call.
func (m *MockNotifier) PostTeamList(_ context.Context, groups []domain.AssigneeTasks) error {
	m.TeamLists = append(m.TeamLists, groups)
	return m.Err
}

// PostPersonal records the call.
func (m *MockNotifier) PostPersonal(_ context.Context, group domain.AssigneeTasks, accountID string) error {
	m.Personal = append(m.Personal, group)
	m.AccountIDs = append(m.AccountIDs, accountID)
	return m.Err
}

// PostSummary records the call.
func (m *MockNotifier) PostSummary(_ context.Context, date string, _ []domain.AssigneeTasks) error {
	m.Summaries = append(m.Summaries, date)
	return m.Err
}

// PostReminder records the call.
func (m *MockNotifier) PostReminder(_ context.Context, tasks []domain.Task) error {
	m.Reminders = append(m.Reminders, tasks)
	return m.Err
}

// MockTaskValidator is a test double for domain.TaskValidator.
// Reject lists contents to filter out.
type MockTaskValidator struct {
	Err    error
	Reject map[string]bool
	Calls  int
}

// Ensure MockTaskValidator implements domain.TaskValidator interface.
var _ domain.TaskValidator = (*MockTaskValidator)(nil)

// Validate drops rejected tasks.
func (m *MockTaskValidator) Validate(_ context.Context, tasks []domain.Task) ([]domain.Task, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.Task
	for _, t := range tasks {
		if !m.Reject[t.Content] {
			out = append(out, t)
		}
	}
	return out, nil
}

// MockTaskExtractor is a test double for domain.TaskExtractor.
// It returns Tasks for every call and records the reports it saw.
type MockTaskExtractor struct {
	Err     error
	Tasks   []domain.Task
	Reports []domain.Report
	Calls   int
}

// Ensure MockTaskExtractor implements domain.TaskExtractor interface.
var _ domain.TaskExtractor = (*MockTaskExtractor)(nil)

// Extract returns the configured tasks or error.
func (m *MockTaskExtractor) Extract(_ context.Context, reports []domain.Report, _ *domain.Roster) ([]domain.Task, error) {
	m.Calls++
	m.Reports = reports
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tasks, nil
}

// MockTaskWriter is a test double for domain.TaskWriter.
type MockTaskWriter struct {
	Err    error
	Dates  []string
	Groups [][]domain.AssigneeTasks
}

// Ensure MockTaskWriter implements domain.TaskWriter interface.
var _ domain.TaskWriter = (*MockTaskWriter)(nil)

// Write records the call.
func (m *MockTaskWriter) Write(_ context.Context, date string, groups []domain.AssigneeTasks, _ []domain.Report) ([]string, error) {
	m.Dates = append(m.Dates, date)
	m.Groups = append(m.Groups, groups)
	if m.Err != nil {
		return nil, m.Err
	}
	return []string{"/out/" + date + ".md"}, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr     error
	InitGlobalErr    error
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		LocalConfigInfo:  domain.ConfigInfo{Path: "/work/taskbot.toml"},
		GlobalConfigInfo: domain.ConfigInfo{Path: "/home/test/.config/taskbot/config.toml"},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local config info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and returns configured error.
func (m *MockConfigManager) InitLocalConfig(_ *domain.Config) error {
	m.InitLocalCalled = true
	return m.InitLocalErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
