package api_test

import (
	"context"
	"sync"

	"github.com/actilog/actilog/internal/models"
	"github.com/actilog/actilog/internal/recorder"
)

// mockReader is a function-field LogReader double.
type mockReader struct {
	listFn      func(ctx context.Context) ([]models.LogEntry, error)
	searchFn    func(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
	usernamesFn func(ctx context.Context) ([]string, error)
}

func (m *mockReader) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}

	return nil, nil
}

func (m *mockReader) Search(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, filter)
	}

	return nil, nil
}

func (m *mockReader) Usernames(ctx context.Context) ([]string, error) {
	if m.usernamesFn != nil {
		return m.usernamesFn(ctx)
	}

	return nil, nil
}

// mockDeleter is a function-field LogDeleter double.
type mockDeleter struct {
	deleteFn   func(ctx context.Context, id int64, confirmToken string) error
	bulkFn     func(ctx context.Context, rawIDs []string, confirmToken string) (int64, error)
	teardownFn func(ctx context.Context) (int64, error)
}

func (m *mockDeleter) Delete(ctx context.Context, id int64, confirmToken string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, confirmToken)
	}

	return nil
}

func (m *mockDeleter) BulkDelete(ctx context.Context, rawIDs []string, confirmToken string) (int64, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, rawIDs, confirmToken)
	}

	return 0, nil
}

func (m *mockDeleter) Teardown(ctx context.Context) (int64, error) {
	if m.teardownFn != nil {
		return m.teardownFn(ctx)
	}

	return 0, nil
}

// mockExporter is a function-field Exporter double.
type mockExporter struct {
	exportFn func(ctx context.Context, filter *models.LogFilter) (*models.ExportArtifact, error)
}

func (m *mockExporter) Export(ctx context.Context, filter *models.LogFilter) (*models.ExportArtifact, error) {
	if m.exportFn != nil {
		return m.exportFn(ctx, filter)
	}

	return &models.ExportArtifact{Filename: "activity_logs_test.csv", Data: []byte("\"ID\"\n")}, nil
}

// mockSettingsSvc is a function-field SettingsManager double.
type mockSettingsSvc struct {
	getFn    func(ctx context.Context) (models.Settings, error)
	updateFn func(ctx context.Context, settings models.Settings) error
}

func (m *mockSettingsSvc) Get(ctx context.Context) (models.Settings, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}

	return models.DefaultSettings(), nil
}

func (m *mockSettingsSvc) Update(ctx context.Context, settings models.Settings) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, settings)
	}

	return nil
}

// mockMinter returns a fixed token for any scope and remembers the scopes.
type mockMinter struct {
	mu     sync.Mutex
	scopes []string
}

func (m *mockMinter) Issue(scope string) string {
	m.mu.Lock()
	m.scopes = append(m.scopes, scope)
	m.mu.Unlock()

	return "tok-" + scope
}

// mockSink collects enqueued jobs.
type mockSink struct {
	mu   sync.Mutex
	jobs []*recorder.Job
}

func (m *mockSink) Enqueue(job *recorder.Job) {
	m.mu.Lock()
	m.jobs = append(m.jobs, job)
	m.mu.Unlock()
}

func (m *mockSink) queued() []*recorder.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*recorder.Job, len(m.jobs))
	copy(out, m.jobs)

	return out
}
