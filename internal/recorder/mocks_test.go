package recorder_test

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// insertedEntry captures one Insert call.
type insertedEntry struct {
	Username string
	Action   string
	LogTime  time.Time
}

// mockStore is a function-field EntryStore double that records inserts.
type mockStore struct {
	mu       sync.Mutex
	inserted []insertedEntry

	ensureFn func(ctx context.Context) error
	insertFn func(ctx context.Context, username, action string, logTime time.Time) (int64, error)
}

func (m *mockStore) EnsureSchema(ctx context.Context) error {
	if m.ensureFn != nil {
		return m.ensureFn(ctx)
	}

	return nil
}

func (m *mockStore) Insert(ctx context.Context, username, action string, logTime time.Time) (int64, error) {
	m.mu.Lock()
	m.inserted = append(m.inserted, insertedEntry{Username: username, Action: action, LogTime: logTime})
	m.mu.Unlock()

	if m.insertFn != nil {
		return m.insertFn(ctx, username, action, logTime)
	}

	return int64(len(m.inserted)), nil
}

func (m *mockStore) entries() []insertedEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]insertedEntry, len(m.inserted))
	copy(out, m.inserted)

	return out
}

// mockSettings serves fixed settings, or an error when getFn is set.
type mockSettings struct {
	settings models.Settings
	getFn    func(ctx context.Context) (models.Settings, error)
}

func (m *mockSettings) Get(ctx context.Context) (models.Settings, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}

	return m.settings, nil
}

// mockInvalidator counts invalidations.
type mockInvalidator struct {
	mu    sync.Mutex
	count int
}

func (m *mockInvalidator) Invalidate() {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()
}

func (m *mockInvalidator) invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.count
}
