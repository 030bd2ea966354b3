package service_test

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/cache"
	"github.com/actilog/actilog/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

func newTestCache() *cache.Cache {
	c, err := cache.New(0)
	if err != nil {
		panic(err)
	}

	return c
}

// mockEntryStore is a function-field store double.
type mockEntryStore struct {
	mu sync.Mutex

	listCalls   int
	searchCalls int

	migrationsReset bool

	listFn      func(ctx context.Context) ([]models.LogEntry, error)
	searchFn    func(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
	usernamesFn func(ctx context.Context) ([]string, error)
	deleteFn    func(ctx context.Context, id int64) error
	bulkFn      func(ctx context.Context, ids []int64) (int64, error)
	countFn     func(ctx context.Context) (int64, error)
	dropFn      func(ctx context.Context) error
}

func (m *mockEntryStore) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()

	if m.listFn != nil {
		return m.listFn(ctx)
	}

	return nil, nil
}

func (m *mockEntryStore) Search(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()

	if m.searchFn != nil {
		return m.searchFn(ctx, filter)
	}

	return nil, nil
}

func (m *mockEntryStore) DistinctUsernames(ctx context.Context) ([]string, error) {
	if m.usernamesFn != nil {
		return m.usernamesFn(ctx)
	}

	return nil, nil
}

func (m *mockEntryStore) DeleteByID(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}

	return nil
}

func (m *mockEntryStore) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, ids)
	}

	return int64(len(ids)), nil
}

func (m *mockEntryStore) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}

	return 0, nil
}

func (m *mockEntryStore) DropAll(ctx context.Context) error {
	if m.dropFn != nil {
		return m.dropFn(ctx)
	}

	return nil
}

func (m *mockEntryStore) ResetMigrations(ctx context.Context) error {
	m.mu.Lock()
	m.migrationsReset = true
	m.mu.Unlock()

	return nil
}

// mockWiper is a settings-wipe double.
type mockWiper struct {
	wiped  bool
	wipeFn func(ctx context.Context) error
}

func (m *mockWiper) Wipe(ctx context.Context) error {
	m.wiped = true

	if m.wipeFn != nil {
		return m.wipeFn(ctx)
	}

	return nil
}

// mockTokens verifies tokens by comparing against a fixed accepted set.
type mockTokens struct {
	accept map[string]string // scope -> token
}

func (m *mockTokens) Verify(scope, tok string) bool {
	want, ok := m.accept[scope]

	return ok && tok == want
}

// mockSettingsStore is a key-value settings double.
type mockSettingsStore struct {
	mu       sync.Mutex
	settings models.Settings
	getCalls int

	getFn func(ctx context.Context) (models.Settings, error)
	setFn func(ctx context.Context, settings models.Settings) error
}

func (m *mockSettingsStore) Get(ctx context.Context) (models.Settings, error) {
	m.mu.Lock()
	m.getCalls++
	m.mu.Unlock()

	if m.getFn != nil {
		return m.getFn(ctx)
	}

	return m.settings, nil
}

func (m *mockSettingsStore) Set(ctx context.Context, settings models.Settings) error {
	if m.setFn != nil {
		return m.setFn(ctx, settings)
	}

	m.mu.Lock()
	m.settings = settings
	m.mu.Unlock()

	return nil
}
