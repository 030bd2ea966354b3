package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/domain"
	"github.com/actilog/actilog/internal/models"
)

// settingsReadTTL bounds how long a settings read is reused before going
// back to the store. Updates through this service invalidate immediately;
// the TTL only covers out-of-band writes.
const settingsReadTTL = time.Minute

// settingsStore is the key-value access SettingsService depends on.
type settingsStore interface {
	Get(ctx context.Context) (models.Settings, error)
	Set(ctx context.Context, settings models.Settings) error
}

// Compile-time check: *SettingsService must satisfy domain.SettingsService.
var _ domain.SettingsService = (*SettingsService)(nil)

// SettingsService wraps the settings store with a short read-through cache
// so the recorder does not hit the database for every event.
type SettingsService struct {
	store settingsStore
	log   *logrus.Logger

	mu        sync.Mutex
	cached    models.Settings
	fetchedAt time.Time
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(store settingsStore, log *logrus.Logger) *SettingsService {
	return &SettingsService{store: store, log: log}
}

// Get returns the recorder settings, served from the read-through cache.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < settingsReadTTL {
		return s.cached, nil
	}

	settings, err := s.store.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	s.cached = settings
	s.fetchedAt = time.Now()

	return settings, nil
}

// Update persists new settings and drops the cached copy.
func (s *SettingsService) Update(ctx context.Context, settings models.Settings) error {
	if err := s.store.Set(ctx, settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.cached = settings
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"include_cron":       settings.IncludeCron,
		"include_transients": settings.IncludeTransients,
		"excluded_prefixes":  len(settings.ExcludedOptionPrefixes),
	}).Info("settings updated")

	return nil
}
