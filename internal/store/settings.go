package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/actilog/actilog/internal/models"
)

// Setting keys in the app_settings table. Booleans are stored as "0"/"1",
// the prefix list as a comma-separated string.
const (
	keyIncludeCron      = "include_cron"
	keyIncludeTransient = "include_transients"
	keyExcludedPrefixes = "excluded_option_prefixes"
)

// SettingsStore provides data access for the app_settings key-value table.
type SettingsStore struct {
	Base
}

// NewSettingsStore creates a SettingsStore.
func NewSettingsStore(base Base) *SettingsStore {
	return &SettingsStore{Base: base}
}

// Get reads the recorder settings, applying defaults for absent keys.
func (s *SettingsStore) Get(ctx context.Context) (models.Settings, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	settings := models.DefaultSettings()

	rows, err := s.Pool.Query(ctx,
		`SELECT key, value FROM app_settings WHERE key = ANY($1)`,
		[]string{keyIncludeCron, keyIncludeTransient, keyExcludedPrefixes})
	if err != nil {
		return settings, fmt.Errorf("%w: querying settings: %v", models.ErrReadFailure, err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return settings, fmt.Errorf("%w: scanning setting: %v", models.ErrReadFailure, err)
		}

		switch k {
		case keyIncludeCron:
			settings.IncludeCron = v == "1"
		case keyIncludeTransient:
			settings.IncludeTransients = v == "1"
		case keyExcludedPrefixes:
			settings.ExcludedOptionPrefixes = splitPrefixes(v)
		}
	}

	if err := rows.Err(); err != nil {
		return settings, fmt.Errorf("%w: iterating settings: %v", models.ErrReadFailure, err)
	}

	return settings, nil
}

// Set persists the recorder settings.
func (s *SettingsStore) Set(ctx context.Context, settings models.Settings) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pairs := map[string]string{
		keyIncludeCron:      boolValue(settings.IncludeCron),
		keyIncludeTransient: boolValue(settings.IncludeTransients),
		keyExcludedPrefixes: strings.Join(settings.ExcludedOptionPrefixes, ","),
	}

	for k, v := range pairs {
		_, err := s.Pool.Exec(ctx, `
			INSERT INTO app_settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			k, v)
		if err != nil {
			return fmt.Errorf("%w: saving setting %s: %v", models.ErrWriteFailure, k, err)
		}
	}

	return nil
}

// Wipe removes every stored setting. Uninstall only.
func (s *SettingsStore) Wipe(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx, `DROP TABLE IF EXISTS app_settings`); err != nil {
		return fmt.Errorf("%w: dropping settings table: %v", models.ErrWriteFailure, err)
	}

	return nil
}

// splitPrefixes parses the stored comma-separated prefix list, trimming
// surrounding whitespace and dropping empty items. Order is preserved:
// prefixes are compared left-to-right against option keys.
func splitPrefixes(v string) []string {
	var prefixes []string

	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}

	return prefixes
}

func boolValue(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
