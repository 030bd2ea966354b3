// Package service provides business logic between API handlers and the
// store/cache layers.
package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/cache"
	"github.com/actilog/actilog/internal/domain"
	"github.com/actilog/actilog/internal/models"
	"github.com/actilog/actilog/internal/store"
	"github.com/actilog/actilog/internal/token"
)

// entryStore is the minimal store interface consumed by LogService.
// Defined at the consumer (per project convention) so the store package
// depends on no service types.
type entryStore interface {
	ListAll(ctx context.Context) ([]models.LogEntry, error)
	Search(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
	DistinctUsernames(ctx context.Context) ([]string, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	Count(ctx context.Context) (int64, error)
	DropAll(ctx context.Context) error
	ResetMigrations(ctx context.Context) error
}

// settingsWiper removes all stored settings at teardown.
type settingsWiper interface {
	Wipe(ctx context.Context) error
}

// tokenVerifier checks confirmation tokens for destructive operations.
type tokenVerifier interface {
	Verify(scope, tok string) bool
}

// Compile-time checks: *LogService must satisfy the domain interfaces.
var (
	_ domain.QueryService    = (*LogService)(nil)
	_ domain.DeletionService = (*LogService)(nil)
)

// LogService serves reads through the snapshot cache and owns the deletion
// manager semantics.
type LogService struct {
	store    entryStore
	settings settingsWiper
	cache    *cache.Cache
	tokens   tokenVerifier
	log      *logrus.Logger
}

// NewLogService creates a LogService.
func NewLogService(st entryStore, settings settingsWiper, c *cache.Cache, tokens tokenVerifier, log *logrus.Logger) *LogService {
	return &LogService{store: st, settings: settings, cache: c, tokens: tokens, log: log}
}

// ListAll returns every entry, newest first, via the cache.
func (s *LogService) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	return s.cache.Entries(ctx, cache.KeyListAll, s.store.ListAll)
}

// Search returns entries matching the filter, newest first, via the cache.
// An empty filter is the unfiltered listing.
func (s *LogService) Search(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	if !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown action category %q", models.ErrInvalidInput, filter.Category)
	}

	if filter.IsZero() {
		return s.ListAll(ctx)
	}

	compiled := store.BuildLogFilter(filter)

	return s.cache.SearchResults(ctx, compiled.Key, func(ctx context.Context) ([]models.LogEntry, error) {
		return s.store.Search(ctx, filter)
	})
}

// Usernames returns the distinct username list, ascending, via the cache.
func (s *LogService) Usernames(ctx context.Context) ([]string, error) {
	return s.cache.Usernames(ctx, s.store.DistinctUsernames)
}

// Delete removes a single entry. The id must carry a valid per-id
// confirmation token. A missing id is not an error.
func (s *LogService) Delete(ctx context.Context, id int64, confirmToken string) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be a positive integer", models.ErrInvalidInput)
	}

	if !s.tokens.Verify(token.DeleteScope(id), confirmToken) {
		return models.ErrInvalidToken
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	// Invalidate before reporting success so no caller can observe the
	// deleted entry from a stale snapshot.
	s.cache.Invalidate()

	s.log.WithField("id", id).Info("log entry deleted")

	return nil
}

// BulkDelete removes the sanitized id set in one statement. Non-numeric
// entries are discarded; an empty post-sanitization set rejects the whole
// operation.
func (s *LogService) BulkDelete(ctx context.Context, rawIDs []string, confirmToken string) (int64, error) {
	if !s.tokens.Verify(token.BulkScope, confirmToken) {
		return 0, models.ErrInvalidToken
	}

	ids := sanitizeIDs(rawIDs)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no valid ids in bulk delete set", models.ErrInvalidInput)
	}

	deleted, err := s.store.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	s.cache.Invalidate()

	s.log.WithFields(logrus.Fields{"requested": len(ids), "deleted": deleted}).Info("log entries bulk deleted")

	return deleted, nil
}

// Teardown irreversibly removes all service data: the log table, every
// stored setting, and the migration bookkeeping, so the next start replays
// the initial migration as a fresh install. It reports the number of entries
// removed. Uninstall only.
func (s *LogService) Teardown(ctx context.Context) (int64, error) {
	removed, err := s.store.Count(ctx)
	if err != nil {
		// The table may already be gone from an earlier teardown; the drop
		// below tolerates that, so the count does too.
		s.log.WithError(err).Warn("counting entries before teardown")

		removed = 0
	}

	if err := s.store.DropAll(ctx); err != nil {
		return 0, err
	}

	if err := s.settings.Wipe(ctx); err != nil {
		return 0, err
	}

	if err := s.store.ResetMigrations(ctx); err != nil {
		return 0, err
	}

	s.cache.Invalidate()

	s.log.WithField("removed", removed).Warn("activity log torn down")

	return removed, nil
}

// sanitizeIDs parses raw id strings, keeping positive integers and
// discarding everything else, deduplicated.
func sanitizeIDs(rawIDs []string) []int64 {
	seen := make(map[int64]struct{}, len(rawIDs))
	ids := make([]int64, 0, len(rawIDs))

	for _, raw := range rawIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			continue
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}
