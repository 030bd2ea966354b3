package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/actilog/actilog/internal/models"
)

// logTable is the sole persisted ledger. Flat and independent: no foreign keys.
const logTable = "activity_log"

// LogStore provides data access for the activity_log table.
type LogStore struct {
	Base
	schema schemaProbe
}

// NewLogStore creates a LogStore.
func NewLogStore(base Base) *LogStore {
	return &LogStore{Base: base}
}

// Insert appends one entry and returns the assigned id.
func (s *LogStore) Insert(ctx context.Context, username, action string, logTime time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id int64

	err := s.Pool.QueryRow(ctx,
		`INSERT INTO activity_log (username, action, log_time) VALUES ($1, $2, $3) RETURNING id`,
		username, action, logTime,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting log entry: %v", models.ErrWriteFailure, err)
	}

	return id, nil
}

// ListAll returns every entry ordered by time descending.
func (s *LogStore) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT id, username, action, log_time FROM activity_log ORDER BY log_time DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying log entries: %v", models.ErrReadFailure, err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// Search returns entries matching the given filter, newest first.
// The filter is compiled by BuildLogFilter into parameterized predicates.
func (s *LogStore) Search(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	compiled := BuildLogFilter(filter)

	query := `SELECT id, username, action, log_time FROM activity_log` +
		compiled.Where + ` ORDER BY log_time DESC, id DESC`

	rows, err := s.Pool.Query(ctx, query, compiled.Args...)
	if err != nil {
		return nil, fmt.Errorf("%w: searching log entries: %v", models.ErrReadFailure, err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// DistinctUsernames returns every distinct username, ascending.
func (s *LogStore) DistinctUsernames(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT DISTINCT username FROM activity_log ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying distinct usernames: %v", models.ErrReadFailure, err)
	}
	defer rows.Close()

	var usernames []string

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("%w: scanning username: %v", models.ErrReadFailure, err)
		}

		usernames = append(usernames, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating usernames: %v", models.ErrReadFailure, err)
	}

	return usernames, nil
}

// DeleteByID removes at most one entry. A missing id is not an error.
func (s *LogStore) DeleteByID(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be a positive integer", models.ErrInvalidInput)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx, `DELETE FROM activity_log WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: deleting log entry %d: %v", models.ErrWriteFailure, id, err)
	}

	return nil
}

// DeleteByIDs removes all entries whose id is in the set, in one statement.
// The set must be non-empty and every id positive.
func (s *LogStore) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: empty id set", models.ErrInvalidInput)
	}

	for _, id := range ids {
		if id <= 0 {
			return 0, fmt.Errorf("%w: id %d is not a positive integer", models.ErrInvalidInput, id)
		}
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM activity_log WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("%w: bulk deleting log entries: %v", models.ErrWriteFailure, err)
	}

	return tag.RowsAffected(), nil
}

// Count returns the total number of entries.
func (s *LogStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int64
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM activity_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting log entries: %v", models.ErrReadFailure, err)
	}

	return n, nil
}

// DropAll irreversibly tears down the log table. Uninstall only.
func (s *LogStore) DropAll(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx, `DROP TABLE IF EXISTS activity_log`); err != nil {
		return fmt.Errorf("%w: dropping log table: %v", models.ErrWriteFailure, err)
	}

	s.invalidateSchemaCache()

	return nil
}

// ResetMigrations drops goose's version bookkeeping alongside the data
// tables. Without this a restarted service would see the initial migration
// as already applied and never recreate the dropped tables; with it, the
// next start replays the migration as a fresh install.
func (s *LogStore) ResetMigrations(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx, `DROP TABLE IF EXISTS goose_db_version`); err != nil {
		return fmt.Errorf("%w: dropping migration version table: %v", models.ErrWriteFailure, err)
	}

	return nil
}

// collectEntries scans all rows into LogEntry values.
func collectEntries(rows pgx.Rows) ([]models.LogEntry, error) {
	var entries []models.LogEntry

	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.LogTime); err != nil {
			return nil, fmt.Errorf("%w: scanning log entry: %v", models.ErrReadFailure, err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating log entries: %v", models.ErrReadFailure, err)
	}

	return entries, nil
}
