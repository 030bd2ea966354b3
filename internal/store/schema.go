package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/actilog/actilog/internal/models"
)

// schemaProbeTTL bounds how long a cached schema probe is trusted. The cache
// is a best-effort staleness bound, not a correctness mechanism; writes that
// change the schema invalidate it directly.
const schemaProbeTTL = 12 * time.Hour

// schemaProbe caches the result of the table/column introspection so
// EnsureSchema stays cheap to call on every request.
type schemaProbe struct {
	mu        sync.Mutex
	checkedAt time.Time
	ok        bool
}

// EnsureSchema idempotently creates the log table if absent and widens a
// legacy username column to varchar(60). The probe result is cached for 12
// hours so repeated calls do not hit information_schema.
func (s *LogStore) EnsureSchema(ctx context.Context) error {
	s.schema.mu.Lock()
	defer s.schema.mu.Unlock()

	if s.schema.ok && time.Since(s.schema.checkedAt) < schemaProbeTTL {
		return nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	if err := s.ensureUsernameWidth(ctx); err != nil {
		return err
	}

	s.schema.checkedAt = time.Now()
	s.schema.ok = true

	return nil
}

// invalidateSchemaCache forces the next EnsureSchema call to re-probe.
func (s *LogStore) invalidateSchemaCache() {
	s.schema.mu.Lock()
	s.schema.ok = false
	s.schema.mu.Unlock()
}

func (s *LogStore) ensureTable(ctx context.Context) error {
	var regclass *string

	err := s.Pool.QueryRow(ctx, `SELECT to_regclass($1)::text`, logTable).Scan(&regclass)
	if err != nil {
		return fmt.Errorf("%w: probing log table: %v", models.ErrReadFailure, err)
	}

	if regclass != nil {
		return nil
	}

	_, err = s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS activity_log (
			id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			username VARCHAR(60) NOT NULL,
			action   TEXT        NOT NULL,
			log_time TIMESTAMP   NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("%w: creating log table: %v", models.ErrWriteFailure, err)
	}

	s.Log.Info("activity_log table created")

	return nil
}

// ensureUsernameWidth widens the username column in place when a
// legacy/narrower type is detected.
func (s *LogStore) ensureUsernameWidth(ctx context.Context) error {
	var dataType string
	var maxLen *int

	err := s.Pool.QueryRow(ctx, `
		SELECT data_type, character_maximum_length
		FROM information_schema.columns
		WHERE table_name = $1 AND column_name = 'username'`,
		logTable,
	).Scan(&dataType, &maxLen)

	switch {
	case err == pgx.ErrNoRows:
		return fmt.Errorf("%w: username column missing from %s", models.ErrReadFailure, logTable)
	case err != nil:
		return fmt.Errorf("%w: probing username column: %v", models.ErrReadFailure, err)
	}

	if dataType == "character varying" && maxLen != nil && *maxLen == models.MaxUsernameLen {
		return nil
	}

	_, err = s.Pool.Exec(ctx,
		fmt.Sprintf(`ALTER TABLE activity_log ALTER COLUMN username TYPE VARCHAR(%d)`, models.MaxUsernameLen))
	if err != nil {
		return fmt.Errorf("%w: widening username column: %v", models.ErrWriteFailure, err)
	}

	s.Log.WithField("column", "username").Info("log table column widened")

	return nil
}
