package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/actilog/actilog/internal/cache"
	"github.com/actilog/actilog/internal/domain"
	"github.com/actilog/actilog/internal/models"
	"github.com/actilog/actilog/internal/store"
)

// csvTimeLayout formats log timestamps in exported rows.
const csvTimeLayout = "2006-01-02 15:04:05"

// exportReader is the read surface the export pipeline draws from.
type exportReader interface {
	ListAll(ctx context.Context) ([]models.LogEntry, error)
	Search(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
}

// Compile-time check: *CSVExportService must satisfy domain.ExportService.
var _ domain.ExportService = (*CSVExportService)(nil)

// CSVExportService renders log snapshots as downloadable CSV artifacts.
type CSVExportService struct {
	store exportReader
	cache *cache.Cache

	// now is swappable for tests.
	now func() time.Time
}

// NewCSVExportService creates a CSVExportService.
func NewCSVExportService(st exportReader, c *cache.Cache) *CSVExportService {
	return &CSVExportService{store: st, cache: c, now: time.Now}
}

// Export serializes the full (nil filter) or filtered log set to CSV. Row
// order matches the feeding query: newest first. A storage read failure
// fails the whole export; no partial artifact is produced.
func (s *CSVExportService) Export(ctx context.Context, filter *models.LogFilter) (*models.ExportArtifact, error) {
	entries, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reading log for export: %w", err)
	}

	var buf bytes.Buffer

	buf.WriteString(csvLine("ID", "Username", "Action", "Log Time"))

	for _, e := range entries {
		buf.WriteString(csvLine(
			strconv.FormatInt(e.ID, 10),
			e.Username,
			e.Action,
			e.LogTime.Format(csvTimeLayout),
		))
	}

	return &models.ExportArtifact{
		Filename: "activity_logs_" + s.now().UTC().Format("2006-01-02_15-04-05") + ".csv",
		Data:     buf.Bytes(),
	}, nil
}

// snapshot fetches the export row set, sharing the full-export cache key for
// unfiltered exports and the search family otherwise.
func (s *CSVExportService) snapshot(ctx context.Context, filter *models.LogFilter) ([]models.LogEntry, error) {
	if filter == nil || filter.IsZero() {
		return s.cache.Entries(ctx, cache.KeyExport, s.store.ListAll)
	}

	f := *filter
	compiled := store.BuildLogFilter(f)

	return s.cache.SearchResults(ctx, compiled.Key, func(ctx context.Context) ([]models.LogEntry, error) {
		return s.store.Search(ctx, f)
	})
}

// csvLine renders one comma-joined, newline-terminated row. Every field is
// double-quoted with embedded quotes doubled. CSV encoding only: no HTML
// escaping is ever applied here.
func csvLine(fields ...string) string {
	quoted := make([]string, len(fields))

	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}

	return strings.Join(quoted, ",") + "\n"
}
