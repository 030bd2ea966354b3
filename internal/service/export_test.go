package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/actilog/actilog/internal/models"
	"github.com/actilog/actilog/internal/service"
)

func exportEntries() []models.LogEntry {
	return []models.LogEntry{
		{ID: 2, Username: "alice", Action: `He said "hi"`, LogTime: time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)},
		{ID: 1, Username: "bob", Action: "Post created: One, Two (ID: 1) by user bob", LogTime: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)},
	}
}

func TestExport_CSVRoundTrip(t *testing.T) {
	t.Parallel()

	st := &mockEntryStore{
		listFn: func(context.Context) ([]models.LogEntry, error) {
			return exportEntries(), nil
		},
	}
	svc := service.NewCSVExportService(st, newTestCache())

	artifact, err := svc.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("exporting: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(artifact.Data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing exported CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	wantHeader := []string{"ID", "Username", "Action", "Log Time"}
	for i, col := range wantHeader {
		if header[i] != col {
			t.Errorf("header column %d: expected %q, got %q", i, col, header[i])
		}
	}

	// Quotes and commas survive the round trip; row order is newest first.
	if records[1][2] != `He said "hi"` {
		t.Errorf("expected quoted action preserved, got %q", records[1][2])
	}
	if records[2][2] != "Post created: One, Two (ID: 1) by user bob" {
		t.Errorf("expected comma-bearing action preserved, got %q", records[2][2])
	}
	if records[1][0] != "2" || records[2][0] != "1" {
		t.Errorf("expected newest-first order, got ids %q, %q", records[1][0], records[2][0])
	}
	if records[1][3] != "2026-08-29 14:30:05" {
		t.Errorf("expected formatted timestamp, got %q", records[1][3])
	}
}

func TestExport_EveryFieldQuoted(t *testing.T) {
	t.Parallel()

	st := &mockEntryStore{
		listFn: func(context.Context) ([]models.LogEntry, error) {
			return exportEntries()[:1], nil
		},
	}
	svc := service.NewCSVExportService(st, newTestCache())

	artifact, err := svc.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("exporting: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(artifact.Data), "\n"), "\n")
	for _, line := range lines {
		for _, field := range splitTopLevel(line) {
			if !strings.HasPrefix(field, `"`) || !strings.HasSuffix(field, `"`) {
				t.Errorf("field %q on line %q is not quoted", field, line)
			}
		}
	}
}

// splitTopLevel splits a CSV line on commas that are outside quoted fields.
func splitTopLevel(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case ',':
			if inQuotes {
				cur.WriteByte(c)
			} else {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}

	fields = append(fields, cur.String())

	return fields
}

func TestExport_FilenameEmbedsTimestamp(t *testing.T) {
	t.Parallel()

	st := &mockEntryStore{}
	svc := service.NewCSVExportService(st, newTestCache())

	artifact, err := svc.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("exporting: %v", err)
	}

	if !strings.HasPrefix(artifact.Filename, "activity_logs_") || !strings.HasSuffix(artifact.Filename, ".csv") {
		t.Fatalf("unexpected filename %q", artifact.Filename)
	}

	stamp := strings.TrimSuffix(strings.TrimPrefix(artifact.Filename, "activity_logs_"), ".csv")
	if _, err := time.Parse("2006-01-02_15-04-05", stamp); err != nil {
		t.Errorf("filename timestamp %q does not parse: %v", stamp, err)
	}
}

func TestExport_EmptyLogStillHasHeader(t *testing.T) {
	t.Parallel()

	svc := service.NewCSVExportService(&mockEntryStore{}, newTestCache())

	artifact, err := svc.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("exporting: %v", err)
	}

	if want := `"ID","Username","Action","Log Time"` + "\n"; string(artifact.Data) != want {
		t.Errorf("expected lone header, got %q", artifact.Data)
	}
}

func TestExport_FilteredGoesThroughSearch(t *testing.T) {
	t.Parallel()

	st := &mockEntryStore{
		searchFn: func(_ context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
			if filter.Username != "alice" {
				return nil, errors.New("unexpected filter")
			}
			return exportEntries()[:1], nil
		},
	}
	svc := service.NewCSVExportService(st, newTestCache())

	artifact, err := svc.Export(context.Background(), &models.LogFilter{Username: "alice"})
	if err != nil {
		t.Fatalf("exporting: %v", err)
	}

	if st.searchCalls != 1 || st.listCalls != 0 {
		t.Errorf("expected filtered export via Search, got search=%d list=%d", st.searchCalls, st.listCalls)
	}

	if !bytes.Contains(artifact.Data, []byte("alice")) {
		t.Error("expected filtered rows in artifact")
	}
}

func TestExport_ReadFailureProducesNoArtifact(t *testing.T) {
	t.Parallel()

	boom := errors.New("store down")
	st := &mockEntryStore{
		listFn: func(context.Context) ([]models.LogEntry, error) { return nil, boom },
	}
	svc := service.NewCSVExportService(st, newTestCache())

	artifact, err := svc.Export(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if artifact != nil {
		t.Error("expected no partial artifact on failure")
	}
}
