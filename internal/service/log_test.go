package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/actilog/actilog/internal/models"
	"github.com/actilog/actilog/internal/service"
	"github.com/actilog/actilog/internal/token"
)

func TestLogService_ListAllServedFromCacheUntilDelete(t *testing.T) {
	t.Parallel()

	st := &mockEntryStore{
		listFn: func(context.Context) ([]models.LogEntry, error) {
			return []models.LogEntry{{ID: 1, Username: "alice", Action: "x", LogTime: time.Now()}}, nil
		},
	}
	tokens := &mockTokens{accept: map[string]string{token.DeleteScope(1): "tok-1"}}
	svc := service.NewLogService(st, &mockWiper{}, newTestCache(), tokens, testLogger())
	ctx := context.Background()

	for range 3 {
		if _, err := svc.ListAll(ctx); err != nil {
			t.Fatalf("listing: %v", err)
		}
	}

	if st.listCalls != 1 {
		t.Errorf("expected 1 store read across repeated lists, got %d", st.listCalls)
	}

	if err := svc.Delete(ctx, 1, "tok-1"); err != nil {
		t.Fatalf("deleting: %v", err)
	}

	if _, err := svc.ListAll(ctx); err != nil {
		t.Fatalf("listing after delete: %v", err)
	}

	if st.listCalls != 2 {
		t.Errorf("expected a fresh store read after delete, got %d calls", st.listCalls)
	}
}

func TestLogService_SearchZeroFilterIsListAll(t *testing.T) {
	t.Parallel()

	st := &mockEntryStore{}
	svc := service.NewLogService(st, &mockWiper{}, newTestCache(), &mockTokens{}, testLogger())

	if _, err := svc.Search(context.Background(), models.LogFilter{}); err != nil {
		t.Fatalf("searching: %v", err)
	}

	if st.listCalls != 1 || st.searchCalls != 0 {
		t.Errorf("zero filter should go through ListAll, got list=%d search=%d", st.listCalls, st.searchCalls)
	}
}

func TestLogService_SearchRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	svc := service.NewLogService(&mockEntryStore{}, &mockWiper{}, newTestCache(), &mockTokens{}, testLogger())

	_, err := svc.Search(context.Background(), models.LogFilter{Category: "published"})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLogService_SearchResultsCachedPerFilter(t *testing.T) {
	t.Parallel()

	st := &mockEntryStore{}
	svc := service.NewLogService(st, &mockWiper{}, newTestCache(), &mockTokens{}, testLogger())
	ctx := context.Background()

	filter := models.LogFilter{Username: "alice"}

	for range 2 {
		if _, err := svc.Search(ctx, filter); err != nil {
			t.Fatalf("searching: %v", err)
		}
	}

	if st.searchCalls != 1 {
		t.Errorf("expected identical filters to share a cached result, got %d store reads", st.searchCalls)
	}

	if _, err := svc.Search(ctx, models.LogFilter{Username: "bob"}); err != nil {
		t.Fatalf("searching: %v", err)
	}

	if st.searchCalls != 2 {
		t.Errorf("expected a distinct filter to miss, got %d store reads", st.searchCalls)
	}
}

func TestLogService_DeleteRejectsBadTokenAndID(t *testing.T) {
	t.Parallel()

	deleted := false
	st := &mockEntryStore{deleteFn: func(context.Context, int64) error {
		deleted = true
		return nil
	}}
	tokens := &mockTokens{accept: map[string]string{token.DeleteScope(3): "tok-3"}}
	svc := service.NewLogService(st, &mockWiper{}, newTestCache(), tokens, testLogger())
	ctx := context.Background()

	if err := svc.Delete(ctx, 0, "tok-3"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for id 0, got %v", err)
	}

	if err := svc.Delete(ctx, 3, "wrong"); !errors.Is(err, models.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	// Token minted for a different id must not authorize this one.
	if err := svc.Delete(ctx, 4, "tok-3"); !errors.Is(err, models.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for scope mismatch, got %v", err)
	}

	if deleted {
		t.Error("store delete must not run without a valid token")
	}

	if err := svc.Delete(ctx, 3, "tok-3"); err != nil {
		t.Fatalf("deleting with valid token: %v", err)
	}

	if !deleted {
		t.Error("expected store delete with valid token")
	}
}

func TestLogService_BulkDeleteSanitizesIDs(t *testing.T) {
	t.Parallel()

	var got []int64
	st := &mockEntryStore{bulkFn: func(_ context.Context, ids []int64) (int64, error) {
		got = ids
		return int64(len(ids)), nil
	}}
	tokens := &mockTokens{accept: map[string]string{token.BulkScope: "bulk-tok"}}
	svc := service.NewLogService(st, &mockWiper{}, newTestCache(), tokens, testLogger())

	deleted, err := svc.BulkDelete(context.Background(), []string{"3", "x", "7", "-1", "3"}, "bulk-tok")
	if err != nil {
		t.Fatalf("bulk deleting: %v", err)
	}

	if len(got) != 2 || got[0] != 3 || got[1] != 7 {
		t.Errorf("expected sanitized ids [3 7], got %v", got)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deletions reported, got %d", deleted)
	}
}

func TestLogService_BulkDeleteRejectsEmptySetAndBadToken(t *testing.T) {
	t.Parallel()

	tokens := &mockTokens{accept: map[string]string{token.BulkScope: "bulk-tok"}}
	svc := service.NewLogService(&mockEntryStore{}, &mockWiper{}, newTestCache(), tokens, testLogger())
	ctx := context.Background()

	if _, err := svc.BulkDelete(ctx, []string{"1"}, "wrong"); !errors.Is(err, models.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := svc.BulkDelete(ctx, []string{"x", "-2", "0"}, "bulk-tok"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for an all-invalid set, got %v", err)
	}
}

func TestLogService_TeardownDropsTableAndSettings(t *testing.T) {
	t.Parallel()

	dropped := false
	st := &mockEntryStore{
		countFn: func(context.Context) (int64, error) { return 7, nil },
		dropFn: func(context.Context) error {
			dropped = true
			return nil
		},
	}
	wiper := &mockWiper{}
	svc := service.NewLogService(st, wiper, newTestCache(), &mockTokens{}, testLogger())

	removed, err := svc.Teardown(context.Background())
	if err != nil {
		t.Fatalf("tearing down: %v", err)
	}

	if removed != 7 {
		t.Errorf("expected 7 entries reported removed, got %d", removed)
	}
	if !dropped {
		t.Error("expected log table dropped")
	}
	if !wiper.wiped {
		t.Error("expected settings wiped")
	}
	if !st.migrationsReset {
		t.Error("expected migration bookkeeping reset so a restart reinstalls")
	}
}

func TestLogService_TeardownProceedsWhenCountFails(t *testing.T) {
	t.Parallel()

	dropped := false
	st := &mockEntryStore{
		countFn: func(context.Context) (int64, error) { return 0, errors.New("relation does not exist") },
		dropFn: func(context.Context) error {
			dropped = true
			return nil
		},
	}
	wiper := &mockWiper{}
	svc := service.NewLogService(st, wiper, newTestCache(), &mockTokens{}, testLogger())

	removed, err := svc.Teardown(context.Background())
	if err != nil {
		t.Fatalf("tearing down: %v", err)
	}

	if removed != 0 {
		t.Errorf("expected 0 entries reported, got %d", removed)
	}
	if !dropped || !wiper.wiped {
		t.Error("a failed count must not stop the teardown")
	}
}

func TestLogService_TeardownStopsOnDropFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("drop failed")
	st := &mockEntryStore{dropFn: func(context.Context) error { return boom }}
	wiper := &mockWiper{}
	svc := service.NewLogService(st, wiper, newTestCache(), &mockTokens{}, testLogger())

	if _, err := svc.Teardown(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected drop error, got %v", err)
	}

	if wiper.wiped {
		t.Error("settings must not be wiped when the table drop fails")
	}
	if st.migrationsReset {
		t.Error("migration bookkeeping must survive a failed teardown")
	}
}
