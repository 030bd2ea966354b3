package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/actilog/actilog/internal/models"
	"github.com/actilog/actilog/internal/service"
)

func TestSettingsService_GetReadsThroughCache(t *testing.T) {
	t.Parallel()

	st := &mockSettingsStore{settings: models.DefaultSettings()}
	svc := service.NewSettingsService(st, testLogger())
	ctx := context.Background()

	for range 3 {
		got, err := svc.Get(ctx)
		if err != nil {
			t.Fatalf("getting settings: %v", err)
		}
		if got.IncludeCron {
			t.Error("expected cron logging off by default")
		}
		if !got.IncludeTransients {
			t.Error("expected transient logging on by default")
		}
	}

	if st.getCalls != 1 {
		t.Errorf("expected 1 store read across repeated gets, got %d", st.getCalls)
	}
}

func TestSettingsService_GetErrorIsNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("settings table missing")
	failing := true
	st := &mockSettingsStore{getFn: func(context.Context) (models.Settings, error) {
		if failing {
			return models.Settings{}, boom
		}
		return models.DefaultSettings(), nil
	}}
	svc := service.NewSettingsService(st, testLogger())
	ctx := context.Background()

	if _, err := svc.Get(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}

	failing = false

	if _, err := svc.Get(ctx); err != nil {
		t.Fatalf("expected recovery after store comes back, got %v", err)
	}
}

func TestSettingsService_UpdateRefreshesCache(t *testing.T) {
	t.Parallel()

	st := &mockSettingsStore{settings: models.DefaultSettings()}
	svc := service.NewSettingsService(st, testLogger())
	ctx := context.Background()

	if _, err := svc.Get(ctx); err != nil {
		t.Fatalf("priming cache: %v", err)
	}

	updated := models.Settings{
		IncludeCron:            true,
		IncludeTransients:      false,
		ExcludedOptionPrefixes: []string{"_internal_"},
	}

	if err := svc.Update(ctx, updated); err != nil {
		t.Fatalf("updating settings: %v", err)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("getting after update: %v", err)
	}

	if !got.IncludeCron || got.IncludeTransients || len(got.ExcludedOptionPrefixes) != 1 {
		t.Errorf("expected updated settings served from cache, got %+v", got)
	}

	// The post-update read must not have gone back to the store.
	if st.getCalls != 1 {
		t.Errorf("expected no extra store read after update, got %d", st.getCalls)
	}
}

func TestSettingsService_UpdateFailureKeepsOldSettings(t *testing.T) {
	t.Parallel()

	boom := errors.New("write failed")
	st := &mockSettingsStore{
		settings: models.DefaultSettings(),
		setFn:    func(context.Context, models.Settings) error { return boom },
	}
	svc := service.NewSettingsService(st, testLogger())
	ctx := context.Background()

	if _, err := svc.Get(ctx); err != nil {
		t.Fatalf("priming cache: %v", err)
	}

	err := svc.Update(ctx, models.Settings{IncludeCron: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("getting after failed update: %v", err)
	}

	if got.IncludeCron {
		t.Error("failed update must not change served settings")
	}
}
