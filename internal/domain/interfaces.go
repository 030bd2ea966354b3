// Package domain defines the canonical service interfaces shared across the
// API layer. Consumers should depend on these interfaces rather than
// re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/actilog/actilog/internal/models"
)

// QueryService defines the read operations over the log.
type QueryService interface {
	ListAll(ctx context.Context) ([]models.LogEntry, error)
	Search(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
	Usernames(ctx context.Context) ([]string, error)
}

// DeletionService defines single and bulk delete plus uninstall teardown.
// Delete operations require a confirmation token for the matching scope.
// Teardown reports how many entries it removed.
type DeletionService interface {
	Delete(ctx context.Context, id int64, confirmToken string) error
	BulkDelete(ctx context.Context, rawIDs []string, confirmToken string) (int64, error)
	Teardown(ctx context.Context) (int64, error)
}

// ExportService renders the (optionally filtered) log set as a CSV artifact.
type ExportService interface {
	Export(ctx context.Context, filter *models.LogFilter) (*models.ExportArtifact, error)
}

// SettingsService reads and updates the recorder's eligibility settings.
type SettingsService interface {
	Get(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, settings models.Settings) error
}
