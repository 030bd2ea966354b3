package api

import (
	"github.com/actilog/actilog/internal/domain"
	"github.com/actilog/actilog/internal/recorder"
)

// LogReader defines the read operations used by LogHandler.
type LogReader = domain.QueryService

// LogDeleter defines the deletion operations used by LogHandler and
// AdminHandler.
type LogDeleter = domain.DeletionService

// Exporter renders CSV downloads for ExportHandler.
type Exporter = domain.ExportService

// SettingsManager defines the settings operations used by SettingsHandler.
type SettingsManager = domain.SettingsService

// TokenMinter issues confirmation tokens for destructive operations.
type TokenMinter interface {
	Issue(scope string) string
}

// EventSink accepts events for asynchronous recording.
type EventSink interface {
	Enqueue(job *recorder.Job)
}
