// Package store provides focused, single-concern data access stores
// for the activity log.
//
// Each store owns one domain (log entries, settings) and embeds shared
// helpers (Pool, logger) via the Base struct. Every statement is a single
// atomic operation; no store holds a transaction across multiple log
// mutations.
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actilog/actilog/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
