// Package store persists the user registry. Two backend families satisfy
// the same interface: a relational one (SQLite or Postgres via GORM) and a
// document one (MongoDB). The backend is picked from the DSN scheme.
package store

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/SL-MGx03/userbase/internal/model"
)

// Observation is the identity tuple carried by every inbound chat event.
// TelegramID is required; the remaining fields may be empty.
type Observation struct {
	TelegramID int64
	FirstName  string
	LastName   string
	Username   string
	IsBot      bool
}

// Store is the capability both backend families provide.
type Store interface {
	// UpsertUser atomically inserts a record for a never-seen identity or
	// overwrites the profile fields of an existing one. created_at is set
	// exactly once, updated_at on every call. Concurrent upserts of the
	// same identity must never produce two records.
	UpsertUser(ctx context.Context, obs Observation) error

	// ListUsers returns every record. Order is backend-defined. An empty
	// store yields an empty slice, not an error.
	ListUsers(ctx context.Context) ([]model.User, error)

	// Ping checks connectivity to the backend.
	Ping(ctx context.Context) error

	Close(ctx context.Context) error
}

type backend int

const (
	backendSQLite backend = iota
	backendPostgres
	backendMongo
)

func backendFor(dsn string) backend {
	switch {
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return backendMongo
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return backendPostgres
	default:
		return backendSQLite
	}
}

// Open connects to the backend named by the DSN, runs schema migration or
// index creation, and verifies connectivity. A failed probe here is fatal
// for the process; failures after startup are handler-local.
func Open(ctx context.Context, dsn string, log *zap.Logger) (Store, error) {
	switch backendFor(dsn) {
	case backendMongo:
		return openMongo(ctx, dsn, log)
	case backendPostgres:
		return openPostgres(ctx, dsn, log)
	default:
		return openSQLite(ctx, dsn, log)
	}
}
