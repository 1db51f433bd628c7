// Package db wires the configured storage backend into the repository set
// and owns schema migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/ledger"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Ledger() ledger.Repository
}

// NewRepositoryManager selects the backend by name: "memory", "sqlite" or
// "postgres".
func NewRepositoryManager(backend, dsn string) (RepositoryManager, error) {
	switch backend {
	case "memory":
		return NewInMemoryRepositoryManager(), nil
	case "sqlite":
		return NewSQLiteRepositoryManager(dsn)
	case "postgres":
		return NewPostgresRepositoryManager(dsn)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", backend)
	}
}
