package db

import (
	"context"
	"database/sql"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/ledger"
)

type InMemoryRepositoryManager struct {
	ledger ledger.Repository
}

func (m InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m InMemoryRepositoryManager) Close() error {
	return nil
}

func (m InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m InMemoryRepositoryManager) Ledger() ledger.Repository {
	return m.ledger
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return InMemoryRepositoryManager{ledger: ledger.NewInMemoryRepository()}
}
