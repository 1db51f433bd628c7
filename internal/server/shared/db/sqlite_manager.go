package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/ledger"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/migrations"
)

type SQLiteRepositoryManager struct {
	db     *sql.DB
	ledger ledger.Repository
}

func (m *SQLiteRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *SQLiteRepositoryManager) Ledger() ledger.Repository {
	return m.ledger
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "sqlite"); err != nil {
		return err
	}

	return nil
}

func NewSQLiteRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// A single writer avoids SQLITE_BUSY under concurrent deductions.
	db.SetMaxOpenConns(1)

	repo, err := ledger.NewSQLiteRepository(db)
	if err != nil {
		return nil, fmt.Errorf("ledger repo creation error: %w", err)
	}

	return &SQLiteRepositoryManager{db: db, ledger: repo}, nil
}
