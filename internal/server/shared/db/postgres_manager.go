package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/ledger"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/migrations"
)

type PostgresRepositoryManager struct {
	db     *sql.DB
	ledger ledger.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) Ledger() ledger.Repository {
	return m.ledger
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "postgres"); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	repo, err := ledger.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("ledger repo creation error: %w", err)
	}

	return &PostgresRepositoryManager{db: db, ledger: repo}, nil
}
