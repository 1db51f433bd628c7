package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/dbx"
)

// PostgresRepository stores budgets in PostgreSQL. Atomicity of TryDeduct
// comes from a single conditional UPDATE; deposit idempotency from the
// consumed_proofs primary key.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	query := `SELECT balance FROM budgets WHERE owner = $1`

	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, owner).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("error performing sql request: %v", err)
	}

	return balance, nil
}

func (r *PostgresRepository) Credit(ctx context.Context, owner string, amount decimal.Decimal, proofID string) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO consumed_proofs (proof_id, consumed_at) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			proofID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("error performing sql request: %v", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return common.ErrorAlreadyConsumed
		}

		query :=
			`INSERT INTO budgets (owner, balance, updated_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (owner) DO UPDATE
			 SET balance = budgets.balance + EXCLUDED.balance,
			     updated_at = EXCLUDED.updated_at
			 RETURNING balance`

		if err := tx.QueryRowContext(ctx, query, owner, amount, time.Now().UTC()).Scan(&newBalance); err != nil {
			return fmt.Errorf("error performing sql request: %v", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

func (r *PostgresRepository) TryDeduct(ctx context.Context, owner string, amount decimal.Decimal) (bool, error) {
	query :=
		`UPDATE budgets
		 SET balance = balance - $2, updated_at = $3
		 WHERE owner = $1 AND balance >= $2`

	res, err := r.db.ExecContext(ctx, query, owner, amount, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PostgresRepository) TryConsume(ctx context.Context, proofID string) (bool, error) {
	query :=
		`INSERT INTO consumed_proofs (proof_id, consumed_at) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, proofID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
