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

// SQLiteRepository stores budgets in SQLite for single-binary deployments.
// Balances are kept as decimal strings and the arithmetic happens in Go,
// inside a transaction; SQLite's serialized writers make the
// read-check-write of TryDeduct atomic with respect to concurrent callers.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	return balanceIn(ctx, r.db, owner)
}

func balanceIn(ctx context.Context, db dbx.DBTX, owner string) (decimal.Decimal, error) {
	var raw string
	err := db.QueryRowContext(ctx, `SELECT balance FROM budgets WHERE owner = ?`, owner).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("error performing sql request: %v", err)
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt balance for %q: %v", owner, err)
	}
	return balance, nil
}

func (r *SQLiteRepository) Credit(ctx context.Context, owner string, amount decimal.Decimal, proofID string) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO consumed_proofs (proof_id, consumed_at) VALUES (?, ?)
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

		balance, err := balanceIn(ctx, tx, owner)
		if err != nil {
			return err
		}
		newBalance = balance.Add(amount)

		_, err = tx.ExecContext(ctx,
			`INSERT INTO budgets (owner, balance, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT (owner) DO UPDATE SET balance = excluded.balance, updated_at = excluded.updated_at`,
			owner, newBalance.String(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("error performing sql request: %v", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

func (r *SQLiteRepository) TryDeduct(ctx context.Context, owner string, amount decimal.Decimal) (bool, error) {
	granted := false

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		balance, err := balanceIn(ctx, tx, owner)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE budgets SET balance = ?, updated_at = ? WHERE owner = ?`,
			balance.Sub(amount).String(), time.Now().UTC(), owner)
		if err != nil {
			return fmt.Errorf("error performing sql request: %v", err)
		}
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return granted, nil
}

func (r *SQLiteRepository) TryConsume(ctx context.Context, proofID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO consumed_proofs (proof_id, consumed_at) VALUES (?, ?)
		 ON CONFLICT DO NOTHING`,
		proofID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
