package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInsufficientCoins is returned when a debit would take a balance below
// zero.
var ErrInsufficientCoins = errors.New("insufficient coin balance")

// DebitCoins atomically subtracts a wager from the user's balance and records
// the movement. The balance check and the update share one transaction.
func DebitCoins(ctx context.Context, userID uuid.UUID, amount int64, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var balance int64
		if err := tx.QueryRow(ctx,
			`SELECT coins FROM users WHERE id=$1 FOR UPDATE`, userID,
		).Scan(&balance); err != nil {
			return fmt.Errorf("failed to read balance: %w", err)
		}
		if balance < amount {
			return ErrInsufficientCoins
		}
		if _, err := tx.Exec(ctx,
			`UPDATE users SET coins = coins - $1 WHERE id=$2`, amount, userID,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO coin_transactions (id, user_id, amount, reason)
			 VALUES ($1, $2, $3, $4)`,
			uuid.New(), userID, -amount, reason,
		)
		return err
	})
}

// CreditCoins adds winnings to the user's balance and records the movement.
func CreditCoins(ctx context.Context, userID uuid.UUID, amount int64, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET coins = coins + $1 WHERE id=$2`, amount, userID,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO coin_transactions (id, user_id, amount, reason)
			 VALUES ($1, $2, $3, $4)`,
			uuid.New(), userID, amount, reason,
		)
		return err
	})
}
