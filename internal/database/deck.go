package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Deck is a stored deck list: catalog card IDs, duplicates allowed.
type Deck struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	CardIDs []string  `json:"card_ids"`
}

// SaveDeck inserts or replaces a stored deck.
func SaveDeck(ctx context.Context, d *Deck) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	q := `
	INSERT INTO decks (id, user_id, name, cards)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, cards = EXCLUDED.cards
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, d.ID, d.UserID, d.Name, d.CardIDs)
		return err
	})
}

// GetDeck fetches a deck owned by the given user.
func GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*Deck, error) {
	var d Deck
	q := `SELECT id, user_id, name, cards FROM decks WHERE id=$1 AND user_id=$2`
	err := DB.QueryRow(ctx, q, deckID, userID).Scan(&d.ID, &d.UserID, &d.Name, &d.CardIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deck %s: %w", deckID, err)
	}
	return &d, nil
}

// ListDecks returns all decks owned by the user.
func ListDecks(ctx context.Context, userID uuid.UUID) ([]*Deck, error) {
	q := `SELECT id, user_id, name, cards FROM decks WHERE user_id=$1 ORDER BY name`
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []*Deck
	for rows.Next() {
		var d Deck
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.CardIDs); err != nil {
			return nil, err
		}
		decks = append(decks, &d)
	}
	return decks, rows.Err()
}
