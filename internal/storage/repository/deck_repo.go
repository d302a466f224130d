package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/models"
)

// DeckRepository handles database operations for decks and their card
// entries. The entry operations are exactly what the import/export
// pipeline consumes: find, upsert, list, delete-all.
type DeckRepository interface {
	// Create inserts a new deck.
	Create(ctx context.Context, deck *models.Deck) error

	// Update updates a deck's editable fields.
	Update(ctx context.Context, deck *models.Deck) error

	// GetByID retrieves a deck by ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*models.Deck, error)

	// ListByUser retrieves all decks owned by a user, most recently
	// modified first.
	ListByUser(ctx context.Context, userID string) ([]*models.Deck, error)

	// Delete deletes a deck and, via cascade, its card entries.
	Delete(ctx context.Context, id string) error

	// GetEntry retrieves one card entry. Returns nil when absent.
	GetEntry(ctx context.Context, deckID, scryfallID string) (*models.DeckCardEntry, error)

	// UpsertEntry inserts a card entry, or replaces the quantity of an
	// existing (deck, card) pair without touching its snapshot fields.
	UpsertEntry(ctx context.Context, entry *models.DeckCardEntry) error

	// ListEntries retrieves all card entries of a deck, ordered by name.
	ListEntries(ctx context.Context, deckID string) ([]*models.DeckCardEntry, error)

	// RemoveEntry removes one card from a deck.
	RemoveEntry(ctx context.Context, deckID, scryfallID string) error

	// DeleteAllEntries removes every card entry of a deck.
	DeleteAllEntries(ctx context.Context, deckID string) error
}

// deckRepository is the concrete implementation of DeckRepository.
type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db *sql.DB) DeckRepository {
	return &deckRepository{db: db}
}

// Create inserts a new deck.
func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	query := `
		INSERT INTO decks (id, user_id, name, description, format, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		deck.ID,
		deck.UserID,
		deck.Name,
		deck.Description,
		deck.Format,
		deck.CreatedAt,
		deck.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	return nil
}

// Update updates a deck's editable fields.
func (r *deckRepository) Update(ctx context.Context, deck *models.Deck) error {
	query := `
		UPDATE decks
		SET name = ?, description = ?, format = ?, modified_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		deck.Name,
		deck.Description,
		deck.Format,
		deck.ModifiedAt,
		deck.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	return nil
}

// GetByID retrieves a deck by ID.
func (r *deckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	query := `
		SELECT id, user_id, name, description, format, created_at, modified_at
		FROM decks
		WHERE id = ?
	`

	deck := &models.Deck{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.Description,
		&deck.Format,
		&deck.CreatedAt,
		&deck.ModifiedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	return deck, nil
}

// ListByUser retrieves all decks owned by a user.
func (r *deckRepository) ListByUser(ctx context.Context, userID string) ([]*models.Deck, error) {
	query := `
		SELECT id, user_id, name, description, format, created_at, modified_at
		FROM decks
		WHERE user_id = ?
		ORDER BY modified_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	decks := make([]*models.Deck, 0)
	for rows.Next() {
		deck := &models.Deck{}
		if err := rows.Scan(
			&deck.ID,
			&deck.UserID,
			&deck.Name,
			&deck.Description,
			&deck.Format,
			&deck.CreatedAt,
			&deck.ModifiedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}

	return decks, nil
}

// Delete deletes a deck by ID.
func (r *deckRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}

// GetEntry retrieves one card entry of a deck.
func (r *deckRepository) GetEntry(ctx context.Context, deckID, scryfallID string) (*models.DeckCardEntry, error) {
	query := `
		SELECT deck_id, scryfall_id, quantity, name, mana_cost, type_line, rarity,
		       set_code, set_name, image_url, oracle_text, colors, cmc, price_eur, price_usd
		FROM deck_cards
		WHERE deck_id = ? AND scryfall_id = ?
	`

	entry := &models.DeckCardEntry{}
	err := r.db.QueryRowContext(ctx, query, deckID, scryfallID).Scan(
		&entry.DeckID,
		&entry.ScryfallID,
		&entry.Quantity,
		&entry.Name,
		&entry.ManaCost,
		&entry.TypeLine,
		&entry.Rarity,
		&entry.SetCode,
		&entry.SetName,
		&entry.ImageURL,
		&entry.OracleText,
		&entry.Colors,
		&entry.ConvertedManaCost,
		&entry.PriceEur,
		&entry.PriceUsd,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck card entry: %w", err)
	}

	return entry, nil
}

// UpsertEntry inserts or updates a card entry. On conflict only the
// quantity changes; the snapshot columns keep their first-add values.
func (r *deckRepository) UpsertEntry(ctx context.Context, entry *models.DeckCardEntry) error {
	query := `
		INSERT INTO deck_cards (
			deck_id, scryfall_id, quantity, name, mana_cost, type_line, rarity,
			set_code, set_name, image_url, oracle_text, colors, cmc, price_eur, price_usd
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(deck_id, scryfall_id) DO UPDATE SET quantity = excluded.quantity
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.DeckID,
		entry.ScryfallID,
		entry.Quantity,
		entry.Name,
		entry.ManaCost,
		entry.TypeLine,
		entry.Rarity,
		entry.SetCode,
		entry.SetName,
		entry.ImageURL,
		entry.OracleText,
		entry.Colors,
		entry.ConvertedManaCost,
		entry.PriceEur,
		entry.PriceUsd,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert deck card entry: %w", err)
	}

	return nil
}

// ListEntries retrieves all card entries of a deck.
func (r *deckRepository) ListEntries(ctx context.Context, deckID string) ([]*models.DeckCardEntry, error) {
	query := `
		SELECT deck_id, scryfall_id, quantity, name, mana_cost, type_line, rarity,
		       set_code, set_name, image_url, oracle_text, colors, cmc, price_eur, price_usd
		FROM deck_cards
		WHERE deck_id = ?
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deck card entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*models.DeckCardEntry, 0)
	for rows.Next() {
		entry := &models.DeckCardEntry{}
		if err := rows.Scan(
			&entry.DeckID,
			&entry.ScryfallID,
			&entry.Quantity,
			&entry.Name,
			&entry.ManaCost,
			&entry.TypeLine,
			&entry.Rarity,
			&entry.SetCode,
			&entry.SetName,
			&entry.ImageURL,
			&entry.OracleText,
			&entry.Colors,
			&entry.ConvertedManaCost,
			&entry.PriceEur,
			&entry.PriceUsd,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck card entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deck card entries: %w", err)
	}

	return entries, nil
}

// RemoveEntry removes one card from a deck.
func (r *deckRepository) RemoveEntry(ctx context.Context, deckID, scryfallID string) error {
	query := `DELETE FROM deck_cards WHERE deck_id = ? AND scryfall_id = ?`
	if _, err := r.db.ExecContext(ctx, query, deckID, scryfallID); err != nil {
		return fmt.Errorf("failed to remove deck card entry: %w", err)
	}
	return nil
}

// DeleteAllEntries removes every card entry of a deck.
func (r *deckRepository) DeleteAllEntries(ctx context.Context, deckID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, deckID); err != nil {
		return fmt.Errorf("failed to clear deck card entries: %w", err)
	}
	return nil
}
