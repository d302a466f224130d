package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/models"
)

// InventoryRepository stores each user's inventory document. The contract
// is read-on-start, write-on-every-mutation; the payload stays opaque to
// the server.
type InventoryRepository interface {
	// Get retrieves a user's inventory state. Returns nil when the user
	// has never saved one.
	Get(ctx context.Context, userID string) (*models.InventoryState, error)

	// Save stores a user's inventory state, replacing any previous one.
	Save(ctx context.Context, userID string, data []byte) (*models.InventoryState, error)
}

// inventoryRepository is the concrete implementation of InventoryRepository.
type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new inventory repository.
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// Get retrieves a user's inventory state.
func (r *inventoryRepository) Get(ctx context.Context, userID string) (*models.InventoryState, error) {
	query := `SELECT user_id, data, updated_at FROM inventories WHERE user_id = ?`

	state := &models.InventoryState{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&state.UserID,
		&state.Data,
		&state.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	return state, nil
}

// Save stores a user's inventory state.
func (r *inventoryRepository) Save(ctx context.Context, userID string, data []byte) (*models.InventoryState, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO inventories (user_id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, data, now); err != nil {
		return nil, fmt.Errorf("failed to save inventory: %w", err)
	}

	return &models.InventoryState{UserID: userID, Data: data, UpdatedAt: now}, nil
}
