// Package models defines the persisted entities of the collection manager.
package models

import "time"

// User represents a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id encoded hash, never the raw password
	CreatedAt    time.Time
}

// Session represents an authenticated login session.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Deck represents a user's deck.
type Deck struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Format      string    `json:"format"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// DeckCardEntry is one line of a deck: a quantity plus a denormalized
// snapshot of the card as it looked when first added. At most one entry
// exists per (DeckID, ScryfallID) pair; repeat imports increment Quantity
// and leave the snapshot untouched.
type DeckCardEntry struct {
	DeckID            string   `json:"-"`
	ScryfallID        string   `json:"externalId"`
	Quantity          int      `json:"quantity"`
	Name              string   `json:"name"`
	ManaCost          string   `json:"manaCost"`
	TypeLine          string   `json:"typeLine"`
	Rarity            string   `json:"rarity"`
	SetCode           string   `json:"setCode"`
	SetName           string   `json:"setName"`
	ImageURL          string   `json:"imageUrl"`
	OracleText        string   `json:"oracleText"`
	Colors            string   `json:"colors"` // comma-joined color symbols
	ConvertedManaCost float64  `json:"convertedManaCost"`
	PriceEur          *float64 `json:"priceEur,omitempty"`
	PriceUsd          *float64 `json:"priceUsd,omitempty"`
}

// InventoryState is a user's scanned-card inventory, stored as an opaque
// JSON document. The client reads it on start and writes it back on every
// mutation; the server does not interpret the payload.
type InventoryState struct {
	UserID    string    `json:"-"`
	Data      []byte    `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}
