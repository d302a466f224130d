package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api/response"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/deck"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/models"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/repository"
)

// DeckHandler handles deck CRUD and the import/export pipeline.
type DeckHandler struct {
	decks    repository.DeckRepository
	importer *deck.Importer
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks repository.DeckRepository, importer *deck.Importer) *DeckHandler {
	return &DeckHandler{decks: decks, importer: importer}
}

// ListDecks returns all decks of the authenticated user.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.decks.ListByUser(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, decks)
}

// CreateDeckRequest represents a request to create a deck.
type CreateDeckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Format      string `json:"format"`
}

// CreateDeck creates a new empty deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	now := time.Now().UTC()
	d := &models.Deck{
		ID:          uuid.NewString(),
		UserID:      UserIDFrom(r.Context()),
		Name:        req.Name,
		Description: req.Description,
		Format:      req.Format,
		CreatedAt:   now,
		ModifiedAt:  now,
	}

	if err := h.decks.Create(r.Context(), d); err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, d)
}

// DeckWithCards is a deck plus its card entries.
type DeckWithCards struct {
	*models.Deck
	Cards []*models.DeckCardEntry `json:"cards"`
}

// GetDeck returns a single deck with its cards.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedDeck(w, r)
	if !ok {
		return
	}

	entries, err := h.decks.ListEntries(r.Context(), d.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, DeckWithCards{Deck: d, Cards: entries})
}

// UpdateDeckRequest represents a request to update a deck.
type UpdateDeckRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Format      *string `json:"format,omitempty"`
}

// UpdateDeck updates a deck's editable fields.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedDeck(w, r)
	if !ok {
		return
	}

	var req UpdateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			response.BadRequest(w, errors.New("deck name cannot be empty"))
			return
		}
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Format != nil {
		d.Format = *req.Format
	}
	d.ModifiedAt = time.Now().UTC()

	if err := h.decks.Update(r.Context(), d); err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, d)
}

// DeleteDeck deletes a deck and its cards.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedDeck(w, r)
	if !ok {
		return
	}

	if err := h.decks.Delete(r.Context(), d.ID); err != nil {
		response.InternalError(w, err)
		return
	}

	response.NoContent(w)
}

// RemoveCard removes one card from a deck.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedDeck(w, r)
	if !ok {
		return
	}

	scryfallID := chi.URLParam(r, "scryfallID")
	if scryfallID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}

	if err := h.decks.RemoveEntry(r.Context(), d.ID, scryfallID); err != nil {
		response.InternalError(w, err)
		return
	}

	response.NoContent(w)
}

// ImportDeckRequest represents a deck list import request.
type ImportDeckRequest struct {
	DeckListText  *string `json:"deckListText"`
	ClearExisting bool    `json:"clearExisting"`
}

// ImportDeck parses a deck list and merges it into the deck. The response
// is always 200 with a per-line outcome once the deck itself checks out;
// individual line failures never fail the call.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedDeck(w, r)
	if !ok {
		return
	}

	var req ImportDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.DeckListText == nil {
		response.BadRequest(w, errors.New("deckListText is required"))
		return
	}

	outcome, err := h.importer.Import(r.Context(), d.ID, *req.DeckListText, req.ClearExisting)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	d.ModifiedAt = time.Now().UTC()
	if err := h.decks.Update(r.Context(), d); err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, outcome)
}

// ExportDeck returns the deck as a plain-text list attachment.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	d, ok := h.ownedDeck(w, r)
	if !ok {
		return
	}

	entries, err := h.decks.ListEntries(r.Context(), d.ID)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	content := deck.Export(d, entries)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sanitizeFilename(d.Name)+".txt"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

// ownedDeck loads the deck from the URL and enforces ownership. A deck
// that doesn't exist and a deck owned by someone else are both reported
// as 404, so deck IDs don't leak across users.
func (h *DeckHandler) ownedDeck(w http.ResponseWriter, r *http.Request) (*models.Deck, bool) {
	deckID := chi.URLParam(r, "deckID")
	if deckID == "" {
		response.BadRequest(w, errors.New("deck ID is required"))
		return nil, false
	}

	d, err := h.decks.GetByID(r.Context(), deckID)
	if err != nil {
		response.InternalError(w, err)
		return nil, false
	}

	if d == nil || d.UserID != UserIDFrom(r.Context()) {
		response.NotFound(w, errors.New("deck not found"))
		return nil, false
	}

	return d, true
}

// sanitizeFilename removes invalid characters from a download filename.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = "deck"
	}
	return result
}
