package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api/response"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/repository"
)

// maxInventoryBytes bounds the size of a stored inventory document.
const maxInventoryBytes = 1 << 20 // 1 MB

// InventoryHandler stores each user's inventory document. The client
// loads it on start and saves it back on every mutation.
type InventoryHandler struct {
	inventories repository.InventoryRepository
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventories repository.InventoryRepository) *InventoryHandler {
	return &InventoryHandler{inventories: inventories}
}

// InventoryResponse is the stored inventory document plus its save time.
type InventoryResponse struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt *time.Time      `json:"updatedAt"`
}

// GetInventory returns the user's inventory, or an empty document if they
// have never saved one.
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	state, err := h.inventories.Get(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		response.InternalError(w, err)
		return
	}

	if state == nil {
		response.JSON(w, http.StatusOK, InventoryResponse{Data: json.RawMessage("{}")})
		return
	}

	response.JSON(w, http.StatusOK, InventoryResponse{
		Data:      json.RawMessage(state.Data),
		UpdatedAt: &state.UpdatedAt,
	})
}

// SaveInventory replaces the user's inventory document.
func (h *InventoryHandler) SaveInventory(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxInventoryBytes+1))
	if err != nil {
		response.BadRequest(w, errors.New("could not read request body"))
		return
	}

	if len(body) > maxInventoryBytes {
		response.BadRequest(w, errors.New("inventory document too large"))
		return
	}

	if !json.Valid(body) {
		response.BadRequest(w, errors.New("inventory must be valid JSON"))
		return
	}

	state, err := h.inventories.Save(r.Context(), UserIDFrom(r.Context()), body)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, InventoryResponse{
		Data:      json.RawMessage(state.Data),
		UpdatedAt: &state.UpdatedAt,
	})
}
