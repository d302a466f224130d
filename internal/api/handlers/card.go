package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api/response"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/cards"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scan"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scryfall"
)

// CardSearcher is the slice of the Scryfall client the card handler uses.
type CardSearcher interface {
	SearchCards(ctx context.Context, query string) (*scryfall.SearchResult, error)
	GetCardNamed(ctx context.Context, name string) (*scryfall.Card, error)
}

// Scanner resolves OCR text into card matches.
type Scanner interface {
	Resolve(ctx context.Context, ocrText string) (*scan.Result, error)
}

// CardHandler proxies card lookups to Scryfall, normalizing every result
// into the canonical card shape at this boundary.
type CardHandler struct {
	searcher CardSearcher
	scanner  Scanner
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(searcher CardSearcher, scanner Scanner) *CardHandler {
	return &CardHandler{searcher: searcher, scanner: scanner}
}

// SearchResponse is a page of normalized card search results.
type SearchResponse struct {
	TotalCards int                   `json:"totalCards"`
	HasMore    bool                  `json:"hasMore"`
	Cards      []cards.CanonicalCard `json:"cards"`
}

// SearchCards performs a full-text card search.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("query parameter 'q' is required"))
		return
	}

	result, err := h.searcher.SearchCards(r.Context(), query)
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.JSON(w, http.StatusOK, SearchResponse{Cards: []cards.CanonicalCard{}})
			return
		}
		response.ServiceUnavailable(w, err)
		return
	}

	normalized := make([]cards.CanonicalCard, 0, len(result.Data))
	for i := range result.Data {
		normalized = append(normalized, cards.Normalize(&result.Data[i]))
	}

	response.JSON(w, http.StatusOK, SearchResponse{
		TotalCards: result.TotalCards,
		HasMore:    result.HasMore,
		Cards:      normalized,
	})
}

// GetCardNamed resolves a free-text name via fuzzy matching.
func (h *CardHandler) GetCardNamed(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		response.BadRequest(w, errors.New("query parameter 'name' is required"))
		return
	}

	sc, err := h.searcher.GetCardNamed(r.Context(), name)
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.NotFound(w, errors.New("no card matched that name"))
			return
		}
		response.ServiceUnavailable(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cards.Normalize(sc))
}

// ScanRequest carries the OCR text extracted from a photographed card.
type ScanRequest struct {
	Text string `json:"text"`
}

// ScanCard resolves OCR-derived text into candidate card matches.
func (h *CardHandler) ScanCard(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Text == "" {
		response.BadRequest(w, errors.New("text is required"))
		return
	}

	result, err := h.scanner.Resolve(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, scan.ErrNoMatch) {
			response.NotFound(w, err)
			return
		}
		response.ServiceUnavailable(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
