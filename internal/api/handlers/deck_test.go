package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/cards"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/deck"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scryfall"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/models"
)

// mockDeckRepo is an in-memory mock of repository.DeckRepository.
type mockDeckRepo struct {
	decks   map[string]*models.Deck
	entries map[string]*models.DeckCardEntry // keyed deckID + "/" + scryfallID
	err     error
}

func newMockDeckRepo() *mockDeckRepo {
	return &mockDeckRepo{
		decks:   make(map[string]*models.Deck),
		entries: make(map[string]*models.DeckCardEntry),
	}
}

func (m *mockDeckRepo) Create(_ context.Context, d *models.Deck) error {
	if m.err != nil {
		return m.err
	}
	copied := *d
	m.decks[d.ID] = &copied
	return nil
}

func (m *mockDeckRepo) Update(_ context.Context, d *models.Deck) error {
	if m.err != nil {
		return m.err
	}
	copied := *d
	m.decks[d.ID] = &copied
	return nil
}

func (m *mockDeckRepo) GetByID(_ context.Context, id string) (*models.Deck, error) {
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.decks[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *mockDeckRepo) ListByUser(_ context.Context, userID string) ([]*models.Deck, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*models.Deck, 0)
	for _, d := range m.decks {
		if d.UserID == userID {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockDeckRepo) Delete(_ context.Context, id string) error {
	delete(m.decks, id)
	return m.err
}

func (m *mockDeckRepo) GetEntry(_ context.Context, deckID, scryfallID string) (*models.DeckCardEntry, error) {
	e, ok := m.entries[deckID+"/"+scryfallID]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (m *mockDeckRepo) UpsertEntry(_ context.Context, e *models.DeckCardEntry) error {
	copied := *e
	m.entries[e.DeckID+"/"+e.ScryfallID] = &copied
	return nil
}

func (m *mockDeckRepo) ListEntries(_ context.Context, deckID string) ([]*models.DeckCardEntry, error) {
	out := make([]*models.DeckCardEntry, 0)
	for _, e := range m.entries {
		if e.DeckID == deckID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockDeckRepo) RemoveEntry(_ context.Context, deckID, scryfallID string) error {
	delete(m.entries, deckID+"/"+scryfallID)
	return m.err
}

func (m *mockDeckRepo) DeleteAllEntries(_ context.Context, deckID string) error {
	for key, e := range m.entries {
		if e.DeckID == deckID {
			delete(m.entries, key)
		}
	}
	return m.err
}

// stubResolver resolves a fixed set of card names.
type stubResolver struct {
	cards map[string]*cards.CanonicalCard
}

func (s *stubResolver) ResolveName(_ context.Context, name string) (*cards.CanonicalCard, error) {
	card, ok := s.cards[name]
	if !ok {
		return nil, &scryfall.NotFoundError{URL: "stub"}
	}
	return card, nil
}

// deckTestRouter mounts the deck routes behind a middleware that injects
// the given user ID, the way the session middleware does in production.
func deckTestRouter(h *DeckHandler, userID string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), userIDKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/decks", h.ListDecks)
	r.Post("/decks", h.CreateDeck)
	r.Get("/decks/{deckID}", h.GetDeck)
	r.Put("/decks/{deckID}", h.UpdateDeck)
	r.Delete("/decks/{deckID}", h.DeleteDeck)
	r.Post("/decks/{deckID}/import", h.ImportDeck)
	r.Get("/decks/{deckID}/export", h.ExportDeck)
	r.Delete("/decks/{deckID}/cards/{scryfallID}", h.RemoveCard)
	return r
}

func seedDeck(repo *mockDeckRepo, id, userID string) *models.Deck {
	now := time.Now().UTC()
	d := &models.Deck{
		ID:         id,
		UserID:     userID,
		Name:       "Burn",
		Format:     "Modern",
		CreatedAt:  now,
		ModifiedAt: now,
	}
	repo.decks[id] = d
	return d
}

func newDeckTestHandler(repo *mockDeckRepo, resolver deck.CardResolver) *DeckHandler {
	if resolver == nil {
		resolver = &stubResolver{cards: map[string]*cards.CanonicalCard{}}
	}
	importer := deck.NewImporter(resolver, repo)
	return NewDeckHandler(repo, importer)
}

func TestCreateDeck(t *testing.T) {
	repo := newMockDeckRepo()
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	body, _ := json.Marshal(CreateDeckRequest{Name: "Burn", Format: "Modern"})
	req := httptest.NewRequest(http.MethodPost, "/decks", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Deck
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated deck ID")
	}
	if created.Name != "Burn" {
		t.Errorf("unexpected name %q", created.Name)
	}
	if _, ok := repo.decks[created.ID]; !ok {
		t.Error("deck was not persisted")
	}
}

func TestCreateDeck_MissingName(t *testing.T) {
	repo := newMockDeckRepo()
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(`{"format":"Modern"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetDeck_NotOwnedLooksAbsent(t *testing.T) {
	repo := newMockDeckRepo()
	seedDeck(repo, "deck-1", "someone-else")
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodGet, "/decks/deck-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a deck owned by another user, got %d", w.Code)
	}
}

func TestGetDeck_IncludesCards(t *testing.T) {
	repo := newMockDeckRepo()
	seedDeck(repo, "deck-1", "user-1")
	repo.entries["deck-1/sf-bolt"] = &models.DeckCardEntry{
		DeckID: "deck-1", ScryfallID: "sf-bolt", Quantity: 4, Name: "Lightning Bolt",
	}
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodGet, "/decks/deck-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got DeckWithCards
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Cards) != 1 || got.Cards[0].Name != "Lightning Bolt" {
		t.Errorf("unexpected cards: %+v", got.Cards)
	}
}

func TestUpdateDeck(t *testing.T) {
	repo := newMockDeckRepo()
	seedDeck(repo, "deck-1", "user-1")
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodPut, "/decks/deck-1", strings.NewReader(`{"name":"Mono Red"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if repo.decks["deck-1"].Name != "Mono Red" {
		t.Errorf("expected name updated, got %q", repo.decks["deck-1"].Name)
	}
	if repo.decks["deck-1"].Format != "Modern" {
		t.Errorf("format should be untouched, got %q", repo.decks["deck-1"].Format)
	}
}

func TestDeleteDeck(t *testing.T) {
	repo := newMockDeckRepo()
	seedDeck(repo, "deck-1", "user-1")
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodDelete, "/decks/deck-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if _, ok := repo.decks["deck-1"]; ok {
		t.Error("deck should be deleted")
	}
}

func TestImportDeck_MissingDeckListText(t *testing.T) {
	repo := newMockDeckRepo()
	seedDeck(repo, "deck-1", "user-1")
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodPost, "/decks/deck-1/import", strings.NewReader(`{"clearExisting":true}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when deckListText is absent, got %d", w.Code)
	}
}

func TestImportDeck_ReportsPerLineOutcome(t *testing.T) {
	repo := newMockDeckRepo()
	seedDeck(repo, "deck-1", "user-1")
	resolver := &stubResolver{cards: map[string]*cards.CanonicalCard{
		"Lightning Bolt": {ScryfallID: "sf-bolt", Name: "Lightning Bolt", TypeLine: "Instant"},
	}}
	router := deckTestRouter(newDeckTestHandler(repo, resolver), "user-1")

	body, _ := json.Marshal(map[string]interface{}{
		"deckListText": "4 Lightning Bolt\n2 No Such Card",
	})
	req := httptest.NewRequest(http.MethodPost, "/decks/deck-1/import", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite a failing line, got %d: %s", w.Code, w.Body.String())
	}

	var outcome deck.ImportOutcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}
	if len(outcome.Succeeded) != 1 || outcome.Succeeded[0].CardName != "Lightning Bolt" {
		t.Errorf("unexpected succeeded: %+v", outcome.Succeeded)
	}
	if len(outcome.Failed) != 1 || outcome.Failed[0].Reason != "not found" {
		t.Errorf("unexpected failed: %+v", outcome.Failed)
	}
	if repo.entries["deck-1/sf-bolt"] == nil || repo.entries["deck-1/sf-bolt"].Quantity != 4 {
		t.Errorf("expected the resolved line persisted: %+v", repo.entries)
	}
}

func TestImportDeck_DeckNotFound(t *testing.T) {
	repo := newMockDeckRepo()
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodPost, "/decks/missing/import", strings.NewReader(`{"deckListText":""}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportDeck(t *testing.T) {
	repo := newMockDeckRepo()
	seedDeck(repo, "deck-1", "user-1")
	repo.entries["deck-1/sf-bolt"] = &models.DeckCardEntry{
		DeckID: "deck-1", ScryfallID: "sf-bolt", Quantity: 4,
		Name: "Lightning Bolt", TypeLine: "Instant",
	}
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodGet, "/decks/deck-1/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `attachment`) || !strings.Contains(cd, "Burn.txt") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if !strings.Contains(w.Body.String(), "4 Lightning Bolt") {
		t.Errorf("export body missing card line:\n%s", w.Body.String())
	}
}

func TestRemoveCard(t *testing.T) {
	repo := newMockDeckRepo()
	seedDeck(repo, "deck-1", "user-1")
	repo.entries["deck-1/sf-bolt"] = &models.DeckCardEntry{
		DeckID: "deck-1", ScryfallID: "sf-bolt", Quantity: 4, Name: "Lightning Bolt",
	}
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodDelete, "/decks/deck-1/cards/sf-bolt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if _, ok := repo.entries["deck-1/sf-bolt"]; ok {
		t.Error("entry should be removed")
	}
}

func TestListDecks_StorageError(t *testing.T) {
	repo := newMockDeckRepo()
	repo.err = errors.New("disk on fire")
	router := deckTestRouter(newDeckTestHandler(repo, nil), "user-1")

	req := httptest.NewRequest(http.MethodGet, "/decks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
