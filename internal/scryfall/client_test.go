package scryfall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.httpClient == nil {
		t.Error("httpClient is nil")
	}
	if client.rateLimiter == nil {
		t.Error("rateLimiter is nil")
	}
	if client.userAgent == "" {
		t.Error("userAgent is empty")
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("unexpected base URL %q", client.baseURL)
	}
}

func TestClient_RateLimiting(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"test","name":"Test Card"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.GetCard(ctx, "test"); err != nil {
			t.Fatalf("Request %d failed: %v", i+1, err)
		}
	}
	elapsed := time.Since(start)

	if requestCount != 3 {
		t.Errorf("Expected 3 requests, got %d", requestCount)
	}

	// 2 delays of 100ms each between 3 requests
	minDur := 200 * time.Millisecond
	if elapsed < minDur {
		t.Errorf("Rate limiting not working: completed 3 requests in %v (expected >= %v)", elapsed, minDur)
	}
}

func TestClient_GetCardNamed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/named" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fuzzy"); got != "lightning blt" {
			t.Errorf("Unexpected fuzzy query: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": "abc-123",
			"name": "Lightning Bolt",
			"mana_cost": "{R}",
			"cmc": 1.0,
			"type_line": "Instant",
			"set": "m21",
			"rarity": "common"
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	card, err := client.GetCardNamed(context.Background(), "lightning blt")
	if err != nil {
		t.Fatalf("GetCardNamed failed: %v", err)
	}

	if card.Name != "Lightning Bolt" {
		t.Errorf("Expected Lightning Bolt, got %q", card.Name)
	}
	if card.TypeLine != "Instant" {
		t.Errorf("Expected Instant, got %q", card.TypeLine)
	}
}

func TestClient_GetCardNamed_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","code":"not_found","status":404,"details":"No cards found"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.GetCardNamed(context.Background(), "no such card")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsNotFound(err) {
		t.Errorf("expected a NotFoundError, got %v", err)
	}
}

func TestClient_SearchCards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/search" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "goblin" {
			t.Errorf("Unexpected query: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"object": "list",
			"total_cards": 2,
			"has_more": false,
			"data": [
				{"id": "1", "name": "Goblin Guide"},
				{"id": "2", "name": "Goblin Lackey"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	result, err := client.SearchCards(context.Background(), "goblin")
	if err != nil {
		t.Fatalf("SearchCards failed: %v", err)
	}

	if result.TotalCards != 2 {
		t.Errorf("Expected 2 total cards, got %d", result.TotalCards)
	}
	if len(result.Data) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(result.Data))
	}
	if result.Data[0].Name != "Goblin Guide" {
		t.Errorf("Unexpected first card: %q", result.Data[0].Name)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"object":"error","code":"bad_request","status":400,"details":"Invalid search syntax"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.SearchCards(context.Background(), "((")
	if err == nil {
		t.Fatal("expected an error")
	}
	if IsNotFound(err) {
		t.Error("a 400 should not look like not-found")
	}
}
