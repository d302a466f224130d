package cards

import (
	"testing"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scryfall"
)

func strPtr(s string) *string { return &s }

func TestNormalize_SingleFacedCard(t *testing.T) {
	sc := &scryfall.Card{
		ID:       "abc-123",
		Name:     "Lightning Bolt",
		ManaCost: "{R}",
		CMC:      1,
		TypeLine: "Instant",
		Rarity:   "common",
		SetCode:  "m21",
		SetName:  "Core Set 2021",
		ImageURIs: &scryfall.ImageURIs{
			Small:  "https://img.example/small.jpg",
			Normal: "https://img.example/normal.jpg",
		},
		OracleText: "Lightning Bolt deals 3 damage to any target.",
		Colors:     []string{"R"},
		Prices: scryfall.Prices{
			USD: strPtr("1.50"),
			EUR: strPtr("1.20"),
		},
	}

	card := Normalize(sc)

	if card.ScryfallID != "abc-123" {
		t.Errorf("expected external ID abc-123, got %q", card.ScryfallID)
	}
	if card.Name != "Lightning Bolt" {
		t.Errorf("unexpected name %q", card.Name)
	}
	if card.ImageURL != "https://img.example/normal.jpg" {
		t.Errorf("expected the normal-size image, got %q", card.ImageURL)
	}
	if card.ConvertedManaCost != 1 {
		t.Errorf("expected cmc 1, got %v", card.ConvertedManaCost)
	}
	if card.PriceUsd == nil || *card.PriceUsd != 1.50 {
		t.Errorf("expected USD price 1.50, got %v", card.PriceUsd)
	}
	if card.PriceEur == nil || *card.PriceEur != 1.20 {
		t.Errorf("expected EUR price 1.20, got %v", card.PriceEur)
	}
}

func TestNormalize_MultiFacedCardFallsBackToFrontFace(t *testing.T) {
	sc := &scryfall.Card{
		ID:       "dfc-1",
		Name:     "Delver of Secrets // Insectile Aberration",
		TypeLine: "Creature — Human Wizard // Creature — Human Insect",
		CardFaces: []scryfall.CardFace{
			{
				Name:       "Delver of Secrets",
				ManaCost:   "{U}",
				OracleText: "At the beginning of your upkeep...",
				Colors:     []string{"U"},
				ImageURIs:  &scryfall.ImageURIs{Normal: "https://img.example/front.jpg"},
			},
			{
				Name:      "Insectile Aberration",
				ImageURIs: &scryfall.ImageURIs{Normal: "https://img.example/back.jpg"},
			},
		},
	}

	card := Normalize(sc)

	if card.ImageURL != "https://img.example/front.jpg" {
		t.Errorf("expected front face image, got %q", card.ImageURL)
	}
	if card.ManaCost != "{U}" {
		t.Errorf("expected front face mana cost, got %q", card.ManaCost)
	}
	if card.OracleText != "At the beginning of your upkeep..." {
		t.Errorf("expected front face oracle text, got %q", card.OracleText)
	}
	if len(card.Colors) != 1 || card.Colors[0] != "U" {
		t.Errorf("expected front face colors, got %v", card.Colors)
	}
}

func TestNormalize_MissingPrices(t *testing.T) {
	card := Normalize(&scryfall.Card{ID: "x", Name: "Test"})

	if card.PriceUsd != nil || card.PriceEur != nil {
		t.Errorf("expected nil prices, got %v / %v", card.PriceUsd, card.PriceEur)
	}
}

func TestNormalize_UnparseablePrice(t *testing.T) {
	card := Normalize(&scryfall.Card{
		ID:     "x",
		Name:   "Test",
		Prices: scryfall.Prices{USD: strPtr("n/a")},
	})

	if card.PriceUsd != nil {
		t.Errorf("expected nil price for unparseable value, got %v", card.PriceUsd)
	}
}

func TestMainType(t *testing.T) {
	tests := []struct {
		typeLine string
		want     string
	}{
		{"Creature — Goblin Scout", "Creature"},
		{"Legendary Creature — Elf Druid", "Legendary Creature"},
		{"Instant", "Instant"},
		{"Basic Land — Mountain", "Basic Land"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MainType(tt.typeLine); got != tt.want {
			t.Errorf("MainType(%q) = %q, want %q", tt.typeLine, got, tt.want)
		}
	}
}
