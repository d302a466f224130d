// Package cards defines the canonical card shape shared by every component
// downstream of the Scryfall boundary. Scryfall search results, named-lookup
// results and persisted deck rows all normalize into CanonicalCard here, so
// nothing else in the codebase branches on source shape.
package cards

import (
	"strconv"
	"strings"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scryfall"
)

// CanonicalCard is the resolved external card record. Immutable once fetched.
type CanonicalCard struct {
	ScryfallID        string   `json:"externalId"`
	Name              string   `json:"name"`
	ManaCost          string   `json:"manaCost"`
	TypeLine          string   `json:"typeLine"`
	Rarity            string   `json:"rarity"`
	SetCode           string   `json:"setCode"`
	SetName           string   `json:"setName"`
	ImageURL          string   `json:"imageUrl"`
	OracleText        string   `json:"oracleText"`
	Colors            []string `json:"colors"`
	ConvertedManaCost float64  `json:"convertedManaCost"`
	PriceEur          *float64 `json:"priceEur,omitempty"`
	PriceUsd          *float64 `json:"priceUsd,omitempty"`
}

// Normalize converts a Scryfall card into the canonical shape. Multi-faced
// cards take their image, mana cost, oracle text and colors from the front
// face when the top-level fields are absent.
func Normalize(sc *scryfall.Card) CanonicalCard {
	card := CanonicalCard{
		ScryfallID:        sc.ID,
		Name:              sc.Name,
		ManaCost:          sc.ManaCost,
		TypeLine:          sc.TypeLine,
		Rarity:            sc.Rarity,
		SetCode:           sc.SetCode,
		SetName:           sc.SetName,
		OracleText:        sc.OracleText,
		Colors:            sc.Colors,
		ConvertedManaCost: sc.CMC,
		PriceEur:          parsePrice(sc.Prices.EUR),
		PriceUsd:          parsePrice(sc.Prices.USD),
	}

	if sc.ImageURIs != nil {
		card.ImageURL = sc.ImageURIs.Normal
	}

	if len(sc.CardFaces) > 0 {
		front := sc.CardFaces[0]
		if card.ImageURL == "" && front.ImageURIs != nil {
			card.ImageURL = front.ImageURIs.Normal
		}
		if card.ManaCost == "" {
			card.ManaCost = front.ManaCost
		}
		if card.OracleText == "" {
			card.OracleText = front.OracleText
		}
		if len(card.Colors) == 0 {
			card.Colors = front.Colors
		}
	}

	return card
}

// MainType returns the coarse card type: the text of the type line before
// the em-dash separator, trimmed. "Legendary Creature — Elf Druid" yields
// "Legendary Creature".
func MainType(typeLine string) string {
	if idx := strings.Index(typeLine, "—"); idx >= 0 {
		typeLine = typeLine[:idx]
	}
	return strings.TrimSpace(typeLine)
}

// parsePrice converts a Scryfall decimal price string into a float pointer.
// Missing or unparseable prices come back nil.
func parsePrice(s *string) *float64 {
	if s == nil || *s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil
	}
	return &v
}
