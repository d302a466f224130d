package deck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/cards"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scryfall"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/models"
)

// defaultLookupDelay spaces out card lookups so one import does not hammer
// the external service. A politeness control, not a correctness one.
const defaultLookupDelay = 100 * time.Millisecond

// CardResolver resolves a free-text card name to one canonical card.
type CardResolver interface {
	ResolveName(ctx context.Context, name string) (*cards.CanonicalCard, error)
}

// EntryStore is the slice of deck persistence the importer needs.
type EntryStore interface {
	GetEntry(ctx context.Context, deckID, scryfallID string) (*models.DeckCardEntry, error)
	UpsertEntry(ctx context.Context, entry *models.DeckCardEntry) error
	DeleteAllEntries(ctx context.Context, deckID string) error
}

// ImportedCard is one successfully applied deck list line.
type ImportedCard struct {
	CardName string `json:"cardName"`
	Quantity int    `json:"quantity"`
}

// FailedLine is one deck list line that could not be applied.
type FailedLine struct {
	Line     string `json:"line"`
	CardName string `json:"cardName,omitempty"`
	Reason   string `json:"reason"`
}

// ImportOutcome reports the per-line result of one import call. It is
// returned to the caller and never persisted.
type ImportOutcome struct {
	Succeeded []ImportedCard `json:"succeeded"`
	Failed    []FailedLine   `json:"failed"`
}

// Importer merges parsed deck lists into persisted deck state. Lines are
// processed strictly in input order, one lookup at a time; a failing line
// is recorded and skipped, never escalated.
type Importer struct {
	resolver CardResolver
	store    EntryStore
	delay    time.Duration
}

// NewImporter creates an importer with the default inter-lookup delay.
func NewImporter(resolver CardResolver, store EntryStore) *Importer {
	return &Importer{
		resolver: resolver,
		store:    store,
		delay:    defaultLookupDelay,
	}
}

// Import parses listText and applies it to the deck's card entries.
// When clearExisting is set, all current entries are removed before any
// line is processed. Each line is its own unit of work: lines committed
// before a later failure stay committed.
//
// Only whole-operation problems (the deck clear failing, a nil store)
// return an error; everything per-line lands in the outcome instead.
func (im *Importer) Import(ctx context.Context, deckID, listText string, clearExisting bool) (*ImportOutcome, error) {
	outcome := &ImportOutcome{
		Succeeded: make([]ImportedCard, 0),
		Failed:    make([]FailedLine, 0),
	}

	if clearExisting {
		if err := im.store.DeleteAllEntries(ctx, deckID); err != nil {
			return nil, fmt.Errorf("failed to clear deck %s: %w", deckID, err)
		}
	}

	first := true
	for _, line := range Parse(listText) {
		if line.Err != nil {
			outcome.Failed = append(outcome.Failed, FailedLine{
				Line:   line.Raw,
				Reason: line.Err.Error(),
			})
			continue
		}

		if !first {
			if err := im.sleep(ctx); err != nil {
				return outcome, err
			}
		}
		first = false

		card, err := im.resolver.ResolveName(ctx, line.CardName)
		if err != nil {
			outcome.Failed = append(outcome.Failed, FailedLine{
				Line:     line.Raw,
				CardName: line.CardName,
				Reason:   lookupFailureReason(err),
			})
			continue
		}

		if err := im.applyLine(ctx, deckID, line.Quantity, card); err != nil {
			outcome.Failed = append(outcome.Failed, FailedLine{
				Line:     line.Raw,
				CardName: card.Name,
				Reason:   "could not save card",
			})
			continue
		}

		outcome.Succeeded = append(outcome.Succeeded, ImportedCard{
			CardName: card.Name,
			Quantity: line.Quantity,
		})
	}

	return outcome, nil
}

// applyLine accumulates one resolved line into the deck. An existing entry
// keeps its snapshot fields and only gains quantity; a new card gets the
// full snapshot at its parsed quantity.
func (im *Importer) applyLine(ctx context.Context, deckID string, quantity int, card *cards.CanonicalCard) error {
	existing, err := im.store.GetEntry(ctx, deckID, card.ScryfallID)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Quantity += quantity
		return im.store.UpsertEntry(ctx, existing)
	}

	return im.store.UpsertEntry(ctx, &models.DeckCardEntry{
		DeckID:            deckID,
		ScryfallID:        card.ScryfallID,
		Quantity:          quantity,
		Name:              card.Name,
		ManaCost:          card.ManaCost,
		TypeLine:          card.TypeLine,
		Rarity:            card.Rarity,
		SetCode:           card.SetCode,
		SetName:           card.SetName,
		ImageURL:          card.ImageURL,
		OracleText:        card.OracleText,
		Colors:            strings.Join(card.Colors, ","),
		ConvertedManaCost: card.ConvertedManaCost,
		PriceEur:          card.PriceEur,
		PriceUsd:          card.PriceUsd,
	})
}

// sleep waits the inter-lookup delay or until the context is done.
func (im *Importer) sleep(ctx context.Context) error {
	if im.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(im.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// lookupFailureReason flattens a resolution error into the reason string
// reported for the line. "Not found" and network trouble stay distinct
// strings, but both are plain line failures.
func lookupFailureReason(err error) string {
	switch {
	case scryfall.IsNotFound(err):
		return "not found"
	case scryfall.IsTimeout(err):
		return "lookup timed out"
	default:
		return "card lookup failed"
	}
}
