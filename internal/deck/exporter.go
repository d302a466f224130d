package deck

import (
	"fmt"
	"sort"
	"strings"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/cards"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/models"
)

// typeOrder is the fixed ordering of recognized card type groups in an
// exported list. Unrecognized groups sort after all of these, keeping
// their first-seen order.
var typeOrder = []string{
	"Creature",
	"Planeswalker",
	"Instant",
	"Sorcery",
	"Artifact",
	"Enchantment",
	"Land",
}

// Export serializes a deck's entries into a human-editable text list,
// grouped by coarse card type. The output round-trips: stripped of its
// comment lines it re-parses and re-reconciles to the same multiset of
// (card, quantity) pairs.
func Export(deck *models.Deck, entries []*models.DeckCardEntry) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("// %s\n", deck.Name))
	if deck.Description != "" {
		sb.WriteString(fmt.Sprintf("// %s\n", deck.Description))
	}
	if deck.Format != "" {
		sb.WriteString(fmt.Sprintf("// Format: %s\n", deck.Format))
	}

	total := 0
	for _, group := range groupEntries(entries) {
		sb.WriteString(fmt.Sprintf("\n// %s\n", group.name))
		for _, entry := range group.entries {
			sb.WriteString(fmt.Sprintf("%d %s\n", entry.Quantity, entry.Name))
			total += entry.Quantity
		}
	}

	sb.WriteString(fmt.Sprintf("\n// Total cards: %d\n", total))

	return sb.String()
}

// typeGroup is one export section: a coarse main type plus its entries.
type typeGroup struct {
	name    string
	entries []*models.DeckCardEntry
}

// groupEntries buckets entries by main type and orders the buckets:
// recognized types in typeOrder, everything else after in first-seen
// order. Entries within a group sort by name, case-sensitive.
func groupEntries(entries []*models.DeckCardEntry) []typeGroup {
	byType := make(map[string][]*models.DeckCardEntry)
	var seen []string

	for _, entry := range entries {
		main := cards.MainType(entry.TypeLine)
		if main == "" {
			main = "Other"
		}
		if _, ok := byType[main]; !ok {
			seen = append(seen, main)
		}
		byType[main] = append(byType[main], entry)
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return typeRank(seen[i]) < typeRank(seen[j])
	})

	groups := make([]typeGroup, 0, len(seen))
	for _, name := range seen {
		group := byType[name]
		sort.Slice(group, func(i, j int) bool {
			return group[i].Name < group[j].Name
		})
		groups = append(groups, typeGroup{name: name, entries: group})
	}

	return groups
}

// typeRank maps a main type onto its position in typeOrder. A group
// counts as recognized when it contains the preferred type as a word,
// so "Legendary Creature" ranks with "Creature". Unrecognized groups
// all rank last; SliceStable keeps their relative order.
func typeRank(mainType string) int {
	words := strings.Fields(mainType)
	for rank, preferred := range typeOrder {
		for _, word := range words {
			if word == preferred {
				return rank
			}
		}
	}
	return len(typeOrder)
}
