package cards

import (
	"context"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scryfall"
)

// Resolver resolves free-text card names through the Scryfall client and
// normalizes the result at the boundary.
type Resolver struct {
	client *scryfall.Client
}

// NewResolver creates a resolver backed by the given Scryfall client.
func NewResolver(client *scryfall.Client) *Resolver {
	return &Resolver{client: client}
}

// ResolveName resolves a card name via Scryfall's fuzzy matching. The
// error is the client's: a NotFoundError when the service reports no
// match, otherwise the transport failure.
func (r *Resolver) ResolveName(ctx context.Context, name string) (*CanonicalCard, error) {
	sc, err := r.client.GetCardNamed(ctx, name)
	if err != nil {
		return nil, err
	}

	card := Normalize(sc)
	return &card, nil
}
