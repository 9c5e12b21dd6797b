// Package lookup combines the local card index with the remote card API
// into the cache-through resolver the pipeline consumes.
package lookup

import (
	"context"
	"fmt"

	"github.com/tcgtools/deckimport/internal/cardindex"
	"github.com/tcgtools/deckimport/internal/cardindex/remote"
	"github.com/tcgtools/deckimport/internal/cardindex/store"
)

// Service resolves card names through the local index, filling misses
// from the remote API and caching what it fetched.
type Service struct {
	store  *store.Store
	client *remote.Client
}

// NewService creates a lookup service. The client may be nil for a purely
// offline index.
func NewService(st *store.Store, client *remote.Client) *Service {
	return &Service{store: st, client: client}
}

// ResolveMany resolves all requests in one batch. A name missing from both
// the index and the API maps to an empty result; only an index failure is
// an infrastructure error.
func (s *Service) ResolveMany(ctx context.Context, reqs []cardindex.Request) (map[string]cardindex.Result, error) {
	results, err := s.store.ResolveMany(ctx, reqs)
	if err != nil {
		return nil, err
	}

	if s.client == nil {
		return results, nil
	}

	for _, req := range reqs {
		if results[req.Name].Found() {
			continue
		}

		card, err := s.fetchAndCache(ctx, req)
		if err != nil {
			// Remote misses and outages both degrade to an
			// unresolved entry; the run itself keeps going.
			continue
		}
		results[req.Name] = cardindex.Result{Card: card}
	}

	return results, nil
}

// fetchAndCache pulls every printing of a name from the API, stores them,
// and returns the printing best matching the request hints.
func (s *Service) fetchAndCache(ctx context.Context, req cardindex.Request) (*cardindex.Card, error) {
	printings, err := s.client.SearchByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", req.Name, err)
	}
	if len(printings) == 0 {
		return nil, fmt.Errorf("no printings of %q", req.Name)
	}

	for _, p := range printings {
		// Cache failures are not fatal: the fetched data is in hand.
		_ = s.store.SaveCard(ctx, p.ToCard())
	}

	return s.store.FindCard(ctx, req)
}
