package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tcgtools/deckimport/internal/deck"
	"github.com/tcgtools/deckimport/internal/formats"
)

// ErrSuperseded reports that a newer run started before this run finished,
// so its result was discarded.
var ErrSuperseded = errors.New("parse run superseded by a newer run")

// Session serializes result adoption for callers that re-parse on every
// edit. Runs carry a monotonically increasing sequence number and only the
// newest run's result is ever adopted: a stale run can never overwrite a
// result produced by a newer run. Individual runs share no mutable state,
// so discarding a stale run needs no rollback.
type Session struct {
	parser *Parser
	seq    atomic.Uint64

	mu      sync.Mutex
	adopted uint64
	latest  *deck.ParseResult
}

// NewSession creates a session around a parser.
func NewSession(parser *Parser) *Session {
	return &Session{parser: parser}
}

// Parse runs the pipeline and adopts the result only if no newer run has
// started in the meantime. Superseded runs return ErrSuperseded.
func (s *Session) Parse(ctx context.Context, rawText string, override *formats.Format) (*deck.ParseResult, error) {
	id := s.seq.Add(1)

	result, err := s.parser.Parse(ctx, rawText, override)
	if err != nil {
		return nil, err
	}

	// A newer run started while this one was resolving: discard.
	if s.seq.Load() != id {
		return nil, ErrSuperseded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= s.adopted {
		return nil, ErrSuperseded
	}
	s.adopted = id
	s.latest = result
	return result, nil
}

// Latest returns the most recently adopted result, or nil.
func (s *Session) Latest() *deck.ParseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
