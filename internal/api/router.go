// Package api wires the import pipeline and card index into a REST server.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tcgtools/deckimport/internal/api/handlers"
	"github.com/tcgtools/deckimport/internal/cardindex/store"
	"github.com/tcgtools/deckimport/internal/pipeline"
)

// NewRouter builds the API router around a parser and the card index.
func NewRouter(parser *pipeline.Parser, st *store.Store, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	importHandler := handlers.NewImportHandler(parser)
	cardHandler := handlers.NewCardHandler(st)

	r.Route("/api", func(r chi.Router) {
		r.Post("/import/parse", importHandler.Parse)
		r.Get("/cards/printings", cardHandler.Printings)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
