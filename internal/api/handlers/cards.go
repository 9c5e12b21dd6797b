package handlers

import (
	"errors"
	"net/http"

	"github.com/tcgtools/deckimport/internal/api/response"
	"github.com/tcgtools/deckimport/internal/cardindex/store"
)

// CardHandler exposes read access to the local card index.
type CardHandler struct {
	store *store.Store
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(st *store.Store) *CardHandler {
	return &CardHandler{store: st}
}

// Printings returns every indexed printing of a card name.
func (h *CardHandler) Printings(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		response.BadRequest(w, errors.New("name is required"))
		return
	}

	printings, err := h.store.GetPrintings(r.Context(), name)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, printings)
}
