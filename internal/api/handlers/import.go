// Package handlers contains the HTTP handlers of the import API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tcgtools/deckimport/internal/api/response"
	"github.com/tcgtools/deckimport/internal/formats"
	"github.com/tcgtools/deckimport/internal/pipeline"
)

// ImportHandler handles deck list import requests.
type ImportHandler struct {
	parser *pipeline.Parser
}

// NewImportHandler creates an ImportHandler.
func NewImportHandler(parser *pipeline.Parser) *ImportHandler {
	return &ImportHandler{parser: parser}
}

// ParseRequest is the body of a parse request. Format is optional; when
// empty the format is inferred from the card pool.
type ParseRequest struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty"`
}

// Parse runs the import pipeline over pasted deck list text.
func (h *ImportHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Text == "" {
		response.BadRequest(w, errors.New("text is required"))
		return
	}

	var override *formats.Format
	if req.Format != "" {
		f := formats.Format(req.Format)
		if !f.Valid() {
			response.BadRequest(w, fmt.Errorf("unknown format %q", req.Format))
			return
		}
		override = &f
	}

	result, err := h.parser.Parse(r.Context(), req.Text, override)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, result)
}
