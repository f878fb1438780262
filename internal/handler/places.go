package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ZipSuggester отдаёт сырой ответ провайдера автодополнения индексов.
type ZipSuggester interface {
	SuggestZips(ctx context.Context, input string) (json.RawMessage, error)
}

type PlacesHandler struct {
	suggester ZipSuggester
}

func NewPlacesHandler(suggester ZipSuggester) *PlacesHandler {
	return &PlacesHandler{suggester: suggester}
}

func (h *PlacesHandler) RegisterRoutes(router chi.Router) {
	router.Get("/places/suggest", h.handleSuggest)
}

func (h *PlacesHandler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("input")
	if input == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter input is required")
		return
	}

	raw, err := h.suggester.SuggestZips(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Str("input", input).Msg("Failed to fetch zip suggestions")
		respondWithError(w, http.StatusBadGateway, "Suggestion provider unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}
