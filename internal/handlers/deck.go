// internal/handlers/deck.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/database"
)

type saveDeckRequest struct {
	ID      uuid.UUID `json:"id,omitempty"`
	Name    string    `json:"name"`
	CardIDs []string  `json:"cardIds"`
}

// SaveDeckHandler stores a constructed deck list for later matches. Card IDs
// must exist in the shared catalog.
func SaveDeckHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}
		var req saveDeckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		for _, id := range req.CardIDs {
			if _, ok := s.Catalog.Get(id); !ok {
				http.Error(w, "unknown card id: "+id, http.StatusBadRequest)
				return
			}
		}
		deck := &database.Deck{
			ID:      req.ID,
			UserID:  userID,
			Name:    req.Name,
			CardIDs: req.CardIDs,
		}
		if err := database.SaveDeck(r.Context(), deck); err != nil {
			http.Error(w, "failed to save deck", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"deck_id": deck.ID})
	}
}

// ListDecksHandler returns the caller's stored decks.
func ListDecksHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}
		decks, err := database.ListDecks(r.Context(), userID)
		if err != nil {
			http.Error(w, "failed to list decks", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(decks)
	}
}
