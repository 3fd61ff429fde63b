// internal/handlers/draft.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/database"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/draft"
)

type createDraftRequest struct {
	MaxPlayers     int `json:"maxPlayers"`
	PackSize       int `json:"packSize"`
	Rounds         int `json:"rounds"`
	PickTimeoutSec int `json:"pickTimeoutSec"`
	MinDeckSize    int `json:"minDeckSize"`
	PrizeCount     int `json:"prizeCount"`
}

// CreateDraftHandler opens a draft lobby. Restricted to admin accounts.
func CreateDraftHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}
		if database.DB != nil {
			u, err := database.GetUserByID(r.Context(), userID)
			if err != nil || !u.IsAdmin {
				http.Error(w, "draft creation requires an admin account", http.StatusForbidden)
				return
			}
		}

		var req createDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		d := s.Drafts.Create(userID, draft.Config{
			MaxPlayers:  req.MaxPlayers,
			PackSize:    req.PackSize,
			Rounds:      req.Rounds,
			PickTimeout: time.Duration(req.PickTimeoutSec) * time.Second,
			MinDeckSize: req.MinDeckSize,
			PrizeCount:  req.PrizeCount,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"draft_id": d.ID,
		})
	}
}

// ListDraftsHandler returns all live drafts with phase and seat counts.
func ListDraftsHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type draftInfo struct {
			ID         uuid.UUID   `json:"id"`
			Phase      draft.Phase `json:"phase"`
			Players    int         `json:"players"`
			MaxPlayers int         `json:"maxPlayers"`
		}
		drafts := s.Drafts.List()
		out := make([]draftInfo, 0, len(drafts))
		for _, d := range drafts {
			d.Mu.Lock()
			out = append(out, draftInfo{
				ID:         d.ID,
				Phase:      d.Phase,
				Players:    len(d.Players),
				MaxPlayers: d.Config.MaxPlayers,
			})
			d.Mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

// DraftStandingsHandler returns the current tournament table.
func DraftStandingsHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftIDStr := strings.TrimPrefix(r.URL.Path, "/draft/standings/")
		draftID, err := uuid.Parse(draftIDStr)
		if err != nil {
			http.Error(w, "invalid draft id", http.StatusBadRequest)
			return
		}
		standings, err := s.Drafts.Standings(draftID)
		if err != nil {
			if errors.Is(err, draft.ErrDraftNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(standings)
	}
}
