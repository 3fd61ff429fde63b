// internal/handlers/match.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/database"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/match"
)

type createRoomRequest struct {
	PrizeCount     int       `json:"prizeCount"`
	Wager          int64     `json:"wager"`
	ReservedUserID uuid.UUID `json:"reservedUserId,omitempty"`
}

// CreateRoomHandler opens a match room. A positive wager is debited from the
// creator up front; the joiner stakes theirs on first join.
func CreateRoomHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		if req.Wager < 0 {
			http.Error(w, "wager cannot be negative", http.StatusBadRequest)
			return
		}
		if req.Wager > 0 && database.DB != nil {
			if err := database.DebitCoins(r.Context(), userID, req.Wager, "match_stake"); err != nil {
				if errors.Is(err, database.ErrInsufficientCoins) {
					http.Error(w, "insufficient coins for wager", http.StatusPaymentRequired)
					return
				}
				http.Error(w, "failed to stake wager", http.StatusInternalServerError)
				return
			}
		}

		room := s.Matches.Create(userID, match.RoomConfig{
			PrizeCount:     req.PrizeCount,
			Wager:          req.Wager,
			ReservedUserID: req.ReservedUserID,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"room_id":     room.ID,
			"prize_count": room.Config.PrizeCount,
		})
	}
}

// ListRoomsHandler returns all live rooms with their status.
func ListRoomsHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type roomInfo struct {
			ID         uuid.UUID    `json:"id"`
			Status     match.Status `json:"status"`
			PrizeCount int          `json:"prizeCount"`
			Wager      int64        `json:"wager"`
		}
		rooms := s.Matches.List()
		out := make([]roomInfo, 0, len(rooms))
		for _, room := range rooms {
			room.Mu.Lock()
			out = append(out, roomInfo{
				ID:         room.ID,
				Status:     room.Status,
				PrizeCount: room.Config.PrizeCount,
				Wager:      room.Config.Wager,
			})
			room.Mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

// DeleteRoomHandler removes a room. Creator only; never mid-game.
func DeleteRoomHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}
		roomIDStr := strings.TrimPrefix(r.URL.Path, "/room/delete/")
		roomID, err := uuid.Parse(roomIDStr)
		if err != nil {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}
		if err := s.Matches.Delete(roomID, userID); err != nil {
			writeMatchError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeMatchError maps the match error taxonomy to HTTP status codes.
func writeMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, match.ErrRoomNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, match.ErrAuthorizationDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, match.ErrCapacityExceeded):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, match.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
