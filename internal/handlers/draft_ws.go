// internal/handlers/draft_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/draft"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/middleware"
)

// DraftMessage is the incoming WebSocket frame during a draft.
type DraftMessage struct {
	Type string `json:"type"`

	// CardUID selects a card from the player's current pack for "pick".
	CardUID uuid.UUID `json:"cardUid,omitempty"`

	// CardIDs holds the three catalog IDs for "bonus_picks".
	CardIDs []string `json:"cardIds,omitempty"`

	// CardUIDs and Energy describe the deck for "submit_deck".
	CardUIDs []uuid.UUID    `json:"cardUids,omitempty"`
	Energy   map[string]int `json:"energy,omitempty"`
}

// DraftWSHandler upgrades the connection for one draft. The creator starts
// the draft over the same socket; picks, bonus picks and deck submission all
// flow through here.
func DraftWSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// /draft/ws/{draft_id}
		draftIDStr := strings.TrimPrefix(r.URL.Path, "/draft/ws/")
		draftID, err := uuid.Parse(strings.Split(draftIDStr, "/")[0])
		if err != nil {
			http.Error(w, "invalid draft_id format", http.StatusBadRequest)
			return
		}
		if _, err := s.Drafts.Get(draftID); err != nil {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"draft"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for draft %s: %v", draftID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error")

		if c.Subprotocol() != "draft" {
			c.Close(BadSubprotocolError, "client must use the 'draft' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("auth failed for draft %s: %v", draftID, err)
			c.Close(InvalidAuthTokenError, "authentication failed")
			return
		}

		d, err := s.Drafts.Join(draftID, userID)
		if err != nil {
			logger.Warnf("user %s cannot join draft %s: %v", userID, draftID, err)
			c.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}

		s.registerConn(s.draftConns, draftID, userID, c)
		defer s.unregisterConn(s.draftConns, draftID, userID, c)

		sendDraftSnapshot(r.Context(), c, d, userID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		readDraftMessages(ctx, c, s, draftID, userID, logger)

		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
		s.Drafts.HandleDisconnect(draftID, userID)
	}
}

// sendDraftSnapshot gives a joining or reconnecting player the current phase
// and their private pack and pool.
func sendDraftSnapshot(ctx context.Context, c *websocket.Conn, d *draft.Draft, userID uuid.UUID) {
	d.Mu.Lock()
	snapshot := map[string]interface{}{
		"type":    "snapshot",
		"phase":   d.Phase,
		"round":   d.Round,
		"players": len(d.Players),
	}
	for _, p := range d.Players {
		if p.UserID == userID {
			snapshot["pack"] = p.Pack
			snapshot["pool"] = p.Pool
			break
		}
	}
	d.Mu.Unlock()
	sendWsMessage(ctx, c, snapshot)
}

func readDraftMessages(ctx context.Context, c *websocket.Conn, s *Server, draftID, userID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for user %s in draft %s", userID, draftID)
			} else if !errors.Is(err, context.Canceled) {
				logger.Warnf("read error for user %s in draft %s: %v", userID, draftID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg DraftMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, "invalid JSON format")
			continue
		}

		switch msg.Type {
		case "start":
			if err := s.Drafts.StartDraft(draftID, userID); err != nil {
				sendWsError(ctx, c, err.Error())
			}
		case "pick":
			if err := s.Drafts.PickCard(draftID, userID, msg.CardUID); err != nil {
				sendWsError(ctx, c, err.Error())
				continue
			}
			if d, err := s.Drafts.Get(draftID); err == nil {
				sendDraftSnapshot(ctx, c, d, userID)
			}
		case "bonus_picks":
			if err := s.Drafts.SubmitBonusPicks(draftID, userID, msg.CardIDs); err != nil {
				sendWsError(ctx, c, err.Error())
			}
		case "submit_deck":
			if err := s.Drafts.SubmitDeck(draftID, userID, msg.CardUIDs, msg.Energy); err != nil {
				sendWsError(ctx, c, err.Error())
			}
		case "pending_match":
			roomID, err := s.Drafts.PendingMatch(draftID, userID)
			if err != nil {
				sendWsError(ctx, c, err.Error())
				continue
			}
			sendWsMessage(ctx, c, map[string]interface{}{
				"type":   "match_assigned",
				"roomId": roomID,
			})
		case "leave":
			if err := s.Drafts.Leave(draftID, userID); err != nil {
				sendWsError(ctx, c, err.Error())
				continue
			}
			c.Close(websocket.StatusNormalClosure, "left draft")
			return
		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})
		default:
			sendWsError(ctx, c, fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}
