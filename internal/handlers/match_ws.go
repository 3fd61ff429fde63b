// internal/handlers/match_ws.go
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

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/database"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/match"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/middleware"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
)

// MatchMessage is the incoming WebSocket frame during a match.
type MatchMessage struct {
	Type string `json:"type"`

	// Action carries the move for "action" frames, expressed in the sender's
	// own perspective.
	Action *rules.Action `json:"action,omitempty"`
}

// MatchWSHandler upgrades the connection for one match room. It authenticates
// the user, seats (or re-seats) them, collects the wager on a fresh join and
// runs the read loop.
func MatchWSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// /room/ws/{room_id}
		roomIDStr := strings.TrimPrefix(r.URL.Path, "/room/ws/")
		roomID, err := uuid.Parse(strings.Split(roomIDStr, "/")[0])
		if err != nil {
			http.Error(w, "invalid room_id format", http.StatusBadRequest)
			return
		}
		room, err := s.Matches.Get(roomID)
		if err != nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"match"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for room %s: %v", roomID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error")

		if c.Subprotocol() != "match" {
			c.Close(BadSubprotocolError, "client must use the 'match' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("auth failed for room %s: %v", roomID, err)
			c.Close(InvalidAuthTokenError, "authentication failed")
			return
		}

		freshJoin := !room.HasPlayer(userID)
		if _, err := s.Matches.Join(roomID, userID); err != nil {
			logger.Warnf("user %s cannot join room %s: %v", userID, roomID, err)
			c.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}

		// The second seat stakes its wager on first join, mirroring the debit
		// the creator paid at room creation.
		if freshJoin && room.Config.Wager > 0 && database.DB != nil {
			if err := database.DebitCoins(r.Context(), userID, room.Config.Wager, "match_stake:"+roomID.String()); err != nil {
				logger.Warnf("wager debit failed for user %s in room %s: %v", userID, roomID, err)
				c.Close(websocket.StatusPolicyViolation, "insufficient coins for wager")
				return
			}
		}

		s.registerConn(s.matchConns, roomID, userID, c)
		defer s.unregisterConn(s.matchConns, roomID, userID, c)

		s.sendRoomSnapshot(room, userID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		readMatchMessages(ctx, c, s, room, userID, logger)

		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
		s.Matches.HandleDisconnect(roomID, userID)
	}
}

// sendRoomSnapshot pushes the viewer's current projection, if the game is
// under way.
func (s *Server) sendRoomSnapshot(room *match.Room, userID uuid.UUID) {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.State == nil {
		s.Matches.BroadcastToPlayerFn(room.ID, userID, map[string]interface{}{
			"type":   "room",
			"status": room.Status,
		})
		return
	}
	for i, slot := range room.Slots {
		if slot != nil && slot.UserID == userID {
			s.Matches.BroadcastToPlayerFn(room.ID, userID, map[string]interface{}{
				"type":  "state",
				"state": match.ProjectFor(room, i),
			})
			return
		}
	}
}

func readMatchMessages(ctx context.Context, c *websocket.Conn, s *Server, room *match.Room, userID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for user %s in room %s", userID, room.ID)
			} else if !errors.Is(err, context.Canceled) {
				logger.Warnf("read error for user %s in room %s: %v", userID, room.ID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg MatchMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, "invalid JSON format")
			continue
		}

		switch msg.Type {
		case "start":
			if err := s.Matches.StartGame(room.ID); err != nil {
				sendWsError(ctx, c, err.Error())
			}
		case "action":
			if msg.Action == nil {
				sendWsError(ctx, c, "action frame missing action body")
				continue
			}
			flips, err := s.Matches.ExecuteAction(room.ID, userID, *msg.Action)
			if err != nil {
				sendWsError(ctx, c, err.Error())
				continue
			}
			if len(flips) > 0 {
				sendWsMessage(ctx, c, map[string]interface{}{
					"type":  "coin_flips",
					"flips": flips,
				})
			}
		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})
		default:
			sendWsError(ctx, c, fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}
