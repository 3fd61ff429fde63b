// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cache"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/database"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/draft"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/match"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/timer"
)

// Server holds the room and draft managers plus the live WebSocket
// connections they broadcast through.
type Server struct {
	Matches *match.Manager
	Drafts  *draft.Manager
	Catalog *cards.Catalog
	Logger  *logrus.Logger

	connMu     sync.Mutex
	matchConns map[uuid.UUID]map[uuid.UUID]*websocket.Conn
	draftConns map[uuid.UUID]map[uuid.UUID]*websocket.Conn
}

// NewServer constructs the managers over a shared catalog, scheduler and
// randomness source, and wires broadcasting and the result pipeline.
func NewServer(logger *logrus.Logger, catalog *cards.Catalog, sched timer.Scheduler, rng *rand.Rand) *Server {
	s := &Server{
		Catalog:    catalog,
		Logger:     logger,
		matchConns: make(map[uuid.UUID]map[uuid.UUID]*websocket.Conn),
		draftConns: make(map[uuid.UUID]map[uuid.UUID]*websocket.Conn),
	}
	s.Matches = match.NewManager(rules.NewBasicEngine(catalog), catalog, sched, rng)
	s.Drafts = draft.NewManager(catalog, sched, s.Matches, rng)

	s.Matches.BroadcastToPlayerFn = func(roomID, userID uuid.UUID, payload interface{}) {
		s.sendTo(s.matchConns, roomID, userID, payload)
	}
	s.Matches.OnResult = s.handleMatchResult

	s.Drafts.BroadcastFn = func(draftID uuid.UUID, payload interface{}) {
		s.sendAll(s.draftConns, draftID, payload)
	}
	s.Drafts.BroadcastToPlayerFn = func(draftID, userID uuid.UUID, payload interface{}) {
		s.sendTo(s.draftConns, draftID, userID, payload)
	}
	return s
}

// handleMatchResult fans a finished match out to the result queue, the wager
// ledger and, for tournament games, the owning draft.
func (s *Server) handleMatchResult(res match.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cache.Rdb != nil {
		record := cache.MatchResultRecord{
			RoomID:    res.RoomID,
			DraftID:   res.DraftID,
			WinnerID:  res.WinnerID,
			LoserID:   res.LoserID,
			Forfeit:   res.Forfeit,
			Timestamp: time.Now().Unix(),
		}
		if err := cache.PublishMatchResult(ctx, record); err != nil {
			s.Logger.Warnf("failed to publish match result for room %s: %v", res.RoomID, err)
		}
	}

	if database.DB != nil {
		if room, err := s.Matches.Get(res.RoomID); err == nil {
			room.Mu.Lock()
			wager := room.Config.Wager
			room.Mu.Unlock()
			if wager > 0 {
				// Winner takes both stakes.
				if err := database.CreditCoins(ctx, res.WinnerID, wager*2, "match_win:"+res.RoomID.String()); err != nil {
					s.Logger.Errorf("failed to credit wager for room %s: %v", res.RoomID, err)
				}
			}
		}
	}

	if res.DraftID != uuid.Nil {
		if err := s.Drafts.ReportMatchResult(res.RoomID, res.WinnerID, res.LoserID, res.Forfeit); err != nil {
			s.Logger.Warnf("failed to report tournament result for room %s: %v", res.RoomID, err)
		}
	}
}

func (s *Server) registerConn(conns map[uuid.UUID]map[uuid.UUID]*websocket.Conn, scopeID, userID uuid.UUID, c *websocket.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if conns[scopeID] == nil {
		conns[scopeID] = make(map[uuid.UUID]*websocket.Conn)
	}
	conns[scopeID][userID] = c
}

func (s *Server) unregisterConn(conns map[uuid.UUID]map[uuid.UUID]*websocket.Conn, scopeID, userID uuid.UUID, c *websocket.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if conns[scopeID] != nil && conns[scopeID][userID] == c {
		delete(conns[scopeID], userID)
		if len(conns[scopeID]) == 0 {
			delete(conns, scopeID)
		}
	}
}

// sendTo delivers a payload to one user's connection asynchronously. Managers
// call this while holding their room lock, so writes never happen inline.
func (s *Server) sendTo(conns map[uuid.UUID]map[uuid.UUID]*websocket.Conn, scopeID, userID uuid.UUID, payload interface{}) {
	s.connMu.Lock()
	c := conns[scopeID][userID]
	s.connMu.Unlock()
	if c == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.Logger.Errorf("failed to marshal payload for %s: %v", userID, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			s.Logger.Warnf("failed to write to %s: %v", userID, err)
		}
	}()
}

// sendAll delivers a payload to every connection in a scope.
func (s *Server) sendAll(conns map[uuid.UUID]map[uuid.UUID]*websocket.Conn, scopeID uuid.UUID, payload interface{}) {
	s.connMu.Lock()
	targets := make([]*websocket.Conn, 0, len(conns[scopeID]))
	for _, c := range conns[scopeID] {
		targets = append(targets, c)
	}
	s.connMu.Unlock()
	if len(targets) == 0 {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.Logger.Errorf("failed to marshal broadcast payload: %v", err)
		return
	}
	go func() {
		for _, c := range targets {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := c.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				s.Logger.Warnf("failed to write broadcast: %v", err)
			}
		}
	}()
}
