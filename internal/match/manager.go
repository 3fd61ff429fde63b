// internal/match/manager.go
package match

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/timer"
)

// Result describes a finished match for downstream consumers (result queue,
// wager settlement, tournament reporting).
type Result struct {
	RoomID   uuid.UUID
	DraftID  uuid.UUID
	WinnerID uuid.UUID
	LoserID  uuid.UUID
	Forfeit  bool
}

// Manager owns all live match rooms. Broadcast functions and the result
// callback are injected by the transport layer before any room is created.
type Manager struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*Room

	engine  rules.Engine
	catalog *cards.Catalog
	sched   timer.Scheduler

	rngMu sync.Mutex
	rng   *rand.Rand

	// BroadcastToPlayerFn delivers a payload to one seated user's connection.
	BroadcastToPlayerFn func(roomID, userID uuid.UUID, payload interface{})

	// OnResult fires exactly once per room when it reaches a terminal state.
	OnResult func(res Result)
}

// NewManager wires a room manager over the given engine, catalog, scheduler
// and seeded randomness source.
func NewManager(engine rules.Engine, catalog *cards.Catalog, sched timer.Scheduler, rng *rand.Rand) *Manager {
	return &Manager{
		rooms:   make(map[uuid.UUID]*Room),
		engine:  engine,
		catalog: catalog,
		sched:   sched,
		rng:     rng,
	}
}

// Create opens a waiting room with the creator in slot 0.
func (m *Manager) Create(creatorID uuid.UUID, cfg RoomConfig) *Room {
	room := &Room{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Config:    cfg.clamped(),
		Status:    StatusWaiting,
	}
	room.Slots[0] = &Slot{UserID: creatorID, Connected: true}

	m.mu.Lock()
	m.rooms[room.ID] = room
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{"room_id": room.ID, "creator_id": creatorID}).Info("match room created")
	return room
}

// CreateForPairing opens a ready room with both seats pre-filled and decks
// attached. Used by tournament pairing; joins bypass the reservation check.
func (m *Manager) CreateForPairing(cfg RoomConfig, draftID, user1, user2 uuid.UUID, deck1, deck2 []cards.Instance) *Room {
	room := &Room{
		ID:        uuid.New(),
		CreatorID: user1,
		Config:    cfg.clamped(),
		Status:    StatusReady,
		DraftID:   draftID,
	}
	room.Slots[0] = &Slot{UserID: user1, Deck: deck1}
	room.Slots[1] = &Slot{UserID: user2, Deck: deck2}

	m.mu.Lock()
	m.rooms[room.ID] = room
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{"room_id": room.ID, "draft_id": draftID}).Info("paired match room created")
	return room
}

// Get returns a live room by ID.
func (m *Manager) Get(roomID uuid.UUID) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// List snapshots all live rooms.
func (m *Manager) List() []*Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

// Delete removes a room. Only the creator may delete, and never mid-game.
func (m *Manager) Delete(roomID, userID uuid.UUID) error {
	room, err := m.Get(roomID)
	if err != nil {
		return err
	}
	room.Mu.Lock()
	if room.CreatorID != userID {
		room.Mu.Unlock()
		return ErrAuthorizationDenied
	}
	if room.Status == StatusPlaying {
		room.Mu.Unlock()
		return fmt.Errorf("%w: room is mid-game", ErrInvalidState)
	}
	room.cancelForfeits()
	room.Mu.Unlock()

	m.mu.Lock()
	delete(m.rooms, roomID)
	m.mu.Unlock()
	return nil
}

// Join seats a user. Rejoining an occupied seat is a reconnect: it cancels any
// pending forfeit timer. A fresh join requires a waiting room with a free
// seat, honoring the reservation if one is set.
func (m *Manager) Join(roomID, userID uuid.UUID) (*Room, error) {
	room, err := m.Get(roomID)
	if err != nil {
		return nil, err
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if _, slot := room.slotOf(userID); slot != nil {
		slot.Connected = true
		if slot.forfeit != nil {
			slot.forfeit.Cancel()
			slot.forfeit = nil
			logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).Info("reconnect cancelled forfeit timer")
		}
		return room, nil
	}

	if room.occupied() >= maxSlots {
		return nil, ErrCapacityExceeded
	}
	if room.Status != StatusWaiting {
		return nil, fmt.Errorf("%w: room not joinable", ErrInvalidState)
	}
	if room.Config.ReservedUserID != uuid.Nil && room.Config.ReservedUserID != userID {
		return nil, fmt.Errorf("%w: seat reserved for another user", ErrAuthorizationDenied)
	}
	for i := range room.Slots {
		if room.Slots[i] == nil {
			room.Slots[i] = &Slot{UserID: userID, Connected: true}
			break
		}
	}
	if room.occupied() == maxSlots {
		room.Status = StatusReady
	}
	return room, nil
}

// SetDeck attaches a user's deck before the game starts.
func (m *Manager) SetDeck(roomID, userID uuid.UUID, deck []cards.Instance) error {
	room, err := m.Get(roomID)
	if err != nil {
		return err
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.Status != StatusWaiting && room.Status != StatusReady {
		return fmt.Errorf("%w: game already started", ErrInvalidState)
	}
	_, slot := room.slotOf(userID)
	if slot == nil {
		return ErrAuthorizationDenied
	}
	slot.Deck = deck
	return nil
}

// StartGame deals the initial state, trims the prize piles to the configured
// count and moves the room into play.
func (m *Manager) StartGame(roomID uuid.UUID) error {
	room, err := m.Get(roomID)
	if err != nil {
		return err
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Status != StatusReady {
		return fmt.Errorf("%w: room not ready", ErrInvalidState)
	}
	for _, s := range room.Slots {
		if s == nil || len(s.Deck) == 0 {
			return fmt.Errorf("%w: both decks must be submitted", ErrInvalidState)
		}
	}

	deck0 := m.shuffled(room.Slots[0].Deck)
	deck1 := m.shuffled(room.Slots[1].Deck)
	state, err := m.engine.NewGame(deck0, deck1)
	if err != nil {
		return err
	}

	// The engine deals the standard six prizes; move the excess back under
	// each deck for smaller configured prize counts.
	for excess := len(state.SelfPrizes) - room.Config.PrizeCount; excess > 0; excess-- {
		n := len(state.SelfPrizes)
		state.SelfDeck = append(state.SelfDeck, state.SelfPrizes[n-1])
		state.SelfPrizes = state.SelfPrizes[:n-1]
	}
	for excess := len(state.OpponentPrizes) - room.Config.PrizeCount; excess > 0; excess-- {
		n := len(state.OpponentPrizes)
		state.OpponentDeck = append(state.OpponentDeck, state.OpponentPrizes[n-1])
		state.OpponentPrizes = state.OpponentPrizes[:n-1]
	}

	room.State = state
	room.Status = StatusPlaying
	logrus.WithFields(logrus.Fields{"room_id": roomID, "prizes": room.Config.PrizeCount}).Info("game started")
	m.broadcastStateLocked(room, 0)
	return nil
}

// turnFree actions may be taken by either seat at any time during play.
var turnFree = map[rules.ActionType]bool{
	rules.ActionPromote:       true,
	rules.ActionTakePrize:     true,
	rules.ActionMulligan:      true,
	rules.ActionReady:         true,
	rules.ActionResolveEffect: true,
}

// ExecuteAction runs one move for the given user. The returned slice holds the
// raw coin flips generated for the action, empty when none were needed.
func (m *Manager) ExecuteAction(roomID, userID uuid.UUID, act rules.Action) ([]bool, error) {
	room, err := m.Get(roomID)
	if err != nil {
		return nil, err
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Status != StatusPlaying || room.State == nil {
		return nil, fmt.Errorf("%w: game not in progress", ErrInvalidState)
	}
	idx, slot := room.slotOf(userID)
	if slot == nil {
		return nil, ErrAuthorizationDenied
	}

	// Orient the state so the acting player is "self". Slot 0 is canonical.
	st := room.State
	if idx == 1 {
		st = Swap(st)
	} else {
		st = st.Clone()
	}

	placement := act.Type == rules.ActionPlaceActive || act.Type == rules.ActionPlaceBench
	if !st.SelfTurn && !turnFree[act.Type] && !(placement && st.Setup) {
		return nil, fmt.Errorf("%w: not your turn", ErrInvalidState)
	}

	eventsBefore := len(st.Events)
	var flips []bool

	switch act.Type {
	case rules.ActionPlaceActive, rules.ActionPlaceBench, rules.ActionAttachEnergy:
		if err := m.applyDirect(st, act); err != nil {
			return nil, err
		}
	default:
		count, effects := m.engine.FlipsRequired(st, act)
		var heads int
		if count > 0 {
			flips = m.flipCoins(count)
			for _, h := range flips {
				if h {
					heads++
				}
			}
			act.Flips = count
			act.Heads = heads
		}
		// Capture targets before Apply; base damage may remove them.
		var attackerUID, defenderUID uuid.UUID
		if st.SelfActive != nil {
			attackerUID = st.SelfActive.UID
		}
		if st.OpponentActive != nil {
			defenderUID = st.OpponentActive.UID
		}

		next, err := m.engine.Apply(st, act)
		if err != nil {
			return nil, err
		}
		st = next

		if count > 0 {
			st.AppendEvent(rules.LogEvent{Kind: rules.EventCoinFlips, Actor: rules.ActorSelf, Amount: count, Heads: heads})
			applyFlipEffects(st, effects, heads, count-heads, attackerUID, defenderUID)
		}
	}

	// Restore canonical framing; new events flip exactly once.
	if idx == 1 {
		st = Swap(st)
	}
	room.State = st

	if st.Result != rules.ResultNone {
		winner := 0
		if st.Result == rules.ResultLoss {
			winner = 1
		}
		m.finishLocked(room, winner, false)
	}
	m.broadcastStateLocked(room, eventsBefore)
	return flips, nil
}

// applyDirect runs the placement and attachment mutations the engine does not
// own, in the acting player's self frame.
func (m *Manager) applyDirect(st *rules.GameState, act rules.Action) error {
	handIdx := -1
	for i, c := range st.SelfHand {
		if c.UID == act.CardUID {
			handIdx = i
			break
		}
	}
	if handIdx < 0 {
		return rules.ErrNoSuchCard
	}
	card := st.SelfHand[handIdx]

	switch act.Type {
	case rules.ActionPlaceActive:
		if !st.Setup || st.SelfActive != nil {
			return fmt.Errorf("%w: active spot unavailable", ErrInvalidState)
		}
		if card.Trainer || card.BasicEnergy || card.Stage != 0 {
			return fmt.Errorf("%w: only basic creatures may be placed", ErrInvalidState)
		}
		st.SelfActive = newUnit(card)
		st.AppendEvent(rules.LogEvent{Kind: rules.EventPlaceActive, Actor: rules.ActorSelf, CardName: card.Name})
	case rules.ActionPlaceBench:
		if len(st.SelfBench) >= 5 {
			return fmt.Errorf("%w: bench is full", ErrCapacityExceeded)
		}
		if card.Trainer || card.BasicEnergy || card.Stage != 0 {
			return fmt.Errorf("%w: only basic creatures may be benched", ErrInvalidState)
		}
		st.SelfBench = append(st.SelfBench, newUnit(card))
		st.AppendEvent(rules.LogEvent{Kind: rules.EventPlaceBench, Actor: rules.ActorSelf, CardName: card.Name})
	case rules.ActionAttachEnergy:
		if !card.BasicEnergy {
			return fmt.Errorf("%w: card is not basic energy", ErrInvalidState)
		}
		unit, side := rules.FindUnit(st, act.TargetUID)
		if unit == nil || side != rules.ActorSelf {
			return rules.ErrNoSuchCard
		}
		unit.Energy = append(unit.Energy, card)
		st.AppendEvent(rules.LogEvent{Kind: rules.EventAttach, Actor: rules.ActorSelf, CardName: card.Name})
	default:
		return rules.ErrUnknownAction
	}
	st.SelfHand = append(st.SelfHand[:handIdx], st.SelfHand[handIdx+1:]...)
	return nil
}

func newUnit(card cards.Instance) *rules.BoardUnit {
	return &rules.BoardUnit{
		UID:    card.UID,
		CardID: card.ID,
		Name:   card.Name,
		HP:     card.HP,
	}
}

// applyFlipEffects resolves the flip-dependent attack components in the
// attacker's self frame, after the engine's deterministic part ran.
func applyFlipEffects(st *rules.GameState, effects []cards.FlipEffect, heads, tails int, attackerUID, defenderUID uuid.UUID) {
	for _, eff := range effects {
		switch eff.Kind {
		case cards.FlipEffectStatus:
			if heads >= 1 {
				rules.ApplyStatus(st, defenderUID, eff.Status)
			}
		case cards.FlipEffectDamagePerHeads:
			rules.ApplyDamage(st, defenderUID, eff.Amount*heads)
		case cards.FlipEffectSelfDamagePerTail:
			rules.ApplyDamage(st, attackerUID, eff.Amount*tails)
		case cards.FlipEffectProtectOnHeads:
			if heads >= 1 {
				rules.GrantProtection(st, attackerUID)
			}
		}
	}
}

// HandleDisconnect marks the seat disconnected and, mid-game, arms the forfeit
// timer. Arming is idempotent; repeated disconnect events never stack timers.
func (m *Manager) HandleDisconnect(roomID, userID uuid.UUID) {
	room, err := m.Get(roomID)
	if err != nil {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	idx, slot := room.slotOf(userID)
	if slot == nil {
		return
	}
	slot.Connected = false
	if room.Status != StatusPlaying || slot.forfeit != nil {
		return
	}
	logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).Info("disconnect, forfeit timer armed")
	slot.forfeit = m.sched.After(ForfeitDelay, func() {
		m.forfeitExpired(roomID, idx)
	})
}

func (m *Manager) forfeitExpired(roomID uuid.UUID, idx int) {
	room, err := m.Get(roomID)
	if err != nil {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()

	slot := room.Slots[idx]
	if slot == nil || slot.Connected || room.Status != StatusPlaying {
		return
	}
	slot.forfeit = nil
	logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": slot.UserID}).Info("forfeit timer expired")
	m.finishLocked(room, 1-idx, true)
	m.broadcastStateLocked(room, -1)
}

// finishLocked transitions to finished and fires OnResult exactly once.
// Callers hold room.Mu.
func (m *Manager) finishLocked(room *Room, winnerIdx int, forfeit bool) {
	if room.Status == StatusFinished {
		return
	}
	room.Status = StatusFinished
	room.cancelForfeits()
	if room.State != nil && room.State.Result == rules.ResultNone {
		if winnerIdx == 0 {
			room.State.Result = rules.ResultWin
		} else {
			room.State.Result = rules.ResultLoss
		}
		room.State.AppendEvent(rules.LogEvent{Kind: rules.EventGameEnd})
	}
	res := Result{
		RoomID:   room.ID,
		DraftID:  room.DraftID,
		WinnerID: room.Slots[winnerIdx].UserID,
		LoserID:  room.Slots[1-winnerIdx].UserID,
		Forfeit:  forfeit,
	}
	logrus.WithFields(logrus.Fields{"room_id": room.ID, "winner_id": res.WinnerID, "forfeit": forfeit}).Info("match finished")
	if m.OnResult != nil {
		go m.OnResult(res)
	}
}

// broadcastStateLocked pushes each seated player their own projection plus the
// events appended since the given index. Callers hold room.Mu.
func (m *Manager) broadcastStateLocked(room *Room, eventsSince int) {
	if m.BroadcastToPlayerFn == nil || room.State == nil {
		return
	}
	for i, slot := range room.Slots {
		if slot == nil {
			continue
		}
		view := ProjectFor(room, i)
		if eventsSince >= 0 && eventsSince <= len(view.Events) {
			view.NewEvents = view.Events[eventsSince:]
		}
		m.BroadcastToPlayerFn(room.ID, slot.UserID, map[string]interface{}{
			"type":  "state",
			"state": view,
		})
	}
}

func (m *Manager) shuffled(deck []cards.Instance) []cards.Instance {
	out := make([]cards.Instance, len(deck))
	copy(out, deck)
	m.rngMu.Lock()
	m.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	m.rngMu.Unlock()
	return out
}

func (m *Manager) flipCoins(n int) []bool {
	out := make([]bool, n)
	m.rngMu.Lock()
	for i := range out {
		out[i] = m.rng.Intn(2) == 0
	}
	m.rngMu.Unlock()
	return out
}
