// internal/rules/state.go
package rules

import (
	"github.com/google/uuid"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
)

// Actor identifies who an event refers to, relative to the state's current
// framing. Canonical storage frames the first room slot as self; a perspective swap flips
// every actor along with the board.
type Actor int

const (
	ActorNone Actor = iota
	ActorSelf
	ActorOpponent
)

// Result is a terminal outcome from the "self" perspective of the state.
type Result int

const (
	ResultNone Result = iota
	ResultWin
	ResultLoss
)

// EventKind enumerates the structured log events the engine and the
// orchestration layer append. Events carry parameters, never prose; wording is
// resolved at projection time per viewer.
type EventKind string

const (
	EventGameStart   EventKind = "game_start"
	EventDraw        EventKind = "draw"
	EventPlaceActive EventKind = "place_active"
	EventPlaceBench  EventKind = "place_bench"
	EventAttach      EventKind = "attach_energy"
	EventEvolve      EventKind = "evolve"
	EventPlayTrainer EventKind = "play_trainer"
	EventAttack      EventKind = "attack"
	EventDamage      EventKind = "damage"
	EventStatus      EventKind = "status"
	EventProtect     EventKind = "protect"
	EventCoinFlips   EventKind = "coin_flips"
	EventKnockout    EventKind = "knockout"
	EventPromote     EventKind = "promote"
	EventTakePrize   EventKind = "take_prize"
	EventMulligan    EventKind = "mulligan"
	EventReady       EventKind = "ready"
	EventEndTurn     EventKind = "end_turn"
	EventGameEnd     EventKind = "game_end"
)

// LogEvent is one entry of the append-only game narrative.
type LogEvent struct {
	Kind     EventKind `json:"kind"`
	Actor    Actor     `json:"actor"`
	Target   Actor     `json:"target,omitempty"`
	CardName string    `json:"cardName,omitempty"`
	Amount   int       `json:"amount,omitempty"`
	Heads    int       `json:"heads,omitempty"`
	Status   string    `json:"status,omitempty"`
}

// BoardUnit is a creature in play (active spot or bench).
type BoardUnit struct {
	UID       uuid.UUID        `json:"uid"`
	CardID    string           `json:"cardId"`
	Name      string           `json:"name"`
	HP        int              `json:"hp"`
	Damage    int              `json:"damage"`
	Status    string           `json:"status,omitempty"`
	Energy    []cards.Instance `json:"energy"`
	Protected bool             `json:"protected,omitempty"`
	// ProtectExpiry is the turn number on which protection lapses; it survives
	// the opponent's whole next turn.
	ProtectExpiry int `json:"protectExpiry,omitempty"`
}

// GameState is the canonical shared match state. Storage convention: the first
// room slot is always "self". Every Self*/Opponent* pair below participates in
// the perspective swap.
type GameState struct {
	SelfHand     []cards.Instance `json:"selfHand"`
	OpponentHand []cards.Instance `json:"opponentHand"`

	SelfDeck     []cards.Instance `json:"selfDeck"`
	OpponentDeck []cards.Instance `json:"opponentDeck"`

	SelfDiscard     []cards.Instance `json:"selfDiscard"`
	OpponentDiscard []cards.Instance `json:"opponentDiscard"`

	SelfPrizes     []cards.Instance `json:"selfPrizes"`
	OpponentPrizes []cards.Instance `json:"opponentPrizes"`

	SelfActive     *BoardUnit   `json:"selfActive,omitempty"`
	OpponentActive *BoardUnit   `json:"opponentActive,omitempty"`
	SelfBench      []*BoardUnit `json:"selfBench"`
	OpponentBench  []*BoardUnit `json:"opponentBench"`

	SelfReady     bool `json:"selfReady"`
	OpponentReady bool `json:"opponentReady"`

	SelfPendingPromotion     bool `json:"selfPendingPromotion"`
	OpponentPendingPromotion bool `json:"opponentPendingPromotion"`
	SelfPendingPrize         bool `json:"selfPendingPrize"`
	OpponentPendingPrize     bool `json:"opponentPendingPrize"`

	// SelfTurn is the turn-owner flag; true while self may take turn-bound
	// actions.
	SelfTurn bool `json:"selfTurn"`

	// Setup is true during the initial placement sub-phase, before both sides
	// are ready.
	Setup bool `json:"setup"`

	Turn int `json:"turn"`

	Result Result `json:"result"`

	Events []LogEvent `json:"events"`
}

func cloneInstances(in []cards.Instance) []cards.Instance {
	if in == nil {
		return nil
	}
	out := make([]cards.Instance, len(in))
	copy(out, in)
	return out
}

func cloneUnit(u *BoardUnit) *BoardUnit {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Energy = cloneInstances(u.Energy)
	return &cp
}

func cloneUnits(in []*BoardUnit) []*BoardUnit {
	if in == nil {
		return nil
	}
	out := make([]*BoardUnit, len(in))
	for i, u := range in {
		out[i] = cloneUnit(u)
	}
	return out
}

// Clone returns a deep copy. Engine transforms and the perspective swap are
// copy-on-write; the original state is never mutated through a clone.
func (s *GameState) Clone() *GameState {
	cp := *s
	cp.SelfHand = cloneInstances(s.SelfHand)
	cp.OpponentHand = cloneInstances(s.OpponentHand)
	cp.SelfDeck = cloneInstances(s.SelfDeck)
	cp.OpponentDeck = cloneInstances(s.OpponentDeck)
	cp.SelfDiscard = cloneInstances(s.SelfDiscard)
	cp.OpponentDiscard = cloneInstances(s.OpponentDiscard)
	cp.SelfPrizes = cloneInstances(s.SelfPrizes)
	cp.OpponentPrizes = cloneInstances(s.OpponentPrizes)
	cp.SelfActive = cloneUnit(s.SelfActive)
	cp.OpponentActive = cloneUnit(s.OpponentActive)
	cp.SelfBench = cloneUnits(s.SelfBench)
	cp.OpponentBench = cloneUnits(s.OpponentBench)
	if s.Events != nil {
		cp.Events = make([]LogEvent, len(s.Events))
		copy(cp.Events, s.Events)
	}
	return &cp
}

// AppendEvent records a structured log entry.
func (s *GameState) AppendEvent(ev LogEvent) {
	s.Events = append(s.Events, ev)
}
