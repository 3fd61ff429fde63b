// internal/rules/basic.go
package rules

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
)

const (
	openingHandSize   = 7
	standardPrizeSize = 6
	benchCapacity     = 5
)

// BasicEngine is the reference Engine implementation. It covers the transforms
// the orchestration layer dispatches; anything flip-dependent is deferred back
// to the caller via FlipsRequired.
type BasicEngine struct {
	catalog *cards.Catalog
}

// NewBasicEngine builds an engine over the given read-only catalog.
func NewBasicEngine(catalog *cards.Catalog) *BasicEngine {
	return &BasicEngine{catalog: catalog}
}

// NewGame deals opening hands and six prizes from the two pre-shuffled decks.
func (e *BasicEngine) NewGame(selfDeck, opponentDeck []cards.Instance) (*GameState, error) {
	if len(selfDeck) < openingHandSize+standardPrizeSize || len(opponentDeck) < openingHandSize+standardPrizeSize {
		return nil, fmt.Errorf("%w: deck too small to deal", ErrIllegalMove)
	}
	s := &GameState{
		Setup:    true,
		SelfTurn: true,
		Turn:     1,
	}
	s.SelfHand = append(s.SelfHand, selfDeck[:openingHandSize]...)
	selfDeck = selfDeck[openingHandSize:]
	s.OpponentHand = append(s.OpponentHand, opponentDeck[:openingHandSize]...)
	opponentDeck = opponentDeck[openingHandSize:]

	s.SelfPrizes = append(s.SelfPrizes, selfDeck[:standardPrizeSize]...)
	selfDeck = selfDeck[standardPrizeSize:]
	s.OpponentPrizes = append(s.OpponentPrizes, opponentDeck[:standardPrizeSize]...)
	opponentDeck = opponentDeck[standardPrizeSize:]

	s.SelfDeck = cloneInstances(selfDeck)
	s.OpponentDeck = cloneInstances(opponentDeck)

	s.AppendEvent(LogEvent{Kind: EventGameStart})
	s.AppendEvent(LogEvent{Kind: EventDraw, Actor: ActorSelf, Amount: openingHandSize})
	s.AppendEvent(LogEvent{Kind: EventDraw, Actor: ActorOpponent, Amount: openingHandSize})
	return s, nil
}

// FlipsRequired inspects the active unit's declared attack; only attacks with
// printed flip effects defer to the caller.
func (e *BasicEngine) FlipsRequired(s *GameState, act Action) (int, []cards.FlipEffect) {
	if act.Type != ActionAttack || s.SelfActive == nil {
		return 0, nil
	}
	card, ok := e.catalog.Get(s.SelfActive.CardID)
	if !ok || act.AttackIndex < 0 || act.AttackIndex >= len(card.Attacks) {
		return 0, nil
	}
	atk := card.Attacks[act.AttackIndex]
	return atk.FlipCount, atk.FlipEffects
}

// Apply executes an engine-owned transform on a copy of the state.
func (e *BasicEngine) Apply(s *GameState, act Action) (*GameState, error) {
	next := s.Clone()
	var err error
	switch act.Type {
	case ActionAttack:
		err = e.applyAttack(next, act)
	case ActionEvolve:
		err = e.applyEvolve(next, act)
	case ActionPlayTrainer:
		err = e.applyTrainer(next, act)
	case ActionEndTurn:
		e.endTurn(next)
	case ActionMulligan:
		err = e.applyMulligan(next)
	case ActionPromote:
		err = e.applyPromote(next, act)
	case ActionTakePrize:
		err = e.applyTakePrize(next)
	case ActionReady:
		err = e.applyReady(next)
	case ActionResolveEffect:
		err = e.applyResolveEffect(next)
	default:
		err = ErrUnknownAction
	}
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (e *BasicEngine) applyAttack(s *GameState, act Action) error {
	if s.Setup || !s.SelfTurn || s.SelfActive == nil || s.OpponentActive == nil {
		return ErrIllegalMove
	}
	if s.SelfPendingPromotion || s.SelfPendingPrize {
		return ErrIllegalMove
	}
	card, ok := e.catalog.Get(s.SelfActive.CardID)
	if !ok {
		return ErrNoSuchCard
	}
	if act.AttackIndex < 0 || act.AttackIndex >= len(card.Attacks) {
		return fmt.Errorf("%w: attack index out of range", ErrIllegalMove)
	}
	atk := card.Attacks[act.AttackIndex]
	if len(s.SelfActive.Energy) < atk.EnergyCost {
		return fmt.Errorf("%w: insufficient energy", ErrIllegalMove)
	}

	s.AppendEvent(LogEvent{Kind: EventAttack, Actor: ActorSelf, Target: ActorOpponent, CardName: atk.Name, Amount: atk.Damage})
	if atk.Damage > 0 {
		ApplyDamage(s, s.OpponentActive.UID, atk.Damage)
	}
	// Flip-dependent components are resolved by the caller after this returns.
	if s.Result == ResultNone {
		e.endTurn(s)
	}
	return nil
}

func (e *BasicEngine) applyEvolve(s *GameState, act Action) error {
	if s.Setup || !s.SelfTurn {
		return ErrIllegalMove
	}
	handIdx := -1
	for i, c := range s.SelfHand {
		if c.UID == act.CardUID {
			handIdx = i
			break
		}
	}
	if handIdx < 0 {
		return ErrNoSuchCard
	}
	evo := s.SelfHand[handIdx]
	unit, side := FindUnit(s, act.TargetUID)
	if unit == nil || side != ActorSelf {
		return ErrNoSuchCard
	}
	if evo.EvolvesFrom != unit.CardID {
		return fmt.Errorf("%w: %s does not evolve from %s", ErrIllegalMove, evo.Name, unit.Name)
	}
	s.SelfHand = append(s.SelfHand[:handIdx], s.SelfHand[handIdx+1:]...)
	prev := cards.Instance{UID: unit.UID, Card: cards.Card{ID: unit.CardID, Name: unit.Name}}
	s.SelfDiscard = append(s.SelfDiscard, prev)
	unit.UID = evo.UID
	unit.CardID = evo.ID
	unit.Name = evo.Name
	unit.HP = evo.HP
	unit.Status = ""
	s.AppendEvent(LogEvent{Kind: EventEvolve, Actor: ActorSelf, CardName: evo.Name})
	return nil
}

func (e *BasicEngine) applyTrainer(s *GameState, act Action) error {
	if s.Setup || !s.SelfTurn {
		return ErrIllegalMove
	}
	handIdx := -1
	for i, c := range s.SelfHand {
		if c.UID == act.CardUID {
			handIdx = i
			break
		}
	}
	if handIdx < 0 {
		return ErrNoSuchCard
	}
	card := s.SelfHand[handIdx]
	if !card.Trainer {
		return fmt.Errorf("%w: %s is not a trainer card", ErrIllegalMove, card.Name)
	}
	switch card.Name {
	case "Potion":
		unit, side := FindUnit(s, act.TargetUID)
		if unit == nil || side != ActorSelf {
			return ErrNoSuchCard
		}
		unit.Damage -= 20
		if unit.Damage < 0 {
			unit.Damage = 0
		}
	case "Switch":
		if act.BenchIndex < 0 || act.BenchIndex >= len(s.SelfBench) || s.SelfActive == nil {
			return ErrIllegalMove
		}
		s.SelfActive, s.SelfBench[act.BenchIndex] = s.SelfBench[act.BenchIndex], s.SelfActive
	default:
		return fmt.Errorf("%w: unsupported trainer %s", ErrIllegalMove, card.Name)
	}
	s.SelfHand = append(s.SelfHand[:handIdx], s.SelfHand[handIdx+1:]...)
	s.SelfDiscard = append(s.SelfDiscard, card)
	s.AppendEvent(LogEvent{Kind: EventPlayTrainer, Actor: ActorSelf, CardName: card.Name})
	return nil
}

// endTurn hands the turn to the opponent, draws their card and expires stale
// protection.
func (e *BasicEngine) endTurn(s *GameState) {
	s.AppendEvent(LogEvent{Kind: EventEndTurn, Actor: ActorSelf})
	for _, u := range allUnits(s) {
		if u.Protected && u.ProtectExpiry <= s.Turn {
			u.Protected = false
			u.ProtectExpiry = 0
		}
	}
	s.SelfTurn = false
	s.Turn++
	if len(s.OpponentDeck) > 0 {
		drawn := s.OpponentDeck[0]
		s.OpponentDeck = s.OpponentDeck[1:]
		s.OpponentHand = append(s.OpponentHand, drawn)
		s.AppendEvent(LogEvent{Kind: EventDraw, Actor: ActorOpponent, Amount: 1})
	}
}

func (e *BasicEngine) applyMulligan(s *GameState) error {
	if !s.Setup {
		return ErrIllegalMove
	}
	s.SelfDeck = append(s.SelfDeck, s.SelfHand...)
	s.SelfHand = nil
	n := openingHandSize
	if n > len(s.SelfDeck) {
		n = len(s.SelfDeck)
	}
	s.SelfHand = append(s.SelfHand, s.SelfDeck[:n]...)
	s.SelfDeck = s.SelfDeck[n:]
	s.AppendEvent(LogEvent{Kind: EventMulligan, Actor: ActorSelf, Amount: n})
	return nil
}

func (e *BasicEngine) applyPromote(s *GameState, act Action) error {
	if !s.SelfPendingPromotion {
		return ErrIllegalMove
	}
	for i, u := range s.SelfBench {
		if u.UID == act.CardUID {
			s.SelfActive = u
			s.SelfBench = append(s.SelfBench[:i], s.SelfBench[i+1:]...)
			s.SelfPendingPromotion = false
			s.AppendEvent(LogEvent{Kind: EventPromote, Actor: ActorSelf, CardName: u.Name})
			return nil
		}
	}
	return ErrNoSuchCard
}

func (e *BasicEngine) applyTakePrize(s *GameState) error {
	if !s.SelfPendingPrize || len(s.SelfPrizes) == 0 {
		return ErrIllegalMove
	}
	prize := s.SelfPrizes[0]
	s.SelfPrizes = s.SelfPrizes[1:]
	s.SelfHand = append(s.SelfHand, prize)
	s.SelfPendingPrize = false
	s.AppendEvent(LogEvent{Kind: EventTakePrize, Actor: ActorSelf, Amount: len(s.SelfPrizes)})
	if len(s.SelfPrizes) == 0 {
		finish(s, ResultWin)
	}
	return nil
}

func (e *BasicEngine) applyReady(s *GameState) error {
	if !s.Setup || s.SelfActive == nil {
		return ErrIllegalMove
	}
	if !s.SelfReady {
		s.SelfReady = true
		s.AppendEvent(LogEvent{Kind: EventReady, Actor: ActorSelf})
	}
	if s.SelfReady && s.OpponentReady {
		s.Setup = false
	}
	return nil
}

func (e *BasicEngine) applyResolveEffect(s *GameState) error {
	if s.SelfActive == nil || s.SelfActive.Status == "" {
		return ErrIllegalMove
	}
	s.AppendEvent(LogEvent{Kind: EventStatus, Actor: ActorSelf, Status: ""})
	s.SelfActive.Status = ""
	return nil
}

func finish(s *GameState, r Result) {
	if s.Result != ResultNone {
		return
	}
	s.Result = r
	s.AppendEvent(LogEvent{Kind: EventGameEnd, Actor: ActorSelf, Amount: int(r)})
}

func allUnits(s *GameState) []*BoardUnit {
	var out []*BoardUnit
	if s.SelfActive != nil {
		out = append(out, s.SelfActive)
	}
	if s.OpponentActive != nil {
		out = append(out, s.OpponentActive)
	}
	out = append(out, s.SelfBench...)
	out = append(out, s.OpponentBench...)
	return out
}

// FindUnit locates an in-play unit by UID and reports which side owns it.
func FindUnit(s *GameState, uid uuid.UUID) (*BoardUnit, Actor) {
	if s.SelfActive != nil && s.SelfActive.UID == uid {
		return s.SelfActive, ActorSelf
	}
	if s.OpponentActive != nil && s.OpponentActive.UID == uid {
		return s.OpponentActive, ActorOpponent
	}
	for _, u := range s.SelfBench {
		if u.UID == uid {
			return u, ActorSelf
		}
	}
	for _, u := range s.OpponentBench {
		if u.UID == uid {
			return u, ActorOpponent
		}
	}
	return nil, ActorNone
}

// ApplyDamage deals damage to the unit with the given UID, resolving knockout,
// pending-promotion/prize flags and terminal detection. It is shared between
// the engine's attack transform and the match manager's coin-flip effect
// application, which runs in the same self frame.
func ApplyDamage(s *GameState, uid uuid.UUID, amount int) {
	unit, side := FindUnit(s, uid)
	if unit == nil || amount <= 0 {
		return
	}
	if unit.Protected {
		s.AppendEvent(LogEvent{Kind: EventProtect, Actor: side, CardName: unit.Name})
		return
	}
	unit.Damage += amount
	s.AppendEvent(LogEvent{Kind: EventDamage, Actor: side, CardName: unit.Name, Amount: amount})
	if unit.Damage >= unit.HP {
		knockout(s, unit, side)
	}
}

// ApplyStatus sets a status condition on the unit, unless protected.
func ApplyStatus(s *GameState, uid uuid.UUID, status string) {
	unit, side := FindUnit(s, uid)
	if unit == nil {
		return
	}
	if unit.Protected {
		s.AppendEvent(LogEvent{Kind: EventProtect, Actor: side, CardName: unit.Name})
		return
	}
	unit.Status = status
	s.AppendEvent(LogEvent{Kind: EventStatus, Actor: side, CardName: unit.Name, Status: status})
}

// GrantProtection shields the unit until the end of the following turn.
func GrantProtection(s *GameState, uid uuid.UUID) {
	unit, side := FindUnit(s, uid)
	if unit == nil {
		return
	}
	unit.Protected = true
	unit.ProtectExpiry = s.Turn + 1
	s.AppendEvent(LogEvent{Kind: EventProtect, Actor: side, CardName: unit.Name})
}

func knockout(s *GameState, unit *BoardUnit, side Actor) {
	s.AppendEvent(LogEvent{Kind: EventKnockout, Actor: side, CardName: unit.Name})
	fallen := cards.Instance{UID: unit.UID, Card: cards.Card{ID: unit.CardID, Name: unit.Name}}
	if side == ActorOpponent {
		s.OpponentDiscard = append(s.OpponentDiscard, fallen)
		s.OpponentDiscard = append(s.OpponentDiscard, unit.Energy...)
		removeUnit(s, unit, side)
		s.SelfPendingPrize = true
		if s.OpponentActive == nil && len(s.OpponentBench) == 0 {
			finish(s, ResultWin)
			return
		}
		s.OpponentPendingPromotion = s.OpponentActive == nil
	} else {
		s.SelfDiscard = append(s.SelfDiscard, fallen)
		s.SelfDiscard = append(s.SelfDiscard, unit.Energy...)
		removeUnit(s, unit, side)
		s.OpponentPendingPrize = true
		if s.SelfActive == nil && len(s.SelfBench) == 0 {
			finish(s, ResultLoss)
			return
		}
		s.SelfPendingPromotion = s.SelfActive == nil
	}
}

func removeUnit(s *GameState, unit *BoardUnit, side Actor) {
	if side == ActorOpponent {
		if s.OpponentActive == unit {
			s.OpponentActive = nil
			return
		}
		for i, u := range s.OpponentBench {
			if u == unit {
				s.OpponentBench = append(s.OpponentBench[:i], s.OpponentBench[i+1:]...)
				return
			}
		}
	} else {
		if s.SelfActive == unit {
			s.SelfActive = nil
			return
		}
		for i, u := range s.SelfBench {
			if u == unit {
				s.SelfBench = append(s.SelfBench[:i], s.SelfBench[i+1:]...)
				return
			}
		}
	}
}
