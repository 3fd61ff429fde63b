// internal/match/perspective.go
package match

import (
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
)

// Swap returns a deep copy of the state with the two seats exchanged: every
// Self*/Opponent* pair is swapped, the turn flag inverted, the terminal result
// mirrored and every log event's actor slots flipped. Swap is an involution;
// applying it twice restores the original framing.
//
// Canonical storage frames slot 1 as self. Slot-2 actions are executed as
// swap, apply, swap back; events the engine appended between the two swaps are
// flipped exactly once, landing in canonical form, while pre-existing events
// are flipped twice and come back unchanged.
func Swap(s *rules.GameState) *rules.GameState {
	cp := s.Clone()

	cp.SelfHand, cp.OpponentHand = cp.OpponentHand, cp.SelfHand
	cp.SelfDeck, cp.OpponentDeck = cp.OpponentDeck, cp.SelfDeck
	cp.SelfDiscard, cp.OpponentDiscard = cp.OpponentDiscard, cp.SelfDiscard
	cp.SelfPrizes, cp.OpponentPrizes = cp.OpponentPrizes, cp.SelfPrizes
	cp.SelfActive, cp.OpponentActive = cp.OpponentActive, cp.SelfActive
	cp.SelfBench, cp.OpponentBench = cp.OpponentBench, cp.SelfBench
	cp.SelfReady, cp.OpponentReady = cp.OpponentReady, cp.SelfReady
	cp.SelfPendingPromotion, cp.OpponentPendingPromotion = cp.OpponentPendingPromotion, cp.SelfPendingPromotion
	cp.SelfPendingPrize, cp.OpponentPendingPrize = cp.OpponentPendingPrize, cp.SelfPendingPrize

	cp.SelfTurn = !cp.SelfTurn

	switch cp.Result {
	case rules.ResultWin:
		cp.Result = rules.ResultLoss
	case rules.ResultLoss:
		cp.Result = rules.ResultWin
	}

	for i := range cp.Events {
		cp.Events[i].Actor = flipActor(cp.Events[i].Actor)
		cp.Events[i].Target = flipActor(cp.Events[i].Target)
	}
	return cp
}

func flipActor(a rules.Actor) rules.Actor {
	switch a {
	case rules.ActorSelf:
		return rules.ActorOpponent
	case rules.ActorOpponent:
		return rules.ActorSelf
	default:
		return a
	}
}
