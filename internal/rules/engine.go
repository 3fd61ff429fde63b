// internal/rules/engine.go
package rules

import (
	"errors"

	"github.com/google/uuid"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
)

// ActionType enumerates the moves the orchestration layer can dispatch.
type ActionType string

const (
	// Engine-owned transforms.
	ActionAttack        ActionType = "attack"
	ActionEvolve        ActionType = "evolve"
	ActionPlayTrainer   ActionType = "play_trainer"
	ActionEndTurn       ActionType = "end_turn"
	ActionMulligan      ActionType = "mulligan"
	ActionPromote       ActionType = "promote"
	ActionTakePrize     ActionType = "take_prize"
	ActionReady         ActionType = "ready"
	ActionResolveEffect ActionType = "resolve_effect"

	// Placement/attachment mutations owned by the match manager, not the
	// engine.
	ActionPlaceActive  ActionType = "place_active"
	ActionPlaceBench   ActionType = "place_bench"
	ActionAttachEnergy ActionType = "attach_energy"
)

// Action is one dispatched move, always expressed in the acting player's
// "self" frame. Flips and Heads are filled in by the match manager when an
// attack defers coin-flip resolution.
type Action struct {
	Type        ActionType `json:"type"`
	CardUID     uuid.UUID  `json:"cardUid,omitempty"`
	TargetUID   uuid.UUID  `json:"targetUid,omitempty"`
	AttackIndex int        `json:"attackIndex,omitempty"`
	BenchIndex  int        `json:"benchIndex,omitempty"`
	Flips       int        `json:"flips,omitempty"`
	Heads       int        `json:"heads,omitempty"`
}

// Engine is the consumed card-rule contract: pure transforms over a canonical
// GameState with no notion of seats. The orchestration layer handles
// perspective swapping and deferred coin-flip effects.
type Engine interface {
	// NewGame builds the initial state from two decks; self = slot 1. The
	// returned state's event batch follows the same fixed convention. Decks
	// arrive pre-shuffled; the engine holds no randomness of its own. The
	// standard six prizes are dealt; the caller trims to its configured count.
	NewGame(selfDeck, opponentDeck []cards.Instance) (*GameState, error)

	// FlipsRequired reports how many fair coin flips the action needs before
	// Apply may run, along with the flip-dependent effects the caller must
	// resolve afterwards. Zero means the action resolves deterministically.
	FlipsRequired(s *GameState, act Action) (int, []cards.FlipEffect)

	// Apply executes an engine-owned transform and returns the new state.
	// The input state is never mutated.
	Apply(s *GameState, act Action) (*GameState, error)
}

// Engine-level rejections. The match manager folds these into its own error
// taxonomy before surfacing them to clients.
var (
	ErrUnknownAction = errors.New("rules: unknown action type")
	ErrIllegalMove   = errors.New("rules: illegal move for current state")
	ErrNoSuchCard    = errors.New("rules: card not found")
)
