// internal/draft/room.go
package draft

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/timer"
)

// Phase is the draft lifecycle. Transitions only move forward.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseDrafting  Phase = "drafting"
	PhaseBonusPick Phase = "bonus_pick"
	PhaseBuilding  Phase = "building"
	PhaseMatching  Phase = "matching"
	PhaseFinished  Phase = "finished"
)

var phaseOrder = map[Phase]int{
	PhaseLobby:     0,
	PhaseDrafting:  1,
	PhaseBonusPick: 2,
	PhaseBuilding:  3,
	PhaseMatching:  4,
	PhaseFinished:  5,
}

// Error taxonomy shared with the match package's conventions.
var (
	ErrDraftNotFound       = errors.New("draft: draft not found")
	ErrInvalidState        = errors.New("draft: operation invalid for current phase")
	ErrCapacityExceeded    = errors.New("draft: draft is full")
	ErrAuthorizationDenied = errors.New("draft: not authorized")
)

// BonusPickCount is the number of free catalog picks after drafting ends.
const BonusPickCount = 3

// Config is fixed when the draft is created.
type Config struct {
	MaxPlayers  int           `json:"maxPlayers"`
	PackSize    int           `json:"packSize"`
	Rounds      int           `json:"rounds"`
	PickTimeout time.Duration `json:"pickTimeout"`
	MinDeckSize int           `json:"minDeckSize"`
	// PrizeCount is forwarded to the match rooms spawned during matching.
	PrizeCount int `json:"prizeCount"`
}

func (c Config) withDefaults() Config {
	if c.MaxPlayers < 2 {
		c.MaxPlayers = 4
	}
	if c.MaxPlayers > 8 {
		c.MaxPlayers = 8
	}
	if c.PackSize <= 0 {
		c.PackSize = 11
	}
	if c.Rounds <= 0 {
		c.Rounds = 3
	}
	if c.PickTimeout <= 0 {
		c.PickTimeout = 30 * time.Second
	}
	if c.MinDeckSize <= 0 {
		c.MinDeckSize = 20
	}
	if c.PrizeCount == 0 {
		c.PrizeCount = 6
	}
	return c
}

// Player is one drafter. Seat order is fixed at StartDraft.
type Player struct {
	UserID    uuid.UUID `json:"userId"`
	Seat      int       `json:"seat"`
	Connected bool      `json:"connected"`

	// Picked marks that this player completed the current pick cycle.
	Picked bool `json:"picked"`

	Pack []cards.Instance `json:"-"`
	Pool []cards.Instance `json:"-"`

	BonusDone     bool             `json:"bonusDone"`
	Deck          []cards.Instance `json:"-"`
	DeckSubmitted bool             `json:"deckSubmitted"`
}

// EventKind tags draft log entries.
type EventKind string

const (
	EventJoined    EventKind = "joined"
	EventLeft      EventKind = "left"
	EventStarted   EventKind = "started"
	EventPicked    EventKind = "picked"
	EventAutoPick  EventKind = "auto_pick"
	EventRotated   EventKind = "rotated"
	EventNewRound  EventKind = "new_round"
	EventBonusDone EventKind = "bonus_done"
	EventDeckIn    EventKind = "deck_submitted"
	EventPaired    EventKind = "paired"
	EventReported  EventKind = "match_reported"
	EventFinished  EventKind = "finished"
)

// Event is one entry of the draft's append-only log.
type Event struct {
	Kind   EventKind `json:"kind"`
	UserID uuid.UUID `json:"userId,omitempty"`
	Round  int       `json:"round,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Draft is one draft room plus its tournament. All fields are guarded by Mu.
type Draft struct {
	ID        uuid.UUID `json:"id"`
	CreatorID uuid.UUID `json:"creatorId"`
	Config    Config    `json:"config"`
	Phase     Phase     `json:"phase"`

	Players []*Player `json:"players"`

	// Round counts pack rounds during drafting, then tournament rounds during
	// matching. Both are 1-based.
	Round int `json:"round"`

	Schedule []TournamentRound `json:"schedule,omitempty"`
	Results  []MatchReport     `json:"results,omitempty"`

	// pendingRooms maps a seated user to the match room currently awaiting
	// their result.
	pendingRooms map[uuid.UUID]uuid.UUID

	Events []Event `json:"events"`

	pickTimer timer.Handle
	// pickGen invalidates stale pick timers after the cycle they were armed
	// for has already advanced.
	pickGen int

	Mu sync.Mutex
}

func (d *Draft) player(userID uuid.UUID) *Player {
	for _, p := range d.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (d *Draft) log(ev Event) {
	d.Events = append(d.Events, ev)
}

// advance moves to a later phase; backward transitions are rejected.
func (d *Draft) advance(to Phase) error {
	if phaseOrder[to] <= phaseOrder[d.Phase] {
		return ErrInvalidState
	}
	d.Phase = to
	return nil
}
