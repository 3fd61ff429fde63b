// internal/match/room.go
package match

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/timer"
)

// Status is the room lifecycle phase.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusReady    Status = "ready"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// ForfeitDelay is how long a disconnected player has to reconnect before the
// room is awarded to the opponent.
const ForfeitDelay = 120 * time.Second

const maxSlots = 2

// RoomConfig is fixed at creation time.
type RoomConfig struct {
	// PrizeCount is clamped into [4, 6] on creation.
	PrizeCount int `json:"prizeCount"`
	// Wager is the coin amount each player stakes; zero means a free match.
	Wager int64 `json:"wager"`
	// ReservedUserID, when set, restricts the second seat to that user.
	ReservedUserID uuid.UUID `json:"reservedUserId,omitempty"`
}

func (c RoomConfig) clamped() RoomConfig {
	if c.PrizeCount < 4 {
		c.PrizeCount = 4
	}
	if c.PrizeCount > 6 {
		c.PrizeCount = 6
	}
	return c
}

// Slot is one seat of a room.
type Slot struct {
	UserID    uuid.UUID        `json:"userId"`
	Connected bool             `json:"connected"`
	Ready     bool             `json:"ready"`
	Deck      []cards.Instance `json:"-"`

	// forfeit is the pending disconnect timer; nil when none is armed.
	forfeit timer.Handle
}

// Room is a single two-player match. All fields are guarded by Mu.
type Room struct {
	ID        uuid.UUID  `json:"id"`
	CreatorID uuid.UUID  `json:"creatorId"`
	Config    RoomConfig `json:"config"`
	Status    Status     `json:"status"`
	Slots     [maxSlots]*Slot

	// State is canonical: slot 0 is always "self".
	State *rules.GameState

	// DraftID links rooms spawned by tournament pairing back to their draft.
	DraftID uuid.UUID `json:"draftId,omitempty"`

	Mu sync.Mutex
}

// HasPlayer reports whether the user holds a seat.
func (r *Room) HasPlayer(userID uuid.UUID) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	_, s := r.slotOf(userID)
	return s != nil
}

func (r *Room) slotOf(userID uuid.UUID) (int, *Slot) {
	for i, s := range r.Slots {
		if s != nil && s.UserID == userID {
			return i, s
		}
	}
	return -1, nil
}

func (r *Room) occupied() int {
	n := 0
	for _, s := range r.Slots {
		if s != nil {
			n++
		}
	}
	return n
}

func (r *Room) cancelForfeits() {
	for _, s := range r.Slots {
		if s != nil && s.forfeit != nil {
			s.forfeit.Cancel()
			s.forfeit = nil
		}
	}
}
