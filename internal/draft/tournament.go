// internal/draft/tournament.go
package draft

import (
	"sort"

	"github.com/google/uuid"
)

// ByeSeat marks the phantom entrant padded in for odd player counts.
const ByeSeat = -1

// Pairing is one table of a tournament round, expressed as seat indices.
// SeatB == ByeSeat means SeatA sits out and takes an automatic win.
type Pairing struct {
	SeatA int `json:"seatA"`
	SeatB int `json:"seatB"`
}

// TournamentRound is one round of the round-robin schedule.
type TournamentRound struct {
	Number   int       `json:"number"`
	Pairings []Pairing `json:"pairings"`
}

// MatchReport records one decided game of the tournament.
type MatchReport struct {
	Round    int       `json:"round"`
	RoomID   uuid.UUID `json:"roomId,omitempty"`
	WinnerID uuid.UUID `json:"winnerId"`
	LoserID  uuid.UUID `json:"loserId,omitempty"`
	Bye      bool      `json:"bye,omitempty"`
	Forfeit  bool      `json:"forfeit,omitempty"`
}

// Standing is one row of the tournament table. Byes count toward Wins and are
// tracked separately.
type Standing struct {
	UserID uuid.UUID `json:"userId"`
	Wins   int       `json:"wins"`
	Losses int       `json:"losses"`
	Byes   int       `json:"byes"`
}

// BuildSchedule produces a circle-method round robin over n seats. Odd fields
// are padded with a bye; seat 0 stays fixed while the rest rotate, giving
// m-1 rounds where every pair of seats meets exactly once.
func BuildSchedule(n int) []TournamentRound {
	if n < 2 {
		return nil
	}
	seats := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		seats = append(seats, i)
	}
	if n%2 == 1 {
		seats = append(seats, ByeSeat)
	}
	m := len(seats)

	rounds := make([]TournamentRound, 0, m-1)
	for r := 0; r < m-1; r++ {
		round := TournamentRound{Number: r + 1}
		for i := 0; i < m/2; i++ {
			a, b := seats[i], seats[m-1-i]
			if a == ByeSeat {
				a, b = b, a
			}
			round.Pairings = append(round.Pairings, Pairing{SeatA: a, SeatB: b})
		}
		rounds = append(rounds, round)

		// Rotate all seats but the first.
		last := seats[m-1]
		copy(seats[2:], seats[1:m-1])
		seats[1] = last
	}
	return rounds
}

// ComputeStandings ranks players by wins, breaking two-way win ties by the
// head-to-head result and remaining ties by fewer losses.
func ComputeStandings(players []*Player, results []MatchReport) []Standing {
	byUser := make(map[uuid.UUID]*Standing, len(players))
	out := make([]Standing, len(players))
	for i, p := range players {
		out[i] = Standing{UserID: p.UserID}
	}
	for i := range out {
		byUser[out[i].UserID] = &out[i]
	}
	for _, r := range results {
		if s, ok := byUser[r.WinnerID]; ok {
			s.Wins++
			if r.Bye {
				s.Byes++
			}
		}
		if !r.Bye {
			if s, ok := byUser[r.LoserID]; ok {
				s.Losses++
			}
		}
	}

	beat := func(a, b uuid.UUID) bool {
		for _, r := range results {
			if r.WinnerID == a && r.LoserID == b {
				return true
			}
		}
		return false
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if beat(out[i].UserID, out[j].UserID) {
			return true
		}
		if beat(out[j].UserID, out[i].UserID) {
			return false
		}
		return out[i].Losses < out[j].Losses
	})
	return out
}
