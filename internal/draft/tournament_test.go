// internal/draft/tournament_test.go
package draft

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScheduleProperties(t *testing.T) {
	for n := 2; n <= 8; n++ {
		t.Run(fmt.Sprintf("players_%d", n), func(t *testing.T) {
			rounds := BuildSchedule(n)

			wantRounds := n - 1
			if n%2 == 1 {
				wantRounds = n
			}
			require.Len(t, rounds, wantRounds)

			met := make(map[[2]int]int)
			for _, round := range rounds {
				seen := make(map[int]bool)
				for _, p := range round.Pairings {
					assert.NotEqual(t, ByeSeat, p.SeatA, "bye always sits in SeatB")
					assert.False(t, seen[p.SeatA])
					seen[p.SeatA] = true
					if p.SeatB != ByeSeat {
						assert.False(t, seen[p.SeatB])
						seen[p.SeatB] = true
						lo, hi := p.SeatA, p.SeatB
						if lo > hi {
							lo, hi = hi, lo
						}
						met[[2]int{lo, hi}]++
					}
				}
				// Every seat plays or sits out exactly once per round.
				assert.Len(t, seen, n)
			}

			// Every pair of seats meets exactly once.
			assert.Len(t, met, n*(n-1)/2)
			for pair, count := range met {
				assert.Equal(t, 1, count, "pair %v", pair)
			}
		})
	}
}

func TestBuildScheduleOddHasOneByePerRound(t *testing.T) {
	rounds := BuildSchedule(5)
	for _, round := range rounds {
		byes := 0
		for _, p := range round.Pairings {
			if p.SeatB == ByeSeat {
				byes++
			}
		}
		assert.Equal(t, 1, byes, "round %d", round.Number)
	}
}

func TestComputeStandingsHeadToHead(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	players := []*Player{{UserID: a}, {UserID: b}, {UserID: c}}

	// a and b finish 1-1; b beat a directly, so b ranks first.
	results := []MatchReport{
		{Round: 1, WinnerID: b, LoserID: a},
		{Round: 2, WinnerID: a, LoserID: c},
		{Round: 3, WinnerID: c, LoserID: b},
	}
	standings := ComputeStandings(players, results)
	require.Len(t, standings, 3)
	assert.Equal(t, b, standings[0].UserID)
	assert.Equal(t, a, standings[1].UserID)
}

func TestComputeStandingsByesCountAsWins(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	players := []*Player{{UserID: a}, {UserID: b}}
	results := []MatchReport{
		{Round: 1, WinnerID: a, Bye: true},
		{Round: 2, WinnerID: b, LoserID: a},
	}
	standings := ComputeStandings(players, results)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 1, standings[1].Wins)
	// b's win came off a directly, so b leads despite equal wins.
	assert.Equal(t, b, standings[0].UserID)
	assert.Equal(t, 0, standings[0].Byes)
	assert.Equal(t, 1, standings[1].Byes)

	total := 0
	for _, s := range standings {
		total += s.Wins
	}
	assert.Equal(t, len(results), total)
}
