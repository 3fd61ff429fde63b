// internal/draft/manager_test.go
package draft

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/match"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/timer"
)

func newTestManagers(t *testing.T) (*Manager, *match.Manager, *timer.Manual) {
	t.Helper()
	catalog := cards.DefaultSet()
	sched := timer.NewManual()
	matches := match.NewManager(rules.NewBasicEngine(catalog), catalog, sched, rand.New(rand.NewSource(21)))
	drafts := NewManager(catalog, sched, matches, rand.New(rand.NewSource(13)))
	return drafts, matches, sched
}

func packTop(t *testing.T, d *Draft, userID uuid.UUID) uuid.UUID {
	t.Helper()
	d.Mu.Lock()
	defer d.Mu.Unlock()
	p := d.player(userID)
	require.NotNil(t, p)
	require.NotEmpty(t, p.Pack)
	return p.Pack[0].UID
}

func TestJoinCapacityAndPhaseGate(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	d := m.Create(creator, Config{MaxPlayers: 2, PackSize: 2, Rounds: 1})

	_, err := m.Join(d.ID, uuid.New())
	require.NoError(t, err)

	_, err = m.Join(d.ID, uuid.New())
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	require.NoError(t, m.StartDraft(d.ID, creator))
	_, err = m.Join(d.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLeavePromotesCreatorAndDeletesEmptyLobby(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	other := uuid.New()
	d := m.Create(creator, Config{})
	_, err := m.Join(d.ID, other)
	require.NoError(t, err)

	require.NoError(t, m.Leave(d.ID, creator))
	assert.Equal(t, other, d.CreatorID)
	require.Len(t, d.Players, 1)

	require.NoError(t, m.Leave(d.ID, other))
	_, err = m.Get(d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestLeaveDuringDraftMarksDisconnected(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	other := uuid.New()
	d := m.Create(creator, Config{MaxPlayers: 2, PackSize: 3, Rounds: 1})
	_, err := m.Join(d.ID, other)
	require.NoError(t, err)
	require.NoError(t, m.StartDraft(d.ID, creator))

	assert.ErrorIs(t, m.Leave(d.ID, uuid.New()), ErrAuthorizationDenied)
	require.NoError(t, m.Leave(d.ID, other))

	d.Mu.Lock()
	defer d.Mu.Unlock()
	require.Len(t, d.Players, 2, "seat and drafted progress survive a mid-draft leave")
	assert.False(t, d.Players[1].Connected)
	assert.Equal(t, PhaseDrafting, d.Phase)
}

func TestStartDraftAuthorization(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	d := m.Create(creator, Config{})
	_, err := m.Join(d.ID, uuid.New())
	require.NoError(t, err)

	assert.ErrorIs(t, m.StartDraft(d.ID, uuid.New()), ErrAuthorizationDenied)
	require.NoError(t, m.StartDraft(d.ID, creator))
	assert.ErrorIs(t, m.StartDraft(d.ID, creator), ErrInvalidState)
}

func TestPickCycleConservation(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	users := []uuid.UUID{creator, uuid.New(), uuid.New(), uuid.New()}
	d := m.Create(creator, Config{MaxPlayers: 4, PackSize: 4, Rounds: 3, MinDeckSize: 13})
	for _, u := range users[1:] {
		_, err := m.Join(d.ID, u)
		require.NoError(t, err)
	}
	require.NoError(t, m.StartDraft(d.ID, creator))

	picksPerPlayer := 4 * 3
	for cycle := 0; cycle < picksPerPlayer; cycle++ {
		for _, u := range users {
			require.NoError(t, m.PickCard(d.ID, u, packTop(t, d, u)))
		}
	}

	d.Mu.Lock()
	defer d.Mu.Unlock()
	assert.Equal(t, PhaseBonusPick, d.Phase)
	for _, p := range d.Players {
		assert.Len(t, p.Pool, picksPerPlayer)
		assert.Empty(t, p.Pack)
	}
}

func TestPickTimeoutAutoPicksStragglers(t *testing.T) {
	m, _, sched := newTestManagers(t)
	creator := uuid.New()
	other := uuid.New()
	d := m.Create(creator, Config{MaxPlayers: 2, PackSize: 3, Rounds: 1, PickTimeout: 30 * time.Second})
	_, err := m.Join(d.ID, other)
	require.NoError(t, err)
	require.NoError(t, m.StartDraft(d.ID, creator))

	require.NoError(t, m.PickCard(d.ID, creator, packTop(t, d, creator)))

	sched.Advance(30 * time.Second)

	d.Mu.Lock()
	defer d.Mu.Unlock()
	for _, p := range d.Players {
		assert.Len(t, p.Pool, 1)
		assert.Len(t, p.Pack, 2)
		assert.False(t, p.Picked, "ready flags reset after rotation")
	}
	autoPicks := 0
	for _, ev := range d.Events {
		if ev.Kind == EventAutoPick {
			autoPicks++
		}
	}
	assert.Equal(t, 1, autoPicks)
}

func TestDisconnectedSeatDoesNotStallPickCycle(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	users := []uuid.UUID{creator, uuid.New(), uuid.New()}
	d := m.Create(creator, Config{MaxPlayers: 3, PackSize: 3, Rounds: 1, PickTimeout: 30 * time.Second})
	for _, u := range users[1:] {
		_, err := m.Join(d.ID, u)
		require.NoError(t, err)
	}
	require.NoError(t, m.StartDraft(d.ID, creator))
	m.HandleDisconnect(d.ID, users[2])

	require.NoError(t, m.PickCard(d.ID, users[0], packTop(t, d, users[0])))
	require.NoError(t, m.PickCard(d.ID, users[1], packTop(t, d, users[1])))

	// The cycle advances as soon as both connected players pick; the absent
	// seat is auto-picked without waiting out the timer.
	d.Mu.Lock()
	defer d.Mu.Unlock()
	for _, p := range d.Players {
		assert.Len(t, p.Pool, 1)
		assert.Len(t, p.Pack, 2)
		assert.False(t, p.Picked)
	}
	autoPicks := 0
	for _, ev := range d.Events {
		if ev.Kind == EventAutoPick {
			autoPicks++
		}
	}
	assert.Equal(t, 1, autoPicks)
}

func runToBonusPick(t *testing.T, m *Manager, d *Draft, users []uuid.UUID) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, m.PickCard(d.ID, u, packTop(t, d, u)))
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()
	require.Equal(t, PhaseBonusPick, d.Phase)
}

func TestBonusPickAdvancesPastDisconnectedPlayer(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	other := uuid.New()
	d := m.Create(creator, Config{MaxPlayers: 2, PackSize: 1, Rounds: 1})
	_, err := m.Join(d.ID, other)
	require.NoError(t, err)
	require.NoError(t, m.StartDraft(d.ID, creator))
	runToBonusPick(t, m, d, []uuid.UUID{creator, other})

	m.HandleDisconnect(d.ID, other)
	picks := []string{"bs-001", "bs-001", "bs-060"}
	require.NoError(t, m.SubmitBonusPicks(d.ID, creator, picks))

	d.Mu.Lock()
	defer d.Mu.Unlock()
	assert.Equal(t, PhaseBuilding, d.Phase)
}

func TestDisconnectAfterBonusSubmitAdvances(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	other := uuid.New()
	d := m.Create(creator, Config{MaxPlayers: 2, PackSize: 1, Rounds: 1})
	_, err := m.Join(d.ID, other)
	require.NoError(t, err)
	require.NoError(t, m.StartDraft(d.ID, creator))
	runToBonusPick(t, m, d, []uuid.UUID{creator, other})

	picks := []string{"bs-001", "bs-001", "bs-060"}
	require.NoError(t, m.SubmitBonusPicks(d.ID, creator, picks))
	m.HandleDisconnect(d.ID, other)

	d.Mu.Lock()
	defer d.Mu.Unlock()
	assert.Equal(t, PhaseBuilding, d.Phase)
}

func TestRotationClockwiseInOddRounds(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	users := []uuid.UUID{creator, uuid.New(), uuid.New()}
	d := m.Create(creator, Config{MaxPlayers: 3, PackSize: 3, Rounds: 2})
	for _, u := range users[1:] {
		_, err := m.Join(d.ID, u)
		require.NoError(t, err)
	}
	require.NoError(t, m.StartDraft(d.ID, creator))

	// Round 1 passes clockwise: seat i receives seat i-1's pack.
	require.NoError(t, m.PickCard(d.ID, users[0], packTop(t, d, users[0])))
	require.NoError(t, m.PickCard(d.ID, users[1], packTop(t, d, users[1])))

	d.Mu.Lock()
	before := make([][]cards.Instance, len(d.Players))
	for i, p := range d.Players {
		before[i] = append([]cards.Instance(nil), p.Pack...)
	}
	lastPick := d.Players[2].Pack[0].UID
	d.Mu.Unlock()

	require.NoError(t, m.PickCard(d.ID, users[2], lastPick))

	d.Mu.Lock()
	defer d.Mu.Unlock()
	assert.Equal(t, before[0], d.Players[1].Pack)
	assert.Equal(t, before[1], d.Players[2].Pack)
	assert.Equal(t, before[2][1:], d.Players[0].Pack)
}

func TestRotationCounterClockwiseInEvenRounds(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	users := []uuid.UUID{creator, uuid.New(), uuid.New()}
	d := m.Create(creator, Config{MaxPlayers: 3, PackSize: 2, Rounds: 2})
	for _, u := range users[1:] {
		_, err := m.Join(d.ID, u)
		require.NoError(t, err)
	}
	require.NoError(t, m.StartDraft(d.ID, creator))

	// Exhaust round 1 so round 2 opens fresh packs.
	for cycle := 0; cycle < 2; cycle++ {
		for _, u := range users {
			require.NoError(t, m.PickCard(d.ID, u, packTop(t, d, u)))
		}
	}
	d.Mu.Lock()
	require.Equal(t, 2, d.Round)
	d.Mu.Unlock()

	require.NoError(t, m.PickCard(d.ID, users[0], packTop(t, d, users[0])))
	require.NoError(t, m.PickCard(d.ID, users[1], packTop(t, d, users[1])))

	d.Mu.Lock()
	before := make([][]cards.Instance, len(d.Players))
	for i, p := range d.Players {
		before[i] = append([]cards.Instance(nil), p.Pack...)
	}
	lastPick := d.Players[2].Pack[0].UID
	d.Mu.Unlock()

	require.NoError(t, m.PickCard(d.ID, users[2], lastPick))

	// Round 2 passes the other way: seat i receives seat i+1's pack.
	d.Mu.Lock()
	defer d.Mu.Unlock()
	assert.Equal(t, before[1], d.Players[0].Pack)
	assert.Equal(t, before[2][1:], d.Players[1].Pack)
	assert.Equal(t, before[0], d.Players[2].Pack)
}

func TestFullDraftToFinishedTournament(t *testing.T) {
	m, matches, _ := newTestManagers(t)
	creator := uuid.New()
	users := []uuid.UUID{creator, uuid.New(), uuid.New(), uuid.New()}
	d := m.Create(creator, Config{MaxPlayers: 4, PackSize: 4, Rounds: 3, MinDeckSize: 13, PrizeCount: 4})
	for _, u := range users[1:] {
		_, err := m.Join(d.ID, u)
		require.NoError(t, err)
	}
	require.NoError(t, m.StartDraft(d.ID, creator))

	for cycle := 0; cycle < 4*3; cycle++ {
		for _, u := range users {
			require.NoError(t, m.PickCard(d.ID, u, packTop(t, d, u)))
		}
	}

	// Bonus picks allow duplicates from the full catalog.
	for _, u := range users {
		require.NoError(t, m.SubmitBonusPicks(d.ID, u, []string{"bs-001", "bs-001", "bs-060"}))
	}
	d.Mu.Lock()
	assert.Equal(t, PhaseBuilding, d.Phase)
	d.Mu.Unlock()

	for i, u := range users {
		d.Mu.Lock()
		p := d.player(u)
		uids := make([]uuid.UUID, 0, len(p.Pool))
		for _, c := range p.Pool {
			uids = append(uids, c.UID)
		}
		d.Mu.Unlock()
		energy := map[string]int{}
		if i == 0 {
			energy["grass"] = 2
		}
		require.NoError(t, m.SubmitDeck(d.ID, u, uids, energy))
	}

	d.Mu.Lock()
	require.Equal(t, PhaseMatching, d.Phase)
	require.Len(t, d.Schedule, 3)
	require.Len(t, d.Schedule[0].Pairings, 2)
	d.Mu.Unlock()

	// Play out every round by reporting each pending room once.
	for round := 0; round < 3; round++ {
		pending := make(map[uuid.UUID]bool)
		for _, u := range users {
			roomID, err := m.PendingMatch(d.ID, u)
			require.NoError(t, err)
			pending[roomID] = true
		}
		require.Len(t, pending, 2)
		for roomID := range pending {
			room, err := matches.Get(roomID)
			require.NoError(t, err)
			require.NoError(t, m.ReportMatchResult(roomID, room.Slots[0].UserID, room.Slots[1].UserID, false))
		}
	}

	d.Mu.Lock()
	assert.Equal(t, PhaseFinished, d.Phase)
	assert.Len(t, d.Results, 6)
	d.Mu.Unlock()

	standings, err := m.Standings(d.ID)
	require.NoError(t, err)
	require.Len(t, standings, 4)
	wins, losses := 0, 0
	for _, s := range standings {
		wins += s.Wins
		losses += s.Losses
	}
	assert.Equal(t, 6, wins)
	assert.Equal(t, 6, losses)
	for i := 1; i < len(standings); i++ {
		assert.GreaterOrEqual(t, standings[i-1].Wins, standings[i].Wins)
	}
}

func TestSubmitDeckRejectsForeignCards(t *testing.T) {
	m, _, _ := newTestManagers(t)
	creator := uuid.New()
	other := uuid.New()
	d := m.Create(creator, Config{MaxPlayers: 2, PackSize: 3, Rounds: 1, MinDeckSize: 2})
	_, err := m.Join(d.ID, other)
	require.NoError(t, err)
	require.NoError(t, m.StartDraft(d.ID, creator))

	for cycle := 0; cycle < 3; cycle++ {
		require.NoError(t, m.PickCard(d.ID, creator, packTop(t, d, creator)))
		require.NoError(t, m.PickCard(d.ID, other, packTop(t, d, other)))
	}
	require.NoError(t, m.SubmitBonusPicks(d.ID, creator, []string{"bs-001", "bs-002", "bs-003"}))
	require.NoError(t, m.SubmitBonusPicks(d.ID, other, []string{"bs-001", "bs-002", "bs-003"}))

	err = m.SubmitDeck(d.ID, creator, []uuid.UUID{uuid.New()}, nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	err = m.SubmitDeck(d.ID, creator, nil, map[string]int{"lava": 4})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestThreePlayerTournamentHasByes(t *testing.T) {
	m, matches, _ := newTestManagers(t)
	creator := uuid.New()
	users := []uuid.UUID{creator, uuid.New(), uuid.New()}
	d := m.Create(creator, Config{MaxPlayers: 3, PackSize: 4, Rounds: 3, MinDeckSize: 13})
	for _, u := range users[1:] {
		_, err := m.Join(d.ID, u)
		require.NoError(t, err)
	}
	require.NoError(t, m.StartDraft(d.ID, creator))

	for cycle := 0; cycle < 4*3; cycle++ {
		for _, u := range users {
			require.NoError(t, m.PickCard(d.ID, u, packTop(t, d, u)))
		}
	}
	for _, u := range users {
		require.NoError(t, m.SubmitBonusPicks(d.ID, u, []string{"bs-001", "bs-002", "bs-003"}))
	}
	for _, u := range users {
		d.Mu.Lock()
		p := d.player(u)
		uids := make([]uuid.UUID, 0, len(p.Pool))
		for _, c := range p.Pool {
			uids = append(uids, c.UID)
		}
		d.Mu.Unlock()
		require.NoError(t, m.SubmitDeck(d.ID, u, uids, nil))
	}

	// Three seats give three rounds, each with one game and one bye.
	for round := 0; round < 3; round++ {
		d.Mu.Lock()
		byes := 0
		for _, r := range d.Results {
			if r.Bye && r.Round == round+1 {
				byes++
			}
		}
		assert.Equal(t, 1, byes, "round %d", round+1)
		d.Mu.Unlock()

		var roomID uuid.UUID
		for _, u := range users {
			if id, err := m.PendingMatch(d.ID, u); err == nil {
				roomID = id
				break
			}
		}
		require.NotEqual(t, uuid.Nil, roomID)
		room, err := matches.Get(roomID)
		require.NoError(t, err)
		require.NoError(t, m.ReportMatchResult(roomID, room.Slots[0].UserID, room.Slots[1].UserID, false))
	}

	d.Mu.Lock()
	assert.Equal(t, PhaseFinished, d.Phase)
	d.Mu.Unlock()

	standings, err := m.Standings(d.ID)
	require.NoError(t, err)
	wins := 0
	for _, s := range standings {
		wins += s.Wins
	}
	// Three decided games plus three byes.
	assert.Equal(t, 6, wins)
}
