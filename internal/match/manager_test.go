// internal/match/manager_test.go
package match

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/timer"
)

func testDeck(t *testing.T, catalog *cards.Catalog, size int) []cards.Instance {
	t.Helper()
	pool := catalog.Pool(cards.RarityCommon)
	require.NotEmpty(t, pool)
	deck := make([]cards.Instance, 0, size)
	for i := 0; i < size; i++ {
		deck = append(deck, cards.NewInstance(pool[i%len(pool)]))
	}
	return deck
}

func newTestManager(t *testing.T) (*Manager, *timer.Manual, *cards.Catalog) {
	t.Helper()
	catalog := cards.DefaultSet()
	sched := timer.NewManual()
	m := NewManager(rules.NewBasicEngine(catalog), catalog, sched, rand.New(rand.NewSource(7)))
	return m, sched, catalog
}

func TestJoinReservationAndCapacity(t *testing.T) {
	m, _, _ := newTestManager(t)
	creator := uuid.New()
	reserved := uuid.New()
	stranger := uuid.New()

	room := m.Create(creator, RoomConfig{PrizeCount: 6, ReservedUserID: reserved})

	_, err := m.Join(room.ID, stranger)
	assert.ErrorIs(t, err, ErrAuthorizationDenied)

	_, err = m.Join(room.ID, reserved)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, room.Status)

	// Both seats taken: a third user is rejected for capacity, not state.
	_, err = m.Join(room.ID, stranger)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCreateClampsPrizeCount(t *testing.T) {
	m, _, _ := newTestManager(t)
	low := m.Create(uuid.New(), RoomConfig{PrizeCount: 1})
	high := m.Create(uuid.New(), RoomConfig{PrizeCount: 9})
	assert.Equal(t, 4, low.Config.PrizeCount)
	assert.Equal(t, 6, high.Config.PrizeCount)
}

func TestStartGameTrimsPrizes(t *testing.T) {
	m, _, catalog := newTestManager(t)
	u1, u2 := uuid.New(), uuid.New()
	room := m.CreateForPairing(RoomConfig{PrizeCount: 4}, uuid.Nil, u1, u2,
		testDeck(t, catalog, 20), testDeck(t, catalog, 20))

	require.NoError(t, m.StartGame(room.ID))

	room.Mu.Lock()
	defer room.Mu.Unlock()
	assert.Len(t, room.State.SelfPrizes, 4)
	assert.Len(t, room.State.OpponentPrizes, 4)
	// 20 cards, 7 drawn, 6 dealt as prizes, 2 returned from the prize pile.
	assert.Len(t, room.State.SelfDeck, 9)
	assert.Len(t, room.State.OpponentDeck, 9)
}

func TestDeleteRules(t *testing.T) {
	m, _, catalog := newTestManager(t)
	creator, other := uuid.New(), uuid.New()
	room := m.Create(creator, RoomConfig{PrizeCount: 6})

	assert.ErrorIs(t, m.Delete(room.ID, other), ErrAuthorizationDenied)

	_, err := m.Join(room.ID, other)
	require.NoError(t, err)
	require.NoError(t, m.SetDeck(room.ID, creator, testDeck(t, catalog, 20)))
	require.NoError(t, m.SetDeck(room.ID, other, testDeck(t, catalog, 20)))
	require.NoError(t, m.StartGame(room.ID))

	assert.ErrorIs(t, m.Delete(room.ID, creator), ErrInvalidState)
}

func TestForfeitTimerAndReconnect(t *testing.T) {
	m, sched, catalog := newTestManager(t)
	u1, u2 := uuid.New(), uuid.New()

	var mu sync.Mutex
	var results []Result
	m.OnResult = func(res Result) {
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	}

	room := m.CreateForPairing(RoomConfig{PrizeCount: 6}, uuid.Nil, u1, u2,
		testDeck(t, catalog, 20), testDeck(t, catalog, 20))
	require.NoError(t, m.StartGame(room.ID))

	// Reconnecting before the deadline cancels the timer.
	m.HandleDisconnect(room.ID, u2)
	sched.Advance(60 * time.Second)
	_, err := m.Join(room.ID, u2)
	require.NoError(t, err)
	sched.Advance(120 * time.Second)

	mu.Lock()
	assert.Empty(t, results)
	mu.Unlock()
	assert.Equal(t, StatusPlaying, room.Status)

	// A second disconnect arms a fresh timer; duplicate events do not stack.
	m.HandleDisconnect(room.ID, u2)
	m.HandleDisconnect(room.ID, u2)
	sched.Advance(119 * time.Second)
	mu.Lock()
	assert.Empty(t, results)
	mu.Unlock()

	sched.Advance(1 * time.Second)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	res := results[0]
	mu.Unlock()
	assert.Equal(t, u1, res.WinnerID)
	assert.Equal(t, u2, res.LoserID)
	assert.True(t, res.Forfeit)
	assert.Equal(t, StatusFinished, room.Status)

	// Nothing further fires after the room is finished.
	sched.Advance(10 * time.Minute)
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Len(t, results, 1)
	mu.Unlock()
}

// flipEngine defers a fixed flip requirement so the manager's effect
// application can be observed in isolation.
type flipEngine struct {
	flips   int
	effects []cards.FlipEffect
}

func (e *flipEngine) NewGame(selfDeck, opponentDeck []cards.Instance) (*rules.GameState, error) {
	s := &rules.GameState{
		SelfTurn:       true,
		Turn:           1,
		SelfActive:     &rules.BoardUnit{UID: uuid.New(), CardID: "a", Name: "Attacker", HP: 100},
		OpponentActive: &rules.BoardUnit{UID: uuid.New(), CardID: "d", Name: "Defender", HP: 100},
		SelfPrizes:     selfDeck[:4],
		OpponentPrizes: opponentDeck[:4],
	}
	return s, nil
}

func (e *flipEngine) FlipsRequired(s *rules.GameState, act rules.Action) (int, []cards.FlipEffect) {
	if act.Type != rules.ActionAttack {
		return 0, nil
	}
	return e.flips, e.effects
}

func (e *flipEngine) Apply(s *rules.GameState, act rules.Action) (*rules.GameState, error) {
	if act.Type != rules.ActionAttack {
		return nil, rules.ErrUnknownAction
	}
	next := s.Clone()
	next.AppendEvent(rules.LogEvent{Kind: rules.EventAttack, Actor: rules.ActorSelf})
	return next, nil
}

func TestFlipEffectsDamagePerHeads(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := &flipEngine{
		flips: 2,
		effects: []cards.FlipEffect{
			{Kind: cards.FlipEffectDamagePerHeads, Amount: 10},
		},
	}
	m := NewManager(eng, catalog, timer.NewManual(), rand.New(rand.NewSource(11)))
	u1, u2 := uuid.New(), uuid.New()
	room := m.CreateForPairing(RoomConfig{PrizeCount: 4}, uuid.Nil, u1, u2,
		testDeck(t, catalog, 10), testDeck(t, catalog, 10))
	require.NoError(t, m.StartGame(room.ID))

	flips, err := m.ExecuteAction(room.ID, u1, rules.Action{Type: rules.ActionAttack})
	require.NoError(t, err)
	require.Len(t, flips, 2)

	heads := 0
	for _, h := range flips {
		if h {
			heads++
		}
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	assert.Equal(t, 10*heads, room.State.OpponentActive.Damage)

	var flipEvents []rules.LogEvent
	for _, ev := range room.State.Events {
		if ev.Kind == rules.EventCoinFlips {
			flipEvents = append(flipEvents, ev)
		}
	}
	require.Len(t, flipEvents, 1)
	assert.Equal(t, 2, flipEvents[0].Amount)
	assert.Equal(t, heads, flipEvents[0].Heads)
}

func TestExecuteActionTurnValidation(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := &flipEngine{}
	m := NewManager(eng, catalog, timer.NewManual(), rand.New(rand.NewSource(3)))
	u1, u2 := uuid.New(), uuid.New()
	room := m.CreateForPairing(RoomConfig{PrizeCount: 4}, uuid.Nil, u1, u2,
		testDeck(t, catalog, 10), testDeck(t, catalog, 10))
	require.NoError(t, m.StartGame(room.ID))

	// Slot 0 owns the opening turn.
	_, err := m.ExecuteAction(room.ID, u2, rules.Action{Type: rules.ActionAttack})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = m.ExecuteAction(room.ID, uuid.New(), rules.Action{Type: rules.ActionAttack})
	assert.ErrorIs(t, err, ErrAuthorizationDenied)
}

func TestExecuteActionSlotTwoFrame(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := &flipEngine{}
	m := NewManager(eng, catalog, timer.NewManual(), rand.New(rand.NewSource(5)))
	u1, u2 := uuid.New(), uuid.New()
	room := m.CreateForPairing(RoomConfig{PrizeCount: 4}, uuid.Nil, u1, u2,
		testDeck(t, catalog, 10), testDeck(t, catalog, 10))
	require.NoError(t, m.StartGame(room.ID))

	// Hand the turn to slot 1 and let them attack; the resulting event must
	// land in canonical form (slot 1 is the opponent actor).
	room.Mu.Lock()
	room.State.SelfTurn = false
	room.Mu.Unlock()

	_, err := m.ExecuteAction(room.ID, u2, rules.Action{Type: rules.ActionAttack})
	require.NoError(t, err)

	room.Mu.Lock()
	defer room.Mu.Unlock()
	last := room.State.Events[len(room.State.Events)-1]
	assert.Equal(t, rules.EventAttack, last.Kind)
	assert.Equal(t, rules.ActorOpponent, last.Actor)
}
