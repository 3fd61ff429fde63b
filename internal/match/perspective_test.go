// internal/match/perspective_test.go
package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
)

func sampleState(t *testing.T) *rules.GameState {
	t.Helper()
	catalog := cards.DefaultSet()
	pool := catalog.Pool(cards.RarityCommon)
	require.NotEmpty(t, pool)

	s := &rules.GameState{
		SelfHand:     []cards.Instance{cards.NewInstance(pool[0]), cards.NewInstance(pool[1])},
		OpponentHand: []cards.Instance{cards.NewInstance(pool[2])},
		SelfDeck:     []cards.Instance{cards.NewInstance(pool[3])},
		OpponentDeck: []cards.Instance{cards.NewInstance(pool[4]), cards.NewInstance(pool[5])},
		SelfPrizes:   []cards.Instance{cards.NewInstance(pool[0])},
		SelfActive:   &rules.BoardUnit{CardID: pool[0].ID, Name: pool[0].Name, HP: pool[0].HP},
		SelfTurn:     true,
		Turn:         3,
		Result:       rules.ResultWin,
	}
	s.AppendEvent(rules.LogEvent{Kind: rules.EventAttack, Actor: rules.ActorSelf, Target: rules.ActorOpponent, Amount: 20})
	s.AppendEvent(rules.LogEvent{Kind: rules.EventDamage, Actor: rules.ActorOpponent, Amount: 20})
	s.AppendEvent(rules.LogEvent{Kind: rules.EventGameStart})
	return s
}

func TestSwapExchangesSeats(t *testing.T) {
	s := sampleState(t)
	sw := Swap(s)

	assert.Equal(t, s.SelfHand, sw.OpponentHand)
	assert.Equal(t, s.OpponentHand, sw.SelfHand)
	assert.Equal(t, s.SelfDeck, sw.OpponentDeck)
	assert.Equal(t, s.SelfPrizes, sw.OpponentPrizes)
	assert.Equal(t, s.SelfActive, sw.OpponentActive)
	assert.Nil(t, sw.SelfActive)
	assert.False(t, sw.SelfTurn)
	assert.Equal(t, rules.ResultLoss, sw.Result)

	assert.Equal(t, rules.ActorOpponent, sw.Events[0].Actor)
	assert.Equal(t, rules.ActorSelf, sw.Events[0].Target)
	assert.Equal(t, rules.ActorSelf, sw.Events[1].Actor)
	assert.Equal(t, rules.ActorNone, sw.Events[2].Actor)
}

func TestSwapIsInvolution(t *testing.T) {
	s := sampleState(t)
	back := Swap(Swap(s))
	assert.Equal(t, s, back)
}

func TestSwapDoesNotMutateOriginal(t *testing.T) {
	s := sampleState(t)
	before := s.Clone()
	_ = Swap(s)
	assert.Equal(t, before, s)
}
