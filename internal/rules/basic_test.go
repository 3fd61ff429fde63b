// internal/rules/basic_test.go
package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
)

func buildDeck(t *testing.T, catalog *cards.Catalog, size int) []cards.Instance {
	t.Helper()
	pool := catalog.Pool(cards.RarityCommon)
	require.NotEmpty(t, pool)
	deck := make([]cards.Instance, 0, size)
	for i := 0; i < size; i++ {
		deck = append(deck, cards.NewInstance(pool[i%len(pool)]))
	}
	return deck
}

func TestNewGameDealsHandsAndPrizes(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)

	s, err := eng.NewGame(buildDeck(t, catalog, 20), buildDeck(t, catalog, 20))
	require.NoError(t, err)

	assert.Len(t, s.SelfHand, 7)
	assert.Len(t, s.OpponentHand, 7)
	assert.Len(t, s.SelfPrizes, 6)
	assert.Len(t, s.OpponentPrizes, 6)
	assert.Len(t, s.SelfDeck, 7)
	assert.Len(t, s.OpponentDeck, 7)
	assert.True(t, s.Setup)
	assert.True(t, s.SelfTurn)
}

func TestNewGameRejectsShortDeck(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)
	_, err := eng.NewGame(buildDeck(t, catalog, 5), buildDeck(t, catalog, 20))
	assert.ErrorIs(t, err, ErrIllegalMove)
}

// playingState builds a minimal mid-game state with one unit per side.
func playingState(selfHP, oppHP int) *GameState {
	return &GameState{
		SelfTurn:       true,
		Turn:           2,
		SelfActive:     &BoardUnit{UID: uuid.New(), CardID: "bs-001", Name: "Attacker", HP: selfHP},
		OpponentActive: &BoardUnit{UID: uuid.New(), CardID: "bs-002", Name: "Defender", HP: oppHP},
		SelfPrizes:     []cards.Instance{{UID: uuid.New()}},
		OpponentPrizes: []cards.Instance{{UID: uuid.New()}},
		SelfDeck:       []cards.Instance{{UID: uuid.New()}},
		OpponentDeck:   []cards.Instance{{UID: uuid.New()}},
	}
}

func TestApplyDamageKnockoutSetsPendingFlags(t *testing.T) {
	s := playingState(50, 30)
	s.OpponentBench = []*BoardUnit{{UID: uuid.New(), Name: "Benched", HP: 40}}

	ApplyDamage(s, s.OpponentActive.UID, 30)

	assert.Nil(t, s.OpponentActive)
	assert.True(t, s.SelfPendingPrize)
	assert.True(t, s.OpponentPendingPromotion)
	assert.Equal(t, ResultNone, s.Result)
	assert.Len(t, s.OpponentDiscard, 1)
}

func TestApplyDamageLastUnitEndsGame(t *testing.T) {
	s := playingState(50, 30)

	ApplyDamage(s, s.OpponentActive.UID, 30)

	assert.Equal(t, ResultWin, s.Result)
	assert.False(t, s.OpponentPendingPromotion)
}

func TestProtectionBlocksDamageAndStatus(t *testing.T) {
	s := playingState(50, 60)
	GrantProtection(s, s.OpponentActive.UID)

	ApplyDamage(s, s.OpponentActive.UID, 40)
	ApplyStatus(s, s.OpponentActive.UID, "paralyzed")

	assert.Equal(t, 0, s.OpponentActive.Damage)
	assert.Empty(t, s.OpponentActive.Status)
}

func TestProtectionExpiresAtEndOfNextTurn(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)
	s := playingState(50, 60)
	GrantProtection(s, s.SelfActive.UID)
	require.Equal(t, s.Turn+1, s.SelfActive.ProtectExpiry)

	next, err := eng.Apply(s, Action{Type: ActionEndTurn})
	require.NoError(t, err)
	assert.True(t, next.SelfActive.Protected)

	// Frame does not rotate between Apply calls here, so simulate the
	// opponent's end of turn by advancing again.
	next2, err := eng.Apply(next, Action{Type: ActionEndTurn})
	require.NoError(t, err)
	assert.False(t, next2.SelfActive.Protected)
}

func TestTakePrizeWinsOnLast(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)
	s := playingState(50, 60)
	s.SelfPendingPrize = true

	next, err := eng.Apply(s, Action{Type: ActionTakePrize})
	require.NoError(t, err)

	assert.False(t, next.SelfPendingPrize)
	assert.Empty(t, next.SelfPrizes)
	assert.Equal(t, ResultWin, next.Result)
}

func TestTakePrizeWithoutPendingRejected(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)
	s := playingState(50, 60)

	_, err := eng.Apply(s, Action{Type: ActionTakePrize})
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestPromoteFromBench(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)
	s := playingState(50, 60)
	benched := &BoardUnit{UID: uuid.New(), Name: "Benched", HP: 40}
	s.SelfActive = nil
	s.SelfBench = []*BoardUnit{benched}
	s.SelfPendingPromotion = true

	next, err := eng.Apply(s, Action{Type: ActionPromote, CardUID: benched.UID})
	require.NoError(t, err)

	assert.Equal(t, benched.UID, next.SelfActive.UID)
	assert.Empty(t, next.SelfBench)
	assert.False(t, next.SelfPendingPromotion)
}

func TestMulliganRedraws(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)
	deckA := buildDeck(t, catalog, 20)
	deckB := buildDeck(t, catalog, 20)
	s, err := eng.NewGame(deckA, deckB)
	require.NoError(t, err)

	next, err := eng.Apply(s, Action{Type: ActionMulligan})
	require.NoError(t, err)
	assert.Len(t, next.SelfHand, 7)
	assert.Len(t, next.SelfDeck, 7)
}

func TestReadyLeavesSetupWhenBothReady(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)
	s := playingState(50, 60)
	s.Setup = true
	s.OpponentReady = true

	next, err := eng.Apply(s, Action{Type: ActionReady})
	require.NoError(t, err)
	assert.True(t, next.SelfReady)
	assert.False(t, next.Setup)
}

func TestFlipsRequiredReadsCatalogAttack(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)

	var flipCard cards.Card
	var attackIdx int
	found := false
	for _, c := range catalog.DraftPool() {
		for i, a := range c.Attacks {
			if a.FlipCount > 0 {
				flipCard, attackIdx, found = c, i, true
				break
			}
		}
		if found {
			break
		}
	}
	require.True(t, found, "default set should contain a flip attack")

	s := playingState(flipCard.HP, 60)
	s.SelfActive.CardID = flipCard.ID

	count, effects := eng.FlipsRequired(s, Action{Type: ActionAttack, AttackIndex: attackIdx})
	assert.Equal(t, flipCard.Attacks[attackIdx].FlipCount, count)
	assert.Equal(t, flipCard.Attacks[attackIdx].FlipEffects, effects)
}

func TestAttackRequiresEnergy(t *testing.T) {
	catalog := cards.DefaultSet()
	eng := NewBasicEngine(catalog)

	var costly cards.Card
	var attackIdx int
	found := false
	for _, c := range catalog.DraftPool() {
		for i, a := range c.Attacks {
			if a.EnergyCost > 0 && a.FlipCount == 0 {
				costly, attackIdx, found = c, i, true
				break
			}
		}
		if found {
			break
		}
	}
	require.True(t, found)

	s := playingState(costly.HP, 200)
	s.SelfActive.CardID = costly.ID

	_, err := eng.Apply(s, Action{Type: ActionAttack, AttackIndex: attackIdx})
	assert.ErrorIs(t, err, ErrIllegalMove)
}
