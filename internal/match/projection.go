// internal/match/projection.go
package match

import (
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/rules"
)

// ViewState is the hidden-info projection sent to one player. Hidden zones
// (the opponent's hand, both decks, both face-down prize piles) collapse to
// counts; everything else is shown in the viewer's own frame.
type ViewState struct {
	SelfHand []cards.Instance `json:"selfHand"`

	SelfDeckCount     int `json:"selfDeckCount"`
	OpponentDeckCount int `json:"opponentDeckCount"`

	SelfPrizeCount     int `json:"selfPrizeCount"`
	OpponentPrizeCount int `json:"opponentPrizeCount"`

	OpponentHandCount int `json:"opponentHandCount"`

	SelfDiscard     []cards.Instance `json:"selfDiscard"`
	OpponentDiscard []cards.Instance `json:"opponentDiscard"`

	SelfActive     *rules.BoardUnit   `json:"selfActive,omitempty"`
	OpponentActive *rules.BoardUnit   `json:"opponentActive,omitempty"`
	SelfBench      []*rules.BoardUnit `json:"selfBench"`
	OpponentBench  []*rules.BoardUnit `json:"opponentBench"`

	SelfReady     bool `json:"selfReady"`
	OpponentReady bool `json:"opponentReady"`

	SelfPendingPromotion     bool `json:"selfPendingPromotion"`
	OpponentPendingPromotion bool `json:"opponentPendingPromotion"`
	SelfPendingPrize         bool `json:"selfPendingPrize"`
	OpponentPendingPrize     bool `json:"opponentPendingPrize"`

	SelfTurn bool `json:"selfTurn"`
	Setup    bool `json:"setup"`
	Turn     int  `json:"turn"`

	Result rules.Result `json:"result"`

	Events    []rules.LogEvent `json:"events"`
	NewEvents []rules.LogEvent `json:"newEvents,omitempty"`
}

// ProjectFor builds the viewer's projection of the room state. slotIdx 0 sees
// the canonical framing; slot 1 sees the swapped one. Callers hold room.Mu.
func ProjectFor(room *Room, slotIdx int) *ViewState {
	st := room.State
	if slotIdx == 1 {
		st = Swap(st)
	}
	return &ViewState{
		SelfHand:                 st.SelfHand,
		SelfDeckCount:            len(st.SelfDeck),
		OpponentDeckCount:        len(st.OpponentDeck),
		SelfPrizeCount:           len(st.SelfPrizes),
		OpponentPrizeCount:       len(st.OpponentPrizes),
		OpponentHandCount:        len(st.OpponentHand),
		SelfDiscard:              st.SelfDiscard,
		OpponentDiscard:          st.OpponentDiscard,
		SelfActive:               st.SelfActive,
		OpponentActive:           st.OpponentActive,
		SelfBench:                st.SelfBench,
		OpponentBench:            st.OpponentBench,
		SelfReady:                st.SelfReady,
		OpponentReady:            st.OpponentReady,
		SelfPendingPromotion:     st.SelfPendingPromotion,
		OpponentPendingPromotion: st.OpponentPendingPromotion,
		SelfPendingPrize:         st.SelfPendingPrize,
		OpponentPendingPrize:     st.OpponentPendingPrize,
		SelfTurn:                 st.SelfTurn,
		Setup:                    st.Setup,
		Turn:                     st.Turn,
		Result:                   st.Result,
		Events:                   st.Events,
		NewEvents:                nil,
	}
}
