// internal/draft/manager.go
package draft

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/match"
	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/timer"
)

// Manager owns all live drafts and the backref from spawned match rooms to
// their draft.
type Manager struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*Draft

	// roomDrafts maps spawned match room IDs back to their draft.
	roomsMu    sync.Mutex
	roomDrafts map[uuid.UUID]uuid.UUID

	catalog *cards.Catalog
	sched   timer.Scheduler
	matches *match.Manager

	rngMu sync.Mutex
	rng   *rand.Rand

	// BroadcastFn delivers a payload to every seated player of a draft.
	BroadcastFn func(draftID uuid.UUID, payload interface{})
	// BroadcastToPlayerFn delivers a payload to one seated player.
	BroadcastToPlayerFn func(draftID, userID uuid.UUID, payload interface{})
}

// NewManager wires a draft manager over the shared catalog, scheduler, match
// manager and seeded randomness source.
func NewManager(catalog *cards.Catalog, sched timer.Scheduler, matches *match.Manager, rng *rand.Rand) *Manager {
	return &Manager{
		drafts:     make(map[uuid.UUID]*Draft),
		roomDrafts: make(map[uuid.UUID]uuid.UUID),
		catalog:    catalog,
		sched:      sched,
		matches:    matches,
		rng:        rng,
	}
}

// Create opens a lobby with the creator seated.
func (m *Manager) Create(creatorID uuid.UUID, cfg Config) *Draft {
	d := &Draft{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		Config:       cfg.withDefaults(),
		Phase:        PhaseLobby,
		pendingRooms: make(map[uuid.UUID]uuid.UUID),
	}
	d.Players = append(d.Players, &Player{UserID: creatorID, Connected: true})
	d.log(Event{Kind: EventJoined, UserID: creatorID})

	m.mu.Lock()
	m.drafts[d.ID] = d
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{"draft_id": d.ID, "creator_id": creatorID}).Info("draft created")
	return d
}

// Get returns a live draft by ID.
func (m *Manager) Get(draftID uuid.UUID) (*Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[draftID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// List snapshots all live drafts.
func (m *Manager) List() []*Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Draft, 0, len(m.drafts))
	for _, d := range m.drafts {
		out = append(out, d)
	}
	return out
}

// DraftForRoom resolves a spawned match room back to its draft.
func (m *Manager) DraftForRoom(roomID uuid.UUID) (uuid.UUID, bool) {
	m.roomsMu.Lock()
	defer m.roomsMu.Unlock()
	id, ok := m.roomDrafts[roomID]
	return id, ok
}

// Join seats a user during the lobby phase. Rejoining marks the seat
// connected again regardless of phase.
func (m *Manager) Join(draftID, userID uuid.UUID) (*Draft, error) {
	d, err := m.Get(draftID)
	if err != nil {
		return nil, err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if p := d.player(userID); p != nil {
		p.Connected = true
		return d, nil
	}
	if d.Phase != PhaseLobby {
		return nil, fmt.Errorf("%w: draft already started", ErrInvalidState)
	}
	if len(d.Players) >= d.Config.MaxPlayers {
		return nil, ErrCapacityExceeded
	}
	d.Players = append(d.Players, &Player{UserID: userID, Connected: true})
	d.log(Event{Kind: EventJoined, UserID: userID})
	m.broadcastLocked(d, "lobby_update")
	return d, nil
}

// Leave removes a user during the lobby phase. A departing creator hands the
// seat 0 role to the next player; an emptied lobby is deleted. Once the draft
// has started a leave only marks the seat disconnected, keeping drafted
// progress for a possible rejoin.
func (m *Manager) Leave(draftID, userID uuid.UUID) error {
	d, err := m.Get(draftID)
	if err != nil {
		return err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if d.Phase != PhaseLobby {
		if d.player(userID) == nil {
			return ErrAuthorizationDenied
		}
		m.markDisconnectedLocked(d, userID)
		return nil
	}
	for i, p := range d.Players {
		if p.UserID == userID {
			d.Players = append(d.Players[:i], d.Players[i+1:]...)
			d.log(Event{Kind: EventLeft, UserID: userID})
			if len(d.Players) == 0 {
				m.mu.Lock()
				delete(m.drafts, d.ID)
				m.mu.Unlock()
				return nil
			}
			if userID == d.CreatorID {
				d.CreatorID = d.Players[0].UserID
			}
			m.broadcastLocked(d, "lobby_update")
			return nil
		}
	}
	return ErrAuthorizationDenied
}

// Delete removes a draft. Creator only, lobby or finished only.
func (m *Manager) Delete(draftID, userID uuid.UUID) error {
	d, err := m.Get(draftID)
	if err != nil {
		return err
	}
	d.Mu.Lock()
	if d.CreatorID != userID {
		d.Mu.Unlock()
		return ErrAuthorizationDenied
	}
	if d.Phase != PhaseLobby && d.Phase != PhaseFinished {
		d.Mu.Unlock()
		return fmt.Errorf("%w: draft in progress", ErrInvalidState)
	}
	if d.pickTimer != nil {
		d.pickTimer.Cancel()
		d.pickTimer = nil
	}
	d.Mu.Unlock()

	m.mu.Lock()
	delete(m.drafts, draftID)
	m.mu.Unlock()
	return nil
}

// HandleDisconnect marks the seat disconnected. Drafted progress is untouched;
// absent seats are auto-picked when the cycle advances.
func (m *Manager) HandleDisconnect(draftID, userID uuid.UUID) {
	d, err := m.Get(draftID)
	if err != nil {
		return
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()
	m.markDisconnectedLocked(d, userID)
}

// markDisconnectedLocked flags the seat and re-evaluates the completion gate
// of the current phase, since gates only count connected players. Without the
// re-check, a disconnect after everyone else resolved would stall the draft.
func (m *Manager) markDisconnectedLocked(d *Draft, userID uuid.UUID) {
	p := d.player(userID)
	if p == nil {
		return
	}
	p.Connected = false
	switch d.Phase {
	case PhaseDrafting:
		if d.allConnectedPicked() {
			m.advanceCycleLocked(d)
		}
	case PhaseBonusPick:
		if d.allConnectedBonusDone() {
			m.finishBonusPickLocked(d)
		}
	}
}

// StartDraft locks the lobby, assigns seats in join order and opens the first
// packs.
func (m *Manager) StartDraft(draftID, callerID uuid.UUID) error {
	d, err := m.Get(draftID)
	if err != nil {
		return err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if d.CreatorID != callerID {
		return ErrAuthorizationDenied
	}
	if d.Phase != PhaseLobby {
		return fmt.Errorf("%w: draft already started", ErrInvalidState)
	}
	if len(d.Players) < 2 {
		return fmt.Errorf("%w: need at least two players", ErrInvalidState)
	}
	if err := d.advance(PhaseDrafting); err != nil {
		return err
	}
	for i, p := range d.Players {
		p.Seat = i
	}
	d.Round = 1
	d.log(Event{Kind: EventStarted, Round: 1})
	m.dealPacksLocked(d)
	m.armPickTimerLocked(d)
	m.broadcastLocked(d, "draft_started")
	logrus.WithFields(logrus.Fields{"draft_id": d.ID, "players": len(d.Players)}).Info("draft started")
	return nil
}

// PickCard moves one card from the player's current pack into their pool.
// When the last player picks, the cycle advances immediately.
func (m *Manager) PickCard(draftID, userID, cardUID uuid.UUID) error {
	d, err := m.Get(draftID)
	if err != nil {
		return err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if d.Phase != PhaseDrafting {
		return fmt.Errorf("%w: not drafting", ErrInvalidState)
	}
	p := d.player(userID)
	if p == nil {
		return ErrAuthorizationDenied
	}
	if p.Picked {
		return fmt.Errorf("%w: already picked this cycle", ErrInvalidState)
	}
	idx := -1
	for i, c := range p.Pack {
		if c.UID == cardUID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: card not in pack", ErrInvalidState)
	}
	card := p.Pack[idx]
	p.Pack = append(p.Pack[:idx], p.Pack[idx+1:]...)
	p.Pool = append(p.Pool, card)
	p.Picked = true
	d.log(Event{Kind: EventPicked, UserID: userID, Round: d.Round, Detail: card.Name})

	if d.allConnectedPicked() {
		m.advanceCycleLocked(d)
	}
	return nil
}

// allConnectedPicked is the cycle completion gate. Disconnected seats count as
// resolved; advanceCycleLocked auto-picks for them.
func (d *Draft) allConnectedPicked() bool {
	for _, p := range d.Players {
		if p.Connected && !p.Picked {
			return false
		}
	}
	return true
}

func (d *Draft) allConnectedBonusDone() bool {
	for _, p := range d.Players {
		if p.Connected && !p.BonusDone {
			return false
		}
	}
	return true
}

func (m *Manager) dealPacksLocked(d *Draft) {
	for _, p := range d.Players {
		m.rngMu.Lock()
		p.Pack = GeneratePack(m.catalog, m.rng, d.Config.PackSize)
		m.rngMu.Unlock()
		p.Picked = false
	}
}

func (m *Manager) armPickTimerLocked(d *Draft) {
	if d.pickTimer != nil {
		d.pickTimer.Cancel()
	}
	d.pickGen++
	gen := d.pickGen
	d.pickTimer = m.sched.After(d.Config.PickTimeout, func() {
		m.pickTimeout(d.ID, gen)
	})
}

// pickTimeout forces the cycle forward when the deadline passes. The
// generation guard discards timers for cycles that already advanced.
func (m *Manager) pickTimeout(draftID uuid.UUID, gen int) {
	d, err := m.Get(draftID)
	if err != nil {
		return
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()
	if d.Phase != PhaseDrafting || gen != d.pickGen {
		return
	}
	m.advanceCycleLocked(d)
}

// advanceCycleLocked auto-picks for unresolved seats, then rotates packs or,
// when they are spent, opens the next round or moves to bonus picks. Rotation
// direction flips every round: odd rounds pass clockwise (seat i receives from
// seat i-1), even rounds pass the other way.
func (m *Manager) advanceCycleLocked(d *Draft) {
	if d.pickTimer != nil {
		d.pickTimer.Cancel()
		d.pickTimer = nil
	}
	d.pickGen++

	for _, p := range d.Players {
		if p.Picked || len(p.Pack) == 0 {
			continue
		}
		m.rngMu.Lock()
		idx := m.rng.Intn(len(p.Pack))
		m.rngMu.Unlock()
		card := p.Pack[idx]
		p.Pack = append(p.Pack[:idx], p.Pack[idx+1:]...)
		p.Pool = append(p.Pool, card)
		p.Picked = true
		d.log(Event{Kind: EventAutoPick, UserID: p.UserID, Round: d.Round, Detail: card.Name})
	}

	if len(d.Players[0].Pack) == 0 {
		if d.Round < d.Config.Rounds {
			d.Round++
			d.log(Event{Kind: EventNewRound, Round: d.Round})
			m.dealPacksLocked(d)
			m.armPickTimerLocked(d)
			m.broadcastLocked(d, "new_round")
			return
		}
		if err := d.advance(PhaseBonusPick); err == nil {
			d.log(Event{Kind: EventNewRound, Round: d.Round, Detail: "bonus_pick"})
			m.broadcastLocked(d, "bonus_pick")
		}
		return
	}

	n := len(d.Players)
	packs := make([][]cards.Instance, n)
	for i, p := range d.Players {
		packs[i] = p.Pack
	}
	clockwise := d.Round%2 == 1
	for i, p := range d.Players {
		if clockwise {
			p.Pack = packs[(i-1+n)%n]
		} else {
			p.Pack = packs[(i+1)%n]
		}
		p.Picked = false
	}
	d.log(Event{Kind: EventRotated, Round: d.Round})
	m.armPickTimerLocked(d)
	m.broadcastLocked(d, "rotated")
}

// SubmitBonusPicks grants the player exactly three free catalog cards.
// Duplicates are allowed; basic energy is excluded since it is free during
// deck building.
func (m *Manager) SubmitBonusPicks(draftID, userID uuid.UUID, cardIDs []string) error {
	d, err := m.Get(draftID)
	if err != nil {
		return err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if d.Phase != PhaseBonusPick {
		return fmt.Errorf("%w: not in bonus pick phase", ErrInvalidState)
	}
	p := d.player(userID)
	if p == nil {
		return ErrAuthorizationDenied
	}
	if p.BonusDone {
		return fmt.Errorf("%w: bonus picks already submitted", ErrInvalidState)
	}
	if len(cardIDs) != BonusPickCount {
		return fmt.Errorf("%w: exactly %d bonus picks required", ErrInvalidState, BonusPickCount)
	}
	picks := make([]cards.Instance, 0, BonusPickCount)
	for _, id := range cardIDs {
		card, ok := m.catalog.Get(id)
		if !ok || card.BasicEnergy {
			return fmt.Errorf("%w: %q is not a valid bonus pick", ErrInvalidState, id)
		}
		picks = append(picks, cards.NewInstance(card))
	}
	p.Pool = append(p.Pool, picks...)
	p.BonusDone = true
	d.log(Event{Kind: EventBonusDone, UserID: userID})

	if d.allConnectedBonusDone() {
		m.finishBonusPickLocked(d)
	}
	return nil
}

func (m *Manager) finishBonusPickLocked(d *Draft) {
	if err := d.advance(PhaseBuilding); err == nil {
		m.broadcastLocked(d, "building")
	}
}

// SubmitDeck validates and stores the player's deck: every non-energy card
// must come from their drafted pool, basic energy is added freely by type,
// and the total must meet the configured minimum. When the last deck lands,
// matching begins.
func (m *Manager) SubmitDeck(draftID, userID uuid.UUID, cardUIDs []uuid.UUID, energy map[string]int) error {
	d, err := m.Get(draftID)
	if err != nil {
		return err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if d.Phase != PhaseBuilding {
		return fmt.Errorf("%w: not in building phase", ErrInvalidState)
	}
	p := d.player(userID)
	if p == nil {
		return ErrAuthorizationDenied
	}
	if p.DeckSubmitted {
		return fmt.Errorf("%w: deck already submitted", ErrInvalidState)
	}

	pool := make(map[uuid.UUID]cards.Instance, len(p.Pool))
	for _, c := range p.Pool {
		pool[c.UID] = c
	}
	deck := make([]cards.Instance, 0, len(cardUIDs))
	for _, uid := range cardUIDs {
		c, ok := pool[uid]
		if !ok {
			return fmt.Errorf("%w: card %s not in drafted pool", ErrInvalidState, uid)
		}
		delete(pool, uid)
		deck = append(deck, c)
	}
	total := len(deck)
	for energyType, count := range energy {
		if count < 0 {
			return fmt.Errorf("%w: negative energy count", ErrInvalidState)
		}
		card, ok := m.catalog.BasicEnergy(energyType)
		if !ok {
			return fmt.Errorf("%w: unknown energy type %q", ErrInvalidState, energyType)
		}
		for i := 0; i < count; i++ {
			deck = append(deck, cards.NewInstance(card))
		}
		total += count
	}
	if total < d.Config.MinDeckSize {
		return fmt.Errorf("%w: deck needs at least %d cards", ErrInvalidState, d.Config.MinDeckSize)
	}

	p.Deck = deck
	p.DeckSubmitted = true
	d.log(Event{Kind: EventDeckIn, UserID: userID})

	for _, pl := range d.Players {
		if !pl.DeckSubmitted {
			return nil
		}
	}
	m.startMatchingLocked(d)
	return nil
}

func (m *Manager) startMatchingLocked(d *Draft) {
	if err := d.advance(PhaseMatching); err != nil {
		return
	}
	d.Schedule = BuildSchedule(len(d.Players))
	d.Round = 1
	logrus.WithFields(logrus.Fields{"draft_id": d.ID, "rounds": len(d.Schedule)}).Info("tournament started")
	m.spawnRoundLocked(d)
}

// spawnRoundLocked opens a match room per pairing of the current tournament
// round. Byes are recorded as automatic wins immediately.
func (m *Manager) spawnRoundLocked(d *Draft) {
	round := d.Schedule[d.Round-1]
	for _, pair := range round.Pairings {
		pa := d.Players[pair.SeatA]
		if pair.SeatB == ByeSeat {
			d.Results = append(d.Results, MatchReport{Round: d.Round, WinnerID: pa.UserID, Bye: true})
			d.log(Event{Kind: EventReported, UserID: pa.UserID, Round: d.Round, Detail: "bye"})
			continue
		}
		pb := d.Players[pair.SeatB]
		room := m.matches.CreateForPairing(
			match.RoomConfig{PrizeCount: d.Config.PrizeCount},
			d.ID, pa.UserID, pb.UserID, pa.Deck, pb.Deck,
		)
		m.roomsMu.Lock()
		m.roomDrafts[room.ID] = d.ID
		m.roomsMu.Unlock()
		d.pendingRooms[pa.UserID] = room.ID
		d.pendingRooms[pb.UserID] = room.ID
		d.log(Event{Kind: EventPaired, Round: d.Round, Detail: room.ID.String()})
		if err := m.matches.StartGame(room.ID); err != nil {
			logrus.WithError(err).WithField("room_id", room.ID).Error("failed to start paired game")
		}
		m.notifyMatchLocked(d, pa.UserID, room.ID)
		m.notifyMatchLocked(d, pb.UserID, room.ID)
	}
	m.maybeFinishRoundLocked(d)
}

// ReportMatchResult records a finished game and advances the tournament when
// the round is complete.
func (m *Manager) ReportMatchResult(roomID, winnerID, loserID uuid.UUID, forfeit bool) error {
	draftID, ok := m.DraftForRoom(roomID)
	if !ok {
		return ErrDraftNotFound
	}
	d, err := m.Get(draftID)
	if err != nil {
		return err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if d.Phase != PhaseMatching {
		return fmt.Errorf("%w: tournament not running", ErrInvalidState)
	}
	d.Results = append(d.Results, MatchReport{
		Round:    d.Round,
		RoomID:   roomID,
		WinnerID: winnerID,
		LoserID:  loserID,
		Forfeit:  forfeit,
	})
	delete(d.pendingRooms, winnerID)
	delete(d.pendingRooms, loserID)
	m.roomsMu.Lock()
	delete(m.roomDrafts, roomID)
	m.roomsMu.Unlock()
	d.log(Event{Kind: EventReported, UserID: winnerID, Round: d.Round})
	m.maybeFinishRoundLocked(d)
	return nil
}

func (m *Manager) maybeFinishRoundLocked(d *Draft) {
	decided := 0
	for _, r := range d.Results {
		if r.Round == d.Round {
			decided++
		}
	}
	if decided < len(d.Schedule[d.Round-1].Pairings) {
		return
	}
	if d.Round < len(d.Schedule) {
		d.Round++
		d.log(Event{Kind: EventNewRound, Round: d.Round})
		m.spawnRoundLocked(d)
		return
	}
	if err := d.advance(PhaseFinished); err != nil {
		return
	}
	d.log(Event{Kind: EventFinished})
	logrus.WithField("draft_id", d.ID).Info("tournament finished")
	m.broadcastLocked(d, "finished")
}

// PendingMatch returns the match room currently awaiting the user, for
// re-delivery after a reconnect.
func (m *Manager) PendingMatch(draftID, userID uuid.UUID) (uuid.UUID, error) {
	d, err := m.Get(draftID)
	if err != nil {
		return uuid.Nil, err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()
	roomID, ok := d.pendingRooms[userID]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: no pending match", ErrInvalidState)
	}
	m.notifyMatchLocked(d, userID, roomID)
	return roomID, nil
}

// Standings computes the current tournament table.
func (m *Manager) Standings(draftID uuid.UUID) ([]Standing, error) {
	d, err := m.Get(draftID)
	if err != nil {
		return nil, err
	}
	d.Mu.Lock()
	defer d.Mu.Unlock()
	return ComputeStandings(d.Players, d.Results), nil
}

func (m *Manager) notifyMatchLocked(d *Draft, userID, roomID uuid.UUID) {
	if m.BroadcastToPlayerFn == nil {
		return
	}
	m.BroadcastToPlayerFn(d.ID, userID, map[string]interface{}{
		"type":   "match_assigned",
		"roomId": roomID,
	})
}

func (m *Manager) broadcastLocked(d *Draft, kind string) {
	if m.BroadcastFn == nil {
		return
	}
	m.BroadcastFn(d.ID, map[string]interface{}{
		"type":  kind,
		"phase": d.Phase,
		"round": d.Round,
	})
}
