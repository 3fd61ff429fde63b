// internal/cards/cards.go
package cards

import (
	"github.com/google/uuid"
)

// Rarity buckets used by booster pack generation.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityHoloRare Rarity = "holo_rare"
	RarityEnergy   Rarity = "energy"
)

// FlipEffectKind identifies how a coin-flip outcome modifies an attack.
// The rule engine defers these; the match manager resolves them after
// generating the flips.
type FlipEffectKind string

const (
	FlipEffectStatus            FlipEffectKind = "status"               // apply status to defender if >= 1 heads
	FlipEffectDamagePerHeads    FlipEffectKind = "damage_per_heads"     // amount x heads extra damage to the target
	FlipEffectSelfDamagePerTail FlipEffectKind = "self_damage_per_tail" // amount x tails damage to the attacker
	FlipEffectProtectOnHeads    FlipEffectKind = "protect_on_heads"     // attacker protected until end of next turn if >= 1 heads
)

// FlipEffect is one coin-flip-dependent component of an attack.
type FlipEffect struct {
	Kind   FlipEffectKind `json:"kind"`
	Amount int            `json:"amount,omitempty"`
	Status string         `json:"status,omitempty"`
}

// Attack describes a single attack printed on a card. FlipCount > 0 means the
// attack's resolution is deferred to the orchestration layer's coin flips.
type Attack struct {
	Name        string       `json:"name"`
	Damage      int          `json:"damage"`
	EnergyCost  int          `json:"energyCost"`
	FlipCount   int          `json:"flipCount,omitempty"`
	FlipEffects []FlipEffect `json:"flipEffects,omitempty"`
}

// Card is a catalog entry. Catalog IDs are stable strings; in-play copies are
// wrapped in an Instance with a unique UID.
type Card struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rarity      Rarity   `json:"rarity"`
	HP          int      `json:"hp,omitempty"`
	Stage       int      `json:"stage"`
	EvolvesFrom string   `json:"evolvesFrom,omitempty"`
	EnergyType  string   `json:"energyType,omitempty"`
	BasicEnergy bool     `json:"basicEnergy,omitempty"`
	Trainer     bool     `json:"trainer,omitempty"`
	Attacks     []Attack `json:"attacks,omitempty"`
}

// Instance is one physical copy of a catalog card, as held in a deck, hand,
// pack or pile.
type Instance struct {
	UID uuid.UUID `json:"uid"`
	Card
}

// NewInstance mints a fresh copy of a catalog card.
func NewInstance(c Card) Instance {
	uid, _ := uuid.NewRandom()
	return Instance{UID: uid, Card: c}
}

// Catalog is the read-only card pool shared by all rooms. It is safe for
// concurrent reads once constructed.
type Catalog struct {
	byID     map[string]Card
	byRarity map[Rarity][]Card
	order    []Card
}

// NewCatalog indexes the given cards.
func NewCatalog(list []Card) *Catalog {
	c := &Catalog{
		byID:     make(map[string]Card, len(list)),
		byRarity: make(map[Rarity][]Card),
	}
	for _, card := range list {
		c.byID[card.ID] = card
		c.byRarity[card.Rarity] = append(c.byRarity[card.Rarity], card)
		c.order = append(c.order, card)
	}
	return c
}

// Get returns the catalog entry for an ID.
func (c *Catalog) Get(id string) (Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Pool returns all non-basic-energy cards of the given rarity.
func (c *Catalog) Pool(r Rarity) []Card {
	var out []Card
	for _, card := range c.byRarity[r] {
		if !card.BasicEnergy {
			out = append(out, card)
		}
	}
	return out
}

// DraftPool returns every card eligible for booster packs (everything except
// basic energy).
func (c *Catalog) DraftPool() []Card {
	var out []Card
	for _, card := range c.order {
		if !card.BasicEnergy {
			out = append(out, card)
		}
	}
	return out
}

// BasicEnergy returns the basic energy card of the given type, if any.
func (c *Catalog) BasicEnergy(energyType string) (Card, bool) {
	for _, card := range c.order {
		if card.BasicEnergy && card.EnergyType == energyType {
			return card, true
		}
	}
	return Card{}, false
}

// Size reports the number of catalog entries.
func (c *Catalog) Size() int { return len(c.order) }
