// internal/draft/packs.go
package draft

import (
	"math/rand"

	"github.com/GonzaloAguila/pokemon-tcg-api-sub000/internal/cards"
)

// holoChance is the odds that the second rare slot of a large pack upgrades
// to a holo rare.
const holoChance = 3

// uncommonShare of the filler slots, rounded to nearest.
const uncommonShare = 0.3

// GeneratePack builds one booster of the given size. Contents are unique
// within the pack and never include basic energy. Slot budget: one guaranteed
// rare; packs of ten or more cards carry a second rare slot that upgrades to a
// holo rare roughly a third of the time; of the remaining filler about thirty
// percent (rounded) are uncommon and the rest common. The pack is shuffled
// before being handed out.
func GeneratePack(catalog *cards.Catalog, rng *rand.Rand, size int) []cards.Instance {
	rares := drawPool(catalog.Pool(cards.RarityRare), rng)
	holos := drawPool(catalog.Pool(cards.RarityHoloRare), rng)
	uncommons := drawPool(catalog.Pool(cards.RarityUncommon), rng)
	commons := drawPool(catalog.Pool(cards.RarityCommon), rng)

	pack := make([]cards.Instance, 0, size)
	take := func(pool *[]cards.Card) bool {
		if len(*pool) == 0 {
			return false
		}
		pack = append(pack, cards.NewInstance((*pool)[0]))
		*pool = (*pool)[1:]
		return true
	}

	if !take(&rares) {
		take(&holos)
	}
	if size >= 10 {
		if rng.Intn(holoChance) == 0 {
			if !take(&holos) {
				take(&rares)
			}
		} else if !take(&rares) {
			take(&holos)
		}
	}

	filler := size - len(pack)
	if filler < 0 {
		filler = 0
	}
	nUncommon := int(float64(filler)*uncommonShare + 0.5)
	for i := 0; i < filler; i++ {
		if i < nUncommon {
			if take(&uncommons) {
				continue
			}
		}
		if !take(&commons) && !take(&uncommons) {
			take(&rares)
		}
	}

	rng.Shuffle(len(pack), func(i, j int) { pack[i], pack[j] = pack[j], pack[i] })
	return pack
}

// drawPool copies and shuffles a rarity pool so packs draw without
// replacement.
func drawPool(pool []cards.Card, rng *rand.Rand) []cards.Card {
	out := make([]cards.Card, len(pool))
	copy(out, pool)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
