// internal/cards/default_set.go
package cards

// DefaultSet returns the built-in base set used when no external catalog is
// configured. Rarity distribution roughly mirrors a printed booster set:
// a wide common bed, a thinner uncommon band, and a small rare/holo top.
func DefaultSet() *Catalog {
	return NewCatalog(defaultCards)
}

var defaultCards = []Card{
	// Commons: basic creatures.
	{ID: "bs-001", Name: "Caterpie", Rarity: RarityCommon, HP: 40, EnergyType: "grass",
		Attacks: []Attack{{Name: "String Shot", Damage: 10, EnergyCost: 1, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "paralyzed"}}}}},
	{ID: "bs-002", Name: "Weedle", Rarity: RarityCommon, HP: 40, EnergyType: "grass",
		Attacks: []Attack{{Name: "Poison Sting", Damage: 10, EnergyCost: 1, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "poisoned"}}}}},
	{ID: "bs-003", Name: "Charmander", Rarity: RarityCommon, HP: 50, EnergyType: "fire",
		Attacks: []Attack{{Name: "Scratch", Damage: 10, EnergyCost: 1}, {Name: "Ember", Damage: 30, EnergyCost: 2}}},
	{ID: "bs-004", Name: "Squirtle", Rarity: RarityCommon, HP: 40, EnergyType: "water",
		Attacks: []Attack{{Name: "Bubble", Damage: 10, EnergyCost: 1, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "paralyzed"}}}, {Name: "Withdraw", EnergyCost: 2, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectProtectOnHeads}}}}},
	{ID: "bs-005", Name: "Bulbasaur", Rarity: RarityCommon, HP: 40, EnergyType: "grass",
		Attacks: []Attack{{Name: "Leech Seed", Damage: 20, EnergyCost: 2}}},
	{ID: "bs-006", Name: "Pidgey", Rarity: RarityCommon, HP: 40, EnergyType: "colorless",
		Attacks: []Attack{{Name: "Whirlwind", Damage: 10, EnergyCost: 2}}},
	{ID: "bs-007", Name: "Rattata", Rarity: RarityCommon, HP: 30, EnergyType: "colorless",
		Attacks: []Attack{{Name: "Bite", Damage: 20, EnergyCost: 1}}},
	{ID: "bs-008", Name: "Sandshrew", Rarity: RarityCommon, HP: 40, EnergyType: "fighting",
		Attacks: []Attack{{Name: "Sand Attack", Damage: 10, EnergyCost: 1}}},
	{ID: "bs-009", Name: "Magnemite", Rarity: RarityCommon, HP: 40, EnergyType: "lightning",
		Attacks: []Attack{{Name: "Thunder Wave", Damage: 10, EnergyCost: 1, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "paralyzed"}}},
			{Name: "Selfdestruct", Damage: 40, EnergyCost: 2, FlipCount: 1,
				FlipEffects: []FlipEffect{{Kind: FlipEffectSelfDamagePerTail, Amount: 10}}}}},
	{ID: "bs-010", Name: "Gastly", Rarity: RarityCommon, HP: 30, EnergyType: "psychic",
		Attacks: []Attack{{Name: "Sleeping Gas", EnergyCost: 1, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "asleep"}}}}},
	{ID: "bs-011", Name: "Onix", Rarity: RarityCommon, HP: 90, EnergyType: "fighting",
		Attacks: []Attack{{Name: "Rock Throw", Damage: 10, EnergyCost: 1}, {Name: "Harden", EnergyCost: 2, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectProtectOnHeads}}}}},
	{ID: "bs-012", Name: "Staryu", Rarity: RarityCommon, HP: 40, EnergyType: "water",
		Attacks: []Attack{{Name: "Slap", Damage: 20, EnergyCost: 1}}},
	{ID: "bs-013", Name: "Vulpix", Rarity: RarityCommon, HP: 50, EnergyType: "fire",
		Attacks: []Attack{{Name: "Confuse Ray", Damage: 10, EnergyCost: 2, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "confused"}}}}},
	{ID: "bs-014", Name: "Drowzee", Rarity: RarityCommon, HP: 50, EnergyType: "psychic",
		Attacks: []Attack{{Name: "Pound", Damage: 10, EnergyCost: 1}}},
	{ID: "bs-015", Name: "Machop", Rarity: RarityCommon, HP: 50, EnergyType: "fighting",
		Attacks: []Attack{{Name: "Low Kick", Damage: 20, EnergyCost: 1}}},
	{ID: "bs-016", Name: "Nidoran M", Rarity: RarityCommon, HP: 40, EnergyType: "grass",
		Attacks: []Attack{{Name: "Horn Hazard", Damage: 30, EnergyCost: 1, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectDamagePerHeads, Amount: 0}}}}},
	{ID: "bs-017", Name: "Voltorb", Rarity: RarityCommon, HP: 40, EnergyType: "lightning",
		Attacks: []Attack{{Name: "Tackle", Damage: 10, EnergyCost: 1}}},
	{ID: "bs-018", Name: "Poliwag", Rarity: RarityCommon, HP: 40, EnergyType: "water",
		Attacks: []Attack{{Name: "Water Gun", Damage: 10, EnergyCost: 1}}},

	// Uncommons: stage 1 evolutions and stronger basics.
	{ID: "bs-030", Name: "Metapod", Rarity: RarityUncommon, HP: 70, Stage: 1, EvolvesFrom: "bs-001", EnergyType: "grass",
		Attacks: []Attack{{Name: "Stiffen", EnergyCost: 2, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectProtectOnHeads}}}}},
	{ID: "bs-031", Name: "Charmeleon", Rarity: RarityUncommon, HP: 80, Stage: 1, EvolvesFrom: "bs-003", EnergyType: "fire",
		Attacks: []Attack{{Name: "Slash", Damage: 30, EnergyCost: 3}, {Name: "Flamethrower", Damage: 50, EnergyCost: 4}}},
	{ID: "bs-032", Name: "Wartortle", Rarity: RarityUncommon, HP: 70, Stage: 1, EvolvesFrom: "bs-004", EnergyType: "water",
		Attacks: []Attack{{Name: "Bite", Damage: 40, EnergyCost: 3}}},
	{ID: "bs-033", Name: "Ivysaur", Rarity: RarityUncommon, HP: 60, Stage: 1, EvolvesFrom: "bs-005", EnergyType: "grass",
		Attacks: []Attack{{Name: "Vine Whip", Damage: 30, EnergyCost: 3}}},
	{ID: "bs-034", Name: "Pikachu", Rarity: RarityUncommon, HP: 40, EnergyType: "lightning",
		Attacks: []Attack{{Name: "Thunder Jolt", Damage: 30, EnergyCost: 2, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectSelfDamagePerTail, Amount: 10}}}}},
	{ID: "bs-035", Name: "Machoke", Rarity: RarityUncommon, HP: 80, Stage: 1, EvolvesFrom: "bs-015", EnergyType: "fighting",
		Attacks: []Attack{{Name: "Karate Chop", Damage: 50, EnergyCost: 3}}},
	{ID: "bs-036", Name: "Haunter", Rarity: RarityUncommon, HP: 60, Stage: 1, EvolvesFrom: "bs-010", EnergyType: "psychic",
		Attacks: []Attack{{Name: "Dream Eater", Damage: 50, EnergyCost: 2}}},
	{ID: "bs-037", Name: "Kadabra", Rarity: RarityUncommon, HP: 60, EnergyType: "psychic",
		Attacks: []Attack{{Name: "Psybeam", Damage: 30, EnergyCost: 3, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "confused"}}}}},
	{ID: "bs-038", Name: "Growlithe", Rarity: RarityUncommon, HP: 60, EnergyType: "fire",
		Attacks: []Attack{{Name: "Flare", Damage: 20, EnergyCost: 2}}},
	{ID: "bs-039", Name: "Poliwhirl", Rarity: RarityUncommon, HP: 80, Stage: 1, EvolvesFrom: "bs-018", EnergyType: "water",
		Attacks: []Attack{{Name: "Doubleslap", Damage: 30, EnergyCost: 2, FlipCount: 2,
			FlipEffects: []FlipEffect{{Kind: FlipEffectDamagePerHeads, Amount: 30}}}}},
	{ID: "bs-040", Name: "Potion", Rarity: RarityUncommon, Trainer: true},
	{ID: "bs-041", Name: "Switch", Rarity: RarityUncommon, Trainer: true},

	// Rares.
	{ID: "bs-060", Name: "Charizard", Rarity: RarityRare, HP: 120, Stage: 2, EvolvesFrom: "bs-031", EnergyType: "fire",
		Attacks: []Attack{{Name: "Fire Spin", Damage: 100, EnergyCost: 4}}},
	{ID: "bs-061", Name: "Blastoise", Rarity: RarityRare, HP: 100, Stage: 2, EvolvesFrom: "bs-032", EnergyType: "water",
		Attacks: []Attack{{Name: "Hydro Pump", Damage: 40, EnergyCost: 3}}},
	{ID: "bs-062", Name: "Venusaur", Rarity: RarityRare, HP: 100, Stage: 2, EvolvesFrom: "bs-033", EnergyType: "grass",
		Attacks: []Attack{{Name: "Solarbeam", Damage: 60, EnergyCost: 4}}},
	{ID: "bs-063", Name: "Raichu", Rarity: RarityRare, HP: 80, Stage: 1, EvolvesFrom: "bs-034", EnergyType: "lightning",
		Attacks: []Attack{{Name: "Thunder", Damage: 60, EnergyCost: 4, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectSelfDamagePerTail, Amount: 30}}}}},
	{ID: "bs-064", Name: "Machamp", Rarity: RarityRare, HP: 100, Stage: 2, EvolvesFrom: "bs-035", EnergyType: "fighting",
		Attacks: []Attack{{Name: "Seismic Toss", Damage: 60, EnergyCost: 4}}},
	{ID: "bs-065", Name: "Gengar", Rarity: RarityRare, HP: 80, Stage: 2, EvolvesFrom: "bs-036", EnergyType: "psychic",
		Attacks: []Attack{{Name: "Dark Mind", Damage: 30, EnergyCost: 3}}},
	{ID: "bs-066", Name: "Gyarados", Rarity: RarityRare, HP: 100, EnergyType: "water",
		Attacks: []Attack{{Name: "Dragon Rage", Damage: 50, EnergyCost: 3}}},
	{ID: "bs-067", Name: "Arcanine", Rarity: RarityRare, HP: 100, Stage: 1, EvolvesFrom: "bs-038", EnergyType: "fire",
		Attacks: []Attack{{Name: "Take Down", Damage: 80, EnergyCost: 4, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectSelfDamagePerTail, Amount: 30}}}}},

	// Holo rares.
	{ID: "bs-080", Name: "Alakazam", Rarity: RarityHoloRare, HP: 80, Stage: 2, EvolvesFrom: "bs-037", EnergyType: "psychic",
		Attacks: []Attack{{Name: "Confuse Ray", Damage: 30, EnergyCost: 3, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "confused"}}}}},
	{ID: "bs-081", Name: "Zapdos", Rarity: RarityHoloRare, HP: 90, EnergyType: "lightning",
		Attacks: []Attack{{Name: "Thunderstorm", Damage: 40, EnergyCost: 4, FlipCount: 2,
			FlipEffects: []FlipEffect{{Kind: FlipEffectDamagePerHeads, Amount: 10}}}}},
	{ID: "bs-082", Name: "Mewtwo", Rarity: RarityHoloRare, HP: 100, EnergyType: "psychic",
		Attacks: []Attack{{Name: "Psychic", Damage: 50, EnergyCost: 3}, {Name: "Barrier", EnergyCost: 2, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectProtectOnHeads}}}}},
	{ID: "bs-083", Name: "Moltres", Rarity: RarityHoloRare, HP: 100, EnergyType: "fire",
		Attacks: []Attack{{Name: "Wildfire", Damage: 40, EnergyCost: 4}}},
	{ID: "bs-084", Name: "Articuno", Rarity: RarityHoloRare, HP: 100, EnergyType: "water",
		Attacks: []Attack{{Name: "Blizzard", Damage: 50, EnergyCost: 4, FlipCount: 1,
			FlipEffects: []FlipEffect{{Kind: FlipEffectStatus, Status: "frozen"}}}}},

	// Basic energy, excluded from booster packs but appended freely to decks.
	{ID: "en-grass", Name: "Grass Energy", Rarity: RarityEnergy, BasicEnergy: true, EnergyType: "grass"},
	{ID: "en-fire", Name: "Fire Energy", Rarity: RarityEnergy, BasicEnergy: true, EnergyType: "fire"},
	{ID: "en-water", Name: "Water Energy", Rarity: RarityEnergy, BasicEnergy: true, EnergyType: "water"},
	{ID: "en-lightning", Name: "Lightning Energy", Rarity: RarityEnergy, BasicEnergy: true, EnergyType: "lightning"},
	{ID: "en-psychic", Name: "Psychic Energy", Rarity: RarityEnergy, BasicEnergy: true, EnergyType: "psychic"},
	{ID: "en-fighting", Name: "Fighting Energy", Rarity: RarityEnergy, BasicEnergy: true, EnergyType: "fighting"},
}
