package eco

// Species is the closed set of organism kinds in the simulation.
type Species string

const (
	Plant     Species = "plant"
	Herbivore Species = "herbivore"
	Carnivore Species = "carnivore"
)

// AllSpecies lists every species in a fixed order.
var AllSpecies = []Species{Plant, Herbivore, Carnivore}

// Valid reports whether s is one of the known species tags.
func (s Species) Valid() bool {
	for _, known := range AllSpecies {
		if s == known {
			return true
		}
	}
	return false
}

// MetabolicCost is the energy every animal pays at the start of its turn.
const MetabolicCost = 1

// SpeciesParams holds the policy constants for one species. The three
// species share the same behavior algorithm; only these numbers differ.
// Plants use only Symbol and ReproChance.
type SpeciesParams struct {
	Symbol         string
	Prey           Species // empty for plants
	InitialEnergy  int
	EatGain        int
	ReproThreshold int
	ReproChance    float64
	ReproCost      int
	ChildEnergy    int
}

// Params maps every species to its policy constants.
type Params map[Species]SpeciesParams

// DefaultParams returns the baseline parameter table.
func DefaultParams() Params {
	return Params{
		Plant: {
			Symbol:      "☘",
			ReproChance: 0.10,
		},
		Herbivore: {
			Symbol:         "🐇",
			Prey:           Plant,
			InitialEnergy:  15,
			EatGain:        10,
			ReproThreshold: 20,
			ReproChance:    0.15,
			ReproCost:      8,
			ChildEnergy:    10,
		},
		Carnivore: {
			Symbol:         "🐅",
			Prey:           Herbivore,
			InitialEnergy:  25,
			EatGain:        15,
			ReproThreshold: 40,
			ReproChance:    0.10,
			ReproCost:      20,
			ChildEnergy:    20,
		},
	}
}
