package eco

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config describes one simulation: grid size, initial populations, tick
// budget and randomness seed. The same document is accepted as a TOML
// scenario file by the CLI and as a JSON body by the server.
type Config struct {
	Name        string `toml:"name" json:"name"`
	Width       int    `toml:"width" json:"width"`
	Height      int    `toml:"height" json:"height"`
	Plants      int    `toml:"plants" json:"plants"`
	Herbivores  int    `toml:"herbivores" json:"herbivores"`
	Carnivores  int    `toml:"carnivores" json:"carnivores"`
	Ticks       int    `toml:"ticks" json:"ticks"`
	Seed        int64  `toml:"seed" json:"seed"`
	TickDelayMS int    `toml:"tick_delay_ms" json:"tick_delay_ms"`

	// Species overrides the default policy constants per species.
	// Keys are species tags ("plant", "herbivore", "carnivore");
	// only the fields present in the file are overridden.
	Species map[string]SpeciesOverride `toml:"species" json:"species,omitempty"`
}

// SpeciesOverride holds optional per-species parameter overrides.
type SpeciesOverride struct {
	Symbol         *string  `toml:"symbol" json:"symbol,omitempty"`
	InitialEnergy  *int     `toml:"initial_energy" json:"initial_energy,omitempty"`
	EatGain        *int     `toml:"eat_gain" json:"eat_gain,omitempty"`
	ReproThreshold *int     `toml:"repro_threshold" json:"repro_threshold,omitempty"`
	ReproChance    *float64 `toml:"repro_chance" json:"repro_chance,omitempty"`
	ReproCost      *int     `toml:"repro_cost" json:"repro_cost,omitempty"`
	ChildEnergy    *int     `toml:"child_energy" json:"child_energy,omitempty"`
}

// DefaultConfig returns a small baseline scenario. Scenario files and
// request bodies are decoded on top of these values.
func DefaultConfig() Config {
	return Config{
		Name:        "ecosystem",
		Width:       10,
		Height:      10,
		Plants:      20,
		Herbivores:  8,
		Carnivores:  3,
		Ticks:       50,
		TickDelayMS: 1000,
	}
}

// LoadScenario reads a TOML scenario file on top of DefaultConfig.
// The result is not yet validated; callers pass it to NewWorld, which is.
func LoadScenario(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scenario %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return cfg, nil
}

// BuildParams merges the config's species overrides over the default
// parameter table.
func (c Config) BuildParams() Params {
	params := DefaultParams()
	for tag, ov := range c.Species {
		sp := Species(tag)
		p, ok := params[sp]
		if !ok {
			continue // unknown tags are rejected by validation
		}
		if ov.Symbol != nil {
			p.Symbol = *ov.Symbol
		}
		if ov.InitialEnergy != nil {
			p.InitialEnergy = *ov.InitialEnergy
		}
		if ov.EatGain != nil {
			p.EatGain = *ov.EatGain
		}
		if ov.ReproThreshold != nil {
			p.ReproThreshold = *ov.ReproThreshold
		}
		if ov.ReproChance != nil {
			p.ReproChance = *ov.ReproChance
		}
		if ov.ReproCost != nil {
			p.ReproCost = *ov.ReproCost
		}
		if ov.ChildEnergy != nil {
			p.ChildEnergy = *ov.ChildEnergy
		}
		params[sp] = p
	}
	return params
}
