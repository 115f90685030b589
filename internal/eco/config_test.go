package eco

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScenario(t *testing.T) {
	scenario := `
name = "savanna"
width = 12
height = 9
plants = 30
herbivores = 10
carnivores = 4
ticks = 80
seed = 123
tick_delay_ms = 0

[species.herbivore]
eat_gain = 12
repro_chance = 0.2

[species.plant]
symbol = "p"
`
	path := filepath.Join(t.TempDir(), "savanna.toml")
	if err := os.WriteFile(path, []byte(scenario), 0o644); err != nil {
		t.Fatalf("Failed to write scenario file: %v", err)
	}

	cfg, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}

	if cfg.Name != "savanna" || cfg.Width != 12 || cfg.Height != 9 {
		t.Errorf("Unexpected scenario header: %+v", cfg)
	}
	if cfg.Plants != 30 || cfg.Herbivores != 10 || cfg.Carnivores != 4 {
		t.Errorf("Unexpected populations: %+v", cfg)
	}
	if cfg.Ticks != 80 || cfg.Seed != 123 || cfg.TickDelayMS != 0 {
		t.Errorf("Unexpected run settings: %+v", cfg)
	}

	params := cfg.BuildParams()
	if params[Herbivore].EatGain != 12 {
		t.Errorf("Herbivore eat_gain override lost, got %d", params[Herbivore].EatGain)
	}
	if params[Herbivore].ReproChance != 0.2 {
		t.Errorf("Herbivore repro_chance override lost, got %v", params[Herbivore].ReproChance)
	}
	if params[Plant].Symbol != "p" {
		t.Errorf("Plant symbol override lost, got %q", params[Plant].Symbol)
	}
	// Untouched values stay at the defaults.
	if params[Herbivore].ReproCost != 8 {
		t.Errorf("Unrelated herbivore parameter changed: %d", params[Herbivore].ReproCost)
	}
	if params[Carnivore] != DefaultParams()[Carnivore] {
		t.Error("Carnivore parameters changed without an override")
	}
}

func TestLoadScenario_DefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	if err := os.WriteFile(path, []byte("width = 20\nheight = 20\n"), 0o644); err != nil {
		t.Fatalf("Failed to write scenario file: %v", err)
	}

	cfg, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}

	def := DefaultConfig()
	if cfg.Width != 20 || cfg.Height != 20 {
		t.Errorf("Explicit fields not applied: %+v", cfg)
	}
	if cfg.Plants != def.Plants || cfg.Ticks != def.Ticks || cfg.TickDelayMS != def.TickDelayMS {
		t.Errorf("Omitted fields lost their defaults: %+v", cfg)
	}
}

func TestLoadScenario_Errors(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing scenario file")
	}

	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("width = = 3"), 0o644); err != nil {
		t.Fatalf("Failed to write scenario file: %v", err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestBuildParams_IgnoresUnknownSpecies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Species = map[string]SpeciesOverride{
		"dragon": {ReproChance: chancePtr(0.5)},
	}

	params := cfg.BuildParams()
	if len(params) != len(DefaultParams()) {
		t.Errorf("Unknown override tag added a species: %d entries", len(params))
	}
}
