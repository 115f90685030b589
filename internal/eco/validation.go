package eco

import (
	"fmt"
	"strings"
)

// ConfigError collects every construction-time problem so the caller can
// report them all at once instead of fixing one parameter per attempt.
type ConfigError struct {
	Issues []string
}

func (e *ConfigError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid config: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "config validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ConfigError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ConfigError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateConfig checks a simulation config before a world is built:
// positive dimensions and tick count, non-negative populations, total
// population within grid capacity, and well-formed species overrides.
func ValidateConfig(cfg Config) error {
	err := &ConfigError{}

	if cfg.Width <= 0 {
		err.Add(fmt.Sprintf("width must be positive, got %d", cfg.Width))
	}
	if cfg.Height <= 0 {
		err.Add(fmt.Sprintf("height must be positive, got %d", cfg.Height))
	}
	if cfg.Ticks <= 0 {
		err.Add(fmt.Sprintf("ticks must be positive, got %d", cfg.Ticks))
	}
	if cfg.Plants < 0 {
		err.Add(fmt.Sprintf("plants cannot be negative, got %d", cfg.Plants))
	}
	if cfg.Herbivores < 0 {
		err.Add(fmt.Sprintf("herbivores cannot be negative, got %d", cfg.Herbivores))
	}
	if cfg.Carnivores < 0 {
		err.Add(fmt.Sprintf("carnivores cannot be negative, got %d", cfg.Carnivores))
	}
	if cfg.TickDelayMS < 0 {
		err.Add(fmt.Sprintf("tick_delay_ms cannot be negative, got %d", cfg.TickDelayMS))
	}

	if cfg.Width > 0 && cfg.Height > 0 {
		capacity := cfg.Width * cfg.Height
		total := cfg.Plants + cfg.Herbivores + cfg.Carnivores
		if total > capacity {
			err.Add(fmt.Sprintf("total initial population (%d) exceeds grid capacity (%d)", total, capacity))
		}
	}

	for tag, ov := range cfg.Species {
		if !Species(tag).Valid() {
			err.Add("unknown species in overrides: " + tag)
			continue
		}
		prefix := "species '" + tag + "'"
		if ov.ReproChance != nil && (*ov.ReproChance < 0 || *ov.ReproChance > 1) {
			err.Add(fmt.Sprintf("%s: repro_chance must be in [0,1], got %v", prefix, *ov.ReproChance))
		}
		if ov.InitialEnergy != nil && *ov.InitialEnergy <= 0 {
			err.Add(fmt.Sprintf("%s: initial_energy must be positive, got %d", prefix, *ov.InitialEnergy))
		}
		if ov.ChildEnergy != nil && *ov.ChildEnergy <= 0 {
			err.Add(fmt.Sprintf("%s: child_energy must be positive, got %d", prefix, *ov.ChildEnergy))
		}
		if ov.EatGain != nil && *ov.EatGain < 0 {
			err.Add(fmt.Sprintf("%s: eat_gain cannot be negative, got %d", prefix, *ov.EatGain))
		}
		if ov.ReproCost != nil && *ov.ReproCost < 0 {
			err.Add(fmt.Sprintf("%s: repro_cost cannot be negative, got %d", prefix, *ov.ReproCost))
		}
		if ov.Symbol != nil && *ov.Symbol == "" {
			err.Add(prefix + ": symbol cannot be empty")
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}
