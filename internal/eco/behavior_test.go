package eco

import (
	"testing"
)

// worldWithOverrides builds an empty world whose parameter table has the
// given per-species overrides applied, so behavior tests can force or
// forbid the probability rolls.
func worldWithOverrides(t *testing.T, width, height int, seed int64, overrides map[string]SpeciesOverride) *World {
	t.Helper()
	w, err := NewWorld(Config{
		Name:    "test",
		Width:   width,
		Height:  height,
		Ticks:   10,
		Seed:    seed,
		Species: overrides,
	})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}

func chancePtr(v float64) *float64 { return &v }

func alwaysReproduce(tags ...string) map[string]SpeciesOverride {
	out := make(map[string]SpeciesOverride, len(tags))
	for _, tag := range tags {
		out[tag] = SpeciesOverride{ReproChance: chancePtr(1.0)}
	}
	return out
}

func neverReproduce(tags ...string) map[string]SpeciesOverride {
	out := make(map[string]SpeciesOverride, len(tags))
	for _, tag := range tags {
		out[tag] = SpeciesOverride{ReproChance: chancePtr(0)}
	}
	return out
}

func TestPlant_SpreadsIntoAdjacentEmptyCell(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, alwaysReproduce("plant"))
	plant := place(t, w, NewOrganism(Plant, 1, 1, w.params))

	plant.Act(w)

	if len(w.pendingBirths) != 1 {
		t.Fatalf("Expected one queued birth, got %d", len(w.pendingBirths))
	}
	child := w.pendingBirths[0]
	if child.Species != Plant {
		t.Errorf("Expected a plant child, got %s", child.Species)
	}
	dx, dy := child.X-plant.X, child.Y-plant.Y
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
		t.Errorf("Child at (%d,%d) is not adjacent to parent at (%d,%d)", child.X, child.Y, plant.X, plant.Y)
	}
}

func TestPlant_SurroundedNeverSpreads(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, alwaysReproduce("plant"))
	center := place(t, w, NewOrganism(Plant, 1, 1, w.params))
	for _, c := range w.AdjacentCells(1, 1) {
		place(t, w, NewOrganism(Plant, c.X, c.Y, w.params))
	}

	for i := 0; i < 20; i++ {
		center.Act(w)
	}

	if len(w.pendingBirths) != 0 {
		t.Errorf("Surrounded plant queued %d births", len(w.pendingBirths))
	}
}

func TestPlant_ZeroChanceNeverSpreads(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, neverReproduce("plant"))
	plant := place(t, w, NewOrganism(Plant, 1, 1, w.params))

	for i := 0; i < 20; i++ {
		plant.Act(w)
	}

	if len(w.pendingBirths) != 0 {
		t.Errorf("Plant with zero spread chance queued %d births", len(w.pendingBirths))
	}
}

func TestAnimal_EatContract(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)
	herb := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))
	herb.Energy = 5
	plant := place(t, w, NewOrganism(Plant, 0, 0, w.params))

	herb.Act(w)

	// metabolize (-1), then gain the herbivore's eat reward (+10)
	if herb.Energy != 14 {
		t.Errorf("Expected energy 14 after eating, got %d", herb.Energy)
	}
	if herb.X != 0 || herb.Y != 0 {
		t.Errorf("Expected predator on the prey cell (0,0), got (%d,%d)", herb.X, herb.Y)
	}
	if plant.Alive {
		t.Error("Eaten plant still alive")
	}
	if len(w.pendingDeaths) != 1 || w.pendingDeaths[0] != plant {
		t.Error("Eaten plant not queued for purge")
	}
}

func TestAnimal_EatTakesPriorityOverReproduce(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, alwaysReproduce("herbivore"))
	herb := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))
	herb.Energy = 50
	place(t, w, NewOrganism(Plant, 2, 2, w.params))

	herb.Act(w)

	if len(w.pendingBirths) != 0 {
		t.Error("Expected eat to preempt reproduction")
	}
	if herb.Energy != 59 {
		t.Errorf("Expected energy 59 (50 - 1 + 10), got %d", herb.Energy)
	}
}

func TestAnimal_ReproduceContract(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, alwaysReproduce("herbivore"))
	p := w.params[Herbivore]
	herb := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))
	herb.Energy = p.ReproThreshold

	herb.Act(w)

	if len(w.pendingBirths) != 1 {
		t.Fatalf("Expected exactly one child, got %d", len(w.pendingBirths))
	}
	child := w.pendingBirths[0]
	if child.Species != Herbivore {
		t.Errorf("Expected a herbivore child, got %s", child.Species)
	}
	if child.Energy != p.ChildEnergy {
		t.Errorf("Expected child energy %d, got %d", p.ChildEnergy, child.Energy)
	}
	want := p.ReproThreshold - MetabolicCost - p.ReproCost
	if herb.Energy != want {
		t.Errorf("Expected parent energy %d, got %d", want, herb.Energy)
	}
	if herb.X != 1 || herb.Y != 1 {
		t.Error("Reproducing parent should not move in the same tick")
	}
}

func TestAnimal_ReproduceBelowThresholdMovesInstead(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, alwaysReproduce("herbivore"))
	herb := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))
	herb.Energy = w.params[Herbivore].ReproThreshold - 1

	herb.Act(w)

	if len(w.pendingBirths) != 0 {
		t.Error("Animal below threshold must not reproduce")
	}
	if herb.X == 1 && herb.Y == 1 {
		t.Error("Expected the animal to move to an empty neighbor")
	}
}

func TestCarnivore_ReproducesExactlyOneChild(t *testing.T) {
	w := worldWithOverrides(t, 5, 5, 1, alwaysReproduce("carnivore"))
	p := w.params[Carnivore]
	carn := place(t, w, NewOrganism(Carnivore, 2, 2, w.params))
	carn.Energy = p.ReproThreshold + 10

	carn.Act(w)

	if len(w.pendingBirths) != 1 {
		t.Fatalf("Expected exactly one child, got %d", len(w.pendingBirths))
	}
	if got := w.pendingBirths[0].Energy; got != p.ChildEnergy {
		t.Errorf("Expected child energy %d, got %d", p.ChildEnergy, got)
	}
}

func TestAnimal_MovesWhenNothingElseApplies(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, neverReproduce("herbivore"))
	herb := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))
	herb.Energy = 100

	herb.Act(w)

	if herb.X == 1 && herb.Y == 1 {
		t.Error("Expected the animal to move")
	}
	if !w.InBounds(herb.X, herb.Y) {
		t.Errorf("Animal moved out of bounds to (%d,%d)", herb.X, herb.Y)
	}
	if herb.Energy != 99 {
		t.Errorf("Expected energy 99 after metabolizing, got %d", herb.Energy)
	}
}

func TestAnimal_EnclosedStaysPut(t *testing.T) {
	w := emptyWorld(t, 1, 1, 1)
	herb := place(t, w, NewOrganism(Herbivore, 0, 0, w.params))

	herb.Act(w)

	if herb.X != 0 || herb.Y != 0 {
		t.Error("Animal with no neighbors moved off its cell")
	}
}

func TestAnimal_StarvesAfterMetabolizing(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)
	herb := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))
	herb.Energy = 1

	herb.Act(w)

	if herb.Alive {
		t.Error("Animal at zero energy still alive")
	}
	if len(w.pendingDeaths) != 1 {
		t.Errorf("Expected one queued death, got %d", len(w.pendingDeaths))
	}
}

func TestFirstMoverWinsPredation(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, neverReproduce("carnivore"))
	prey := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))
	first := place(t, w, NewOrganism(Carnivore, 0, 0, w.params))
	second := place(t, w, NewOrganism(Carnivore, 2, 2, w.params))

	first.Act(w)
	second.Act(w)

	if prey.Alive {
		t.Fatal("Prey survived two predator turns")
	}
	if len(w.pendingDeaths) != 1 {
		t.Errorf("Expected a single queued death, got %d", len(w.pendingDeaths))
	}
	if first.Energy != 25-MetabolicCost+w.params[Carnivore].EatGain {
		t.Errorf("First predator did not collect the eat reward, energy %d", first.Energy)
	}
	// The second predator found no prey left and fell through to moving.
	if second.Energy != 25-MetabolicCost {
		t.Errorf("Second predator energy changed beyond metabolism: %d", second.Energy)
	}
}

func TestStep_EatRescuesStarvingHerbivore(t *testing.T) {
	w := worldWithOverrides(t, 3, 3, 1, neverReproduce("plant"))
	herb := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))
	herb.Energy = 1
	plant := place(t, w, NewOrganism(Plant, 1, 2, w.params))

	w.Step()

	if !herb.Alive {
		t.Fatal("Herbivore next to a plant starved")
	}
	if herb.Energy != 10 {
		t.Errorf("Expected energy 10 (1 - 1 + 10), got %d", herb.Energy)
	}
	if herb.X != 1 || herb.Y != 2 {
		t.Errorf("Expected the herbivore on the plant cell (1,2), got (%d,%d)", herb.X, herb.Y)
	}
	if plant.Alive {
		t.Error("Eaten plant still alive after the tick")
	}
}
