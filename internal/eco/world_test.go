package eco

import (
	"testing"
)

// emptyWorld builds a world with no seeded organisms, for tests that place
// organisms by hand.
func emptyWorld(t *testing.T, width, height int, seed int64) *World {
	t.Helper()
	w, err := NewWorld(Config{
		Name:   "test",
		Width:  width,
		Height: height,
		Ticks:  10,
		Seed:   seed,
	})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}

// place puts an organism on the grid or fails the test.
func place(t *testing.T, w *World, o *Organism) *Organism {
	t.Helper()
	if err := w.Place(o); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	return o
}

func TestNewWorld_Validation(t *testing.T) {
	_, err := NewWorld(Config{Width: 0, Height: 5, Ticks: 10})
	if err == nil {
		t.Fatal("Expected error for zero width")
	}

	_, err = NewWorld(Config{Width: 5, Height: 5, Ticks: 0})
	if err == nil {
		t.Fatal("Expected error for zero ticks")
	}

	_, err = NewWorld(Config{Width: 2, Height: 2, Plants: 3, Herbivores: 2, Ticks: 10})
	if err == nil {
		t.Fatal("Expected error for population exceeding capacity")
	}
}

func TestNewWorld_SeedingCapacityAndOverlap(t *testing.T) {
	w, err := NewWorld(Config{
		Name:       "seeded",
		Width:      6,
		Height:     5,
		Plants:     12,
		Herbivores: 10,
		Carnivores: 8,
		Ticks:      10,
		Seed:       7,
	})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}

	counts := w.Counts()
	if counts.Plants != 12 || counts.Herbivores != 10 || counts.Carnivores != 8 {
		t.Errorf("Unexpected seeded counts: %s", counts)
	}
	if counts.Total() != 30 {
		t.Errorf("Expected 30 organisms, got %d", counts.Total())
	}

	// No two seeded organisms may share a cell, and all must be in bounds.
	seen := make(map[Cell]bool)
	for _, o := range w.organisms {
		if !w.InBounds(o.X, o.Y) {
			t.Errorf("Organism out of bounds at (%d,%d)", o.X, o.Y)
		}
		cell := Cell{o.X, o.Y}
		if seen[cell] {
			t.Errorf("Cell (%d,%d) seeded twice", o.X, o.Y)
		}
		seen[cell] = true
	}
}

func TestNewWorld_FullGridSeeding(t *testing.T) {
	// Exactly capacity: every cell occupied, no unbounded search.
	w, err := NewWorld(Config{
		Width:  4,
		Height: 4,
		Plants: 16,
		Ticks:  1,
		Seed:   1,
	})
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	if got := w.Counts().Plants; got != 16 {
		t.Errorf("Expected 16 plants on a full grid, got %d", got)
	}
}

func TestWorld_OrganismsAt(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)
	o := place(t, w, NewOrganism(Plant, 1, 1, w.params))

	got := w.OrganismsAt(1, 1)
	if len(got) != 1 || got[0] != o {
		t.Fatalf("Expected the placed organism at (1,1), got %v", got)
	}
	if len(w.OrganismsAt(0, 0)) != 0 {
		t.Error("Expected no organism at (0,0)")
	}
}

func TestWorld_OrganismsAt_ExcludesDeadImmediately(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)
	o := place(t, w, NewOrganism(Plant, 1, 1, w.params))

	w.MarkDead(o)

	// Dead before the purge has run: the organism is still in storage but
	// must already be invisible to queries.
	if len(w.organisms) != 1 {
		t.Fatal("Expected the dead organism to still be in storage")
	}
	if len(w.OrganismsAt(1, 1)) != 0 {
		t.Error("Dead organism still visible to OrganismsAt")
	}
}

func TestWorld_OrganismsAt_IncludesPendingBirths(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)

	newborn := NewOrganism(Plant, 2, 2, w.params)
	w.EnqueueBirth(newborn)

	got := w.OrganismsAt(2, 2)
	if len(got) != 1 || got[0] != newborn {
		t.Fatal("Pending birth not visible to OrganismsAt")
	}

	// And a newborn can be eaten in its birth tick: once marked dead it
	// disappears again.
	w.MarkDead(newborn)
	if len(w.OrganismsAt(2, 2)) != 0 {
		t.Error("Dead pending birth still visible to OrganismsAt")
	}
}

func TestWorld_AdjacentCells(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)

	center := w.AdjacentCells(1, 1)
	if len(center) != 8 {
		t.Errorf("Expected 8 neighbors for center cell, got %d", len(center))
	}

	corner := w.AdjacentCells(0, 0)
	if len(corner) != 3 {
		t.Errorf("Expected 3 neighbors for corner cell, got %d", len(corner))
	}

	edge := w.AdjacentCells(1, 0)
	if len(edge) != 5 {
		t.Errorf("Expected 5 neighbors for edge cell, got %d", len(edge))
	}
}

func TestWorld_AdjacentEmptyCells(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)
	place(t, w, NewOrganism(Plant, 0, 0, w.params))
	place(t, w, NewOrganism(Plant, 1, 0, w.params))

	empty := w.AdjacentEmptyCells(1, 1)
	if len(empty) != 6 {
		t.Errorf("Expected 6 empty neighbors, got %d", len(empty))
	}
	for _, c := range empty {
		if (c == Cell{0, 0}) || (c == Cell{1, 0}) {
			t.Errorf("Occupied cell (%d,%d) reported empty", c.X, c.Y)
		}
	}
}

func TestWorld_AdjacentOrganisms_FiltersSpecies(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)
	plant := place(t, w, NewOrganism(Plant, 0, 1, w.params))
	place(t, w, NewOrganism(Carnivore, 2, 1, w.params))

	prey := w.AdjacentOrganisms(1, 1, Plant)
	if len(prey) != 1 || prey[0] != plant {
		t.Fatalf("Expected only the plant as adjacent prey, got %v", prey)
	}

	if len(w.AdjacentOrganisms(1, 1, Herbivore)) != 0 {
		t.Error("Expected no adjacent herbivores")
	}
}

func TestWorld_Place_RejectsOutOfBoundsAndOccupied(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)

	if err := w.Place(NewOrganism(Plant, 5, 5, w.params)); err == nil {
		t.Error("Expected error placing out of bounds")
	}

	place(t, w, NewOrganism(Plant, 1, 1, w.params))
	if err := w.Place(NewOrganism(Herbivore, 1, 1, w.params)); err == nil {
		t.Error("Expected error placing onto occupied cell")
	}
}

func TestWorld_MarkDead_Idempotent(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)
	o := place(t, w, NewOrganism(Herbivore, 1, 1, w.params))

	w.MarkDead(o)
	w.MarkDead(o)

	if len(w.pendingDeaths) != 1 {
		t.Errorf("Expected one queued death, got %d", len(w.pendingDeaths))
	}
}

func TestWorld_Relocate(t *testing.T) {
	w := emptyWorld(t, 3, 3, 1)
	o := place(t, w, NewOrganism(Herbivore, 0, 0, w.params))

	w.Relocate(o, 2, 2)

	if o.X != 2 || o.Y != 2 {
		t.Errorf("Expected organism at (2,2), got (%d,%d)", o.X, o.Y)
	}
	if len(w.OrganismsAt(0, 0)) != 0 {
		t.Error("Old cell still reports the relocated organism")
	}
	if len(w.OrganismsAt(2, 2)) != 1 {
		t.Error("New cell does not report the relocated organism")
	}
}
