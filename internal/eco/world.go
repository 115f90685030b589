package eco

import (
	"fmt"
	"math/rand"
	"time"
)

// WorldID is a unique identifier for a world, used by the manager and the
// server to address simulations.
type WorldID string

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// directions spans the Moore neighborhood: the up-to-8 cells around a cell.
var directions = [8]Cell{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// World is the authoritative registry of organisms on a bounded 2D grid.
// It is the only component allowed to answer occupancy and adjacency
// questions, and it owns the deferred-mutation queues that keep structural
// changes (births, deaths) out of an in-progress tick iteration.
//
// World carries no locking on purpose: it has exactly one writer at any
// instant. Drivers that tick a world from multiple goroutines (the HTTP
// server) must serialize access themselves; see Manager.
type World struct {
	id     WorldID
	width  int
	height int

	totalTicks int
	tick       int

	// organisms is ordered storage: iteration order is deterministic,
	// which keeps snapshot output reproducible under a fixed seed.
	organisms     []*Organism
	pendingBirths []*Organism
	pendingDeaths []*Organism

	params Params
	rng    *rand.Rand
	logger Logger
}

// NewWorld validates cfg, builds the parameter table and seeds the initial
// populations into distinct random cells. A non-zero cfg.Seed makes the
// whole run reproducible bit-for-bit.
func NewWorld(cfg Config) (*World, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	w := &World{
		id:         WorldID(cfg.Name),
		width:      cfg.Width,
		height:     cfg.Height,
		totalTicks: cfg.Ticks,
		organisms:  make([]*Organism, 0, cfg.Plants+cfg.Herbivores+cfg.Carnivores),
		params:     cfg.BuildParams(),
		rng:        rand.New(rand.NewSource(seed)),
		logger:     NewNoOpLogger(),
	}

	w.seed(cfg)
	return w, nil
}

// seed places the initial populations into a shuffled list of free cells.
// The free-cell list bounds the search: if the caller's capacity
// precondition were ever violated, the leftover spawns are skipped instead
// of retrying forever.
func (w *World) seed(cfg Config) {
	free := make([]Cell, 0, w.width*w.height)
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			free = append(free, Cell{x, y})
		}
	}
	w.rng.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})

	next := 0
	populate := func(species Species, count int) {
		for i := 0; i < count; i++ {
			if next >= len(free) {
				w.logger.Warnf("no free cell left, skipping %d remaining %s spawns", count-i, species)
				return
			}
			cell := free[next]
			next++
			w.organisms = append(w.organisms, NewOrganism(species, cell.X, cell.Y, w.params))
		}
	}
	populate(Plant, cfg.Plants)
	populate(Herbivore, cfg.Herbivores)
	populate(Carnivore, cfg.Carnivores)
}

// SetLogger replaces the world's logger. Pass nil to silence it.
func (w *World) SetLogger(logger Logger) {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	w.logger = logger
}

// SetID overrides the world's identifier (defaults to the config name).
func (w *World) SetID(id WorldID) { w.id = id }

func (w *World) ID() WorldID     { return w.id }
func (w *World) Width() int      { return w.width }
func (w *World) Height() int     { return w.height }
func (w *World) Tick() int       { return w.tick }
func (w *World) TotalTicks() int { return w.totalTicks }

// Params returns the world's parameter table.
func (w *World) Params() Params { return w.params }

// InBounds reports whether (x, y) lies on the grid.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.width && y >= 0 && y < w.height
}

// Place inserts an organism directly into main storage. It is the seeding
// and test entry point, not part of tick-time behavior: births during a
// tick go through EnqueueBirth.
func (w *World) Place(o *Organism) error {
	if !w.InBounds(o.X, o.Y) {
		return fmt.Errorf("cell (%d,%d) out of bounds for %dx%d grid", o.X, o.Y, w.width, w.height)
	}
	if len(w.OrganismsAt(o.X, o.Y)) > 0 {
		return fmt.Errorf("cell (%d,%d) already occupied", o.X, o.Y)
	}
	o.Alive = true
	w.organisms = append(w.organisms, o)
	return nil
}

// OrganismsAt returns every alive organism at (x, y), including organisms
// born earlier in the current tick that are still waiting in the pending
// queue. Dead organisms are excluded immediately, even if they have not
// been purged from storage yet.
func (w *World) OrganismsAt(x, y int) []*Organism {
	var out []*Organism
	for _, o := range w.organisms {
		if o.Alive && o.X == x && o.Y == y {
			out = append(out, o)
		}
	}
	for _, o := range w.pendingBirths {
		if o.Alive && o.X == x && o.Y == y {
			out = append(out, o)
		}
	}
	return out
}

// AdjacentCells returns the in-bounds Moore neighborhood of (x, y).
func (w *World) AdjacentCells(x, y int) []Cell {
	out := make([]Cell, 0, 8)
	for _, d := range directions {
		nx, ny := x+d.X, y+d.Y
		if w.InBounds(nx, ny) {
			out = append(out, Cell{nx, ny})
		}
	}
	return out
}

// AdjacentEmptyCells returns the neighborhood cells of (x, y) with no alive
// occupant, under the same pending-birth-aware rule as OrganismsAt.
func (w *World) AdjacentEmptyCells(x, y int) []Cell {
	var out []Cell
	for _, c := range w.AdjacentCells(x, y) {
		if len(w.OrganismsAt(c.X, c.Y)) == 0 {
			out = append(out, c)
		}
	}
	return out
}

// AdjacentOrganisms returns every alive organism of the given species in
// the neighborhood of (x, y).
func (w *World) AdjacentOrganisms(x, y int, species Species) []*Organism {
	var out []*Organism
	for _, c := range w.AdjacentCells(x, y) {
		for _, o := range w.OrganismsAt(c.X, c.Y) {
			if o.Species == species {
				out = append(out, o)
			}
		}
	}
	return out
}

// EnqueueBirth queues a newborn for the end-of-tick commit. The newborn is
// visible to occupancy and prey queries right away, so it can be eaten in
// the same tick it was born.
func (w *World) EnqueueBirth(o *Organism) {
	o.Alive = true
	w.pendingBirths = append(w.pendingBirths, o)
}

// MarkDead flips the organism's alive flag and queues the storage purge for
// the end of the tick. The effect on queries is immediate.
func (w *World) MarkDead(o *Organism) {
	if !o.Alive {
		return
	}
	o.Alive = false
	w.pendingDeaths = append(w.pendingDeaths, o)
}

// Relocate moves an organism in place. It performs no occupancy check:
// callers have already verified the target cell (move to an empty cell, or
// step onto a prey cell whose occupant was just marked dead).
func (w *World) Relocate(o *Organism, x, y int) {
	o.X = x
	o.Y = y
}

// Counts tallies alive organisms per species, pending births included.
func (w *World) Counts() SpeciesCounts {
	var counts SpeciesCounts
	count := func(o *Organism) {
		if !o.Alive {
			return
		}
		switch o.Species {
		case Plant:
			counts.Plants++
		case Herbivore:
			counts.Herbivores++
		case Carnivore:
			counts.Carnivores++
		}
	}
	for _, o := range w.organisms {
		count(o)
	}
	for _, o := range w.pendingBirths {
		count(o)
	}
	return counts
}
