package eco

import (
	"encoding/json"
	"fmt"
)

// SpeciesCounts holds the number of alive organisms per species.
type SpeciesCounts struct {
	Plants     int `json:"plants"`
	Herbivores int `json:"herbivores"`
	Carnivores int `json:"carnivores"`
}

func (c SpeciesCounts) String() string {
	return fmt.Sprintf("plants=%d herbivores=%d carnivores=%d", c.Plants, c.Herbivores, c.Carnivores)
}

// Total returns the number of alive organisms across all species.
func (c SpeciesCounts) Total() int {
	return c.Plants + c.Herbivores + c.Carnivores
}

// OrganismView is the read-only per-organism record handed to renderers.
type OrganismView struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Species Species `json:"species"`
	Symbol  string  `json:"symbol"`
}

// Snapshot is a point-in-time, read-only view of a world at a tick
// boundary: every alive organism with position and symbol, plus the
// per-species counts. Consumers must not feed mutations back into the
// world; a snapshot shares no storage with it.
type Snapshot struct {
	WorldID   WorldID        `json:"world_id,omitempty"`
	Tick      int            `json:"tick"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Organisms []OrganismView `json:"organisms"`
	Counts    SpeciesCounts  `json:"counts"`
}

// Capture produces the snapshot of the current world state. Organisms
// appear in storage order, which is deterministic under a fixed seed.
// Capture is meant to be called at tick boundaries, where the pending
// queues are empty; it reads main storage only.
func (w *World) Capture() Snapshot {
	views := make([]OrganismView, 0, len(w.organisms))
	for _, o := range w.organisms {
		if !o.Alive {
			continue
		}
		views = append(views, OrganismView{
			X:       o.X,
			Y:       o.Y,
			Species: o.Species,
			Symbol:  w.params[o.Species].Symbol,
		})
	}
	return Snapshot{
		WorldID:   w.id,
		Tick:      w.tick,
		Width:     w.width,
		Height:    w.height,
		Organisms: views,
		Counts:    w.Counts(),
	}
}

// ValidateSnapshot checks the structural invariants every tick-boundary
// snapshot must satisfy:
//   - every organism lies inside the grid and has a known species
//   - at most one organism occupies any cell
//   - the counts match the organism list
func ValidateSnapshot(s Snapshot) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("snapshot has invalid dimensions %dx%d", s.Width, s.Height)
	}

	occupied := make(map[Cell]struct{}, len(s.Organisms))
	var tally SpeciesCounts
	for i, o := range s.Organisms {
		if !o.Species.Valid() {
			return fmt.Errorf("organism at index %d has unknown species %q", i, o.Species)
		}
		if o.X < 0 || o.X >= s.Width || o.Y < 0 || o.Y >= s.Height {
			return fmt.Errorf("organism at index %d is out of bounds: (%d,%d)", i, o.X, o.Y)
		}
		cell := Cell{o.X, o.Y}
		if _, taken := occupied[cell]; taken {
			return fmt.Errorf("cell (%d,%d) occupied more than once", o.X, o.Y)
		}
		occupied[cell] = struct{}{}

		switch o.Species {
		case Plant:
			tally.Plants++
		case Herbivore:
			tally.Herbivores++
		case Carnivore:
			tally.Carnivores++
		}
	}

	if tally != s.Counts {
		return fmt.Errorf("counts mismatch: header says %s, organisms say %s", s.Counts, tally)
	}
	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON.
func EncodeSnapshotJSON(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}
