package eco

// Organism is a single living entity on the grid. Organisms never hold
// references to each other; they interact only through grid adjacency.
//
// Alive is the authoritative liveness flag: the instant it goes false the
// organism disappears from every occupancy and adjacency query, even though
// it may sit in the registry's storage until the end-of-tick purge.
type Organism struct {
	Species Species
	X, Y    int
	Energy  int
	Alive   bool
}

// NewOrganism creates an organism of the given species at (x, y) with the
// species' initial energy. Plants carry no energy.
func NewOrganism(species Species, x, y int, params Params) *Organism {
	return &Organism{
		Species: species,
		X:       x,
		Y:       y,
		Energy:  params[species].InitialEnergy,
		Alive:   true,
	}
}

// newChild creates a newborn of the given species with the species' fixed
// child energy, independent of the parent's energy.
func newChild(species Species, x, y int, params Params) *Organism {
	child := NewOrganism(species, x, y, params)
	child.Energy = params[species].ChildEnergy
	return child
}

// IsAnimal reports whether the organism metabolizes energy.
func (o *Organism) IsAnimal() bool {
	return o.Species != Plant
}
