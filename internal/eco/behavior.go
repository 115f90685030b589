package eco

// Act runs one turn of species-specific behavior against the world. It is
// the single dispatch point over the closed species set.
func (o *Organism) Act(w *World) {
	if o.IsAnimal() {
		actAnimal(o, w, w.params[o.Species])
		return
	}
	actPlant(o, w)
}

// actPlant spreads into a random adjacent empty cell with a fixed chance.
// Plants carry no energy and never die here; only predation removes them.
func actPlant(o *Organism, w *World) {
	if w.rng.Float64() >= w.params[Plant].ReproChance {
		return
	}
	empty := w.AdjacentEmptyCells(o.X, o.Y)
	if len(empty) == 0 {
		return
	}
	cell := empty[w.rng.Intn(len(empty))]
	w.EnqueueBirth(NewOrganism(Plant, cell.X, cell.Y, w.params))
}

// actAnimal is the shared herbivore/carnivore turn, in strict priority
// order. The first action that succeeds ends the action phase; the survive
// check runs regardless.
func actAnimal(o *Organism, w *World, p SpeciesParams) {
	o.Energy -= MetabolicCost

	acted := tryEat(o, w, p)
	if !acted {
		acted = tryReproduce(o, w, p)
	}
	if !acted {
		tryMove(o, w)
	}

	if o.Energy <= 0 {
		w.MarkDead(o)
	}
}

// tryEat picks a random adjacent prey, steps onto its cell and kills it.
// First mover wins: the prey's alive flag drops immediately, so a later
// actor this tick cannot claim the same prey.
func tryEat(o *Organism, w *World, p SpeciesParams) bool {
	prey := w.AdjacentOrganisms(o.X, o.Y, p.Prey)
	if len(prey) == 0 {
		return false
	}
	target := prey[w.rng.Intn(len(prey))]
	w.Relocate(o, target.X, target.Y)
	w.MarkDead(target)
	o.Energy += p.EatGain
	return true
}

// tryReproduce enqueues exactly one child of the same species into a random
// adjacent empty cell when the energy threshold, the probability roll and
// cell availability all line up. The child always starts with the species'
// fixed child energy.
func tryReproduce(o *Organism, w *World, p SpeciesParams) bool {
	if o.Energy < p.ReproThreshold {
		return false
	}
	if w.rng.Float64() >= p.ReproChance {
		return false
	}
	empty := w.AdjacentEmptyCells(o.X, o.Y)
	if len(empty) == 0 {
		return false
	}
	cell := empty[w.rng.Intn(len(empty))]
	w.EnqueueBirth(newChild(o.Species, cell.X, cell.Y, w.params))
	o.Energy -= p.ReproCost
	return true
}

// tryMove relocates to a random adjacent empty cell; with nowhere to go the
// organism stays put.
func tryMove(o *Organism, w *World) {
	empty := w.AdjacentEmptyCells(o.X, o.Y)
	if len(empty) == 0 {
		return
	}
	cell := empty[w.rng.Intn(len(empty))]
	w.Relocate(o, cell.X, cell.Y)
}
