package eco

// Step advances the world by one tick:
//
//	SHUFFLE -> ACT (each still-alive organism) -> COMMIT (births, deaths)
//
// The turn order is a fresh random permutation of the alive list, valid for
// this tick only. Mutations during a turn (moves, queued births, queued
// deaths) are visible to every later query in the same tick; structural
// changes land in main storage only in the commit phase, so the shuffled
// iteration is never invalidated.
func (w *World) Step() {
	w.tick++

	order := make([]*Organism, len(w.organisms))
	copy(order, w.organisms)
	w.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, o := range order {
		// Skip anything eaten or starved earlier in this tick.
		if o.Alive {
			o.Act(w)
		}
	}

	w.commit()
}

// commit applies the queued structural changes. A newborn that was eaten in
// its birth tick is dropped silently and never enters main storage.
func (w *World) commit() {
	for _, o := range w.pendingBirths {
		if o.Alive {
			w.organisms = append(w.organisms, o)
		}
	}

	if len(w.pendingDeaths) > 0 {
		dead := make(map[*Organism]struct{}, len(w.pendingDeaths))
		for _, o := range w.pendingDeaths {
			dead[o] = struct{}{}
		}
		alive := w.organisms[:0]
		for _, o := range w.organisms {
			if _, ok := dead[o]; !ok {
				alive = append(alive, o)
			}
		}
		for i := len(alive); i < len(w.organisms); i++ {
			w.organisms[i] = nil
		}
		w.organisms = alive
	}

	w.pendingBirths = w.pendingBirths[:0]
	w.pendingDeaths = w.pendingDeaths[:0]
}

// Done reports whether the world has spent its tick budget.
func (w *World) Done() bool {
	return w.tick >= w.totalTicks
}

// Run executes the world's full tick budget, handing one snapshot per tick
// to emit, starting with the initial tick-0 state. It never stops early:
// plants may keep spreading after the last animal dies, and an extinct
// world simply produces unchanged snapshots.
func (w *World) Run(emit func(Snapshot)) {
	if emit == nil {
		emit = func(Snapshot) {}
	}
	emit(w.Capture())
	for !w.Done() {
		w.Step()
		emit(w.Capture())
		w.logger.Debugf("tick %d/%d complete: %s", w.tick, w.totalTicks, w.Counts())
	}
}
