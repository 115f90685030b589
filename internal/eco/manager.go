package eco

import (
	"fmt"
	"sync"
	"time"
)

// worldEntry pairs a world with the synchronization the core deliberately
// leaves out: the entry mutex makes whoever holds it the world's single
// writer, whether that is an HTTP handler or the entry's own run loop.
type worldEntry struct {
	mu        sync.Mutex
	world     *World
	stopCh    chan struct{}
	isRunning bool
}

// Manager owns a set of isolated worlds, addressed by ID. It serializes
// all concurrent access and can drive a world on its own ticker, pushing
// each tick's snapshot to the attached dispatcher.
type Manager struct {
	mu         sync.RWMutex
	worlds     map[WorldID]*worldEntry
	dispatcher *Dispatcher
	logger     Logger
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return NewManagerWithLogger(NewNoOpLogger())
}

// NewManagerWithLogger creates an empty manager with the given logger.
// Worlds created through the manager inherit it.
func NewManagerWithLogger(logger Logger) *Manager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &Manager{
		worlds: make(map[WorldID]*worldEntry),
		logger: logger,
	}
}

// SetDispatcher attaches the dispatcher that receives snapshots from
// auto-running worlds.
func (m *Manager) SetDispatcher(d *Dispatcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatcher = d
}

// Create builds a new world from cfg under the given ID.
// Returns an error if a world with that ID already exists or cfg is
// invalid.
func (m *Manager) Create(id WorldID, cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.worlds[id]; exists {
		return fmt.Errorf("world with id %s already exists", id)
	}

	world, err := NewWorld(cfg)
	if err != nil {
		return err
	}
	world.SetID(id)
	world.SetLogger(m.logger)

	m.worlds[id] = &worldEntry{world: world}
	return nil
}

// List returns the IDs of all worlds.
func (m *Manager) List() []WorldID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]WorldID, 0, len(m.worlds))
	for id := range m.worlds {
		ids = append(ids, id)
	}
	return ids
}

// Delete stops and removes a world.
func (m *Manager) Delete(id WorldID) error {
	m.mu.Lock()
	entry, exists := m.worlds[id]
	if !exists {
		m.mu.Unlock()
		return fmt.Errorf("world with id %s does not exist", id)
	}
	delete(m.worlds, id)
	m.mu.Unlock()

	m.stopEntry(entry)
	return nil
}

func (m *Manager) entry(id WorldID) (*worldEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, exists := m.worlds[id]
	return entry, exists
}

// With runs fn while holding the world's writer lock. It is the only way
// callers outside the run loop get at a world.
func (m *Manager) With(id WorldID, fn func(*World) error) error {
	entry, exists := m.entry(id)
	if !exists {
		return fmt.Errorf("world with id %s does not exist", id)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.world)
}

// Snapshot captures the current state of a world.
func (m *Manager) Snapshot(id WorldID) (Snapshot, error) {
	var snap Snapshot
	err := m.With(id, func(w *World) error {
		snap = w.Capture()
		return nil
	})
	return snap, err
}

// StepWorld advances a world by one tick and returns the new snapshot.
// Stepping past the world's tick budget is an error.
func (m *Manager) StepWorld(id WorldID) (Snapshot, error) {
	var snap Snapshot
	err := m.With(id, func(w *World) error {
		if w.Done() {
			return fmt.Errorf("world %s has finished its %d ticks", id, w.TotalTicks())
		}
		w.Step()
		snap = w.Capture()
		return nil
	})
	if err == nil && m.dispatcherRef() != nil {
		m.dispatcherRef().Enqueue(snap, nil)
	}
	return snap, err
}

func (m *Manager) dispatcherRef() *Dispatcher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dispatcher
}

// Start drives the world on its own ticker until its tick budget is spent
// or Stop is called. Each tick's snapshot goes to the dispatcher. Starting
// an already-running world is a no-op; a stopped world can be restarted.
func (m *Manager) Start(id WorldID, interval time.Duration) error {
	entry, exists := m.entry(id)
	if !exists {
		return fmt.Errorf("world with id %s does not exist", id)
	}

	entry.mu.Lock()
	if entry.isRunning {
		entry.mu.Unlock()
		return nil
	}
	if entry.world.Done() {
		entry.mu.Unlock()
		return fmt.Errorf("world %s has finished its %d ticks", id, entry.world.TotalTicks())
	}
	stopCh := make(chan struct{})
	entry.stopCh = stopCh
	entry.isRunning = true
	entry.mu.Unlock()

	go m.runLoop(id, entry, interval, stopCh)
	return nil
}

// runLoop selects on its own stop channel, not the entry's current one: a
// restart replaces entry.stopCh, and the superseded loop must still see the
// close that stopped it.
func (m *Manager) runLoop(id WorldID, entry *worldEntry, interval time.Duration, stopCh chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// The initial state goes out before the first step, so stream
	// consumers see tick 0 too.
	entry.mu.Lock()
	first := entry.world.Capture()
	entry.mu.Unlock()
	if d := m.dispatcherRef(); d != nil {
		d.Enqueue(first, nil)
	}

	for {
		select {
		case <-ticker.C:
			entry.mu.Lock()
			if entry.stopCh != stopCh {
				// A restart handed the world to a newer loop.
				entry.mu.Unlock()
				return
			}
			if entry.world.Done() {
				entry.isRunning = false
				entry.mu.Unlock()
				m.logger.Infof("world finished: id=%s ticks=%d", id, entry.world.Tick())
				return
			}
			entry.world.Step()
			snap := entry.world.Capture()
			entry.mu.Unlock()

			if d := m.dispatcherRef(); d != nil {
				d.Enqueue(snap, nil)
			}
		case <-stopCh:
			return
		}
	}
}

// Stop halts a world's run loop. The world keeps its state and can be
// restarted.
func (m *Manager) Stop(id WorldID) error {
	entry, exists := m.entry(id)
	if !exists {
		return fmt.Errorf("world with id %s does not exist", id)
	}
	m.stopEntry(entry)
	return nil
}

func (m *Manager) stopEntry(entry *worldEntry) {
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.isRunning {
		return
	}
	// The flag flips here, not in the run loop: a second Stop or a
	// Delete right behind it must find the entry already stopped, or it
	// would close stopCh twice.
	entry.isRunning = false
	close(entry.stopCh)
}

// IsRunning reports whether the world's run loop is active.
func (m *Manager) IsRunning(id WorldID) bool {
	entry, exists := m.entry(id)
	if !exists {
		return false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.isRunning
}
