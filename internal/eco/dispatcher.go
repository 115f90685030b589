package eco

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Sink is a delivery channel for per-tick snapshots. Sinks are pure
// consumers: they may format and forward snapshots however they like but
// never touch the world.
type Sink interface {
	// ID returns a unique identifier for this sink.
	ID() string

	// Type returns the kind of sink (e.g. "websocket", "webhook").
	Type() string

	// Publish delivers one snapshot. The context carries the delivery
	// timeout.
	Publish(ctx context.Context, snapshot Snapshot) error

	// Close releases the sink's resources.
	Close() error
}

// publishJob is one unit of work for the dispatcher's workers.
type publishJob struct {
	Snapshot Snapshot
	SinkIDs  []string
}

// Dispatcher fans snapshots out to registered sinks asynchronously, so a
// slow consumer can never stall the tick loop. Delivery is best effort:
// the queue is bounded and drops when full, and each delivery is retried
// with exponential backoff before being given up.
type Dispatcher struct {
	mu     sync.RWMutex
	sinks  map[string]Sink
	jobs   chan publishJob
	closed bool
	wg     sync.WaitGroup
	logger Logger
}

// NewDispatcher creates a dispatcher with a single delivery worker.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithLogger(NewNoOpLogger())
}

// NewDispatcherWithLogger creates a dispatcher that logs delivery problems
// through the given logger.
func NewDispatcherWithLogger(logger Logger) *Dispatcher {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	d := &Dispatcher{
		sinks:  make(map[string]Sink),
		jobs:   make(chan publishJob, 1024),
		logger: logger,
	}
	d.startWorkers(1)
	return d
}

// Register adds a sink to the dispatcher.
func (d *Dispatcher) Register(sink Sink) error {
	if sink == nil {
		return fmt.Errorf("sink cannot be nil")
	}
	id := sink.ID()
	if id == "" {
		return fmt.Errorf("sink ID cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.sinks[id]; exists {
		return fmt.Errorf("sink with ID %s already exists", id)
	}
	d.sinks[id] = sink
	return nil
}

// Unregister closes and removes a sink.
func (d *Dispatcher) Unregister(id string) error {
	d.mu.Lock()
	sink, exists := d.sinks[id]
	d.mu.Unlock()

	if !exists {
		return fmt.Errorf("sink with ID %s not found", id)
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("error closing sink %s: %w", id, err)
	}

	d.mu.Lock()
	delete(d.sinks, id)
	d.mu.Unlock()
	return nil
}

// Get retrieves a sink by ID.
func (d *Dispatcher) Get(id string) (Sink, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	sink, exists := d.sinks[id]
	return sink, exists
}

// List returns the IDs of all registered sinks.
func (d *Dispatcher) List() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.sinks))
	for id := range d.sinks {
		ids = append(ids, id)
	}
	return ids
}

// Enqueue queues a snapshot for delivery to the named sinks, or to every
// registered sink when sinkIDs is nil. Non-blocking: when the queue is
// full the snapshot is dropped and logged.
func (d *Dispatcher) Enqueue(snapshot Snapshot, sinkIDs []string) {
	d.mu.RLock()
	closed := d.closed
	if sinkIDs == nil {
		sinkIDs = make([]string, 0, len(d.sinks))
		for id := range d.sinks {
			sinkIDs = append(sinkIDs, id)
		}
	}
	d.mu.RUnlock()

	if closed || len(sinkIDs) == 0 {
		return
	}

	select {
	case d.jobs <- publishJob{Snapshot: snapshot, SinkIDs: sinkIDs}:
	default:
		d.logger.Warnf("snapshot queue full, dropping snapshot: world=%s tick=%d", snapshot.WorldID, snapshot.Tick)
	}
}

func (d *Dispatcher) startWorkers(n int) {
	for i := 0; i < n; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.dispatch(job)
	}
}

func (d *Dispatcher) dispatch(job publishJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range job.SinkIDs {
		d.publishWithRetry(ctx, id, job.Snapshot)
	}
}

// publishWithRetry attempts one delivery with exponential backoff.
func (d *Dispatcher) publishWithRetry(ctx context.Context, sinkID string, snapshot Snapshot) {
	d.mu.RLock()
	sink, ok := d.sinks[sinkID]
	d.mu.RUnlock()

	if !ok {
		d.logger.Warnf("snapshot delivery failed: sink=%s error=sink not found", sinkID)
		return
	}

	const maxRetries = 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := sink.Publish(ctx, snapshot)
		if err == nil {
			return
		}

		d.logger.Warnf("snapshot delivery failed: sink=%s attempt=%d error=%v", sinkID, attempt+1, err)
		if attempt == maxRetries {
			d.logger.Errorf("snapshot delivery given up after %d attempts: sink=%s", maxRetries+1, sinkID)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Close drains the queue, stops the workers and closes every sink.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	for id, sink := range d.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing sink %s: %w", id, err))
		}
	}
	d.sinks = make(map[string]Sink)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %v", errs)
	}
	return nil
}
