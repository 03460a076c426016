package drone

import (
	"context"
	"sync"

	"github.com/cenkalti/backoff"
)

// Transport is the non-blocking shared-memory channel boundary the
// scheduler drives. Its production implementation (wrapping a real
// shared-memory PDU transport) is an external collaborator per spec §6 —
// this package only defines the contract the scheduler needs and ships an
// in-memory reference implementation useful for tests and for embedding
// applications that don't need real shared memory.
type Transport interface {
	// Start begins the transport's background I/O service. Implementations
	// that need to wait for a peer to attach should retry internally;
	// ConnectWithBackoff below is provided for callers that want InMAP-style
	// exponential backoff around Start.
	Start(ctx context.Context) error

	// Drain pulls any pending inbound messages into the transport's local
	// buffers. Non-blocking: it must not wait for new data to arrive.
	Drain(ctx context.Context) error

	// ReadPose returns the most recently drained pose for (drone, org), or
	// false if none has arrived yet.
	ReadPose(drone, org string) (Pose, bool)

	// WriteDisturbance publishes d for (drone, org) non-blockingly,
	// reporting whether the publish succeeded.
	WriteDisturbance(drone, org string, d Disturbance) bool

	// Close releases the transport's resources. Safe to call multiple
	// times.
	Close() error
}

// ConnectWithBackoff starts t, retrying with an exponential backoff
// (grounded on InMAP's own use of github.com/cenkalti/backoff for
// retrying against external services it doesn't control) until it
// succeeds or ctx is cancelled. This is the runtime scheduler's
// initialization-phase "connect to the transport" step (spec §4.6 step 3).
func ConnectWithBackoff(ctx context.Context, t Transport) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0 // bounded only by ctx cancellation, not wall-clock
	return backoff.Retry(func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return t.Start(ctx)
	}, backoff.WithContext(b, ctx))
}

// MemTransport is an in-process Transport backed by plain maps, guarded by
// a mutex. It never blocks and never fails a write, making it useful for
// unit tests of the scheduler and drone I/O without a real shared-memory
// peer.
type MemTransport struct {
	mu      sync.Mutex
	poses   map[string]Pose
	writes  map[string]Disturbance
	started bool
}

// NewMemTransport returns a ready-to-use in-memory Transport.
func NewMemTransport() *MemTransport {
	return &MemTransport{
		poses:  make(map[string]Pose),
		writes: make(map[string]Disturbance),
	}
}

func channelKey(drone, org string) string { return drone + "/" + org }

// Start marks the transport ready. It never fails.
func (m *MemTransport) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return nil
}

// Drain is a no-op: SetPose already makes poses immediately visible.
func (m *MemTransport) Drain(ctx context.Context) error { return nil }

// SetPose makes a pose visible to the next ReadPose call for (drone, org),
// simulating an inbound publish from the simulator.
func (m *MemTransport) SetPose(drone, org string, p Pose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poses[channelKey(drone, org)] = p
}

// ReadPose returns the last pose set for (drone, org).
func (m *MemTransport) ReadPose(drone, org string) (Pose, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.poses[channelKey(drone, org)]
	return p, ok
}

// WriteDisturbance records d for (drone, org) and always reports success.
func (m *MemTransport) WriteDisturbance(drone, org string, d Disturbance) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes[channelKey(drone, org)] = d
	return true
}

// LastWritten returns the last disturbance written for (drone, org), for
// test assertions.
func (m *MemTransport) LastWritten(drone, org string) (Disturbance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.writes[channelKey(drone, org)]
	return d, ok
}

// Close clears all buffered inbound poses. Disturbances already written
// remain readable through LastWritten.
func (m *MemTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poses = nil
	return nil
}
