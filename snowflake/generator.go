package snowflake

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// sequenceWait is the sleep granularity while waiting for the clock to move
// on after a millisecond's 4096 sequence slots are exhausted.
const sequenceWait = 100 * time.Microsecond

var ErrClockRegression = errors.New("snowflake: system clock moved backwards")

// Generator mints identifiers for one (machineId, epoch) configuration. A
// single mutex serializes all Issue calls against the instance, there is no
// process wide state. Generators sharing a wall clock but configured with
// different epochs stay mutually monotonic in absolute time because the
// issue marker is kept in the unix epoch frame and only converted to the
// configured epoch when an identifier is assembled.
type Generator struct {
	mu        sync.Mutex
	machineID uint64
	epoch     time.Time
	epochMS   int64

	// lastMS is the unix millisecond of the most recent issue, seq is the
	// sequence slot the next issue in that same millisecond will take. Both
	// mutate only under mu and only after a call has passed every check.
	lastMS int64
	seq    uint64

	now func() time.Time
}

// GeneratorOption configures optional generator behaviour.
type GeneratorOption func(*Generator)

// WithClock replaces the wall clock source, primarily so tests can drive the
// generator through exhaustion and regression scenarios deterministically.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// NewGenerator validates the machine id and prepares an issue ready
// generator. The marker is seeded one millisecond behind now, so the first
// call can never coincide with an uninitialized marker. A zero epoch means
// UnixEpoch.
func NewGenerator(machineID uint64, epoch time.Time, opts ...GeneratorOption) (*Generator, error) {
	if machineID > MaxMachineID {
		return nil, fmt.Errorf("machineId %d exceeds %d: %w", machineID, MaxMachineID, ErrRange)
	}
	g := &Generator{
		machineID: machineID,
		epoch:     epochMilliUTC(epoch),
		now:       time.Now,
	}
	g.epochMS = g.epoch.UnixMilli()
	for _, opt := range opts {
		opt(g)
	}
	g.lastMS = g.now().UnixMilli() - 1
	return g, nil
}

// Issue mints the next identifier. Safe for concurrent use, the lock total
// orders all calls so callers observe some serial execution order. Under
// that order the (timestampOffset, sequence) pairs are strictly increasing
// and never repeat, provided the clock does not move backwards.
//
// When the current millisecond is exhausted Issue blocks, sleeping in
// sequenceWait increments until the clock advances. That wait is bounded by
// real time moving on by one millisecond and is the only blocking point in
// the package. There is no cancellation path for it.
//
// A clock reading behind the last issue wraps ErrClockRegression. The call
// fails immediately, nothing is retried or corrected, because accepting the
// reading could mint a duplicate or out of order identifier.
func (g *Generator) Issue() (Identifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	nowMS := g.now().UnixMilli()

	// seq == 0 in the marker millisecond means the previous call took the
	// last slot and wrapped the counter.
	if nowMS == g.lastMS && g.seq == 0 {
		for nowMS <= g.lastMS {
			time.Sleep(sequenceWait)
			nowMS = g.now().UnixMilli()
		}
	}

	if nowMS < g.lastMS {
		return Identifier{}, fmt.Errorf(
			"last issued at %dms, clock reads %dms: %w", g.lastMS, nowMS, ErrClockRegression)
	}

	seq := g.seq
	if nowMS > g.lastMS {
		seq = 0
	}

	offsetMS := nowMS - g.epochMS
	if offsetMS < 0 {
		return Identifier{}, fmt.Errorf(
			"epoch %s is ahead of the clock: %w", g.epoch.Format(time.RFC3339), ErrRange)
	}
	id, err := Pack(uint64(offsetMS), g.machineID, seq)
	if err != nil {
		return Identifier{}, err
	}

	g.lastMS = nowMS
	g.seq = (seq + 1) & MaxSequence

	return Identifier{id: id, epoch: g.epoch}, nil
}

// NextID issues and projects to the packed 64 bit value.
func (g *Generator) NextID() (uint64, error) {
	ident, err := g.Issue()
	if err != nil {
		return 0, err
	}
	return ident.ID(), nil
}

// NextCode issues and projects to the fixed width decimal code.
func (g *Generator) NextCode() (string, error) {
	ident, err := g.Issue()
	if err != nil {
		return "", err
	}
	return ident.Code(), nil
}

// MachineID returns the configured machine number.
func (g *Generator) MachineID() uint64 { return g.machineID }

// Epoch returns the configured reference epoch, in UTC.
func (g *Generator) Epoch() time.Time { return g.epoch }

// IssueOnce builds a throwaway generator and mints a single identifier. Every
// call allocates fresh state, so for repeated issuance construct a Generator
// and reuse it.
func IssueOnce(machineID uint64, epoch time.Time) (Identifier, error) {
	g, err := NewGenerator(machineID, epoch)
	if err != nil {
		return Identifier{}, err
	}
	return g.Issue()
}
