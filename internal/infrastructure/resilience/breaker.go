package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrOpen is returned while the breaker refuses calls outright.
	ErrOpen = errors.New("resilience: breaker open")

	// ErrProbeLimit is returned when the half-open probe budget is spent.
	ErrProbeLimit = errors.New("resilience: probe limit reached")
)

// State is the breaker's admission mode.
type State uint8

const (
	// Closed admits every call.
	Closed State = iota
	// Open rejects every call until the cooldown elapses.
	Open
	// HalfOpen admits a limited number of probe calls.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Option configures a Breaker.
type Option func(*Breaker)

// TripAfter sets how many consecutive failures open the breaker.
func TripAfter(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.tripAfter = n
		}
	}
}

// Cooldown sets how long the breaker stays open before probing.
func Cooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// Probes sets how many calls may run concurrently while half-open.
func Probes(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.probes = n
		}
	}
}

// RecoverAfter sets how many consecutive probe successes close the breaker.
func RecoverAfter(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.recoverAfter = n
		}
	}
}

// OnStateChange registers a callback fired on every state transition.
func OnStateChange(fn func(name string, from, to State)) Option {
	return func(b *Breaker) {
		b.onChange = fn
	}
}

// Breaker fails fast once a dependency keeps erroring: consecutive failures
// open it, every call is then rejected until the cooldown elapses, and a few
// probe calls decide whether it closes again.
type Breaker struct {
	name         string
	tripAfter    int
	cooldown     time.Duration
	probes       int
	recoverAfter int
	onChange     func(name string, from, to State)

	mu        sync.Mutex
	state     State
	gen       uint64 // bumped on every transition; stale probes are ignored
	failures  int    // consecutive failures while closed
	successes int    // consecutive probe successes while half-open
	inFlight  int    // probes running while half-open
	openedAt  time.Time
}

// NewBreaker creates a closed breaker. Defaults: trip after 5 consecutive
// failures, 60s cooldown, one probe at a time, one success to close.
func NewBreaker(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:         name,
		tripAfter:    5,
		cooldown:     60 * time.Second,
		probes:       1,
		recoverAfter: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the breaker's name.
func (b *Breaker) Name() string { return b.name }

// State returns the current admission mode.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Open && time.Since(b.openedAt) >= b.cooldown {
		return HalfOpen
	}
	return b.state
}

// Do runs fn if the breaker admits the call and records its outcome. A
// rejected call returns ErrOpen or ErrProbeLimit without invoking fn; a
// panic in fn counts as a failure and is re-raised.
func (b *Breaker) Do(fn func() error) error {
	gen, err := b.admit()
	if err != nil {
		return err
	}

	done := false
	defer func() {
		if !done {
			b.observe(gen, false)
		}
	}()

	err = fn()
	done = true
	b.observe(gen, err == nil)
	return err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		if time.Since(b.openedAt) < b.cooldown {
			return 0, ErrOpen
		}
		b.transition(HalfOpen)
	}
	if b.state == HalfOpen {
		if b.inFlight >= b.probes {
			return 0, ErrProbeLimit
		}
		b.inFlight++
	}
	return b.gen, nil
}

func (b *Breaker) observe(gen uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen {
		return // outcome of a call admitted before the last transition
	}

	switch b.state {
	case Closed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.tripAfter {
			b.transition(Open)
		}
	case HalfOpen:
		b.inFlight--
		if !success {
			b.transition(Open)
			return
		}
		b.successes++
		if b.successes >= b.recoverAfter {
			b.transition(Closed)
		}
	}
}

// transition moves the breaker to a new state. Callers hold b.mu.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.gen++
	b.failures = 0
	b.successes = 0
	b.inFlight = 0
	if to == Open {
		b.openedAt = time.Now()
	}
	if b.onChange != nil {
		b.onChange(b.name, from, to)
	}
}
