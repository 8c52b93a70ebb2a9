package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultMaxRequests     = 100
	DefaultWindow          = 60 * time.Second
	DefaultCleanupInterval = 300 * time.Second
)

// clientWindow holds the accepted request times for one identity, oldest first.
type clientWindow struct {
	timestamps []time.Time
	// logged tracks whether OnFirstLimited already fired for this window
	// resets when the window is evicted and re-created
	logged bool
}

// prune drops timestamps at or before cutoff. Entries are chronological, so the
// retained ones are a suffix of the slice.
func (w *clientWindow) prune(cutoff time.Time) {
	i := 0
	for i < len(w.timestamps) && !w.timestamps[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return
	}
	// copy down instead of reslicing so the backing array does not grow forever
	n := copy(w.timestamps, w.timestamps[i:])
	w.timestamps = w.timestamps[:n]
}

// Limiter tracks per-identity request windows.
//
// A single mutex covers the fetch-prune-check-append sequence and the full sweep, so
// a sweep can never interleave with a decision for the same identity.
type Limiter struct {
	mu        sync.Mutex
	windows   map[string]*clientWindow
	lastSweep time.Time

	maxRequests     int
	window          time.Duration
	cleanupInterval time.Duration

	now func() time.Time

	// OnLimited is called on every rejected request, used for metrics
	OnLimited func(identity string)

	// OnFirstLimited is called once per tracked window when it first gets limited, used for logging
	OnFirstLimited func(identity string)

	// OnSweep is called after every full sweep with the number of evicted identities and the number still tracked
	OnSweep func(evicted, remaining int)
}

type Option func(*Limiter)

// WithMaxRequests sets the number of accepted requests allowed per identity per window.
func WithMaxRequests(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.maxRequests = n
		}
	}
}

// WithWindow sets the trailing window length.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithCleanupInterval sets the minimum spacing between full sweeps.
func WithCleanupInterval(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.cleanupInterval = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithOnLimited sets a callback for every rejected request.
func WithOnLimited(fn func(identity string)) Option {
	return func(l *Limiter) {
		l.OnLimited = fn
	}
}

// WithOnFirstLimited sets a callback for the first rejection of a tracked window.
// Separate from OnLimited so callers can log once but count every rejection.
func WithOnFirstLimited(fn func(identity string)) Option {
	return func(l *Limiter) {
		l.OnFirstLimited = fn
	}
}

// WithOnSweep sets a callback invoked after each full sweep.
func WithOnSweep(fn func(evicted, remaining int)) Option {
	return func(l *Limiter) {
		l.OnSweep = fn
	}
}

// New creates an empty Limiter. It does not start any goroutine; call Run for a
// background sweeper in addition to the opportunistic per-request sweep.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		windows:         make(map[string]*clientWindow),
		maxRequests:     DefaultMaxRequests,
		window:          DefaultWindow,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	l.lastSweep = l.now()
	return l
}

// MaxRequests returns the per-window request budget.
func (l *Limiter) MaxRequests() int {
	return l.maxRequests
}

// Window returns the trailing window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// CleanupInterval returns the minimum spacing between full sweeps.
func (l *Limiter) CleanupInterval() time.Duration {
	return l.cleanupInterval
}

// IsRateLimited resolves the request's identity and decides it.
// Returns true if the request must be rejected. Rejected requests are not recorded.
func (l *Limiter) IsRateLimited(r *http.Request) bool {
	return !l.Allow(ClientIdentity(r))
}

// Allow decides a request for an already resolved identity.
// Returns true if the request is accepted, in which case it consumes one slot.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	now := l.now()

	evicted, remaining, swept := l.maybeSweepLocked(now)

	w, exists := l.windows[identity]
	if !exists {
		w = &clientWindow{timestamps: make([]time.Time, 0, 8)}
		l.windows[identity] = w
	}
	w.prune(now.Add(-l.window))

	allowed := len(w.timestamps) < l.maxRequests
	firstDenial := false
	if allowed {
		w.timestamps = append(w.timestamps, now)
	} else if !w.logged {
		w.logged = true
		firstDenial = true
	}

	// release before calling hooks, they may do slow work
	l.mu.Unlock()

	if swept && l.OnSweep != nil {
		l.OnSweep(evicted, remaining)
	}
	if !allowed {
		if firstDenial && l.OnFirstLimited != nil {
			l.OnFirstLimited(identity)
		}
		if l.OnLimited != nil {
			l.OnLimited(identity)
		}
	}

	return allowed
}

// Remaining reports how many slots the identity has left in the current window.
// It prunes expired timestamps but records nothing.
func (l *Limiter) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[identity]
	if !exists {
		return l.maxRequests
	}
	w.prune(l.now().Add(-l.window))
	return max(0, l.maxRequests-len(w.timestamps))
}

// Sweep runs a full sweep immediately regardless of the cleanup interval and
// returns the number of identities evicted.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	evicted, remaining := l.sweepLocked(l.now())
	l.mu.Unlock()

	if l.OnSweep != nil {
		l.OnSweep(evicted, remaining)
	}
	return evicted
}

// Len returns the number of tracked identities.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Reset drops all tracked state.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string]*clientWindow)
	l.lastSweep = l.now()
}

// Run sweeps every cleanup interval until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			evicted, remaining, swept := l.maybeSweepLocked(l.now())
			l.mu.Unlock()
			if swept && l.OnSweep != nil {
				l.OnSweep(evicted, remaining)
			}
		}
	}
}

// maybeSweepLocked sweeps when at least cleanupInterval elapsed since the last sweep.
// Caller must hold l.mu.
func (l *Limiter) maybeSweepLocked(now time.Time) (evicted, remaining int, swept bool) {
	if now.Sub(l.lastSweep) < l.cleanupInterval {
		return 0, len(l.windows), false
	}
	evicted, remaining = l.sweepLocked(now)
	return evicted, remaining, true
}

// sweepLocked prunes every window and evicts identities left with no timestamps.
// Caller must hold l.mu.
func (l *Limiter) sweepLocked(now time.Time) (evicted, remaining int) {
	cutoff := now.Add(-l.window)
	for identity, w := range l.windows {
		w.prune(cutoff)
		if len(w.timestamps) == 0 {
			delete(l.windows, identity)
			evicted++
		}
	}
	l.lastSweep = now
	return evicted, len(l.windows)
}
