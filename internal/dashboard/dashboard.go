package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RefreshDelay is how long a refresh stays pending before its result lands.
const RefreshDelay = 2000 * time.Millisecond

// Timer is a scheduled callback that can be stopped.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func defaultAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Dashboard owns the view state of one mounted dashboard. All transitions are
// serialized; each one stores a fresh copy of the record.
type Dashboard struct {
	mu      sync.Mutex
	state   ViewState
	pending map[uuid.UUID]Timer
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc

	source    Source
	now       func() time.Time
	afterFunc AfterFunc
	observers []func(ViewState)

	// outbox holds snapshots awaiting delivery, in transition order.
	outbox   []ViewState
	flushing bool
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithSource sets where refresh results come from. Defaults to MockSource.
func WithSource(src Source) Option {
	return func(d *Dashboard) {
		if src != nil {
			d.source = src
		}
	}
}

// WithClock sets the time source used for LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) {
		if now != nil {
			d.now = now
		}
	}
}

// WithAfterFunc replaces the scheduler used for the delayed refresh step.
func WithAfterFunc(fn AfterFunc) Option {
	return func(d *Dashboard) {
		if fn != nil {
			d.afterFunc = fn
		}
	}
}

// New mounts a dashboard with the initial state.
func New(opts ...Option) *Dashboard {
	d := &Dashboard{
		pending:   make(map[uuid.UUID]Timer),
		source:    MockSource{},
		now:       time.Now,
		afterFunc: defaultAfterFunc,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.state = InitialState(d.now())
	return d
}

// OnUpdate registers fn to be called with a copy of the state after every
// stored transition. Snapshots are delivered one at a time in the order the
// transitions were applied, possibly on the goroutine of a later transition.
// fn may call back into the dashboard; the nested update is delivered after
// fn returns.
func (d *Dashboard) OnUpdate(fn func(ViewState)) {
	d.mu.Lock()
	d.observers = append(d.observers, fn)
	d.mu.Unlock()
}

// State returns a copy of the current state.
func (d *Dashboard) State() ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Clone()
}

// TogglePlayback flips IsPlaying.
func (d *Dashboard) TogglePlayback() ViewState {
	return d.apply(func(s ViewState) ViewState {
		return TogglePlayback(s, d.now())
	})
}

// AdjustVolume sets the volume to v without clamping.
func (d *Dashboard) AdjustVolume(v int) ViewState {
	return d.apply(func(s ViewState) ViewState {
		return AdjustVolume(s, v)
	})
}

// SelectTrack makes track current and starts playback.
func (d *Dashboard) SelectTrack(track string) ViewState {
	return d.apply(func(s ViewState) ViewState {
		return SelectTrack(s, track, d.now())
	})
}

// RefreshRecommendations marks the state as analyzing and schedules the
// result to be applied after RefreshDelay. It does not check for a refresh
// already in flight; see RefreshIfIdle.
func (d *Dashboard) RefreshRecommendations() ViewState {
	s, _ := d.refresh(false)
	return s
}

// RefreshIfIdle starts a refresh unless one is already pending. It reports
// whether a refresh was started.
func (d *Dashboard) RefreshIfIdle() (ViewState, bool) {
	return d.refresh(true)
}

func (d *Dashboard) refresh(onlyIfIdle bool) (ViewState, bool) {
	d.mu.Lock()
	if d.closed || (onlyIfIdle && d.state.IsAnalyzing) {
		s := d.state.Clone()
		d.mu.Unlock()
		return s, false
	}

	d.state = BeginRefresh(d.state)
	s := d.store()

	// The id is reserved before scheduling so a callback that runs
	// immediately still finds it.
	id := uuid.New()
	d.pending[id] = nil
	d.mu.Unlock()

	t := d.afterFunc(RefreshDelay, func() {
		d.completeRefresh(id)
	})

	d.mu.Lock()
	if _, ok := d.pending[id]; ok && !d.closed {
		d.pending[id] = t
	} else if t != nil {
		// Already completed, or closed while scheduling.
		t.Stop()
	}
	d.mu.Unlock()

	d.flush()
	return s, true
}

// Pending reports how many refreshes are scheduled but not yet applied.
func (d *Dashboard) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Close unmounts the dashboard. Pending refreshes are cancelled and later
// operations leave the state untouched.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	d.cancel()
	for id, t := range d.pending {
		if t != nil {
			t.Stop()
		}
		delete(d.pending, id)
	}
}

// completeRefresh runs when the refresh delay elapses. The source is not
// consulted for a refresh that was cancelled.
func (d *Dashboard) completeRefresh(id uuid.UUID) {
	if !d.isPending(id) {
		return
	}

	res, err := d.source.Recommend(d.ctx)

	d.mu.Lock()
	if _, ok := d.pending[id]; !ok || d.closed {
		d.mu.Unlock()
		return
	}
	delete(d.pending, id)

	if err != nil {
		d.state = FailRefresh(d.state, err)
	} else {
		d.state = CompleteRefresh(d.state, res, d.now())
	}
	d.store()
	d.mu.Unlock()

	d.flush()
}

func (d *Dashboard) isPending(id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[id]
	return ok && !d.closed
}

// apply stores the result of fn unless the dashboard has been closed.
func (d *Dashboard) apply(fn func(ViewState) ViewState) ViewState {
	d.mu.Lock()
	if d.closed {
		s := d.state.Clone()
		d.mu.Unlock()
		return s
	}

	d.state = fn(d.state)
	s := d.store()
	d.mu.Unlock()

	d.flush()
	return s
}

// store queues the current state for the observers and returns a copy of it.
// d.mu must be held.
func (d *Dashboard) store() ViewState {
	if len(d.observers) > 0 {
		d.outbox = append(d.outbox, d.state.Clone())
	}
	return d.state.Clone()
}

// flush delivers queued snapshots. Only one goroutine delivers at a time;
// others leave their snapshots for it.
func (d *Dashboard) flush() {
	d.mu.Lock()
	if d.flushing {
		d.mu.Unlock()
		return
	}
	d.flushing = true

	for len(d.outbox) > 0 {
		s := d.outbox[0]
		d.outbox = d.outbox[1:]
		observers := d.observers
		d.mu.Unlock()

		d.deliver(observers, s)

		d.mu.Lock()
	}
	d.flushing = false
	d.mu.Unlock()
}

// deliver calls every observer with s. A panicking observer releases the
// delivery slot.
func (d *Dashboard) deliver(observers []func(ViewState), s ViewState) {
	done := false
	defer func() {
		if !done {
			d.mu.Lock()
			d.flushing = false
			d.mu.Unlock()
		}
	}()

	for _, fn := range observers {
		fn(s.Clone())
	}
	done = true
}
