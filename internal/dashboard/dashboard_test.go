package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-test/deep"
)

// fakeTimer is a Timer that fires only when the test says so.
type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeScheduler records scheduled callbacks for manual firing.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// fireAll runs every scheduled callback that has not been stopped.
func (s *fakeScheduler) fireAll() {
	s.mu.Lock()
	timers := append([]*fakeTimer(nil), s.timers...)
	s.mu.Unlock()

	for _, t := range timers {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.fn()
	}
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func newTestDashboard(sched *fakeScheduler, opts ...Option) *Dashboard {
	base := []Option{
		WithAfterFunc(sched.AfterFunc),
		WithClock(func() time.Time { return testNow }),
	}
	return New(append(base, opts...)...)
}

func TestDashboardScenario(t *testing.T) {
	d := newTestDashboard(&fakeScheduler{})
	defer d.Close()

	if d.State().IsPlaying {
		t.Fatal("new dashboard is playing")
	}

	if s := d.TogglePlayback(); !s.IsPlaying {
		t.Error("TogglePlayback() did not start playback")
	}

	if s := d.AdjustVolume(40); s.Volume != 40 {
		t.Errorf("Volume = %d, want 40", s.Volume)
	}

	const track = "Calm Jazz - Relaxing Shopping Experience"
	s := d.SelectTrack(track)
	if s.CurrentTrack != track {
		t.Errorf("CurrentTrack = %q, want %q", s.CurrentTrack, track)
	}
	if !s.IsPlaying {
		t.Error("IsPlaying = false after SelectTrack")
	}

	if diff := deep.Equal(d.State(), s); diff != nil {
		t.Error(diff)
	}
}

func TestRefreshRecommendations(t *testing.T) {
	sched := &fakeScheduler{}
	d := newTestDashboard(sched)
	defer d.Close()

	before := d.State()
	pending := d.RefreshRecommendations()

	if !pending.IsAnalyzing {
		t.Fatal("IsAnalyzing = false immediately after refresh")
	}
	if diff := deep.Equal(pending.Recommendations, before.Recommendations); diff != nil {
		t.Errorf("recommendations changed while pending: %v", diff)
	}
	if sched.count() != 1 {
		t.Fatalf("scheduled %d callbacks, want 1", sched.count())
	}
	if got := sched.timers[0].delay; got != 2*time.Second {
		t.Errorf("refresh delay = %v, want 2s", got)
	}
	if d.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", d.Pending())
	}

	sched.fireAll()

	s := d.State()
	if s.IsAnalyzing {
		t.Error("IsAnalyzing = true after refresh resolved")
	}
	want := []string{
		"Dynamic Pop Mix - High Energy Shopping",
		"Seasonal Holiday Blend - Festive Atmosphere",
		"Weather-Adaptive Ambient - Current Conditions",
		"Customer Flow Optimizer - Peak Hours",
	}
	if diff := deep.Equal(s.Recommendations, want); diff != nil {
		t.Error(diff)
	}
	if s.MoodScore < 7 || s.MoodScore >= 10 {
		t.Errorf("MoodScore = %v, want [7,10)", s.MoodScore)
	}
	if s.WeatherImpact < 8 || s.WeatherImpact >= 10 {
		t.Errorf("WeatherImpact = %v, want [8,10)", s.WeatherImpact)
	}
	if s.HolidayFactor < 6 || s.HolidayFactor >= 10 {
		t.Errorf("HolidayFactor = %v, want [6,10)", s.HolidayFactor)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d after completion, want 0", d.Pending())
	}
}

func TestRefreshScoreBounds(t *testing.T) {
	tests := []struct {
		name string
		draw float64
	}{
		{"lowest draw", 0},
		{"middle draw", 0.5},
		{"highest draw", 0.999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := MockSource{Float64: func() float64 { return tt.draw }}.Recommend(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.MoodScore < 7 || res.MoodScore >= 10 {
				t.Errorf("MoodScore = %v", res.MoodScore)
			}
			if res.WeatherImpact < 8 || res.WeatherImpact >= 10 {
				t.Errorf("WeatherImpact = %v", res.WeatherImpact)
			}
			if res.HolidayFactor < 6 || res.HolidayFactor >= 10 {
				t.Errorf("HolidayFactor = %v", res.HolidayFactor)
			}
		})
	}
}

func TestRefreshFailureKeepsLastGoodState(t *testing.T) {
	sched := &fakeScheduler{}
	failing := SourceFunc(func(context.Context) (Result, error) {
		return Result{}, errors.New("recommendation service unavailable")
	})
	d := newTestDashboard(sched, WithSource(failing))
	defer d.Close()

	before := d.State()
	d.RefreshRecommendations()
	sched.fireAll()

	s := d.State()
	if s.IsAnalyzing {
		t.Error("IsAnalyzing = true after failed refresh")
	}
	if s.LastError != "recommendation service unavailable" {
		t.Errorf("LastError = %q", s.LastError)
	}
	if diff := deep.Equal(s.Recommendations, before.Recommendations); diff != nil {
		t.Error(diff)
	}
	if s.MoodScore != before.MoodScore || s.WeatherImpact != before.WeatherImpact || s.HolidayFactor != before.HolidayFactor {
		t.Error("scores changed after failed refresh")
	}
}

func TestCloseCancelsPendingRefresh(t *testing.T) {
	sched := &fakeScheduler{}
	d := newTestDashboard(sched)

	d.RefreshRecommendations()
	d.Close()

	if !sched.timers[0].stopped {
		t.Error("pending refresh timer was not stopped")
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d after Close, want 0", d.Pending())
	}

	// A callback that raced past Stop must not apply its result.
	sched.timers[0].fn()
	if !d.State().IsAnalyzing {
		t.Error("cancelled refresh was applied")
	}
}

func TestClosedDashboardIgnoresOperations(t *testing.T) {
	sched := &fakeScheduler{}
	d := newTestDashboard(sched)
	d.Close()
	d.Close()

	before := d.State()
	d.TogglePlayback()
	d.AdjustVolume(3)
	d.SelectTrack("x")
	d.RefreshRecommendations()

	if diff := deep.Equal(d.State(), before); diff != nil {
		t.Error(diff)
	}
	if sched.count() != 0 {
		t.Errorf("closed dashboard scheduled %d refreshes", sched.count())
	}
}

func TestRefreshIsNotGuardedByContainer(t *testing.T) {
	sched := &fakeScheduler{}
	d := newTestDashboard(sched)
	defer d.Close()

	d.RefreshRecommendations()
	d.RefreshRecommendations()

	if sched.count() != 2 {
		t.Fatalf("scheduled %d refreshes, want 2", sched.count())
	}

	sched.fireAll()
	if d.State().IsAnalyzing {
		t.Error("IsAnalyzing = true after both refreshes resolved")
	}
}

func TestOnUpdate(t *testing.T) {
	sched := &fakeScheduler{}
	d := newTestDashboard(sched)
	defer d.Close()

	var seen []ViewState
	d.OnUpdate(func(s ViewState) { seen = append(seen, s) })

	d.TogglePlayback()
	d.RefreshRecommendations()
	sched.fireAll()

	if len(seen) != 3 {
		t.Fatalf("observer called %d times, want 3", len(seen))
	}
	if !seen[0].IsPlaying {
		t.Error("first update should be playing")
	}
	if !seen[1].IsAnalyzing {
		t.Error("second update should be analyzing")
	}
	if seen[2].IsAnalyzing {
		t.Error("third update should have finished analyzing")
	}
}

func TestRefreshWithRealTimer(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the refresh delay")
	}

	d := New()
	defer d.Close()

	done := make(chan ViewState, 1)
	d.OnUpdate(func(s ViewState) {
		if !s.IsAnalyzing {
			done <- s
		}
	})
	d.RefreshRecommendations()

	select {
	case s := <-done:
		if len(s.Recommendations) != 4 {
			t.Errorf("got %d recommendations, want 4", len(s.Recommendations))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not complete")
	}
}

// syncAfterFunc runs the callback before returning, like a zero delay on a
// test clock.
func syncAfterFunc(_ time.Duration, fn func()) Timer {
	fn()
	return nil
}

func TestRefreshWithSynchronousScheduler(t *testing.T) {
	d := New(WithAfterFunc(syncAfterFunc), WithClock(func() time.Time { return testNow }))
	defer d.Close()

	done := make(chan ViewState, 1)
	go func() { done <- d.RefreshRecommendations() }()

	var begun ViewState
	select {
	case begun = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RefreshRecommendations did not return")
	}

	if !begun.IsAnalyzing {
		t.Error("returned state should be the pending one")
	}
	s := d.State()
	if s.IsAnalyzing {
		t.Error("IsAnalyzing = true after an immediate completion")
	}
	if diff := deep.Equal(s.Recommendations, RefreshedRecommendations); diff != nil {
		t.Error(diff)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

func TestRefreshClosedWhileScheduling(t *testing.T) {
	var d *Dashboard
	timer := &fakeTimer{}
	d = New(WithAfterFunc(func(_ time.Duration, fn func()) Timer {
		timer.fn = fn
		d.Close()
		return timer
	}))

	d.RefreshRecommendations()

	if !timer.stopped {
		t.Error("timer scheduled after Close was not stopped")
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

func TestCancelledRefreshSkipsSource(t *testing.T) {
	sched := &fakeScheduler{}
	var calls atomic.Int32
	src := SourceFunc(func(context.Context) (Result, error) {
		calls.Add(1)
		return Result{}, nil
	})
	d := newTestDashboard(sched, WithSource(src))

	d.RefreshRecommendations()
	d.Close()
	sched.timers[0].fn()

	if n := calls.Load(); n != 0 {
		t.Errorf("source called %d times after Close, want 0", n)
	}
}

func TestRefreshIfIdle(t *testing.T) {
	sched := &fakeScheduler{}
	d := newTestDashboard(sched)
	defer d.Close()

	if _, started := d.RefreshIfIdle(); !started {
		t.Fatal("first RefreshIfIdle did not start a refresh")
	}
	if s, started := d.RefreshIfIdle(); started || !s.IsAnalyzing {
		t.Errorf("second RefreshIfIdle started = %t, analyzing = %t", started, s.IsAnalyzing)
	}
	if sched.count() != 1 {
		t.Errorf("scheduled %d refreshes, want 1", sched.count())
	}

	sched.fireAll()
	if _, started := d.RefreshIfIdle(); !started {
		t.Error("RefreshIfIdle refused after the refresh resolved")
	}
}

func TestRefreshIfIdleConcurrent(t *testing.T) {
	sched := &fakeScheduler{}
	d := newTestDashboard(sched)
	defer d.Close()

	var wg sync.WaitGroup
	var started atomic.Int32
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := d.RefreshIfIdle(); ok {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := started.Load(); n != 1 {
		t.Errorf("%d refreshes started, want 1", n)
	}
}

func TestOnUpdateNestedTransition(t *testing.T) {
	d := newTestDashboard(&fakeScheduler{})
	defer d.Close()

	var seen []ViewState
	d.OnUpdate(func(s ViewState) {
		seen = append(seen, s)
		if len(seen) == 1 {
			d.AdjustVolume(10)
		}
	})

	d.TogglePlayback()

	if len(seen) != 2 {
		t.Fatalf("observer called %d times, want 2", len(seen))
	}
	if seen[0].Volume != InitialVolume || !seen[0].IsPlaying {
		t.Errorf("first update = %+v", seen[0])
	}
	if seen[1].Volume != 10 {
		t.Errorf("second update volume = %d, want 10", seen[1].Volume)
	}
}

func TestOnUpdateOrderUnderConcurrency(t *testing.T) {
	d := newTestDashboard(&fakeScheduler{})
	defer d.Close()

	var (
		mu   sync.Mutex
		last = -1
	)
	d.OnUpdate(func(s ViewState) {
		mu.Lock()
		last = s.Volume
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.AdjustVolume(i)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if want := d.State().Volume; last != want {
		t.Errorf("last observed volume = %d, final volume = %d", last, want)
	}
}
