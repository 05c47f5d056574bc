package banner

import (
	qt "github.com/frankban/quicktest"
	"github.com/juju/clock/testclock"
	"github.com/thedemo/productsd/connectivity"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	effects []Effect
}

func (r *recorder) Render(e Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.effects = append(r.effects, e)
}

func (r *recorder) Effects() []Effect {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Effect(nil), r.effects...)
}

type fixture struct {
	banner   *Banner
	clock    *testclock.Clock
	recorder *recorder
	changes  chan State
}

func newFixture() *fixture {
	f := &fixture{
		clock:    testclock.NewClock(time.Now()),
		recorder: &recorder{},
		changes:  make(chan State, 16),
	}

	f.banner = New(&Config{
		Renderer: f.recorder,
		Clock:    f.clock,
		OnChange: func(s State) { f.changes <- s },
	})

	return f
}

func (f *fixture) waitFor(c *qt.C, want State) {
	for {
		select {
		case s := <-f.changes:
			if s == want {
				return
			}
		case <-time.After(5 * time.Second):
			c.Fatalf("banner never reached %v, is %v", want, f.banner.State())
		}
	}
}

func (f *fixture) drain() {
	for {
		select {
		case <-f.changes:
		default:
			return
		}
	}
}

func TestNoFlashWhenStartingOnline(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	f.banner.Handle(connectivity.BecameReachable)

	c.Assert(f.banner.State(), qt.Equals, Hidden)
	c.Assert(f.recorder.Effects(), qt.HasLen, 0)
}

func TestOfflineThenOnlineAutoHides(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	f.banner.Handle(connectivity.BecameUnreachable)
	c.Assert(f.banner.State(), qt.Equals, ShowingOffline)

	f.banner.Handle(connectivity.BecameReachable)
	c.Assert(f.banner.State(), qt.Equals, FlashingOnline)
	f.drain()

	f.clock.Advance(2 * time.Second)
	c.Assert(f.banner.State(), qt.Equals, FlashingOnline)

	f.clock.Advance(time.Second)
	f.waitFor(c, Hidden)

	c.Assert(f.recorder.Effects(), qt.DeepEquals, []Effect{
		ShowOffline,
		HideOffline,
		ShowOnline,
		HideOnline,
	})
}

func TestGestureDismissesFlashEarly(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	f.banner.Handle(connectivity.BecameUnreachable)
	f.banner.Handle(connectivity.BecameReachable)

	f.clock.Advance(time.Second)
	f.banner.Gesture()
	c.Assert(f.banner.State(), qt.Equals, Hidden)
	f.drain()

	f.clock.Advance(5 * time.Second)

	select {
	case s := <-f.changes:
		c.Fatalf("timer fired after gesture, state %v", s)
	case <-time.After(50 * time.Millisecond):
	}

	c.Assert(f.recorder.Effects(), qt.DeepEquals, []Effect{
		ShowOffline,
		HideOffline,
		ShowOnline,
		HideOnline,
	})
}

func TestRepeatedUnreachableIsIdempotent(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	f.banner.Handle(connectivity.BecameUnreachable)
	f.banner.Handle(connectivity.BecameUnreachable)
	f.banner.Handle(connectivity.BecameUnreachable)

	c.Assert(f.banner.State(), qt.Equals, ShowingOffline)
	c.Assert(f.recorder.Effects(), qt.DeepEquals, []Effect{ShowOffline})
}

func TestGestureIgnoredWhenNotFlashing(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	f.banner.Gesture()
	c.Assert(f.banner.State(), qt.Equals, Hidden)

	f.banner.Handle(connectivity.BecameUnreachable)
	f.banner.Gesture()
	c.Assert(f.banner.State(), qt.Equals, ShowingOffline)

	c.Assert(f.recorder.Effects(), qt.DeepEquals, []Effect{ShowOffline})
}

func TestReflashRestartsTimer(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	f.banner.Handle(connectivity.BecameUnreachable)
	f.banner.Handle(connectivity.BecameReachable)
	f.clock.Advance(2 * time.Second)

	f.banner.Handle(connectivity.BecameUnreachable)
	c.Assert(f.banner.State(), qt.Equals, ShowingOffline)

	f.banner.Handle(connectivity.BecameReachable)
	f.drain()

	// the first timer would have fired here
	f.clock.Advance(time.Second)
	select {
	case s := <-f.changes:
		c.Fatalf("stale timer fired, state %v", s)
	case <-time.After(50 * time.Millisecond):
	}
	c.Assert(f.banner.State(), qt.Equals, FlashingOnline)

	f.clock.Advance(2 * time.Second)
	f.waitFor(c, Hidden)

	c.Assert(f.recorder.Effects(), qt.DeepEquals, []Effect{
		ShowOffline,
		HideOffline,
		ShowOnline,
		HideOnline,
		ShowOffline,
		HideOffline,
		ShowOnline,
		HideOnline,
	})
}

func TestCloseCancelsTimer(t *testing.T) {
	c := qt.New(t)
	f := newFixture()

	f.banner.Handle(connectivity.BecameUnreachable)
	f.banner.Handle(connectivity.BecameReachable)
	f.banner.Close()
	f.drain()

	f.clock.Advance(5 * time.Second)
	select {
	case s := <-f.changes:
		c.Fatalf("timer fired after close, state %v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConcurrentEvents(t *testing.T) {
	c := qt.New(t)

	r := &recorder{}
	b := New(&Config{Renderer: r, Clock: testclock.NewClock(time.Now())})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); b.Handle(connectivity.BecameUnreachable) }()
		go func() { defer wg.Done(); b.Handle(connectivity.BecameReachable) }()
		go func() { defer wg.Done(); b.Gesture() }()
	}
	wg.Wait()

	// every show is matched by its hide or by the banner still being up
	shown := map[Effect]int{}
	for _, e := range r.Effects() {
		switch e {
		case ShowOffline, ShowOnline:
			shown[e]++
		case HideOffline:
			shown[ShowOffline]--
		case HideOnline:
			shown[ShowOnline]--
		}
		c.Assert(shown[ShowOffline] >= 0 && shown[ShowOffline] <= 1, qt.Equals, true)
		c.Assert(shown[ShowOnline] >= 0 && shown[ShowOnline] <= 1, qt.Equals, true)
	}
}
