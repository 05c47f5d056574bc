package banner

import (
	"github.com/juju/clock"
	"github.com/thedemo/productsd/connectivity"
	"sync"
	"time"
)

const DefaultAutoHide = 3 * time.Second

type Config struct {
	Renderer Renderer
	Clock    clock.Clock
	// AutoHide is how long the "back online" banner stays up.
	AutoHide time.Duration
	// OnChange, if set, is called with every new state.
	OnChange func(State)
	Logger   Logger
}

// Banner decides when the offline banner and the "back online" banner are
// shown. The online banner only flashes after the offline one was seen.
type Banner struct {
	renderer Renderer
	clock    clock.Clock
	autoHide time.Duration
	onChange func(State)
	log      Logger
	mu       sync.Mutex
	state    State
	timer    clock.Timer
	// token identifies the pending auto-hide timer; timers with an older
	// token fire as no-ops.
	token uint64
}

func New(config *Config) *Banner {
	b := &Banner{
		renderer: config.Renderer,
		clock:    config.Clock,
		autoHide: config.AutoHide,
		onChange: config.OnChange,
		state:    Hidden,
	}

	if b.renderer == nil {
		b.renderer = RendererFunc(func(Effect) {})
	}

	if b.clock == nil {
		b.clock = clock.WallClock
	}

	if b.autoHide <= 0 {
		b.autoHide = DefaultAutoHide
	}

	if config.Logger != nil {
		b.log = config.Logger
	} else {
		b.log = noopLogger{}
	}

	return b
}

func (b *Banner) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Handle applies a reachability event.
func (b *Banner) Handle(event connectivity.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch event {
	case connectivity.BecameUnreachable:
		switch b.state {
		case Hidden:
			b.transition(ShowingOffline, ShowOffline)
		case FlashingOnline:
			// lost the connection again while flashing
			b.stopTimer()
			b.transition(ShowingOffline, HideOnline, ShowOffline)
		}

	case connectivity.BecameReachable:
		if b.state == ShowingOffline {
			b.startTimer()
			b.transition(FlashingOnline, HideOffline, ShowOnline)
		}

	default:
		b.log.Warnf("Ignoring unknown event %v", event)
	}
}

// Gesture applies a user scroll or refresh. It dismisses the "back online"
// banner early.
func (b *Banner) Gesture() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != FlashingOnline {
		return
	}

	b.stopTimer()
	b.transition(Hidden, HideOnline)
}

// Close cancels a pending auto-hide without rendering anything.
func (b *Banner) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopTimer()
}

func (b *Banner) transition(next State, effects ...Effect) {
	b.log.Debugf("Banner %v -> %v", b.state, next)

	b.state = next

	for _, effect := range effects {
		b.renderer.Render(effect)
	}

	if b.onChange != nil {
		b.onChange(next)
	}
}

// startTimer must be called with mu held.
func (b *Banner) startTimer() {
	b.stopTimer()

	token := b.token
	b.timer = b.clock.AfterFunc(b.autoHide, func() {
		b.expire(token)
	})
}

// stopTimer must be called with mu held.
func (b *Banner) stopTimer() {
	b.token++

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Banner) expire(token uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if token != b.token || b.state != FlashingOnline {
		return
	}

	b.timer = nil
	b.transition(Hidden, HideOnline)
}
