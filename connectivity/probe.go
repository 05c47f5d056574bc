package connectivity

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/juju/clock"
	"net"
	"sync"
	"time"
)

// check ProbeReporter compliance to its interface during compile time
var _ Reporter = (*ProbeReporter)(nil)

type ProbeConfig struct {
	// Address is dialed over TCP to decide whether the host is reachable.
	Address  string
	Interval time.Duration
	Timeout  time.Duration
	Clock    clock.Clock
	Logger   Logger
}

// ProbeReporter reports the host as online while Address accepts TCP
// connections.
type ProbeReporter struct {
	*Broadcaster
	address  string
	interval time.Duration
	timeout  time.Duration
	clock    clock.Clock
	log      Logger
	quit     chan struct{}
	wg       sync.WaitGroup
}

func NewProbeReporter(config *ProbeConfig) (*ProbeReporter, error) {
	if config.Address == "" {
		return nil, errors.New("probe address is required")
	}

	r := &ProbeReporter{
		address:  config.Address,
		interval: config.Interval,
		timeout:  config.Timeout,
		clock:    config.Clock,
		quit:     make(chan struct{}),
	}

	if r.interval <= 0 {
		r.interval = 5 * time.Second
	}

	if r.timeout <= 0 {
		r.timeout = 2 * time.Second
	}

	if r.clock == nil {
		r.clock = clock.WallClock
	}

	if config.Logger != nil {
		r.log = config.Logger
	} else {
		r.log = noopLogger{}
	}

	r.Broadcaster = NewBroadcaster(Offline, r.log)

	return r, nil
}

// Start probes once before returning, so CurrentState reflects the host
// from the start, then keeps probing in the background.
func (r *ProbeReporter) Start() error {
	r.log.Infof("Probing %v every %v", r.address, r.interval)

	r.probe()

	r.wg.Add(1)
	go r.run()

	return nil
}

func (r *ProbeReporter) Stop() error {
	close(r.quit)
	r.wg.Wait()

	return nil
}

func (r *ProbeReporter) run() {
	defer r.wg.Done()

	for {
		select {
		case <-r.clock.After(r.interval):
		case <-r.quit:
			return
		}

		r.probe()
	}
}

func (r *ProbeReporter) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	go func() {
		select {
		case <-r.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	dialer := &net.Dialer{}

	conn, err := dialer.DialContext(ctx, "tcp", r.address)
	if err != nil {
		r.log.Debugf("Probe of %v failed: %v", r.address, err)
		r.Set(Offline)
		return
	}

	err = conn.Close()
	if err != nil {
		r.log.Debugf("Could not close probe connection: %v", err)
	}

	r.Set(Online)
}
