package request

import (
	"context"
	"github.com/thedemo/productsd/product"
	"sync"
)

// Result is the terminal outcome of the current handle. Exactly one of
// Collection and Err is set.
type Result struct {
	Handle     *Handle
	Collection *product.Collection
	Err        error
}

type Config struct {
	Fetcher product.Fetcher
	// Consumer receives the result of the most recent fetch, once.
	Consumer func(*Result)
	// Deliver runs completions on the owner's sequencing context. Fetch and
	// Deliver must share it, otherwise a late result may race a new fetch.
	// Completions run inline on the fetch goroutine when nil.
	Deliver func(func())
	Logger  Logger
}

// Slot owns at most one logically current product request. Starting a new
// one cancels the previous; results of superseded requests are dropped.
type Slot struct {
	fetcher    product.Fetcher
	consumer   func(*Result)
	deliver    func(func())
	log        Logger
	mu         sync.Mutex
	generation uint64
	current    *Handle
}

func NewSlot(config *Config) *Slot {
	slot := &Slot{
		fetcher:  config.Fetcher,
		consumer: config.Consumer,
		deliver:  config.Deliver,
	}

	if slot.deliver == nil {
		slot.deliver = func(f func()) { f() }
	}

	if config.Logger != nil {
		slot.log = config.Logger
	} else {
		slot.log = noopLogger{}
	}

	return slot
}

// Fetch starts a new request and returns its handle without blocking.
func (s *Slot) Fetch(forceBypassCache bool) *Handle {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.current != nil && s.current.pending() {
		s.log.Debugf("Cancelling request %v", s.current.id)
		s.current.Cancel()
	}

	s.generation++
	handle := newHandle(s.generation, forceBypassCache, cancel)
	s.current = handle
	s.mu.Unlock()

	s.log.Debugf("Starting request %v (generation %v)", handle.id, handle.generation)

	go s.run(ctx, handle)

	return handle
}

// Current returns the most recently started handle, or nil.
func (s *Slot) Current() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// Cancel aborts the current request, if any. Its result is dropped.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.pending() {
		s.log.Debugf("Cancelling request %v", s.current.id)
		s.current.Cancel()
	}
}

func (s *Slot) run(ctx context.Context, handle *Handle) {
	collection, err := s.fetcher.GetProducts(ctx, handle.force)
	close(handle.done)
	handle.cancel()

	s.deliver(func() {
		s.complete(&Result{
			Handle:     handle,
			Collection: collection,
			Err:        err,
		})
	})
}

func (s *Slot) complete(result *Result) {
	handle := result.Handle

	s.mu.Lock()
	stale := handle.generation != s.generation || handle.Superseded()
	s.mu.Unlock()

	if stale {
		s.log.Debugf("Dropping result of superseded request %v", handle.id)
		return
	}

	if result.Err != nil {
		s.log.Warnf("Request %v failed: %v", handle.id, result.Err)
	} else {
		s.log.Debugf("Request %v returned %v products", handle.id, result.Collection.Len())
	}

	if s.consumer != nil {
		s.consumer(result)
	}
}
