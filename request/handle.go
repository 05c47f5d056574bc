package request

import (
	"context"
	"github.com/google/uuid"
	"sync"
)

// Handle is one outstanding product request. It is done once its fetch
// returned, whether or not the result was delivered.
type Handle struct {
	id         string
	generation uint64
	force      bool
	cancel     context.CancelFunc
	done       chan struct{}
	mu         sync.Mutex
	superseded bool
}

func newHandle(generation uint64, force bool, cancel context.CancelFunc) *Handle {
	return &Handle{
		id:         uuid.New().String(),
		generation: generation,
		force:      force,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Generation() uint64 {
	return h.generation
}

func (h *Handle) ForceBypassCache() bool {
	return h.force
}

// Cancel aborts the request. The handle's result will not be delivered.
func (h *Handle) Cancel() {
	h.mu.Lock()
	h.superseded = true
	h.mu.Unlock()

	h.cancel()
}

func (h *Handle) Superseded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.superseded
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) pending() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}
