package request

import (
	"context"
	qt "github.com/frankban/quicktest"
	"github.com/go-errors/errors"
	"github.com/thedemo/productsd/product"
	"testing"
	"time"
)

type reply struct {
	collection *product.Collection
	err        error
}

type call struct {
	force bool
	ctx   context.Context
	reply chan reply
}

// fakeFetcher hands every call to the test and blocks until the test
// replies, ignoring cancellation like a transport that completes anyway.
type fakeFetcher struct {
	calls chan *call
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(chan *call, 10)}
}

func (f *fakeFetcher) GetProducts(ctx context.Context, force bool) (*product.Collection, error) {
	c := &call{force: force, ctx: ctx, reply: make(chan reply, 1)}
	f.calls <- c
	r := <-c.reply
	return r.collection, r.err
}

func (f *fakeFetcher) next(c *qt.C) *call {
	select {
	case call := <-f.calls:
		return call
	case <-time.After(5 * time.Second):
		c.Fatal("fetcher was not called")
		return nil
	}
}

type harness struct {
	slot        *Slot
	fetcher     *fakeFetcher
	results     []*Result
	completions chan func()
}

func newHarness() *harness {
	h := &harness{
		fetcher:     newFakeFetcher(),
		completions: make(chan func(), 10),
	}

	h.slot = NewSlot(&Config{
		Fetcher:  h.fetcher,
		Consumer: func(r *Result) { h.results = append(h.results, r) },
		Deliver:  func(f func()) { h.completions <- f },
	})

	return h
}

// apply runs the next completion on the test goroutine, which plays the
// owner's sequencing context.
func (h *harness) apply(c *qt.C) {
	select {
	case f := <-h.completions:
		f()
	case <-time.After(5 * time.Second):
		c.Fatal("no completion was delivered")
	}
}

func products(ids ...string) *product.Collection {
	collection := &product.Collection{}
	for _, id := range ids {
		collection.Products = append(collection.Products, product.Product{
			ID:    id,
			Image: product.Image{Width: 1, Height: 1},
		})
	}
	return collection
}

func TestFetchDeliversOnce(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	handle := h.slot.Fetch(true)
	call := h.fetcher.next(c)
	c.Assert(call.force, qt.Equals, true)
	c.Assert(handle.ForceBypassCache(), qt.Equals, true)
	c.Assert(h.slot.Current(), qt.Equals, handle)

	call.reply <- reply{collection: products("a", "b")}
	h.apply(c)

	c.Assert(h.results, qt.HasLen, 1)
	c.Assert(h.results[0].Handle, qt.Equals, handle)
	c.Assert(h.results[0].Err, qt.IsNil)
	c.Assert(h.results[0].Collection.Len(), qt.Equals, 2)
	c.Assert(handle.Superseded(), qt.Equals, false)
}

func TestFetchCancelsPrevious(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	first := h.slot.Fetch(false)
	firstCall := h.fetcher.next(c)

	second := h.slot.Fetch(false)
	secondCall := h.fetcher.next(c)

	c.Assert(first.Superseded(), qt.Equals, true)
	c.Assert(firstCall.ctx.Err(), qt.Equals, context.Canceled)
	c.Assert(second.Generation() > first.Generation(), qt.Equals, true)
	c.Assert(second.ID(), qt.Not(qt.Equals), first.ID())

	secondCall.reply <- reply{collection: products("new")}
	h.apply(c)

	// the first transport completes after the second one
	firstCall.reply <- reply{collection: products("old")}
	h.apply(c)

	c.Assert(h.results, qt.HasLen, 1)
	c.Assert(h.results[0].Handle, qt.Equals, second)
	c.Assert(h.results[0].Collection.Products[0].ID, qt.Equals, "new")
}

func TestSupersededFailureIsDropped(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.slot.Fetch(false)
	firstCall := h.fetcher.next(c)

	second := h.slot.Fetch(false)
	secondCall := h.fetcher.next(c)

	firstCall.reply <- reply{err: errors.New("connection reset")}
	h.apply(c)

	secondCall.reply <- reply{collection: products("a")}
	h.apply(c)

	c.Assert(h.results, qt.HasLen, 1)
	c.Assert(h.results[0].Handle, qt.Equals, second)
	c.Assert(h.results[0].Err, qt.IsNil)
}

func TestOnlyMostRecentOfManyIsDelivered(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	var handles []*Handle
	var calls []*call
	for i := 0; i < 5; i++ {
		handles = append(handles, h.slot.Fetch(i%2 == 0))
		calls = append(calls, h.fetcher.next(c))
	}

	for i := len(calls) - 1; i >= 0; i-- {
		calls[i].reply <- reply{collection: products("x")}
		h.apply(c)
	}

	c.Assert(h.results, qt.HasLen, 1)
	c.Assert(h.results[0].Handle, qt.Equals, handles[len(handles)-1])
}

func TestFailureIsDelivered(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	h.slot.Fetch(false)
	call := h.fetcher.next(c)

	cause := errors.New("bad gateway")
	call.reply <- reply{err: &product.FetchError{Kind: product.NetworkError, Err: cause}}
	h.apply(c)

	c.Assert(h.results, qt.HasLen, 1)
	c.Assert(h.results[0].Collection, qt.IsNil)
	c.Assert(product.IsNetworkError(h.results[0].Err), qt.Equals, true)
}

func TestCancelDropsResult(t *testing.T) {
	c := qt.New(t)
	h := newHarness()

	handle := h.slot.Fetch(false)
	call := h.fetcher.next(c)

	h.slot.Cancel()
	c.Assert(handle.Superseded(), qt.Equals, true)

	call.reply <- reply{err: context.Canceled}
	h.apply(c)

	c.Assert(h.results, qt.HasLen, 0)

	select {
	case <-handle.Done():
	default:
		c.Fatal("handle is not done after its fetch returned")
	}
}

func TestInlineDelivery(t *testing.T) {
	c := qt.New(t)

	fetcher := newFakeFetcher()
	results := make(chan *Result, 1)

	slot := NewSlot(&Config{
		Fetcher:  fetcher,
		Consumer: func(r *Result) { results <- r },
	})

	handle := slot.Fetch(false)
	fetcher.next(c).reply <- reply{collection: products("a")}

	select {
	case r := <-results:
		c.Assert(r.Handle, qt.Equals, handle)
	case <-time.After(5 * time.Second):
		c.Fatal("result was not delivered")
	}
}
