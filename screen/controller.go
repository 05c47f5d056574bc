package screen

import (
	"github.com/go-errors/errors"
	"github.com/juju/clock"
	"github.com/thedemo/productsd/banner"
	"github.com/thedemo/productsd/connectivity"
	"github.com/thedemo/productsd/product"
	"github.com/thedemo/productsd/request"
	"sync"
	"time"
)

type Config struct {
	Fetcher  product.Fetcher
	Reporter connectivity.Reporter
	View     View
	Clock    clock.Clock
	AutoHide time.Duration
	Logger   Logger
}

// Controller drives the products screen. Reachability events, gestures and
// fetch completions are applied one at a time on the goroutine calling Run.
type Controller struct {
	reporter  connectivity.Reporter
	view      View
	log       Logger
	slot      *request.Slot
	banner    *banner.Banner
	actions   chan func()
	done      chan struct{}
	closeOnce sync.Once
	connected bool
	list      *ProductList
}

func NewController(config *Config) (*Controller, error) {
	if config.Fetcher == nil {
		return nil, errors.New("a product fetcher is required")
	}

	if config.Reporter == nil {
		return nil, errors.New("a connectivity reporter is required")
	}

	if config.View == nil {
		return nil, errors.New("a view is required")
	}

	c := &Controller{
		reporter: config.Reporter,
		view:     config.View,
		actions:  make(chan func(), 16),
		done:     make(chan struct{}),
		list:     NewProductList(nil),
	}

	if config.Logger != nil {
		c.log = config.Logger
	} else {
		c.log = noopLogger{}
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.WallClock
	}

	c.slot = request.NewSlot(&request.Config{
		Fetcher:  config.Fetcher,
		Consumer: c.consume,
		Deliver:  c.post,
		Logger:   c.log,
	})

	c.banner = banner.New(&banner.Config{
		Renderer: banner.RendererFunc(c.view.Render),
		Clock:    &loopClock{Clock: clk, post: c.post},
		AutoHide: config.AutoHide,
		Logger:   c.log,
	})

	return c, nil
}

// Run loads the products and blocks until Shutdown is called.
func (c *Controller) Run() error {
	client := c.reporter.Subscribe()

	defer func() {
		client.Cancel()
		c.slot.Cancel()
		c.banner.Close()
	}()

	state := c.reporter.CurrentState()
	c.connected = state == connectivity.Online

	c.log.Infof("Starting products screen (connectivity %v)", state)

	// the launch state counts as the first event, so an offline launch shows
	// the offline banner and an online one shows nothing
	c.banner.Handle(connectivity.EventFor(state))

	c.loadData()

	for {
		select {
		case event := <-client.Events:
			c.log.Debugf("Connectivity event %v", event)

			c.connected = event == connectivity.BecameReachable
			c.banner.Handle(event)

		case action := <-c.actions:
			action()

		case <-c.done:
			c.log.Infof("Stopped products screen")
			return nil
		}
	}
}

func (c *Controller) Shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Refresh is the pull-to-refresh gesture.
func (c *Controller) Refresh() {
	c.post(func() {
		c.banner.Gesture()
		c.loadData()
	})
}

// Scroll is the user starting to drag the grid.
func (c *Controller) Scroll() {
	c.post(func() {
		c.banner.Gesture()
	})
}

// RefreshButton scrolls back to the first product and reloads.
func (c *Controller) RefreshButton() {
	c.post(func() {
		c.view.ScrollToTop()
		c.loadData()
		c.banner.Gesture()
	})
}

// Select reports the product at index i to the view.
func (c *Controller) Select(i int) {
	c.post(func() {
		p, err := c.list.Selected(i)
		if err != nil {
			c.log.Warnf("Could not select product: %v", err)
			return
		}

		c.log.Infof("Selected product %v", p.ID)

		c.view.ShowDetails(p)
	})
}

func (c *Controller) post(action func()) {
	select {
	case c.actions <- action:
	case <-c.done:
	}
}

func (c *Controller) loadData() {
	c.view.SetRefreshing(true)

	handle := c.slot.Fetch(c.connected)

	c.log.Debugf("Loading products with request %v", handle.ID())
}

func (c *Controller) consume(result *request.Result) {
	c.view.SetRefreshing(false)

	if result.Err != nil {
		c.log.Errorf("Could not load products: %v", result.Err)
		c.view.ShowError(result.Err)
		return
	}

	c.list = NewProductList(result.Collection)

	c.log.Infof("Loaded %v products", c.list.ItemCount())

	c.view.ShowProducts(c.list)
}
