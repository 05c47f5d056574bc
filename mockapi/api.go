package mockapi

import (
	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
	"github.com/thedemo/productsd/product"
	"net"
	"net/http"
	"sync"
	"time"
)

type Config struct {
	Products []product.Product
	Log      Logger
}

// Api serves a fixed product list the way the real backend does, with knobs
// for failures and latency.
type Api struct {
	router     *mux.Router
	log        Logger
	mu         sync.Mutex
	products   []product.Product
	failing    bool
	delay      time.Duration
	requests   int
	bypassed   int
	lastHeader http.Header
}

func New(config *Config) *Api {
	api := &Api{
		router:   mux.NewRouter(),
		products: config.Products,
	}

	if config.Log != nil {
		api.log = config.Log
	} else {
		api.log = noopLogger{}
	}

	if api.products == nil {
		api.products = Fixture()
	}

	api.router.Use(api.loggingMiddleware)
	api.router.Handle("/api/v1/status", api.handleGetStatus()).Methods(http.MethodGet)
	api.router.Handle("/api/v1/products", api.handleGetProducts()).Methods(http.MethodGet)

	return api
}

func (a *Api) Handler() http.Handler {
	return a.router
}

func (a *Api) Serve(l net.Listener) error {
	err := http.Serve(l, a.router)
	if err != nil {
		return errors.Errorf("could not serve mock product api on %v: %v", l.Addr(), err)
	}

	return nil
}

func (a *Api) SetFailing(failing bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.failing = failing
}

func (a *Api) SetDelay(delay time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.delay = delay
}

func (a *Api) SetProducts(products []product.Product) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.products = products
}

// Requests returns how many product requests were received and how many of
// them asked to bypass caches with both Cache-Control and Pragma.
func (a *Api) Requests() (total int, bypassed int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.requests, a.bypassed
}

// LastHeader returns the headers of the latest product request.
func (a *Api) LastHeader() http.Header {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.lastHeader
}

func (a *Api) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.log.Debugf("%v %v", r.Method, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}
