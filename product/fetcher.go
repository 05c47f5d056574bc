package product

import (
	"context"
	"encoding/json"
	"github.com/go-errors/errors"
	"golang.org/x/net/context/ctxhttp"
	"net/http"
)

// Fetcher is the remote collaborator that knows how to load the product
// list. Cancelling ctx aborts the request.
type Fetcher interface {
	GetProducts(ctx context.Context, forceBypassCache bool) (*Collection, error)
}

// check HttpFetcher compliance to its interface during compile time
var _ Fetcher = (*HttpFetcher)(nil)

type Config struct {
	Endpoint string
	Client   *http.Client
	Logger   Logger
}

type HttpFetcher struct {
	endpoint string
	client   *http.Client
	log      Logger
}

func NewHttpFetcher(config *Config) *HttpFetcher {
	fetcher := &HttpFetcher{
		endpoint: config.Endpoint,
		client:   config.Client,
	}

	if fetcher.client == nil {
		fetcher.client = http.DefaultClient
	}

	if config.Logger != nil {
		fetcher.log = config.Logger
	} else {
		fetcher.log = noopLogger{}
	}

	return fetcher
}

func (f *HttpFetcher) GetProducts(ctx context.Context, forceBypassCache bool) (*Collection, error) {
	req, err := http.NewRequest(http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, networkError(errors.Errorf("could not create request: %v", err))
	}

	req.Header.Set("Accept", "application/json")

	if forceBypassCache {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	f.log.Debugf("Requesting products from %v (bypass cache: %v)", f.endpoint, forceBypassCache)

	res, err := ctxhttp.Do(ctx, f.client, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, networkError(errors.Errorf("could not request products: %v", err))
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, networkError(errors.Errorf("unexpected status %v", res.Status))
	}

	collection := &Collection{}

	err = json.NewDecoder(res.Body).Decode(collection)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, decodeError(errors.Errorf("could not decode products: %v", err))
	}

	if collection.Products == nil {
		return nil, decodeError(errors.New("response is missing the data field"))
	}

	for i, p := range collection.Products {
		if !p.Image.Valid() {
			return nil, decodeError(errors.Errorf("product %v at %v has no image dimensions", p.ID, i))
		}
	}

	f.log.Debugf("Received %v products", len(collection.Products))

	return collection, nil
}
