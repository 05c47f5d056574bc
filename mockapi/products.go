package mockapi

import (
	"github.com/thedemo/productsd/product"
	"net/http"
	"time"
)

type statusResponse struct {
	Products int  `json:"products"`
	Failing  bool `json:"failing"`
}

type productsResponse struct {
	Data []product.Product `json:"data"`
}

func (a *Api) handleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		res := &statusResponse{
			Products: len(a.products),
			Failing:  a.failing,
		}
		a.mu.Unlock()

		a.jsonResponse(w, res, http.StatusOK)
	}
}

func (a *Api) handleGetProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.requests++
		a.lastHeader = r.Header.Clone()
		if r.Header.Get("Cache-Control") == "no-cache" && r.Header.Get("Pragma") == "no-cache" {
			a.bypassed++
		}
		failing := a.failing
		delay := a.delay
		products := a.products
		a.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if failing {
			a.jsonError(w, "products are unavailable", http.StatusServiceUnavailable)
			return
		}

		a.jsonResponse(w, &productsResponse{Data: products}, http.StatusOK)
	}
}

// Fixture is the product list served when none is configured.
func Fixture() []product.Product {
	return []product.Product{
		{ID: "1", Title: "Desk lamp", Image: product.Image{URL: "https://images.example.com/1.jpg", Width: 320, Height: 480}},
		{ID: "2", Title: "Notebook", Image: product.Image{URL: "https://images.example.com/2.jpg", Width: 320, Height: 240}},
		{ID: "3", Title: "Coffee mug", Image: product.Image{URL: "https://images.example.com/3.jpg", Width: 320, Height: 320}},
		{ID: "4", Title: "Headphones", Image: product.Image{URL: "https://images.example.com/4.jpg", Width: 320, Height: 400}},
	}
}
