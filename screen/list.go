package screen

import (
	"github.com/go-errors/errors"
	"github.com/thedemo/productsd/product"
)

// ListRenderer is what a grid needs to draw the products and report taps.
type ListRenderer interface {
	ItemCount() int
	RenderItem(i int) (product.Product, error)
	Selected(i int) (product.Product, error)
}

// check ProductList compliance to its interface during compile time
var _ ListRenderer = (*ProductList)(nil)

// ProductList is an immutable snapshot of a product collection.
type ProductList struct {
	products []product.Product
}

func NewProductList(collection *product.Collection) *ProductList {
	list := &ProductList{}

	if collection != nil {
		list.products = make([]product.Product, len(collection.Products))
		copy(list.products, collection.Products)
	}

	return list
}

func (l *ProductList) ItemCount() int {
	return len(l.products)
}

func (l *ProductList) RenderItem(i int) (product.Product, error) {
	return l.at(i)
}

func (l *ProductList) Selected(i int) (product.Product, error) {
	return l.at(i)
}

func (l *ProductList) at(i int) (product.Product, error) {
	if i < 0 || i >= len(l.products) {
		return product.Product{}, errors.Errorf("no product at %v, have %v", i, len(l.products))
	}

	return l.products[i], nil
}
