package screen

import (
	"github.com/thedemo/productsd/banner"
	"github.com/thedemo/productsd/product"
)

// View renders what the controller decides. All calls are made from the
// controller's loop goroutine.
type View interface {
	ShowProducts(list ListRenderer)
	SetRefreshing(on bool)
	ScrollToTop()
	Render(effect banner.Effect)
	ShowDetails(p product.Product)
	ShowError(err error)
}
