package product

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Valid reports whether the image carries the pixel dimensions the grid
// layout depends on.
func (i Image) Valid() bool {
	return i.Width > 0 && i.Height > 0
}

type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image Image  `json:"image"`
}

type Collection struct {
	Products []Product `json:"data"`
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}

	return len(c.Products)
}
