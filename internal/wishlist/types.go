package wishlist

// Entry is one saved product in the wishlist.
type Entry struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
}

// Product is the input payload for Add.
type Product struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Images    []string `json:"images"`
	Category  string   `json:"category"`
}

const defaultImage = "/default-product.jpg"

func entryFromProduct(product Product) Entry {
	image := defaultImage
	if len(product.Images) > 0 && product.Images[0] != "" {
		image = product.Images[0]
	}
	return Entry{
		ProductID: product.ProductID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     image,
		Category:  product.Category,
	}
}
