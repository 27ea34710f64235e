package cart

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LineItem is one distinct product in the cart, uniquely keyed by ProductID.
// The JSON shape matches the serialized form persisted under the cart key.
type LineItem struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Image     string   `json:"image"`
	AltNames  []string `json:"altNames"`
	Size      string   `json:"size"`
	Color     string   `json:"color"`
}

func (l LineItem) clone() LineItem {
	out := l
	out.AltNames = append([]string(nil), l.AltNames...)
	return out
}

// Product is the input payload for AddItem. Catalog payloads sometimes carry
// the identifier under the legacy _id field, hence the required_without rule.
type Product struct {
	ProductID     string   `json:"productId" validate:"required_without=LegacyID"`
	LegacyID      string   `json:"_id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price" validate:"gte=0"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	AltNames      []string `json:"altNames"`
	SelectedSize  string   `json:"selectedSize"`
	SelectedColor string   `json:"selectedColor"`
}

// ID resolves the product identifier, preferring the modern field.
func (p Product) ID() string {
	if id := strings.TrimSpace(p.ProductID); id != "" {
		return id
	}
	return strings.TrimSpace(p.LegacyID)
}

const defaultProductName = "Unnamed Product"

// lineFromProduct defaults the display fields the way the storefront does.
func lineFromProduct(product Product, quantity int) LineItem {
	name := product.Name
	if name == "" {
		name = defaultProductName
	}
	image := product.Image
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return LineItem{
		ProductID: product.ID(),
		Name:      name,
		Price:     product.Price,
		Quantity:  quantity,
		Image:     image,
		AltNames:  append([]string(nil), product.AltNames...),
		Size:      product.SelectedSize,
		Color:     product.SelectedColor,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}
