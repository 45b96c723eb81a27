package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Money is a price that decodes leniently: anything but a JSON number
// becomes zero, which every consumer treats as "no price".
type Money float64

func (m *Money) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*m = 0
		return nil
	}
	*m = Money(f)
	return nil
}

// Offer is one retailer's listing for a product.
type Offer struct {
	Retailer      string `json:"retailer"`
	Price         Money  `json:"price"`
	OriginalPrice Money  `json:"originalPrice,omitempty"`
	URL           string `json:"url,omitempty"`
}

// Product is a catalog record. It is read-only for the client.
type Product struct {
	ID       string  `json:"product_id"`
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Specs    Specs   `json:"specs,omitempty"`
	Offers   []Offer `json:"offers,omitempty"`
}

type productWire struct {
	ProductID json.RawMessage `json:"product_id"`
	ID        json.RawMessage `json:"id"`
	Brand     string          `json:"brand"`
	Model     string          `json:"model"`
	Title     string          `json:"title"`
	ImageURL  string          `json:"imageUrl"`
	Image     string          `json:"image"`
	Specs     Specs           `json:"specs"`
	Offers    []Offer         `json:"offers"`
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var w productWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	p.ID = rawID(w.ProductID)
	if p.ID == "" {
		p.ID = rawID(w.ID)
	}
	p.Brand = w.Brand
	p.Model = firstNonEmpty(w.Model, w.Title)
	p.ImageURL = firstNonEmpty(w.ImageURL, w.Image)
	p.Specs = w.Specs
	p.Offers = w.Offers
	return nil
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// DisplayName is the model, or a placeholder when the record has none.
func (p Product) DisplayName() string {
	if p.Model == "" {
		return "Unknown Product"
	}
	return p.Model
}

// DisplayBrand is the brand, or a placeholder when the record has none.
func (p Product) DisplayBrand() string {
	if p.Brand == "" {
		return "Unknown Brand"
	}
	return p.Brand
}

// LowestPrice is the minimum positive offer price, or 0 when the product has
// no usable offer.
func (p Product) LowestPrice() float64 {
	lowest := math.Inf(1)
	for _, o := range p.Offers {
		if price := float64(o.Price); price > 0 && price < lowest {
			lowest = price
		}
	}
	if math.IsInf(lowest, 1) {
		return 0
	}
	return lowest
}

// OperatingSystem returns specs.Os["Operating System"], if present.
func (p Product) OperatingSystem() (string, bool) {
	return p.Specs.Lookup("Os", "Operating System")
}

// DecodeProducts accepts either a bare array or an object wrapping the array
// under "products", "smartphones" or "data". Anything else yields an empty
// list.
func DecodeProducts(b []byte) ([]Product, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []Product{}, nil
	}

	if b[0] == '[' {
		var list []Product
		if err := json.Unmarshal(b, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(b, &envelope); err != nil {
		return nil, err
	}
	for _, key := range []string{"products", "smartphones", "data"} {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		var list []Product
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	return []Product{}, nil
}

// FormatRand renders an amount as whole South African rand, e.g. R12,999.
func FormatRand(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "R" + b.String()
}
