package models

import "time"

// AlertStatusActive is the only status the client writes.
const AlertStatusActive = "active"

// PriceAlert is a locally stored watch on a product's price.
type PriceAlert struct {
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	CurrentPrice float64   `json:"currentPrice"`
	DateAdded    time.Time `json:"dateAdded"`
	Status       string    `json:"status"`
}
