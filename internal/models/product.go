package models

// ProductSnapshot is the transient product record returned by the product
// validation service. It is never persisted; it only prices an order at
// creation time and attaches display names on reads.
type ProductSnapshot struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}
