package types

// Promotion records one applied promotion on an order.
type Promotion struct {
	Description string  `json:"description"`
	Percent     float64 `json:"percent"`
}

// Promotions is stored on orders as a jsonb column.
type Promotions []Promotion
