package models

import "github.com/shopspring/decimal"

// Product is a menu entry loaded from the store. Immutable for the session.
type Product struct {
	ID     int64
	Name   string
	Price  decimal.Decimal
	Rating string
	Image  string
}

// DefaultRating is shown for products the store has no rating for yet.
const DefaultRating = "4.5 ★ (0)"
