package models

import "github.com/shopspring/decimal"

// CartLine is one product in the cart. Quantity is always >= 1; a line that
// would drop to zero is removed instead of stored.
type CartLine struct {
	ProductID int64
	Quantity  int
}

// Breakdown holds the derived pricing figures for a cart. All fields are
// rounded to two decimal places so live display and the submitted order can
// never disagree by a cent.
type Breakdown struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)
