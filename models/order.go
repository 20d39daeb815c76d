package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryDetails is the customer-entered delivery form.
type DeliveryDetails struct {
	Name    string
	Phone   string
	Address string
}

// OrderItem is a cart line snapshotted at submission time with the product
// name and price frozen in.
type OrderItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

// OrderPayload is the snapshot handed to the store. Once built it is
// independent of any further cart mutation.
type OrderPayload struct {
	CustomerName string
	Phone        string
	Address      string
	Items        []OrderItem
	TotalAmount  decimal.Decimal
}

// Order is a persisted order as read back from the store.
type Order struct {
	ID           int64
	CustomerName string
	Phone        string
	Address      string
	Items        []OrderItem
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
}
