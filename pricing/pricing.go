package pricing

import (
	"github.com/shopspring/decimal"

	"fooddash/models"
)

var (
	// TaxRate is applied to the subtotal of every non-empty cart.
	TaxRate = decimal.RequireFromString("0.05")
	// DeliveryFee is flat per order; an empty cart pays nothing.
	DeliveryFee = decimal.NewFromInt(40)
)

// PriceOf resolves a product id to its catalog price. The bool reports
// whether the id is known.
type PriceOf func(productID int64) (decimal.Decimal, bool)

// Compute derives the pricing breakdown for a cart. Pure: it never mutates
// lines and has no other inputs than its arguments. Lines whose product is
// unknown to priceOf contribute nothing; the cart invariant keeps such lines
// out in the first place.
func Compute(lines []models.CartLine, priceOf PriceOf) models.Breakdown {
	subtotal := decimal.Zero
	for _, line := range lines {
		price, ok := priceOf(line.ProductID)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)

	fee := decimal.Zero
	if len(lines) > 0 {
		fee = DeliveryFee
	}

	return models.Breakdown{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       subtotal.Add(tax).Add(fee),
	}
}
