package totals

import (
	"invoice-link-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places money amounts are rounded to.
const Places = 2

type Totals struct {
	Subtotal float64
	Total    float64
}

// Calculate recomputes an invoice's subtotal and total from its line items.
//
//	subtotal = round(Σ quantity × unit_price, 2)
//	total    = round(max(Σ quantity × unit_price + tax − discount, 0), 2)
//
// The total is taken from the unrounded line sum. Rounding is half away from
// zero, which for these non-negative amounts is half-up.
func Calculate(items []models.InvoiceItem, tax, discount float64) Totals {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Quantity).Mul(decimal.NewFromFloat(item.UnitPrice))
		sum = sum.Add(line)
	}

	total := sum.Add(decimal.NewFromFloat(tax)).Sub(decimal.NewFromFloat(discount))
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: sum.Round(Places).InexactFloat64(),
		Total:    total.Round(Places).InexactFloat64(),
	}
}

// Apply overwrites the invoice's subtotal and total with server-computed
// values.
func Apply(inv *models.Invoice) {
	t := Calculate(inv.Items, inv.Tax, inv.Discount)
	inv.Subtotal = t.Subtotal
	inv.Total = t.Total
}
