package extractor

import (
	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/numeric"
)

// DeriveSubtotal normalizes the receipt's printed subtotal, defaulting to 0
// when absent or unreadable.
func DeriveSubtotal(r *models.Receipt) float64 {
	if r == nil {
		return 0
	}
	v, ok := numeric.Normalize(r.Subtotal.String(), numeric.Price)
	if !ok {
		return 0
	}
	return v
}

// DeriveTotalDiscount sums the receipt's discount lines, skipping any whose
// amount cannot be read.
func DeriveTotalDiscount(r *models.Receipt) float64 {
	if r == nil {
		return 0
	}
	var total float64
	for _, d := range r.Discounts {
		if v, ok := numeric.Normalize(d.Amount.String(), numeric.Price); ok {
			total += v
		}
	}
	return total
}

// Empty reports whether an extraction produced nothing usable: no line items
// and no grand total.
func Empty(r *models.Receipt) bool {
	return r == nil || (len(r.LineItems) == 0 && r.TotalAmount == "")
}
