package promo

import (
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/shopspring/decimal"
)

// EffectiveDiscount returns the discount to display for an order.
//
// The canonical rule is that checkout persists DiscountTotal, so a
// populated value wins. Rows created before that rule only carry the promo
// percentage snapshot; for those the discount is derived from the subtotal
// at read time. This derived path is a backward-compatible fallback, never
// the primary computation.
func EffectiveDiscount(o *models.Order) decimal.Decimal {
	if !o.DiscountTotal.IsZero() {
		return o.DiscountTotal
	}
	if o.AppliedPromoCode == nil || o.PromoPercentage == nil {
		return decimal.Zero
	}
	pct := *o.PromoPercentage
	if pct.LessThan(decimal.Zero) {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return o.Subtotal.Mul(pct).Div(hundred).Round(2)
}

// EffectiveTotal is subtotal - discount + shipping + tax, with the
// discount resolved through EffectiveDiscount. For orders with a persisted
// non-zero DiscountTotal this must agree with the stored GrandTotal; a
// mismatch indicates a data-migration problem upstream.
func EffectiveTotal(o *models.Order) decimal.Decimal {
	return o.Subtotal.
		Sub(EffectiveDiscount(o)).
		Add(o.ShippingTotal).
		Add(o.TaxTotal)
}
