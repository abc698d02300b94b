package analytics

import (
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/promo"
	"github.com/shopspring/decimal"
)

// BusinessSummary is the financial roll-up for a date window. Simple
// arithmetic over already-fetched rows; revenue counts only orders that
// reached the customer.
type BusinessSummary struct {
	OrderCount     int    `json:"order_count"`
	DeliveredCount int    `json:"delivered_count"`
	CancelledCount int    `json:"cancelled_count"`
	Revenue        string `json:"revenue"`
	Discounts      string `json:"discounts"`
	ShippingFees   string `json:"shipping_fees"`
	AverageOrder   string `json:"average_order"`
}

// Summarize aggregates orders into a BusinessSummary. Discounts are
// resolved through the effective-discount rule so legacy rows without a
// persisted DiscountTotal still count.
func Summarize(orders []models.Order) BusinessSummary {
	var (
		revenue   = decimal.Zero
		discounts = decimal.Zero
		shipping  = decimal.Zero
		delivered int
		cancelled int
	)

	for i := range orders {
		o := &orders[i]
		switch {
		case o.Status == models.StatusDelivered || o.Status == models.StatusCompleted:
			delivered++
			revenue = revenue.Add(promo.EffectiveTotal(o))
			shipping = shipping.Add(o.ShippingTotal)
			discounts = discounts.Add(promo.EffectiveDiscount(o))
		case o.Status.IsFailureClass():
			cancelled++
		}
	}

	avg := decimal.Zero
	if delivered > 0 {
		avg = revenue.Div(decimal.NewFromInt(int64(delivered))).Round(2)
	}

	return BusinessSummary{
		OrderCount:     len(orders),
		DeliveredCount: delivered,
		CancelledCount: cancelled,
		Revenue:        revenue.StringFixed(2),
		Discounts:      discounts.StringFixed(2),
		ShippingFees:   shipping.StringFixed(2),
		AverageOrder:   avg.StringFixed(2),
	}
}
