// Package promo evaluates discount codes against order line items.
//
// Two mutually exclusive strategies exist: percentage-off and
// buy-X-get-Y-free (BOGO), each applied either to the whole cart or to a
// named subset of product slugs. All arithmetic is decimal; results are
// rounded to currency precision only at the boundary.
package promo

import (
	"sort"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/shopspring/decimal"
)

// FreeUnitPolicy selects which units of a complete BOGO group are free.
// CheapestFirst is the merchant-favorable default; the original order data
// never confirmed the opposite reading, so the policy stays pluggable.
type FreeUnitPolicy int

const (
	CheapestFirst FreeUnitPolicy = iota
	DearestFirst
)

var hundred = decimal.NewFromInt(100)

// Evaluate returns the discount a promo code grants over the given line
// items, using the default free-unit policy.
func Evaluate(code models.PromoCode, items []models.OrderItem) decimal.Decimal {
	return EvaluateWithPolicy(code, items, CheapestFirst)
}

// EvaluateWithPolicy is Evaluate with an explicit BOGO free-unit policy.
func EvaluateWithPolicy(code models.PromoCode, items []models.OrderItem, policy FreeUnitPolicy) decimal.Decimal {
	eligible := eligibleItems(code, items)
	if len(eligible) == 0 {
		return decimal.Zero
	}
	if code.IsBOGO {
		return bogoDiscount(code.BogoBuyCount, code.BogoGetCount, eligible, policy)
	}
	return percentageDiscount(code.PercentageOff, eligible)
}

// EligibleSubtotal sums unit_price*quantity over the items in the code's
// scope. Exposed because the storefront shows it next to the discount.
func EligibleSubtotal(code models.PromoCode, items []models.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range eligibleItems(code, items) {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func eligibleItems(code models.PromoCode, items []models.OrderItem) []models.OrderItem {
	if code.AllCart {
		return items
	}
	var out []models.OrderItem
	for _, it := range items {
		if code.AppliesTo(it.Slug) {
			out = append(out, it)
		}
	}
	return out
}

// percentageDiscount clamps to [0,100] before applying; creation-time
// validation exists but old rows predate it.
func percentageDiscount(pct decimal.Decimal, items []models.OrderItem) decimal.Decimal {
	if pct.LessThan(decimal.Zero) {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum.Mul(pct).Div(hundred).Round(2)
}

// bogoDiscount flattens the eligible items into one unit-price sequence,
// partitions it into groups of (buy+get) and frees `get` units per
// complete group. A partial trailing group grants nothing.
func bogoDiscount(buy, get int, items []models.OrderItem, policy FreeUnitPolicy) decimal.Decimal {
	if buy < 1 || get < 1 {
		return decimal.Zero
	}

	var units []decimal.Decimal
	for _, it := range items {
		for q := 0; q < it.Quantity; q++ {
			units = append(units, it.UnitPrice)
		}
	}

	groupSize := buy + get
	complete := len(units) / groupSize
	if complete == 0 {
		return decimal.Zero
	}

	// Ascending puts the cheapest units at the front of each group.
	sort.Slice(units, func(i, j int) bool { return units[i].LessThan(units[j]) })
	if policy == DearestFirst {
		for i, j := 0, len(units)-1; i < j; i, j = i+1, j-1 {
			units[i], units[j] = units[j], units[i]
		}
	}

	discount := decimal.Zero
	for g := 0; g < complete; g++ {
		for f := 0; f < get; f++ {
			discount = discount.Add(units[g*groupSize+f])
		}
	}
	return discount.Round(2)
}
