package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPromoCodeEmpty     = errors.New("promo code must not be empty")
	ErrPromoPercentRange  = errors.New("percentage must be between 0 and 100")
	ErrPromoBogoCounts    = errors.New("bogo buy and get counts must be at least 1")
	ErrPromoMixedStrategy = errors.New("a promo code is either percentage or bogo, not both")
	ErrPromoScopeSlugs    = errors.New("eligible product slugs required unless the code applies to the whole cart")
	ErrPromoScopeAllCart  = errors.New("whole-cart codes must not list eligible slugs")

	promoValidationErrs = []error{
		ErrPromoCodeEmpty, ErrPromoPercentRange, ErrPromoBogoCounts,
		ErrPromoMixedStrategy, ErrPromoScopeSlugs, ErrPromoScopeAllCart,
	}
)

// PromoCode is created once by an admin and immutable afterwards.
// Exactly one of the percentage / BOGO strategies is active per code.
type PromoCode struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	IsBOGO        bool            `gorm:"column:is_bogo;default:false" json:"is_bogo"`
	PercentageOff decimal.Decimal `gorm:"type:decimal(5,2)" json:"percentage_off"`
	BogoBuyCount  int             `json:"bogo_buy_count"`
	BogoGetCount  int             `json:"bogo_get_count"`
	AllCart       bool            `gorm:"default:true" json:"all_cart"`
	EligibleSlugs []string        `gorm:"serializer:json;type:text" json:"eligible_product_slugs"`
	CreatedBy     string          `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (PromoCode) TableName() string {
	return "promo_codes"
}

// Normalize uppercases the code; lookups are case-insensitive.
func (p *PromoCode) Normalize() {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
}

// Validate enforces the creation-time invariants. The evaluator still
// clamps the percentage for rows that predate validation.
func (p *PromoCode) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return ErrPromoCodeEmpty
	}
	if p.IsBOGO {
		if p.BogoBuyCount < 1 || p.BogoGetCount < 1 {
			return ErrPromoBogoCounts
		}
		if !p.PercentageOff.IsZero() {
			return ErrPromoMixedStrategy
		}
	} else {
		if p.PercentageOff.LessThan(decimal.Zero) || p.PercentageOff.GreaterThan(decimal.NewFromInt(100)) {
			return ErrPromoPercentRange
		}
		if p.BogoBuyCount != 0 || p.BogoGetCount != 0 {
			return ErrPromoMixedStrategy
		}
	}
	if p.AllCart && len(p.EligibleSlugs) > 0 {
		return ErrPromoScopeAllCart
	}
	if !p.AllCart && len(p.EligibleSlugs) == 0 {
		return ErrPromoScopeSlugs
	}
	return nil
}

// IsPromoValidation reports whether err is one of the creation-time
// validation errors, so callers can map it to a client error.
func IsPromoValidation(err error) bool {
	for _, e := range promoValidationErrs {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// AppliesTo reports whether a product slug is in the code's scope.
func (p *PromoCode) AppliesTo(slug string) bool {
	if p.AllCart {
		return true
	}
	for _, s := range p.EligibleSlugs {
		if s == slug {
			return true
		}
	}
	return false
}
