package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPromoNormalize(t *testing.T) {
	p := PromoCode{Code: "  save10 "}
	p.Normalize()
	assert.Equal(t, "SAVE10", p.Code)
}

func TestPromoValidate(t *testing.T) {
	tests := []struct {
		name string
		code PromoCode
		want error
	}{
		{
			name: "valid percentage whole cart",
			code: PromoCode{Code: "SAVE10", PercentageOff: decimal.NewFromInt(10), AllCart: true},
		},
		{
			name: "valid bogo scoped",
			code: PromoCode{Code: "B1G1", IsBOGO: true, BogoBuyCount: 1, BogoGetCount: 1, EligibleSlugs: []string{"soap"}},
		},
		{
			name: "empty code",
			code: PromoCode{Code: "  ", PercentageOff: decimal.NewFromInt(10), AllCart: true},
			want: ErrPromoCodeEmpty,
		},
		{
			name: "percentage above 100",
			code: PromoCode{Code: "X", PercentageOff: decimal.NewFromInt(150), AllCart: true},
			want: ErrPromoPercentRange,
		},
		{
			name: "negative percentage",
			code: PromoCode{Code: "X", PercentageOff: decimal.NewFromInt(-5), AllCart: true},
			want: ErrPromoPercentRange,
		},
		{
			name: "bogo with zero buy count",
			code: PromoCode{Code: "X", IsBOGO: true, BogoGetCount: 1, AllCart: true},
			want: ErrPromoBogoCounts,
		},
		{
			name: "bogo carrying a percentage",
			code: PromoCode{Code: "X", IsBOGO: true, BogoBuyCount: 1, BogoGetCount: 1, PercentageOff: decimal.NewFromInt(10), AllCart: true},
			want: ErrPromoMixedStrategy,
		},
		{
			name: "percentage carrying bogo counts",
			code: PromoCode{Code: "X", PercentageOff: decimal.NewFromInt(10), BogoBuyCount: 1, AllCart: true},
			want: ErrPromoMixedStrategy,
		},
		{
			name: "scoped without slugs",
			code: PromoCode{Code: "X", PercentageOff: decimal.NewFromInt(10), AllCart: false},
			want: ErrPromoScopeSlugs,
		},
		{
			name: "whole cart with slugs",
			code: PromoCode{Code: "X", PercentageOff: decimal.NewFromInt(10), AllCart: true, EligibleSlugs: []string{"soap"}},
			want: ErrPromoScopeAllCart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.code.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
				assert.True(t, IsPromoValidation(err))
			}
		})
	}
}

func TestPromoAppliesTo(t *testing.T) {
	scoped := PromoCode{EligibleSlugs: []string{"soap", "body-oil"}}
	assert.True(t, scoped.AppliesTo("soap"))
	assert.False(t, scoped.AppliesTo("shampoo"))

	wholeCart := PromoCode{AllCart: true}
	assert.True(t, wholeCart.AppliesTo("anything"))
}
