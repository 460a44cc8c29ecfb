package pricing

import (
	"fmt"
	"strings"

	"katalog/internal/models"
)

// CategoryDiscount applies a percentage discount to products of a single
// category. Products of other categories pass through unchanged.
//
// The discount is applied to the inner chain's result, not to the
// product's base price, so stacked discounts compound multiplicatively
// in the order the chain was built.
type CategoryDiscount struct {
	inner    Calculator
	category string
	percent  float64
}

// NewCategoryDiscount creates a CategoryDiscount wrapping inner.
// percent is a fraction in [0,1]; out-of-range values fail here rather
// than producing nonsensical totals later.
func NewCategoryDiscount(inner Calculator, category string, percent float64) (*CategoryDiscount, error) {
	if err := validatePercent(percent); err != nil {
		return nil, fmt.Errorf("category discount for %q: %w", category, err)
	}
	return &CategoryDiscount{
		inner:    inner,
		category: category,
		percent:  percent,
	}, nil
}

// Total returns the inner total, reduced by the configured percentage
// when the product's category matches (case-insensitive).
func (d *CategoryDiscount) Total(product models.Product) float64 {
	base := d.inner.Total(product)
	if strings.EqualFold(product.Category, d.category) {
		return base * (1 - d.percent)
	}
	return base
}

// Describe appends this discount's fragment to the inner description.
func (d *CategoryDiscount) Describe() string {
	return joinDescription(d.inner.Describe(), fmt.Sprintf("%g%% off %s", d.percent*100, d.category))
}

// CouponDiscount applies a percentage discount unconditionally to every
// product, regardless of category.
type CouponDiscount struct {
	inner   Calculator
	code    string
	percent float64
}

// NewCouponDiscount creates a CouponDiscount wrapping inner. code is the
// coupon code used in the description and may be empty. percent is a
// fraction in [0,1], validated at construction.
func NewCouponDiscount(inner Calculator, code string, percent float64) (*CouponDiscount, error) {
	if err := validatePercent(percent); err != nil {
		return nil, fmt.Errorf("coupon discount: %w", err)
	}
	return &CouponDiscount{
		inner:   inner,
		code:    code,
		percent: percent,
	}, nil
}

// Total returns the inner total reduced by the coupon percentage.
func (d *CouponDiscount) Total(product models.Product) float64 {
	return d.inner.Total(product) * (1 - d.percent)
}

// Describe appends the coupon fragment to the inner description.
func (d *CouponDiscount) Describe() string {
	fragment := fmt.Sprintf("coupon %g%% off", d.percent*100)
	if d.code != "" {
		fragment = fmt.Sprintf("coupon %s (%g%% off)", d.code, d.percent*100)
	}
	return joinDescription(d.inner.Describe(), fragment)
}

// ShippingFee adds a flat per-category shipping surcharge on top of the
// inner chain's result. Unlike the discount decorators it is additive,
// so it is placed outermost by the chain builder: the value it returns
// means "discounted price plus shipping", not "discounted price".
type ShippingFee struct {
	inner       Calculator
	rates       map[string]float64
	defaultRate float64
}

// NewShippingFee creates a ShippingFee wrapping inner. rates maps
// category names (matched case-insensitively) to flat fees; categories
// without an entry use defaultRate.
func NewShippingFee(inner Calculator, rates map[string]float64, defaultRate float64) *ShippingFee {
	normalized := make(map[string]float64, len(rates))
	for category, rate := range rates {
		normalized[strings.ToLower(category)] = rate
	}
	return &ShippingFee{
		inner:       inner,
		rates:       normalized,
		defaultRate: defaultRate,
	}
}

// Total returns the inner total plus the shipping fee for the product's
// category.
func (s *ShippingFee) Total(product models.Product) float64 {
	total := s.inner.Total(product)
	if rate, ok := s.rates[strings.ToLower(product.Category)]; ok {
		return total + rate
	}
	return total + s.defaultRate
}

// Describe appends the shipping fragment to the inner description.
func (s *ShippingFee) Describe() string {
	return joinDescription(s.inner.Describe(), "shipping included")
}
