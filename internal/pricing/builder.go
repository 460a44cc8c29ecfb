package pricing

import (
	"fmt"
	"sort"
)

// Options describes the pricing rules to assemble into a chain.
// Absent rules are skipped entirely rather than inserted as no-op
// wrappers, keeping Describe() output minimal.
type Options struct {
	// CategoryDiscounts maps category names to discount fractions in
	// [0,1]. Each entry becomes one CategoryDiscount wrapper.
	CategoryDiscounts map[string]float64

	// CouponCode and CouponPercent add a CouponDiscount when
	// CouponPercent is non-zero or CouponCode is non-empty.
	CouponCode    string
	CouponPercent float64

	// IncludeShipping adds a ShippingFee as the outermost wrapper,
	// using ShippingRates (per category) and DefaultShippingRate.
	IncludeShipping     bool
	ShippingRates       map[string]float64
	DefaultShippingRate float64
}

// Build assembles a pricing chain from the given options.
//
// The composition order is a documented contract: basic price, then one
// category discount per configured category (in category name order,
// for deterministic descriptions), then the coupon discount, then the
// shipping fee. Percentage discounts therefore compound multiplicatively
// before the additive shipping step.
func Build(opts Options) (Calculator, error) {
	var chain Calculator = NewBasicPrice()

	categories := make([]string, 0, len(opts.CategoryDiscounts))
	for category := range opts.CategoryDiscounts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		wrapped, err := NewCategoryDiscount(chain, category, opts.CategoryDiscounts[category])
		if err != nil {
			return nil, fmt.Errorf("failed to build pricing chain: %w", err)
		}
		chain = wrapped
	}

	if opts.CouponCode != "" || opts.CouponPercent != 0 {
		wrapped, err := NewCouponDiscount(chain, opts.CouponCode, opts.CouponPercent)
		if err != nil {
			return nil, fmt.Errorf("failed to build pricing chain: %w", err)
		}
		chain = wrapped
	}

	if opts.IncludeShipping {
		chain = NewShippingFee(chain, opts.ShippingRates, opts.DefaultShippingRate)
	}

	return chain, nil
}
