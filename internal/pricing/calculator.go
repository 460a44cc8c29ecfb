package pricing

import (
	"fmt"

	"katalog/internal/models"
)

// Calculator computes the effective price of a product.
//
// Implementations form a decorator chain: BasicPrice is the leaf and
// returns the product's base price, while each decorator wraps exactly
// one inner Calculator and transforms its result. Chains are singly
// linked, built fresh per operation, and never mutated afterwards.
type Calculator interface {
	// Total returns the effective price for the given product. It is a
	// pure function: malformed input (e.g. a negative base price) flows
	// through arithmetically rather than being rejected here.
	Total(product models.Product) float64
	// Describe returns a human-readable summary of the pricing rules in
	// the chain, with the fragments of active rules joined by " + ".
	Describe() string
}

// DescribeNone is the description of a chain with no pricing rules.
// Decorators must omit it from composed descriptions, so it only ever
// appears when BasicPrice is the whole chain.
const DescribeNone = "base price"

// BasicPrice is the leaf calculator. It returns the product's base
// price unchanged and never fails.
type BasicPrice struct{}

// NewBasicPrice creates a new BasicPrice calculator.
func NewBasicPrice() BasicPrice {
	return BasicPrice{}
}

// Total returns the product's base price.
func (BasicPrice) Total(product models.Product) float64 {
	return product.Price
}

// Describe returns the no-rules sentinel.
func (BasicPrice) Describe() string {
	return DescribeNone
}

// validatePercent checks that a discount fraction lies in [0,1].
// Calculators never clamp at evaluation time, so an out-of-range value
// is rejected when the chain is constructed.
func validatePercent(percent float64) error {
	if percent < 0 || percent > 1 {
		return fmt.Errorf("discount percent must be a fraction between 0 and 1, got %v", percent)
	}
	return nil
}

// joinDescription appends a decorator's own fragment to the inner
// chain's description, dropping the DescribeNone sentinel.
func joinDescription(inner, fragment string) string {
	if inner == DescribeNone {
		return fragment
	}
	return inner + " + " + fragment
}
