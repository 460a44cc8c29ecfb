package filtering

import "katalog/internal/models"

// ProductFilter narrows a product collection by a chain of predicates.
//
// Implementations form a decorator chain: BaseFilter is the leaf and
// passes every product through, while each decorator wraps exactly one
// inner ProductFilter and further restricts its output. Filters compose
// as a logical AND: a product survives only if it passes every predicate
// in the chain. Chains are built fresh per operation and never mutated
// afterwards; changing a parameter means rebuilding the chain.
type ProductFilter interface {
	// Filter returns the products that pass every predicate in the
	// chain. It is pure and never fails.
	Filter(products []models.Product) []models.Product
	// Describe returns a human-readable summary of the active filters,
	// with each decorator's fragment joined by " + ".
	Describe() string
}

// DescribeNone is the description of an empty chain. Decorators must
// omit it from composed descriptions, so it only ever appears when
// BaseFilter is the whole chain.
const DescribeNone = "no filtering"

// PriceFunc computes a product's effective price. DiscountFilter uses
// it to decide whether a product is currently discounted.
type PriceFunc func(models.Product) float64

// BaseFilter is the leaf filter. It returns a shallow copy of its
// input unchanged.
type BaseFilter struct{}

// NewBaseFilter creates a new BaseFilter.
func NewBaseFilter() BaseFilter {
	return BaseFilter{}
}

// Filter returns a shallow copy of products.
func (BaseFilter) Filter(products []models.Product) []models.Product {
	copied := make([]models.Product, len(products))
	copy(copied, products)
	return copied
}

// Describe returns the empty-chain sentinel.
func (BaseFilter) Describe() string {
	return DescribeNone
}

// joinDescription appends a decorator's own fragment to the inner
// chain's description, dropping the DescribeNone sentinel.
func joinDescription(inner, fragment string) string {
	if inner == DescribeNone {
		return fragment
	}
	return inner + " + " + fragment
}
