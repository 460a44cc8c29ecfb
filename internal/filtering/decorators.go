package filtering

import (
	"fmt"
	"strings"

	"katalog/internal/models"
)

// CategoryFilter keeps only products whose category equals the
// configured one. Matching is case-insensitive, uniformly. An empty
// category is a pass-through that keeps every product.
type CategoryFilter struct {
	inner    ProductFilter
	category string
}

// NewCategoryFilter creates a CategoryFilter wrapping inner.
func NewCategoryFilter(inner ProductFilter, category string) *CategoryFilter {
	return &CategoryFilter{inner: inner, category: category}
}

// Filter keeps the inner chain's survivors whose category matches.
func (f *CategoryFilter) Filter(products []models.Product) []models.Product {
	narrowed := f.inner.Filter(products)
	if f.category == "" {
		return narrowed
	}
	kept := make([]models.Product, 0, len(narrowed))
	for _, p := range narrowed {
		if strings.EqualFold(p.Category, f.category) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Describe appends this filter's fragment to the inner description.
func (f *CategoryFilter) Describe() string {
	return joinDescription(f.inner.Describe(), fmt.Sprintf("Category: %s", f.category))
}

// SearchFilter keeps products whose name or description contains the
// search term as a case-insensitive substring. An empty or
// whitespace-only term is a pass-through.
type SearchFilter struct {
	inner ProductFilter
	term  string
}

// NewSearchFilter creates a SearchFilter wrapping inner.
func NewSearchFilter(inner ProductFilter, term string) *SearchFilter {
	return &SearchFilter{inner: inner, term: term}
}

// Filter keeps the inner chain's survivors matching the search term.
func (f *SearchFilter) Filter(products []models.Product) []models.Product {
	narrowed := f.inner.Filter(products)
	term := strings.ToLower(strings.TrimSpace(f.term))
	if term == "" {
		return narrowed
	}
	kept := make([]models.Product, 0, len(narrowed))
	for _, p := range narrowed {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Describe appends this filter's fragment to the inner description.
func (f *SearchFilter) Describe() string {
	return joinDescription(f.inner.Describe(), fmt.Sprintf("Search: %q", f.term))
}

// PriceRangeFilter keeps products whose price lies within [min, max],
// bounds inclusive. A nil bound is unbounded on that side.
type PriceRangeFilter struct {
	inner ProductFilter
	min   *float64
	max   *float64
}

// NewPriceRangeFilter creates a PriceRangeFilter wrapping inner.
// Bound validation (min <= max, no negative bounds) happens in the
// factory so that a hand-built chain behaves like any other predicate.
func NewPriceRangeFilter(inner ProductFilter, min, max *float64) *PriceRangeFilter {
	return &PriceRangeFilter{inner: inner, min: min, max: max}
}

// Filter keeps the inner chain's survivors inside the price range.
func (f *PriceRangeFilter) Filter(products []models.Product) []models.Product {
	narrowed := f.inner.Filter(products)
	kept := make([]models.Product, 0, len(narrowed))
	for _, p := range narrowed {
		if f.min != nil && p.Price < *f.min {
			continue
		}
		if f.max != nil && p.Price > *f.max {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// Describe appends this filter's fragment to the inner description.
func (f *PriceRangeFilter) Describe() string {
	var fragment string
	switch {
	case f.min != nil && f.max != nil:
		fragment = fmt.Sprintf("Price: %.2f-%.2f", *f.min, *f.max)
	case f.min != nil:
		fragment = fmt.Sprintf("Price: from %.2f", *f.min)
	case f.max != nil:
		fragment = fmt.Sprintf("Price: up to %.2f", *f.max)
	default:
		fragment = "Price: any"
	}
	return joinDescription(f.inner.Describe(), fragment)
}

// StockFilter keeps only products with remaining stock.
type StockFilter struct {
	inner ProductFilter
}

// NewStockFilter creates a StockFilter wrapping inner.
func NewStockFilter(inner ProductFilter) *StockFilter {
	return &StockFilter{inner: inner}
}

// Filter keeps the inner chain's survivors that are in stock.
func (f *StockFilter) Filter(products []models.Product) []models.Product {
	narrowed := f.inner.Filter(products)
	kept := make([]models.Product, 0, len(narrowed))
	for _, p := range narrowed {
		if p.InStock() {
			kept = append(kept, p)
		}
	}
	return kept
}

// Describe appends this filter's fragment to the inner description.
func (f *StockFilter) Describe() string {
	return joinDescription(f.inner.Describe(), "In stock only")
}

// DiscountFilter keeps only products whose effective price, computed by
// the injected PriceFunc, is strictly below the base price. A nil
// PriceFunc makes the filter a pass-through rather than an error, since
// no pricing rules means nothing can be discounted.
type DiscountFilter struct {
	inner   ProductFilter
	priceFn PriceFunc
}

// NewDiscountFilter creates a DiscountFilter wrapping inner.
func NewDiscountFilter(inner ProductFilter, priceFn PriceFunc) *DiscountFilter {
	return &DiscountFilter{inner: inner, priceFn: priceFn}
}

// Filter keeps the inner chain's survivors that are currently
// discounted.
func (f *DiscountFilter) Filter(products []models.Product) []models.Product {
	narrowed := f.inner.Filter(products)
	if f.priceFn == nil {
		return narrowed
	}
	kept := make([]models.Product, 0, len(narrowed))
	for _, p := range narrowed {
		if f.priceFn(p) < p.Price {
			kept = append(kept, p)
		}
	}
	return kept
}

// Describe appends this filter's fragment to the inner description.
func (f *DiscountFilter) Describe() string {
	return joinDescription(f.inner.Describe(), "Discounted only")
}
