package filtering

import (
	"fmt"
	"strings"
)

// Params is the flat set of optional filter parameters, typically
// parsed from a request's query string. Zero values mean "not set";
// price bounds use pointers so that 0 remains a usable bound.
type Params struct {
	Category       string
	Search         string
	MinPrice       *float64
	MaxPrice       *float64
	InStockOnly    bool
	OnlyDiscounted bool

	// PriceFn supplies the effective-price computation used by the
	// discount stage. Required only when OnlyDiscounted is set; when
	// nil the discount stage passes everything through.
	PriceFn PriceFunc
}

// FromParams assembles a filter chain from the given parameters.
//
// The composition order is a documented contract: category, then
// search, then price range, then stock, then discount. Cheap and
// highly selective predicates run first. Absent stages are skipped
// entirely rather than inserted as no-op wrappers, keeping Describe()
// output minimal.
func FromParams(params Params) (ProductFilter, error) {
	if err := validateBounds(params.MinPrice, params.MaxPrice); err != nil {
		return nil, err
	}

	var chain ProductFilter = NewBaseFilter()

	if params.Category != "" {
		chain = NewCategoryFilter(chain, params.Category)
	}
	if strings.TrimSpace(params.Search) != "" {
		chain = NewSearchFilter(chain, params.Search)
	}
	if params.MinPrice != nil || params.MaxPrice != nil {
		chain = NewPriceRangeFilter(chain, params.MinPrice, params.MaxPrice)
	}
	if params.InStockOnly {
		chain = NewStockFilter(chain)
	}
	if params.OnlyDiscounted {
		chain = NewDiscountFilter(chain, params.PriceFn)
	}

	return chain, nil
}

// validateBounds rejects nonsensical price ranges at construction time.
func validateBounds(min, max *float64) error {
	if min != nil && *min < 0 {
		return fmt.Errorf("minimum price must not be negative, got %v", *min)
	}
	if max != nil && *max < 0 {
		return fmt.Errorf("maximum price must not be negative, got %v", *max)
	}
	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("minimum price %v exceeds maximum price %v", *min, *max)
	}
	return nil
}
