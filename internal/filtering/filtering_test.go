package filtering_test

import (
	"testing"

	"katalog/internal/filtering"
	"katalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Category: "electronics", Price: 1200.00, Stock: 10},
		{Name: "Keyboard", Description: "Mechanical keyboard", Category: "electronics", Price: 75.00, Stock: 0},
		{Name: "The Hobbit", Description: "A novel by Tolkien", Category: "books", Price: 15.00, Stock: 30},
		{Name: "Gardening Shears", Description: "Sharp shears", Category: "garden", Price: 22.50, Stock: 5},
	}
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestBaseFilter_ReturnsEqualCopy(t *testing.T) {
	base := filtering.NewBaseFilter()
	products := sampleProducts()

	filtered := base.Filter(products)

	assert.Equal(t, products, filtered)
	// Shallow copy: mutating the result must not touch the input.
	filtered[0].Name = "changed"
	assert.Equal(t, "Laptop", products[0].Name)
}

func TestBaseFilter_IsIdempotent(t *testing.T) {
	base := filtering.NewBaseFilter()
	once := base.Filter(sampleProducts())
	twice := base.Filter(once)
	assert.Equal(t, once, twice)
}

func TestCategoryFilter_KeepsMatchingCategoryCaseInsensitive(t *testing.T) {
	chain := filtering.NewCategoryFilter(filtering.NewBaseFilter(), "Electronics")

	filtered := chain.Filter(sampleProducts())

	assert.Equal(t, []string{"Laptop", "Keyboard"}, names(filtered))
}

func TestCategoryFilter_EmptyCategoryPassesThrough(t *testing.T) {
	chain := filtering.NewCategoryFilter(filtering.NewBaseFilter(), "")
	assert.Len(t, chain.Filter(sampleProducts()), 4)
}

func TestSearchFilter_MatchesNameOrDescription(t *testing.T) {
	chain := filtering.NewSearchFilter(filtering.NewBaseFilter(), "tolkien")

	filtered := chain.Filter(sampleProducts())

	assert.Equal(t, []string{"The Hobbit"}, names(filtered))
}

func TestSearchFilter_WhitespaceTermPassesThrough(t *testing.T) {
	chain := filtering.NewSearchFilter(filtering.NewBaseFilter(), "   ")
	assert.Len(t, chain.Filter(sampleProducts()), 4)
}

func TestPriceRangeFilter_BoundsAreInclusive(t *testing.T) {
	min, max := 15.00, 75.00
	chain := filtering.NewPriceRangeFilter(filtering.NewBaseFilter(), &min, &max)

	filtered := chain.Filter(sampleProducts())

	assert.Equal(t, []string{"Keyboard", "The Hobbit", "Gardening Shears"}, names(filtered))
}

func TestPriceRangeFilter_OpenBounds(t *testing.T) {
	min := 100.00
	onlyMin := filtering.NewPriceRangeFilter(filtering.NewBaseFilter(), &min, nil)
	assert.Equal(t, []string{"Laptop"}, names(onlyMin.Filter(sampleProducts())))

	max := 20.00
	onlyMax := filtering.NewPriceRangeFilter(filtering.NewBaseFilter(), nil, &max)
	assert.Equal(t, []string{"The Hobbit"}, names(onlyMax.Filter(sampleProducts())))
}

func TestStockFilter_KeepsInStockOnly(t *testing.T) {
	chain := filtering.NewStockFilter(filtering.NewBaseFilter())

	filtered := chain.Filter(sampleProducts())

	assert.NotContains(t, names(filtered), "Keyboard")
	assert.Len(t, filtered, 3)
}

func TestDiscountFilter_UsesInjectedPriceFunc(t *testing.T) {
	discountElectronics := func(p models.Product) float64 {
		if p.Category == "electronics" {
			return p.Price * 0.9
		}
		return p.Price
	}
	chain := filtering.NewDiscountFilter(filtering.NewBaseFilter(), discountElectronics)

	filtered := chain.Filter(sampleProducts())

	assert.Equal(t, []string{"Laptop", "Keyboard"}, names(filtered))
}

func TestDiscountFilter_NilPriceFuncPassesThrough(t *testing.T) {
	chain := filtering.NewDiscountFilter(filtering.NewBaseFilter(), nil)
	assert.Len(t, chain.Filter(sampleProducts()), 4)
}

// Independent predicates commute: nesting order changes Describe() but
// never the surviving set.
func TestFilters_ConjunctionCommutes(t *testing.T) {
	products := sampleProducts()

	categoryInner := filtering.NewSearchFilter(filtering.NewCategoryFilter(filtering.NewBaseFilter(), "electronics"), "keyboard")
	searchInner := filtering.NewCategoryFilter(filtering.NewSearchFilter(filtering.NewBaseFilter(), "keyboard"), "electronics")

	assert.Equal(t, categoryInner.Filter(products), searchInner.Filter(products))
	assert.NotEqual(t, categoryInner.Describe(), searchInner.Describe())
}

func TestDescribe_ComposedDescriptionOmitsSentinel(t *testing.T) {
	chain, err := filtering.FromParams(filtering.Params{Category: "books", Search: "tolkien"})
	require.NoError(t, err)

	desc := chain.Describe()
	assert.Equal(t, `Category: books + Search: "tolkien"`, desc)
	assert.NotContains(t, desc, filtering.DescribeNone)
}

func TestDescribe_EmptyChainIsSentinelOnly(t *testing.T) {
	chain, err := filtering.FromParams(filtering.Params{})
	require.NoError(t, err)
	assert.Equal(t, filtering.DescribeNone, chain.Describe())
}

func TestFromParams_EndToEndCategoryAndMinPrice(t *testing.T) {
	products := []models.Product{
		{Name: "A", Category: "electronics", Price: 100},
		{Name: "B", Category: "electronics", Price: 50},
		{Name: "C", Category: "books", Price: 20},
	}

	min := 60.00
	chain, err := filtering.FromParams(filtering.Params{Category: "electronics", MinPrice: &min})
	require.NoError(t, err)

	filtered := chain.Filter(products)

	require.Len(t, filtered, 1)
	assert.Equal(t, "A", filtered[0].Name)
}

func TestFromParams_FullChainOrder(t *testing.T) {
	min, max := 10.00, 2000.00
	chain, err := filtering.FromParams(filtering.Params{
		Category:       "electronics",
		Search:         "laptop",
		MinPrice:       &min,
		MaxPrice:       &max,
		InStockOnly:    true,
		OnlyDiscounted: true,
		PriceFn:        func(p models.Product) float64 { return p.Price * 0.95 },
	})
	require.NoError(t, err)

	assert.Equal(t,
		`Category: electronics + Search: "laptop" + Price: 10.00-2000.00 + In stock only + Discounted only`,
		chain.Describe())
	assert.Equal(t, []string{"Laptop"}, names(chain.Filter(sampleProducts())))
}

func TestFromParams_RejectsInvalidBounds(t *testing.T) {
	min, max := 100.00, 10.00
	_, err := filtering.FromParams(filtering.Params{MinPrice: &min, MaxPrice: &max})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum price")

	negative := -5.00
	_, err = filtering.FromParams(filtering.Params{MinPrice: &negative})
	assert.Error(t, err)
}
