package services

import (
	"katalog/internal/pricing"
	"katalog/internal/repositories"
)

// CategoryStats aggregates the products of a single category.
type CategoryStats struct {
	Count        int     `json:"count"`
	AveragePrice float64 `json:"average_price"`
}

// CatalogStats is the statistics summary for the whole catalog.
type CatalogStats struct {
	TotalProducts int                      `json:"total_products"`
	InStock       int                      `json:"in_stock"`
	Discounted    int                      `json:"discounted"`
	MinPrice      float64                  `json:"min_price"`
	MaxPrice      float64                  `json:"max_price"`
	AveragePrice  float64                  `json:"average_price"`
	ByCategory    map[string]CategoryStats `json:"by_category"`
}

// StatsService computes catalog statistics over the in-memory product
// collection.
type StatsService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *StatsService {
	return &StatsService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ComputeStats aggregates the current catalog: totals, price spread,
// per-category breakdown, and how many products are discounted under
// the current category discount configuration.
func (s *StatsService) ComputeStats() (*CatalogStats, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}

	discounts := make(map[string]float64)
	for _, c := range categories {
		if c.DiscountPercent > 0 {
			discounts[c.Name] = c.DiscountPercent
		}
	}
	chain, err := pricing.Build(pricing.Options{CategoryDiscounts: discounts})
	if err != nil {
		return nil, err
	}

	stats := &CatalogStats{
		TotalProducts: len(products),
		ByCategory:    make(map[string]CategoryStats),
	}
	if len(products) == 0 {
		return stats, nil
	}

	type accumulator struct {
		count int
		sum   float64
	}
	perCategory := make(map[string]*accumulator)

	var sum float64
	stats.MinPrice = products[0].Price
	stats.MaxPrice = products[0].Price

	for _, p := range products {
		sum += p.Price
		if p.Price < stats.MinPrice {
			stats.MinPrice = p.Price
		}
		if p.Price > stats.MaxPrice {
			stats.MaxPrice = p.Price
		}
		if p.InStock() {
			stats.InStock++
		}
		if chain.Total(p) < p.Price {
			stats.Discounted++
		}

		acc, ok := perCategory[p.Category]
		if !ok {
			acc = &accumulator{}
			perCategory[p.Category] = acc
		}
		acc.count++
		acc.sum += p.Price
	}

	stats.AveragePrice = sum / float64(len(products))
	for name, acc := range perCategory {
		stats.ByCategory[name] = CategoryStats{
			Count:        acc.count,
			AveragePrice: acc.sum / float64(acc.count),
		}
	}

	return stats, nil
}
