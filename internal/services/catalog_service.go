package services

import (
	"fmt"
	"log"

	"katalog/internal/filtering"
	"katalog/internal/models"
	"katalog/internal/pricing"
	"katalog/internal/repositories"
)

// EventPublisher publishes catalog change events to the message broker.
// It is satisfied by *rabbitmq.Client and mocked in tests.
type EventPublisher interface {
	PublishCatalogEvent(event string, payload map[string]interface{}) error
}

// ShippingConfig holds the flat per-category shipping rates used when a
// listing asks for shipping-inclusive prices.
type ShippingConfig struct {
	Rates       map[string]float64
	DefaultRate float64
}

// CatalogService handles business logic for products, categories and
// coupons, including filtered and priced listings.
type CatalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	couponRepo   repositories.CouponRepository
	publisher    EventPublisher
	shipping     ShippingConfig
}

// NewCatalogService creates a new CatalogService. publisher may be nil,
// in which case no events are emitted.
func NewCatalogService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	couponRepo repositories.CouponRepository,
	publisher EventPublisher,
	shipping ShippingConfig,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		couponRepo:   couponRepo,
		publisher:    publisher,
		shipping:     shipping,
	}
}

// ListParams are the recognized listing parameters, parsed from the
// request's query string by the handler.
type ListParams struct {
	Category        string
	Search          string
	MinPrice        *float64
	MaxPrice        *float64
	InStockOnly     bool
	OnlyDiscounted  bool
	CouponCode      string
	IncludeShipping bool
}

// PricedProduct is a product together with its effective price under
// the current discount configuration.
type PricedProduct struct {
	models.Product
	FinalPrice float64 `json:"final_price"`
}

// ListResult is the outcome of a filtered, priced catalog listing.
type ListResult struct {
	Items       []PricedProduct `json:"items"`
	Count       int             `json:"count"`
	Filters     string          `json:"filters"`
	PricingInfo string          `json:"pricing"`
}

// ListProducts returns the catalog narrowed by the given parameters,
// with each surviving product's effective price computed through the
// pricing chain. Both chains are built fresh for this call.
func (s *CatalogService) ListProducts(params ListParams) (*ListResult, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}

	discountChain, err := s.buildPricingChain(params.CouponCode, false)
	if err != nil {
		return nil, err
	}

	filter, err := filtering.FromParams(filtering.Params{
		Category:       params.Category,
		Search:         params.Search,
		MinPrice:       params.MinPrice,
		MaxPrice:       params.MaxPrice,
		InStockOnly:    params.InStockOnly,
		OnlyDiscounted: params.OnlyDiscounted,
		PriceFn:        discountChain.Total,
	})
	if err != nil {
		return nil, err
	}

	// The reported price may include shipping, but discount detection
	// above never does: a flat fee must not make a product look
	// discounted or hide a discount.
	priceChain := discountChain
	if params.IncludeShipping {
		priceChain, err = s.buildPricingChain(params.CouponCode, true)
		if err != nil {
			return nil, err
		}
	}

	filtered := filter.Filter(products)
	items := make([]PricedProduct, 0, len(filtered))
	for _, p := range filtered {
		items = append(items, PricedProduct{Product: p, FinalPrice: priceChain.Total(p)})
	}

	return &ListResult{
		Items:       items,
		Count:       len(items),
		Filters:     filter.Describe(),
		PricingInfo: priceChain.Describe(),
	}, nil
}

// PriceProduct returns a single product's effective price and the
// description of the applied pricing rules.
func (s *CatalogService) PriceProduct(id, couponCode string, includeShipping bool) (*PricedProduct, string, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	chain, err := s.buildPricingChain(couponCode, includeShipping)
	if err != nil {
		return nil, "", err
	}
	priced := &PricedProduct{Product: *product, FinalPrice: chain.Total(*product)}
	return priced, chain.Describe(), nil
}

// buildPricingChain assembles the pricing chain for the current
// discount configuration: one stage per discounted category, then the
// coupon (when a code is supplied), then optionally shipping.
func (s *CatalogService) buildPricingChain(couponCode string, includeShipping bool) (pricing.Calculator, error) {
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

	opts := pricing.Options{CategoryDiscounts: discounts}

	if couponCode != "" {
		coupon, err := s.couponRepo.GetByCode(couponCode)
		if err != nil {
			return nil, fmt.Errorf("invalid coupon code %q: %w", couponCode, err)
		}
		if !coupon.Active {
			return nil, fmt.Errorf("coupon %q is no longer active", couponCode)
		}
		opts.CouponCode = coupon.Code
		opts.CouponPercent = coupon.Percent
	}

	if includeShipping {
		opts.IncludeShipping = true
		opts.ShippingRates = s.shipping.Rates
		opts.DefaultShippingRate = s.shipping.DefaultRate
	}

	return pricing.Build(opts)
}

// GetAllProducts retrieves all products.
func (s *CatalogService) GetAllProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// CreateProduct creates a new product after checking that its name is
// free and its category exists, then publishes a product.created event.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	if existing, err := s.productRepo.GetByName(product.Name); err == nil && existing != nil {
		return fmt.Errorf("product name '%s' already exists", product.Name)
	}
	if _, err := s.categoryRepo.GetByName(product.Category); err != nil {
		return fmt.Errorf("unknown category '%s'", product.Category)
	}
	if err := s.productRepo.Create(product); err != nil {
		return err
	}
	s.publish("product.created", product)
	return nil
}

// UpdateProduct updates an existing product and publishes a
// product.updated event.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	if _, err := s.categoryRepo.GetByName(product.Category); err != nil {
		return fmt.Errorf("unknown category '%s'", product.Category)
	}
	if err := s.productRepo.Update(product); err != nil {
		return err
	}
	s.publish("product.updated", product)
	return nil
}

// DeleteProduct deletes a product by its ID and publishes a
// product.deleted event.
func (s *CatalogService) DeleteProduct(id string) error {
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishCatalogEvent("product.deleted", map[string]interface{}{"productID": id}); err != nil {
			log.Printf("Failed to publish product.deleted event for %s: %v", id, err)
		}
	}
	return nil
}

// GetAllCategories retrieves all categories.
func (s *CatalogService) GetAllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// CreateCategory creates a new category.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	if existing, err := s.categoryRepo.GetByName(category.Name); err == nil && existing != nil {
		return fmt.Errorf("category name '%s' already exists", category.Name)
	}
	return s.categoryRepo.Create(category)
}

// GetAllCoupons retrieves all coupons.
func (s *CatalogService) GetAllCoupons() ([]models.Coupon, error) {
	return s.couponRepo.GetAll()
}

// CreateCoupon creates a new coupon. The percent range is enforced by
// handler validation; the repository enforces code uniqueness.
func (s *CatalogService) CreateCoupon(coupon *models.Coupon) error {
	if existing, err := s.couponRepo.GetByCode(coupon.Code); err == nil && existing != nil {
		return fmt.Errorf("coupon code '%s' already exists", coupon.Code)
	}
	return s.couponRepo.Create(coupon)
}

// publish emits a catalog event for a product mutation. Publishing
// failures are logged, not returned: the write already succeeded.
func (s *CatalogService) publish(event string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"productID": product.ID,
		"name":      product.Name,
		"category":  product.Category,
		"price":     product.Price,
	}
	if err := s.publisher.PublishCatalogEvent(event, payload); err != nil {
		log.Printf("Failed to publish %s event for %s: %v", event, product.ID, err)
	}
}
