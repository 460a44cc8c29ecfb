package repositories

import (
	"fmt"
	"strings"
	"sync"

	"katalog/internal/models"

	"github.com/google/uuid"
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	GetAll() ([]models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
}

// MemoryCouponRepository is an in-memory implementation of CouponRepository.
type MemoryCouponRepository struct {
	coupons map[string]models.Coupon
	mu      sync.RWMutex
}

// NewMemoryCouponRepository creates a new instance of MemoryCouponRepository.
func NewMemoryCouponRepository() *MemoryCouponRepository {
	return &MemoryCouponRepository{
		coupons: make(map[string]models.Coupon),
	}
}

// GetAll returns all coupons.
func (r *MemoryCouponRepository) GetAll() ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	couponList := make([]models.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		couponList = append(couponList, c)
	}
	return couponList, nil
}

// GetByCode returns a coupon by its code (case-insensitive).
func (r *MemoryCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, code) {
			coupon := c
			return &coupon, nil
		}
	}
	return nil, fmt.Errorf("coupon with code %s not found", code)
}

// Create adds a new coupon.
func (r *MemoryCouponRepository) Create(coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, coupon.Code) {
			return fmt.Errorf("coupon with code %s already exists", coupon.Code)
		}
	}
	r.coupons[coupon.ID] = *coupon
	return nil
}
