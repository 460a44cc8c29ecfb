package models

import "gorm.io/gorm"

// Product represents a single item in the catalog.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	SKU         string  `json:"sku" validate:"omitempty,max=50"`
	Category    string  `json:"category" gorm:"index;type:varchar(100)" validate:"required,min=2,max=100"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt (soft delete)
}

// InStock reports whether the product has any remaining stock.
func (p Product) InStock() bool {
	return p.Stock > 0
}
