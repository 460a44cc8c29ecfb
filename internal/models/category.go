package models

import "gorm.io/gorm"

// Category represents a product category. Categories form a closed but
// extensible set: products must reference an existing category name at
// validation time, while the filter and pricing chains treat the name as
// an opaque string key.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	// DiscountPercent is the category-wide discount as a fraction in
	// [0,1]. Zero means no discount; non-zero categories contribute a
	// CategoryDiscount stage to the pricing chain.
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=1"`
	gorm.Model
}
