package models

import "gorm.io/gorm"

// Coupon represents a discount code applied unconditionally to all
// products regardless of category. Percent is a fraction in [0,1];
// the pricing chain multiplies the running price by (1 - Percent).
type Coupon struct {
	ID      string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Code    string  `json:"code" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=2,max=50"`
	Percent float64 `json:"percent" validate:"gte=0,lte=1"`
	Active  bool    `json:"active"`
	gorm.Model
}
