package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model
	PropertyID    uint    `json:"propertyId" gorm:"not null;index"`
	Type          string  `json:"type" gorm:"type:varchar(50)"` // single, double, suite, family
	Description   string  `json:"description"`
	Capacity      int     `json:"capacity" gorm:"not null"`
	PricePerNight float64 `json:"pricePerNight" gorm:"not null"`
	IsAvailable   *bool   `json:"isAvailable" gorm:"default:true"`
}

// Bookable reports whether the room accepts new reservations.
func (r *Room) Bookable() bool {
	return r.IsAvailable == nil || *r.IsAvailable
}
