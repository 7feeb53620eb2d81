package models

import (
	"gorm.io/gorm"
)

type Vehicle struct {
	gorm.Model
	ProviderID  uint    `json:"providerId" gorm:"index"`
	Make        string  `json:"make"`
	ModelName   string  `json:"model" gorm:"column:model_name"`
	Year        int     `json:"year"`
	VehicleType string  `json:"vehicleType" gorm:"type:varchar(50)"` // car, suv, van, motorbike
	Seats       int     `json:"seats"`
	PricePerDay float64 `json:"pricePerDay"`
	City        string  `json:"city" gorm:"index"`
	Images      string  `json:"images"` // JSON array of URLs
	IsAvailable *bool   `json:"isAvailable" gorm:"default:true"`
	Provider    User    `json:"provider" gorm:"foreignKey:ProviderID;references:ID"`
}
