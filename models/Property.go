package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	ProviderID   uint    `json:"providerId" gorm:"index"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 string  `json:"addressLine2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Zip          string  `json:"zip"`
	Country      string  `json:"country"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`
	Amenities    string  `json:"amenities"` // JSON string
	Images       string  `json:"images"`    // JSON array of URLs
	IsActive     *bool   `json:"isActive" gorm:"default:true"`
	Rating       float32 `json:"rating"`
	Rooms        []Room  `json:"rooms"`
	Provider     User    `json:"provider" gorm:"foreignKey:ProviderID;references:ID"`

	// Admin moderation fields
	Status      string `json:"status" gorm:"type:varchar(20);default:approved;index"` // pending, approved, rejected
	ReviewNotes string `json:"reviewNotes" gorm:"type:text"`
}

// Custom JSON marshaling to convert Images and Amenities strings to arrays
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images    []string `json:"images"`
		Amenities []string `json:"amenities"`
		Provider  *User    `json:"provider,omitempty"`
		*Alias
	}{
		Images:    []string{},
		Amenities: []string{},
		Provider:  nil,
		Alias:     (*Alias)(p),
	}

	if p.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(p.Images), &images); err == nil {
			aux.Images = images
		}
	}

	if p.Amenities != "" {
		var amenities []string
		if err := json.Unmarshal([]byte(p.Amenities), &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	// Only include provider if loaded, without its Properties to avoid a circular reference
	if p.Provider.ID > 0 {
		providerCopy := p.Provider
		providerCopy.Properties = nil
		aux.Provider = &providerCopy
	}

	return json.Marshal(aux)
}
