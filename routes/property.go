package routes

import (
	"encoding/json"
	"strconv"

	"stay-and-go-server/models"
	"stay-and-go-server/storage"
	"stay-and-go-server/utils"

	"github.com/kataras/iris/v12"
)

func CreateProperty(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	var input CreatePropertyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenities, _ := json.Marshal(input.Amenities)
	images, _ := json.Marshal(input.Images)

	rooms := make([]models.Room, 0, len(input.Rooms))
	for _, roomInput := range input.Rooms {
		rooms = append(rooms, models.Room{
			Type:          roomInput.Type,
			Description:   roomInput.Description,
			Capacity:      roomInput.Capacity,
			PricePerNight: roomInput.PricePerNight,
		})
	}

	property := models.Property{
		ProviderID:   claims.ID,
		Title:        input.Title,
		Description:  input.Description,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		Country:      input.Country,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Amenities:    string(amenities),
		Images:       string(images),
		Rooms:        rooms,
	}

	if createErr := storage.DB.Create(&property).Error; createErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusCreated, "Property created.", &property)
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	query := storage.DB.Preload("Rooms").Preload("Provider").Where("id = ?", id).Limit(1).Find(&property)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Property not found.")
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "", &property)
}

// GetProperties lists active properties, optionally filtered by city,
// minimum room capacity and maximum nightly price.
func GetProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Property{}).Where("is_active = ?", true)

	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if guests := ctx.URLParamIntDefault("guests", 0); guests > 0 {
		query = query.Where(
			"id IN (?)",
			storage.DB.Model(&models.Room{}).Select("property_id").
				Where("capacity >= ? AND (is_available IS NULL OR is_available = ?)", guests, true))
	}
	if maxPrice, priceErr := strconv.ParseFloat(ctx.URLParam("max_price"), 64); priceErr == nil && maxPrice > 0 {
		query = query.Where(
			"id IN (?)",
			storage.DB.Model(&models.Room{}).Select("property_id").Where("price_per_night <= ?", maxPrice))
	}

	var total int64
	if countErr := query.Count(&total).Error; countErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var properties []models.Property
	listErr := query.Preload("Rooms").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&properties).Error
	if listErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

func UpdateProperty(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	id := ctx.Params().Get("id")

	var property models.Property
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&property)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Property not found.")
		return
	}

	if property.ProviderID != claims.ID && claims.Role != models.RoleAdmin {
		utils.JSONFail(ctx, iris.StatusForbidden, "You do not manage this property.")
		return
	}

	var input UpdatePropertyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Title != nil {
		property.Title = *input.Title
	}
	if input.Description != nil {
		property.Description = *input.Description
	}
	if input.City != nil {
		property.City = *input.City
	}
	if input.Amenities != nil {
		amenities, _ := json.Marshal(input.Amenities)
		property.Amenities = string(amenities)
	}
	if input.IsActive != nil {
		property.IsActive = input.IsActive
	}

	if saveErr := storage.DB.Save(&property).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "Property updated.", &property)
}

func DeleteProperty(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	id := ctx.Params().Get("id")

	var property models.Property
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&property)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Property not found.")
		return
	}

	if property.ProviderID != claims.ID && claims.Role != models.RoleAdmin {
		utils.JSONFail(ctx, iris.StatusForbidden, "You do not manage this property.")
		return
	}

	if deleteErr := storage.DB.Delete(&property).Error; deleteErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "Property deleted.", iris.Map{"id": property.ID})
}

// UploadPropertyImages stores base64 encoded images on Cloudinary and appends
// the resulting URLs to the property's image list.
func UploadPropertyImages(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	id := ctx.Params().Get("id")

	var property models.Property
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&property)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Property not found.")
		return
	}

	if property.ProviderID != claims.ID && claims.Role != models.RoleAdmin {
		utils.JSONFail(ctx, iris.StatusForbidden, "You do not manage this property.")
		return
	}

	var input UploadImagesInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var urls []string
	if property.Images != "" {
		json.Unmarshal([]byte(property.Images), &urls)
	}

	for i, image := range input.Images {
		publicID := "property_" + id + "_" + strconv.Itoa(len(urls)+i)
		url, uploadErr := storage.UploadBase64Image(ctx.Request().Context(), image, publicID)
		if uploadErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		urls = append(urls, url)
	}

	images, _ := json.Marshal(urls)
	property.Images = string(images)
	if saveErr := storage.DB.Save(&property).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "Images uploaded.", &property)
}

type CreateRoomInput struct {
	Type          string  `json:"type" validate:"required,max=256"`
	Description   string  `json:"description" validate:"max=1024"`
	Capacity      int     `json:"capacity" validate:"required,gte=1"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0"`
}

type CreatePropertyInput struct {
	Title        string            `json:"title" validate:"required,max=256"`
	Description  string            `json:"description" validate:"max=2048"`
	AddressLine1 string            `json:"addressLine1" validate:"required,max=512"`
	AddressLine2 string            `json:"addressLine2" validate:"max=512"`
	City         string            `json:"city" validate:"required,max=256"`
	State        string            `json:"state" validate:"max=256"`
	Zip          string            `json:"zip" validate:"max=32"`
	Country      string            `json:"country" validate:"required,max=256"`
	Lat          float32           `json:"lat"`
	Lng          float32           `json:"lng"`
	Amenities    []string          `json:"amenities"`
	Images       []string          `json:"images"`
	Rooms        []CreateRoomInput `json:"rooms" validate:"required,min=1,dive"`
}

type UpdatePropertyInput struct {
	Title       *string  `json:"title" validate:"omitempty,max=256"`
	Description *string  `json:"description" validate:"omitempty,max=2048"`
	City        *string  `json:"city" validate:"omitempty,max=256"`
	Amenities   []string `json:"amenities"`
	IsActive    *bool    `json:"isActive"`
}

type UploadImagesInput struct {
	Images []string `json:"images" validate:"required,min=1"`
}
