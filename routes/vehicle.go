package routes

import (
	"encoding/json"
	"strconv"

	"stay-and-go-server/models"
	"stay-and-go-server/storage"
	"stay-and-go-server/utils"

	"github.com/kataras/iris/v12"
)

// GetVehicles lists available vehicles filtered by city, type and daily price.
func GetVehicles(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Vehicle{}).
		Where("is_available IS NULL OR is_available = ?", true)

	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if vehicleType := ctx.URLParam("type"); vehicleType != "" {
		query = query.Where("vehicle_type = ?", vehicleType)
	}
	if seats := ctx.URLParamIntDefault("seats", 0); seats > 0 {
		query = query.Where("seats >= ?", seats)
	}
	if maxPrice, priceErr := strconv.ParseFloat(ctx.URLParam("max_price"), 64); priceErr == nil && maxPrice > 0 {
		query = query.Where("price_per_day <= ?", maxPrice)
	}

	var total int64
	if countErr := query.Count(&total).Error; countErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var vehicles []models.Vehicle
	listErr := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&vehicles).Error
	if listErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, vehicles, page, perPage, total)
}

func GetVehicle(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var vehicle models.Vehicle
	query := storage.DB.Preload("Provider").Where("id = ?", id).Limit(1).Find(&vehicle)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Vehicle not found.")
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "", &vehicle)
}

func CreateVehicle(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	var input CreateVehicleInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	images, _ := json.Marshal(input.Images)

	vehicle := models.Vehicle{
		ProviderID:  claims.ID,
		Make:        input.Make,
		ModelName:   input.Model,
		Year:        input.Year,
		VehicleType: input.VehicleType,
		Seats:       input.Seats,
		PricePerDay: input.PricePerDay,
		City:        input.City,
		Images:      string(images),
	}

	if createErr := storage.DB.Create(&vehicle).Error; createErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusCreated, "Vehicle created.", &vehicle)
}

func UpdateVehicle(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	id := ctx.Params().Get("id")

	var vehicle models.Vehicle
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&vehicle)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Vehicle not found.")
		return
	}

	if vehicle.ProviderID != claims.ID && claims.Role != models.RoleAdmin {
		utils.JSONFail(ctx, iris.StatusForbidden, "You do not manage this vehicle.")
		return
	}

	var input UpdateVehicleInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.PricePerDay != nil {
		vehicle.PricePerDay = *input.PricePerDay
	}
	if input.City != nil {
		vehicle.City = *input.City
	}
	if input.IsAvailable != nil {
		vehicle.IsAvailable = input.IsAvailable
	}

	if saveErr := storage.DB.Save(&vehicle).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "Vehicle updated.", &vehicle)
}

func DeleteVehicle(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "Authentication required.")
		return
	}

	id := ctx.Params().Get("id")

	var vehicle models.Vehicle
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&vehicle)
	if query.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Vehicle not found.")
		return
	}

	if vehicle.ProviderID != claims.ID && claims.Role != models.RoleAdmin {
		utils.JSONFail(ctx, iris.StatusForbidden, "You do not manage this vehicle.")
		return
	}

	if deleteErr := storage.DB.Delete(&vehicle).Error; deleteErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "Vehicle deleted.", iris.Map{"id": vehicle.ID})
}

type CreateVehicleInput struct {
	Make        string   `json:"make" validate:"required,max=128"`
	Model       string   `json:"model" validate:"required,max=128"`
	Year        int      `json:"year" validate:"required,gte=1980"`
	VehicleType string   `json:"vehicleType" validate:"required,oneof=car suv van motorbike"`
	Seats       int      `json:"seats" validate:"required,gte=1"`
	PricePerDay float64  `json:"pricePerDay" validate:"required,gt=0"`
	City        string   `json:"city" validate:"required,max=256"`
	Images      []string `json:"images"`
}

type UpdateVehicleInput struct {
	PricePerDay *float64 `json:"pricePerDay" validate:"omitempty,gt=0"`
	City        *string  `json:"city" validate:"omitempty,max=256"`
	IsAvailable *bool    `json:"isAvailable"`
}
