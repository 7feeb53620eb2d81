package routes

import (
	"fmt"
	"time"

	"stay-and-go-server/models"
	"stay-and-go-server/services"
	"stay-and-go-server/storage"
	"stay-and-go-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminGetReservations lists every reservation with optional filters, for the
// back office. Callers reach this behind AdminOnlyMiddleware.
func AdminGetReservations(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Reservation{})

	if status := ctx.URLParam("status"); status != "" {
		if !models.ValidReservationStatus(status) {
			utils.JSONFail(ctx, iris.StatusBadRequest,
				fmt.Sprintf("Invalid status, must be one of: %v", models.ReservationStatuses))
			return
		}
		query = query.Where("status = ?", status)
	}
	if propertyID := ctx.URLParamIntDefault("property_id", 0); propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if userID := ctx.URLParamIntDefault("user_id", 0); userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if from := ctx.URLParam("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.JSONFail(ctx, iris.StatusBadRequest, "date_from must be YYYY-MM-DD")
			return
		}
		query = query.Where("end_date > ?", t)
	}
	if to := ctx.URLParam("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.JSONFail(ctx, iris.StatusBadRequest, "date_to must be YYYY-MM-DD")
			return
		}
		query = query.Where("start_date < ?", t)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to count reservations")
		return
	}

	var reservations []models.Reservation
	err := query.Preload("User").Preload("Property").Preload("Room").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&reservations).Error
	if err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservations")
		return
	}

	utils.JSONPage(ctx, reservations, page, perPage, total)
}

func AdminGetReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONFail(ctx, iris.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var reservation models.Reservation
	query := storage.DB.Preload("User").Preload("Property").Preload("Room").
		Where("id = ?", id).Limit(1).Find(&reservation)
	if query.Error != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservation")
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Reservation not found")
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "", &reservation)
}

func AdminUpdateReservationStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONFail(ctx, iris.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var input UpdateReservationStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !models.ValidReservationStatus(input.Status) {
		utils.JSONFail(ctx, iris.StatusBadRequest,
			fmt.Sprintf("Invalid status, must be one of: %v", models.ReservationStatuses))
		return
	}

	var reservation models.Reservation
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&reservation)
	if query.Error != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservation")
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Reservation not found")
		return
	}

	before := iris.Map{"status": reservation.Status}
	reservation.Status = input.Status
	if err := storage.DB.Save(&reservation).Error; err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to update reservation status")
		return
	}

	utils.Audit(ctx, "reservation.status_change", "reservation", reservation.ID,
		before, iris.Map{"status": reservation.Status})

	go services.NewNotificationService().NotifyReservationStatus(reservation)

	utils.JSONSuccess(ctx, iris.StatusOK, "Reservation status updated", &reservation)
}

// AdminCancelReservation cancels on the guest's behalf, recording the reason.
func AdminCancelReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONFail(ctx, iris.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var input AdminCancelInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var reservation models.Reservation
	query := storage.DB.Where("id = ?", id).Limit(1).Find(&reservation)
	if query.Error != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservation")
		return
	}
	if query.RowsAffected == 0 {
		utils.JSONFail(ctx, iris.StatusNotFound, "Reservation not found")
		return
	}

	if reservation.Status == models.ReservationStatusCancelled {
		utils.JSONFail(ctx, iris.StatusBadRequest, "Reservation is already cancelled")
		return
	}

	before := iris.Map{"status": reservation.Status}
	reservation.Status = models.ReservationStatusCancelled
	if err := storage.DB.Save(&reservation).Error; err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to cancel reservation")
		return
	}

	utils.Audit(ctx, "reservation.cancel", "reservation", reservation.ID,
		before, iris.Map{"status": reservation.Status, "reason": input.Reason})

	go services.NewNotificationService().NotifyReservationStatus(reservation)

	utils.JSONSuccess(ctx, iris.StatusOK, "Reservation cancelled", &reservation)
}

type AdminCancelInput struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
