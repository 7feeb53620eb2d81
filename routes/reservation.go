// routes/reservation.go
package routes

import (
	"errors"
	"fmt"
	"time"

	"stay-and-go-server/models"
	"stay-and-go-server/services"
	"stay-and-go-server/storage"
	"stay-and-go-server/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type CreateReservationInput struct {
	PropertyID      uint      `json:"propertyId" validate:"required"`
	RoomID          uint      `json:"roomId" validate:"required"`
	StartDate       time.Time `json:"startDate" validate:"required"`
	EndDate         time.Time `json:"endDate" validate:"required"`
	NumGuests       int       `json:"numGuests" validate:"required,gte=1"`
	TotalAmount     float64   `json:"totalAmount" validate:"gte=0"`
	SpecialRequests string    `json:"specialRequests" validate:"max=500"`
}

// UpdateReservationInput uses pointers so absent fields are distinguishable
// from zero values. userId, propertyId and roomId are deliberately missing:
// they are never client-mutable, regardless of role.
type UpdateReservationInput struct {
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	NumGuests       *int       `json:"numGuests"`
	TotalAmount     *float64   `json:"totalAmount"`
	Status          *string    `json:"status"`
	PaymentStatus   *string    `json:"paymentStatus"`
	SpecialRequests *string    `json:"specialRequests" validate:"omitempty,max=500"`
}

type UpdateReservationStatusInput struct {
	Status string `json:"status" validate:"required"`
}

func currentUser(ctx iris.Context) *utils.AccessToken {
	tok := jwt.Get(ctx)
	if tok == nil {
		return nil
	}
	claims, ok := tok.(*utils.AccessToken)
	if !ok {
		return nil
	}
	return claims
}

func CreateReservation(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "User not authenticated")
		return
	}

	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.StartDate.Before(input.EndDate) {
		utils.JSONFail(ctx, iris.StatusBadRequest, "startDate must be before endDate")
		return
	}
	if input.StartDate.Before(time.Now().Truncate(24 * time.Hour)) {
		utils.JSONFail(ctx, iris.StatusBadRequest, "startDate cannot be in the past")
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, input.PropertyID).Error; err != nil {
		status, msg := lookupError(err, "Property not found", "Failed to retrieve property")
		utils.JSONFail(ctx, status, msg)
		return
	}
	if property.IsActive != nil && !*property.IsActive {
		utils.JSONFail(ctx, iris.StatusNotFound, "Property not found")
		return
	}

	var room models.Room
	if err := storage.DB.Where("id = ? AND property_id = ?", input.RoomID, input.PropertyID).First(&room).Error; err != nil {
		status, msg := lookupError(err, "Room not found", "Failed to retrieve room")
		utils.JSONFail(ctx, status, msg)
		return
	}
	if !room.Bookable() {
		utils.JSONFail(ctx, iris.StatusBadRequest, "Room is not available for booking")
		return
	}

	if input.NumGuests > room.Capacity {
		utils.JSONFail(ctx, iris.StatusBadRequest,
			fmt.Sprintf("Number of guests exceeds room capacity (max %d)", room.Capacity))
		return
	}

	conflict, err := findConflictingReservation(storage.DB, input.PropertyID, input.RoomID, input.StartDate, input.EndDate, 0)
	if err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to check availability")
		return
	}
	if conflict != nil {
		utils.JSONFail(ctx, iris.StatusConflict,
			fmt.Sprintf("Room is already booked from %s to %s",
				conflict.StartDate.Format("2006-01-02"), conflict.EndDate.Format("2006-01-02")))
		return
	}

	days := durationDays(input.StartDate, input.EndDate)
	if !amountMatchesPrice(input.TotalAmount, room.PricePerNight, days) {
		utils.JSONFail(ctx, iris.StatusBadRequest,
			fmt.Sprintf("totalAmount does not match the expected price %.2f for %d night(s)",
				room.PricePerNight*float64(days), days))
		return
	}

	reservation := models.Reservation{
		ReferenceCode:   uuid.NewString(),
		UserID:          claims.ID,
		PropertyID:      input.PropertyID,
		RoomID:          input.RoomID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		NumGuests:       input.NumGuests,
		TotalAmount:     input.TotalAmount,
		Status:          models.ReservationStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		SpecialRequests: input.SpecialRequests,
	}

	// The conflict check is repeated inside the transaction with an advisory
	// lock on the room held, so two overlapping requests cannot both pass
	// the check before either write commits.
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockRoomForBooking(tx, input.PropertyID, input.RoomID); err != nil {
			return err
		}
		conflict, err := findConflictingReservation(tx, input.PropertyID, input.RoomID, input.StartDate, input.EndDate, 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &dateConflictError{conflict}
		}
		return tx.Create(&reservation).Error
	})
	if txErr != nil {
		var conflictErr *dateConflictError
		if errors.As(txErr, &conflictErr) {
			utils.JSONFail(ctx, iris.StatusConflict,
				fmt.Sprintf("Room is already booked from %s to %s",
					conflictErr.conflict.StartDate.Format("2006-01-02"),
					conflictErr.conflict.EndDate.Format("2006-01-02")))
			return
		}
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to create reservation")
		return
	}

	go services.NewNotificationService().NotifyReservationCreated(reservation, property)

	utils.JSONSuccess(ctx, iris.StatusCreated, "Reservation created successfully", iris.Map{
		"reservation":  &reservation,
		"durationDays": days,
		"room": iris.Map{
			"type":          room.Type,
			"capacity":      room.Capacity,
			"pricePerNight": room.PricePerNight,
		},
	})
}

// GetReservations returns the caller's reservations; admins see all of them.
func GetReservations(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "User not authenticated")
		return
	}

	q := storage.DB.Preload("Property").Preload("Room").Order("created_at DESC")
	if claims.Role != models.RoleAdmin {
		q = q.Where("user_id = ?", claims.ID)
	}

	var reservations []models.Reservation
	if err := q.Find(&reservations).Error; err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservations")
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "", reservations)
}

func GetReservation(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONFail(ctx, iris.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var reservation models.Reservation
	if err := storage.DB.Preload("Property").Preload("Room").First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONFail(ctx, iris.StatusNotFound, "Reservation not found")
		} else {
			utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservation")
		}
		return
	}

	perms := resolveReservationPermissions(claims, &reservation)
	if !perms.CanModify {
		utils.JSONFail(ctx, iris.StatusForbidden, "You don't have permission to view this reservation")
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "", &reservation)
}

func UpdateReservation(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONFail(ctx, iris.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var reservation models.Reservation
	if err := storage.DB.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONFail(ctx, iris.StatusNotFound, "Reservation not found")
		} else {
			utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservation")
		}
		return
	}

	perms := resolveReservationPermissions(claims, &reservation)
	if !perms.CanModify {
		utils.JSONFail(ctx, iris.StatusForbidden, "You don't have permission to update this reservation")
		return
	}

	var input UpdateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Capacity checks re-resolve the room the reservation was made for.
	var room models.Room
	if err := storage.DB.Where("id = ? AND property_id = ?", reservation.RoomID, reservation.PropertyID).First(&room).Error; err != nil {
		status, msg := lookupError(err, "Room not found", "Failed to retrieve room")
		utils.JSONFail(ctx, status, msg)
		return
	}

	var datesChanged bool
	if perms.ManageAllFields {
		changed, perr := applyAdminPatch(&reservation, &room, &input)
		if perr != nil {
			utils.JSONFail(ctx, perr.status, perr.message)
			return
		}
		datesChanged = changed
	} else {
		if perr := applyOwnerPatch(&reservation, &room, &input); perr != nil {
			utils.JSONFail(ctx, perr.status, perr.message)
			return
		}
	}

	if datesChanged {
		txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
			if err := lockRoomForBooking(tx, reservation.PropertyID, reservation.RoomID); err != nil {
				return err
			}
			conflict, err := findConflictingReservation(tx, reservation.PropertyID, reservation.RoomID,
				reservation.StartDate, reservation.EndDate, reservation.ID)
			if err != nil {
				return err
			}
			if conflict != nil {
				return &dateConflictError{conflict}
			}
			return tx.Save(&reservation).Error
		})
		if txErr != nil {
			var conflictErr *dateConflictError
			if errors.As(txErr, &conflictErr) {
				utils.JSONFail(ctx, iris.StatusConflict,
					fmt.Sprintf("Room is already booked from %s to %s",
						conflictErr.conflict.StartDate.Format("2006-01-02"),
						conflictErr.conflict.EndDate.Format("2006-01-02")))
				return
			}
			utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to update reservation")
			return
		}
	} else if err := storage.DB.Save(&reservation).Error; err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to update reservation")
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "Reservation updated successfully", &reservation)
}

func UpdateReservationStatus(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "User not authenticated")
		return
	}

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
	if err := storage.DB.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONFail(ctx, iris.StatusNotFound, "Reservation not found")
		} else {
			utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservation")
		}
		return
	}

	perms := resolveReservationPermissions(claims, &reservation)
	if !perms.CanModify {
		utils.JSONFail(ctx, iris.StatusForbidden, "You don't have permission to change this reservation")
		return
	}
	if !perms.MaySetStatus(input.Status) {
		utils.JSONFail(ctx, iris.StatusForbidden, "You may only cancel your reservation, not change its status")
		return
	}
	// Guests cannot cancel a stay that has already begun; admins can.
	if !perms.IsAdmin && !reservation.StartDate.After(time.Now()) {
		utils.JSONFail(ctx, iris.StatusForbidden, "Cannot cancel a reservation whose stay has already started")
		return
	}

	reservation.Status = input.Status
	if err := storage.DB.Save(&reservation).Error; err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to update reservation status")
		return
	}

	go services.NewNotificationService().NotifyReservationStatus(reservation)

	utils.JSONSuccess(ctx, iris.StatusOK, "Reservation status updated", &reservation)
}

func DeleteReservation(ctx iris.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		utils.JSONFail(ctx, iris.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONFail(ctx, iris.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var reservation models.Reservation
	if err := storage.DB.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONFail(ctx, iris.StatusNotFound, "Reservation not found")
		} else {
			utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to retrieve reservation")
		}
		return
	}

	perms := resolveReservationPermissions(claims, &reservation)
	if !perms.CanModify {
		utils.JSONFail(ctx, iris.StatusForbidden, "You don't have permission to delete this reservation")
		return
	}
	if !perms.IsAdmin {
		if reservation.Status != models.ReservationStatusPending && reservation.Status != models.ReservationStatusCancelled {
			utils.JSONFail(ctx, iris.StatusForbidden, "Cannot delete a confirmed or completed reservation")
			return
		}
		if reservation.StartDate.Before(time.Now()) {
			utils.JSONFail(ctx, iris.StatusForbidden, "Cannot delete a reservation that has already started")
			return
		}
	}

	if err := storage.DB.Delete(&reservation).Error; err != nil {
		utils.JSONFail(ctx, iris.StatusInternalServerError, "Failed to delete reservation")
		return
	}

	utils.JSONSuccess(ctx, iris.StatusOK, "Reservation deleted successfully", iris.Map{
		"id":         reservation.ID,
		"propertyId": reservation.PropertyID,
		"roomId":     reservation.RoomID,
		"status":     reservation.Status,
		"startDate":  reservation.StartDate,
		"endDate":    reservation.EndDate,
	})
}
