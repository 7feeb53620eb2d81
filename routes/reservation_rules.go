package routes

import (
	"errors"
	"fmt"
	"math"
	"time"

	"stay-and-go-server/models"
	"stay-and-go-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// priceTolerance is the accepted drift between the client-supplied total and
// the amount derived from the room's nightly price.
const priceTolerance = 0.01

// activeReservationStatuses are the statuses that hold a room's dates.
var activeReservationStatuses = []string{
	models.ReservationStatusPending,
	models.ReservationStatusConfirmed,
}

// intervalsOverlap reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back stays (one ending exactly when the
// other starts) do not overlap.
func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// durationDays is the stay length in whole days, rounding partial days up.
func durationDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

func amountMatchesPrice(amount, pricePerNight float64, days int) bool {
	return math.Abs(pricePerNight*float64(days)-amount) <= priceTolerance
}

// findConflictingReservation returns the earliest-starting reservation on the
// same room whose active booking overlaps [start, end), or nil when the range
// is free. excludeID skips a reservation so an update does not conflict with
// itself.
func findConflictingReservation(db *gorm.DB, propertyID, roomID uint, start, end time.Time, excludeID uint) (*models.Reservation, error) {
	q := db.Model(&models.Reservation{}).
		Where("property_id = ? AND room_id = ? AND status IN ? AND start_date < ? AND end_date > ?",
			propertyID, roomID, activeReservationStatuses, end, start)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}

	var conflict models.Reservation
	res := q.Order("start_date ASC").Limit(1).Find(&conflict)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &conflict, nil
}

// roomLockKeys maps a (property, room) pair onto the two int32 keys a
// Postgres advisory lock takes. IDs beyond int32 wrap; two rooms sharing a
// key pair can only over-serialize, never under-lock.
func roomLockKeys(propertyID, roomID uint) (int32, int32) {
	return int32(uint32(propertyID)), int32(uint32(roomID))
}

// lockRoomForBooking serializes writers on a room for the rest of the
// transaction. A row lock cannot do this: when the room has no overlapping
// reservations yet, FOR UPDATE locks nothing and two first bookings can both
// pass the conflict check and insert.
func lockRoomForBooking(tx *gorm.DB, propertyID, roomID uint) error {
	k1, k2 := roomLockKeys(propertyID, roomID)
	return tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", k1, k2).Error
}

// lookupError maps a failed record read to a response status and message,
// keeping a missing row distinct from a database fault.
func lookupError(err error, notFoundMsg, failureMsg string) (int, string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return iris.StatusNotFound, notFoundMsg
	}
	return iris.StatusInternalServerError, failureMsg
}

// dateConflictError carries the conflicting reservation out of a transaction.
type dateConflictError struct {
	conflict *models.Reservation
}

func (e *dateConflictError) Error() string {
	return fmt.Sprintf("room already booked from %s to %s",
		e.conflict.StartDate.Format("2006-01-02"), e.conflict.EndDate.Format("2006-01-02"))
}

// reservationPermissions is the single authorization decision for a caller
// acting on a reservation: ownership, the fields they may touch and the
// statuses they may set. Update, status-change and delete handlers all
// consume it instead of scattering role conditionals.
type reservationPermissions struct {
	IsOwner         bool
	IsAdmin         bool
	CanModify       bool // owner or admin
	ManageAllFields bool // admin only; owners are limited to the guest-editable subset
	AllowedStatuses []string
}

func resolveReservationPermissions(claims *utils.AccessToken, r *models.Reservation) reservationPermissions {
	var p reservationPermissions
	if claims == nil {
		return p
	}
	p.IsAdmin = claims.Role == models.RoleAdmin
	p.IsOwner = r.UserID == claims.ID
	p.CanModify = p.IsAdmin || p.IsOwner
	p.ManageAllFields = p.IsAdmin

	switch {
	case p.IsAdmin:
		p.AllowedStatuses = models.ReservationStatuses
	case p.IsOwner:
		p.AllowedStatuses = []string{models.ReservationStatusCancelled}
	}
	return p
}

func (p reservationPermissions) MaySetStatus(status string) bool {
	for _, s := range p.AllowedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// patchError is a business-rule violation raised while applying an update.
type patchError struct {
	status  int
	message string
}

// applyOwnerPatch merges the guest-editable subset of an update into the
// reservation: special requests, guest count (capacity re-checked against the
// reservation's room) and a cancellation. Every other field in the patch is
// dropped without error.
func applyOwnerPatch(r *models.Reservation, room *models.Room, input *UpdateReservationInput) *patchError {
	if input.Status != nil && *input.Status != models.ReservationStatusCancelled {
		return &patchError{403, "You may only cancel your reservation, not change its status"}
	}
	if input.NumGuests != nil && *input.NumGuests > room.Capacity {
		return &patchError{400, fmt.Sprintf("Number of guests exceeds room capacity (max %d)", room.Capacity)}
	}

	if input.SpecialRequests != nil {
		r.SpecialRequests = *input.SpecialRequests
	}
	if input.NumGuests != nil {
		r.NumGuests = *input.NumGuests
	}
	if input.Status != nil {
		r.Status = *input.Status
	}
	return nil
}

// applyAdminPatch merges any field except the identity references, which are
// never client-mutable. Reports whether the date range changed so the caller
// can re-run the conflict check.
func applyAdminPatch(r *models.Reservation, room *models.Room, input *UpdateReservationInput) (datesChanged bool, perr *patchError) {
	start, end := r.StartDate, r.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if input.StartDate != nil || input.EndDate != nil {
		if !start.Before(end) {
			return false, &patchError{400, "startDate must be before endDate"}
		}
		datesChanged = true
	}

	if input.Status != nil && !models.ValidReservationStatus(*input.Status) {
		return false, &patchError{400, fmt.Sprintf("Invalid status, must be one of: %v", models.ReservationStatuses)}
	}
	if input.PaymentStatus != nil && !models.ValidPaymentStatus(*input.PaymentStatus) {
		return false, &patchError{400, fmt.Sprintf("Invalid payment status, must be one of: %v", models.PaymentStatuses)}
	}
	if input.NumGuests != nil && *input.NumGuests > room.Capacity {
		return false, &patchError{400, fmt.Sprintf("Number of guests exceeds room capacity (max %d)", room.Capacity)}
	}

	r.StartDate = start
	r.EndDate = end
	if input.NumGuests != nil {
		r.NumGuests = *input.NumGuests
	}
	if input.TotalAmount != nil {
		r.TotalAmount = *input.TotalAmount
	}
	if input.Status != nil {
		r.Status = *input.Status
	}
	if input.PaymentStatus != nil {
		r.PaymentStatus = *input.PaymentStatus
	}
	if input.SpecialRequests != nil {
		r.SpecialRequests = *input.SpecialRequests
	}
	return datesChanged, nil
}
