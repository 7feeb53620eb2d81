package routes

import (
	"errors"
	"testing"
	"time"

	"stay-and-go-server/models"
	"stay-and-go-server/utils"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func TestIntervalsOverlap(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", day(1), day(5), day(1), day(5), true},
		{"contained", day(1), day(10), day(3), day(5), true},
		{"partial front", day(1), day(5), day(4), day(8), true},
		{"partial back", day(4), day(8), day(1), day(5), true},
		{"disjoint", day(1), day(3), day(5), day(8), false},
		{"back to back, a first", day(1), day(5), day(5), day(8), false},
		{"back to back, b first", day(5), day(8), day(1), day(5), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, intervalsOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, intervalsOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestDurationDays(t *testing.T) {
	assert.Equal(t, 3, durationDays(day(1), day(4)))
	assert.Equal(t, 1, durationDays(day(1), day(2)))

	// Partial days round up.
	assert.Equal(t, 2, durationDays(day(1), day(2).Add(6*time.Hour)))
	assert.Equal(t, 1, durationDays(day(1), day(1).Add(90*time.Minute)))
}

func TestAmountMatchesPrice(t *testing.T) {
	assert.True(t, amountMatchesPrice(300, 100, 3))
	assert.True(t, amountMatchesPrice(300.01, 100, 3))
	assert.True(t, amountMatchesPrice(299.99, 100, 3))
	assert.False(t, amountMatchesPrice(300.02, 100, 3))
	assert.False(t, amountMatchesPrice(200, 100, 3))
}

func TestResolveReservationPermissions(t *testing.T) {
	reservation := &models.Reservation{UserID: 7}

	t.Run("owner", func(t *testing.T) {
		p := resolveReservationPermissions(&utils.AccessToken{ID: 7, Role: models.RoleUser}, reservation)
		assert.True(t, p.IsOwner)
		assert.True(t, p.CanModify)
		assert.False(t, p.ManageAllFields)
		assert.True(t, p.MaySetStatus(models.ReservationStatusCancelled))
		assert.False(t, p.MaySetStatus(models.ReservationStatusConfirmed))
	})

	t.Run("stranger", func(t *testing.T) {
		p := resolveReservationPermissions(&utils.AccessToken{ID: 8, Role: models.RoleUser}, reservation)
		assert.False(t, p.CanModify)
		assert.False(t, p.MaySetStatus(models.ReservationStatusCancelled))
	})

	t.Run("admin", func(t *testing.T) {
		p := resolveReservationPermissions(&utils.AccessToken{ID: 99, Role: models.RoleAdmin}, reservation)
		assert.False(t, p.IsOwner)
		assert.True(t, p.CanModify)
		assert.True(t, p.ManageAllFields)
		for _, status := range models.ReservationStatuses {
			assert.True(t, p.MaySetStatus(status), status)
		}
	})

	t.Run("no claims", func(t *testing.T) {
		p := resolveReservationPermissions(nil, reservation)
		assert.False(t, p.CanModify)
	})
}

func TestApplyOwnerPatch(t *testing.T) {
	room := &models.Room{Capacity: 4}

	t.Run("editable subset", func(t *testing.T) {
		r := &models.Reservation{NumGuests: 2, Status: models.ReservationStatusPending}
		requests := "late check-in"
		guests := 3
		perr := applyOwnerPatch(r, room, &UpdateReservationInput{
			SpecialRequests: &requests,
			NumGuests:       &guests,
		})
		assert.Nil(t, perr)
		assert.Equal(t, "late check-in", r.SpecialRequests)
		assert.Equal(t, 3, r.NumGuests)
	})

	t.Run("cancel allowed", func(t *testing.T) {
		r := &models.Reservation{Status: models.ReservationStatusPending}
		status := models.ReservationStatusCancelled
		perr := applyOwnerPatch(r, room, &UpdateReservationInput{Status: &status})
		assert.Nil(t, perr)
		assert.Equal(t, models.ReservationStatusCancelled, r.Status)
	})

	t.Run("confirm forbidden", func(t *testing.T) {
		r := &models.Reservation{Status: models.ReservationStatusPending}
		status := models.ReservationStatusConfirmed
		perr := applyOwnerPatch(r, room, &UpdateReservationInput{Status: &status})
		if assert.NotNil(t, perr) {
			assert.Equal(t, 403, perr.status)
		}
		assert.Equal(t, models.ReservationStatusPending, r.Status)
	})

	t.Run("guests at capacity succeed", func(t *testing.T) {
		r := &models.Reservation{NumGuests: 2}
		guests := room.Capacity
		perr := applyOwnerPatch(r, room, &UpdateReservationInput{NumGuests: &guests})
		assert.Nil(t, perr)
		assert.Equal(t, 4, r.NumGuests)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		r := &models.Reservation{NumGuests: 2}
		guests := 5
		perr := applyOwnerPatch(r, room, &UpdateReservationInput{NumGuests: &guests})
		if assert.NotNil(t, perr) {
			assert.Equal(t, 400, perr.status)
			assert.Contains(t, perr.message, "max 4")
		}
		assert.Equal(t, 2, r.NumGuests)
	})

	t.Run("restricted fields dropped silently", func(t *testing.T) {
		r := &models.Reservation{TotalAmount: 300, StartDate: day(1), EndDate: day(4)}
		amount := 1.0
		start := day(2)
		perr := applyOwnerPatch(r, room, &UpdateReservationInput{
			TotalAmount: &amount,
			StartDate:   &start,
		})
		assert.Nil(t, perr)
		assert.Equal(t, 300.0, r.TotalAmount)
		assert.Equal(t, day(1), r.StartDate)
	})
}

func TestApplyAdminPatch(t *testing.T) {
	room := &models.Room{Capacity: 4}

	t.Run("full update", func(t *testing.T) {
		r := &models.Reservation{StartDate: day(1), EndDate: day(4), NumGuests: 2, TotalAmount: 300}
		start, end := day(10), day(12)
		amount := 200.0
		status := models.ReservationStatusConfirmed
		payment := models.PaymentStatusPaid
		changed, perr := applyAdminPatch(r, room, &UpdateReservationInput{
			StartDate:     &start,
			EndDate:       &end,
			TotalAmount:   &amount,
			Status:        &status,
			PaymentStatus: &payment,
		})
		assert.Nil(t, perr)
		assert.True(t, changed)
		assert.Equal(t, day(10), r.StartDate)
		assert.Equal(t, 200.0, r.TotalAmount)
		assert.Equal(t, models.ReservationStatusConfirmed, r.Status)
		assert.Equal(t, models.PaymentStatusPaid, r.PaymentStatus)
	})

	t.Run("moving one date keeps range valid", func(t *testing.T) {
		r := &models.Reservation{StartDate: day(1), EndDate: day(4)}
		start := day(6)
		changed, perr := applyAdminPatch(r, room, &UpdateReservationInput{StartDate: &start})
		assert.False(t, changed)
		if assert.NotNil(t, perr) {
			assert.Equal(t, 400, perr.status)
		}
		assert.Equal(t, day(1), r.StartDate)
	})

	t.Run("no date change reported when dates untouched", func(t *testing.T) {
		r := &models.Reservation{StartDate: day(1), EndDate: day(4)}
		guests := 3
		changed, perr := applyAdminPatch(r, room, &UpdateReservationInput{NumGuests: &guests})
		assert.Nil(t, perr)
		assert.False(t, changed)
		assert.Equal(t, 3, r.NumGuests)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		r := &models.Reservation{Status: models.ReservationStatusPending}
		status := "archived"
		_, perr := applyAdminPatch(r, room, &UpdateReservationInput{Status: &status})
		if assert.NotNil(t, perr) {
			assert.Equal(t, 400, perr.status)
		}
	})

	t.Run("guests at capacity succeed", func(t *testing.T) {
		r := &models.Reservation{NumGuests: 2}
		guests := room.Capacity
		changed, perr := applyAdminPatch(r, room, &UpdateReservationInput{NumGuests: &guests})
		assert.Nil(t, perr)
		assert.False(t, changed)
		assert.Equal(t, 4, r.NumGuests)
	})

	t.Run("invalid payment status rejected", func(t *testing.T) {
		r := &models.Reservation{PaymentStatus: models.PaymentStatusPending}
		payment := "banana"
		_, perr := applyAdminPatch(r, room, &UpdateReservationInput{PaymentStatus: &payment})
		if assert.NotNil(t, perr) {
			assert.Equal(t, 400, perr.status)
		}
		assert.Equal(t, models.PaymentStatusPending, r.PaymentStatus)
	})

	t.Run("capacity still enforced", func(t *testing.T) {
		r := &models.Reservation{NumGuests: 2}
		guests := 9
		_, perr := applyAdminPatch(r, room, &UpdateReservationInput{NumGuests: &guests})
		if assert.NotNil(t, perr) {
			assert.Equal(t, 400, perr.status)
			assert.Contains(t, perr.message, "max 4")
		}
	})
}

func TestRoomLockKeys(t *testing.T) {
	k1, k2 := roomLockKeys(42, 7)
	assert.Equal(t, int32(42), k1)
	assert.Equal(t, int32(7), k2)

	// Same pair always maps to the same keys, so concurrent bookers of one
	// room contend for one lock.
	k3, k4 := roomLockKeys(42, 7)
	assert.Equal(t, k1, k3)
	assert.Equal(t, k2, k4)

	// IDs past int32 wrap instead of panicking.
	k5, _ := roomLockKeys(uint(1)<<33+5, 1)
	assert.Equal(t, int32(5), k5)
}

func TestLookupError(t *testing.T) {
	status, msg := lookupError(gorm.ErrRecordNotFound, "Room not found", "Failed to retrieve room")
	assert.Equal(t, 404, status)
	assert.Equal(t, "Room not found", msg)

	status, msg = lookupError(errors.New("connection refused"), "Room not found", "Failed to retrieve room")
	assert.Equal(t, 500, status)
	assert.Equal(t, "Failed to retrieve room", msg)
}

func TestValidPaymentStatus(t *testing.T) {
	for _, status := range models.PaymentStatuses {
		assert.True(t, models.ValidPaymentStatus(status))
	}
	assert.False(t, models.ValidPaymentStatus("banana"))
	assert.False(t, models.ValidPaymentStatus(""))
	assert.False(t, models.ValidPaymentStatus("Paid"))
}

func TestValidReservationStatus(t *testing.T) {
	for _, status := range models.ReservationStatuses {
		assert.True(t, models.ValidReservationStatus(status))
	}
	assert.False(t, models.ValidReservationStatus("archived"))
	assert.False(t, models.ValidReservationStatus(""))
	assert.False(t, models.ValidReservationStatus("Pending"))
}
