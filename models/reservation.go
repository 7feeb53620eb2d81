// models/reservation.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFailed   = "failed"
)

type Reservation struct {
	gorm.Model
	ReferenceCode   string    `json:"referenceCode" gorm:"size:64;uniqueIndex"`
	UserID          uint      `json:"userId" gorm:"index"`
	User            *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PropertyID      uint      `json:"propertyId" gorm:"index"`
	Property        *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	RoomID          uint      `json:"roomId" gorm:"index"`
	Room            *Room     `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	NumGuests       int       `json:"numGuests"`
	TotalAmount     float64   `json:"totalAmount"`
	Status          string    `json:"status" gorm:"type:varchar(20);default:pending;index"`
	PaymentStatus   string    `json:"paymentStatus" gorm:"type:varchar(20);default:pending"`
	SpecialRequests string    `json:"specialRequests" gorm:"type:varchar(500)"`
}

// ReservationStatuses lists every status a reservation may hold.
var ReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCancelled,
	ReservationStatusCompleted,
}

func ValidReservationStatus(status string) bool {
	for _, s := range ReservationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// PaymentStatuses lists every payment state a reservation may hold.
var PaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusRefunded,
	PaymentStatusFailed,
}

func ValidPaymentStatus(status string) bool {
	for _, s := range PaymentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
