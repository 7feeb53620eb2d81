package services

import (
	"fmt"
	"log"

	"stay-and-go-server/models"
	"stay-and-go-server/storage"
	"stay-and-go-server/utils"
)

// NotificationService persists notification records for reservation lifecycle
// events and sends the matching emails.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyReservationCreated informs the property provider of a new booking
// request and mails a confirmation to the guest.
func (ns *NotificationService) NotifyReservationCreated(reservation models.Reservation, property models.Property) {
	notification := models.Notification{
		UserID: property.ProviderID,
		Type:   "reservation_request",
		Title:  "New Reservation Request",
		Message: fmt.Sprintf("You have a new reservation request for %s from %s to %s",
			property.Title,
			reservation.StartDate.Format("Jan 2, 2006"),
			reservation.EndDate.Format("Jan 2, 2006")),
		RefType: "reservation",
		RefID:   reservation.ID,
	}
	storage.DB.Create(&notification)

	var guest models.User
	if err := storage.DB.First(&guest, reservation.UserID).Error; err != nil {
		log.Printf("notification: guest %d not found: %v", reservation.UserID, err)
		return
	}

	html := fmt.Sprintf(`
	<p>Hi %s,</p>
	<p>We received your reservation request for <b>%s</b>
	(%s &ndash; %s, %d guest(s)). Your reference code is <b>%s</b>.
	We will let you know as soon as it is confirmed.</p>`,
		guest.FirstName, property.Title,
		reservation.StartDate.Format("Jan 2, 2006"),
		reservation.EndDate.Format("Jan 2, 2006"),
		reservation.NumGuests, reservation.ReferenceCode)

	if _, err := utils.SendMail(guest.Email, "Reservation Request Received", html); err != nil {
		log.Printf("notification: failed to email guest %d: %v", guest.ID, err)
	}
}

// NotifyReservationStatus informs the guest that the reservation moved to a
// new status, and mails them when it becomes confirmed.
func (ns *NotificationService) NotifyReservationStatus(reservation models.Reservation) {
	var property models.Property
	propertyTitle := "your stay"
	if err := storage.DB.First(&property, reservation.PropertyID).Error; err == nil {
		propertyTitle = property.Title
	}

	notification := models.Notification{
		UserID:  reservation.UserID,
		Type:    "reservation_status",
		Title:   "Reservation Status Updated",
		Message: fmt.Sprintf("Your reservation for %s has been %s", propertyTitle, reservation.Status),
		RefType: "reservation",
		RefID:   reservation.ID,
	}
	storage.DB.Create(&notification)

	if reservation.Status != models.ReservationStatusConfirmed {
		return
	}

	var guest models.User
	if err := storage.DB.First(&guest, reservation.UserID).Error; err != nil {
		return
	}

	html := fmt.Sprintf(`
	<p>Hi %s,</p>
	<p>Good news! Your reservation for <b>%s</b>
	(%s &ndash; %s) is confirmed. Reference code: <b>%s</b>.</p>`,
		guest.FirstName, propertyTitle,
		reservation.StartDate.Format("Jan 2, 2006"),
		reservation.EndDate.Format("Jan 2, 2006"),
		reservation.ReferenceCode)

	if _, err := utils.SendMail(guest.Email, "Reservation Confirmed", html); err != nil {
		log.Printf("notification: failed to email guest %d: %v", guest.ID, err)
	}
}
