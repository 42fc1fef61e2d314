package entity

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationNewBooking       NotificationType = "new_booking"
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationBookingCompleted NotificationType = "booking_completed"
	NotificationPaymentReceived  NotificationType = "payment_received"
	NotificationNewReview        NotificationType = "new_review"
)

// Notification is a fire-and-forget side effect; title and message carry
// both locales.
type Notification struct {
	BaseSimple
	TenantID  uuid.UUID        `db:"tenant_id"`
	UserID    uuid.UUID        `db:"user_id"`
	Type      NotificationType `db:"type"`
	TitleEn   string           `db:"title_en"`
	TitleAr   string           `db:"title_ar"`
	MessageEn string           `db:"message_en"`
	MessageAr string           `db:"message_ar"`
	Data      map[string]any   `db:"data"`
	IsRead    bool             `db:"is_read"`
}
