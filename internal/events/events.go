// Package events defines the routing keys and payloads published to the
// notification sink. Delivery is at-least-once; consumers must tolerate
// duplicates.
package events

const (
	RKBookingCreated   = "booking.created"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingStarted   = "booking.started"
	RKBookingCompleted = "booking.completed"
	RKBookingCancelled = "booking.cancelled"

	RKPaymentPaid = "payment.paid"
)

type BookingEvent struct {
	TenantID   string `json:"tenant_id"`
	BookingID  string `json:"booking_id"`
	ProviderID string `json:"provider_id"`
	CustomerID string `json:"customer_id,omitempty"` // empty for guest bookings
	Status     string `json:"status"`
}

type PaymentEvent struct {
	TenantID  string `json:"tenant_id"`
	BookingID string `json:"booking_id"`
	PaymentID string `json:"payment_id"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}
