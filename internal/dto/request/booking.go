package request

// CreateBookingRequest creates a booking for the authenticated customer.
// AmountOverride replaces the service base price when the total was
// adjusted (add-ons etc); commission is computed from whichever total wins.
type CreateBookingRequest struct {
	ServiceID      string  `json:"service_id" validate:"required,uuid4"`
	ScheduledAt    string  `json:"scheduled_at" validate:"required"`
	AmountOverride *string `json:"amount_override,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// CreateGuestBookingRequest is the unauthenticated variant; contact fields
// are required and stored in the booking metadata.
type CreateGuestBookingRequest struct {
	ServiceID      string  `json:"service_id" validate:"required,uuid4"`
	ScheduledAt    string  `json:"scheduled_at" validate:"required"`
	AmountOverride *string `json:"amount_override,omitempty"`
	GuestName      string  `json:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail     string  `json:"guest_email" validate:"required,email"`
	GuestPhone     *string `json:"guest_phone,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type TransitionBookingRequest struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"reason,omitempty"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// AdminUpdateBookingRequest is the administrative override; only the
// provided fields are applied.
type AdminUpdateBookingRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid"`
	Notes         *string `json:"notes,omitempty"`
}
