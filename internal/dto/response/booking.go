package response

import (
	"time"

	"marketplace-booking/internal/data/entity"
)

type BookingResponse struct {
	ID                 string         `json:"id"`
	CustomerID         *string        `json:"customer_id,omitempty"`
	ProviderID         string         `json:"provider_id"`
	ServiceID          string         `json:"service_id"`
	Status             string         `json:"status"`
	PaymentStatus      string         `json:"payment_status"`
	ScheduledAt        time.Time      `json:"scheduled_at"`
	TotalAmount        string         `json:"total_amount"`
	CommissionAmount   string         `json:"commission_amount"`
	Currency           string         `json:"currency"`
	CancellationReason *string        `json:"cancellation_reason,omitempty"`
	Notes              *string        `json:"notes,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                 booking.ID.String(),
		ProviderID:         booking.ProviderID.String(),
		ServiceID:          booking.ServiceID.String(),
		Status:             string(booking.Status),
		PaymentStatus:      string(booking.PaymentStatus),
		ScheduledAt:        booking.ScheduledAt,
		TotalAmount:        booking.TotalAmount.String(),
		CommissionAmount:   booking.CommissionAmount.String(),
		Currency:           booking.Currency,
		CancellationReason: booking.CancellationReason,
		Notes:              booking.Notes,
		Metadata:           booking.Metadata,
		CompletedAt:        booking.CompletedAt,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}

	if booking.CustomerID != nil {
		customerID := booking.CustomerID.String()
		resp.CustomerID = &customerID
	}

	return resp
}
