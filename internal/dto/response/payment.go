package response

import (
	"time"

	"marketplace-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID               string    `json:"id"`
	BookingID        string    `json:"booking_id"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	PaymentMethod    string    `json:"payment_method"`
	GatewayReference string    `json:"gateway_reference"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               payment.ID.String(),
		BookingID:        payment.BookingID.String(),
		Amount:           payment.Amount.String(),
		Currency:         payment.Currency,
		PaymentMethod:    payment.PaymentMethod,
		GatewayReference: payment.GatewayReference,
		Status:           string(payment.Status),
		CreatedAt:        payment.CreatedAt,
	}
}
