package request

type RecordPaymentRequest struct {
	Amount        string `json:"amount" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card cash wallet bank_transfer"`
}
