package response

import (
	"time"

	"service-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID          string               `json:"id"`
	BookingID   string               `json:"booking_id"`
	Amount      string               `json:"amount"`
	Method      entity.PaymentMethod `json:"method"`
	Status      entity.PaymentStatus `json:"status"`
	ReferenceNo string               `json:"reference_no"`
	PaidAt      *time.Time           `json:"paid_at,omitempty"`
	ProofURL    string               `json:"proof_url,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// CreatePaymentResponse membawa token/redirect Snap untuk checkout di frontend.
type CreatePaymentResponse struct {
	Payment     PaymentResponse `json:"payment"`
	Token       string          `json:"token"`
	RedirectURL string          `json:"redirect_url"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID.String(),
		BookingID:   payment.BookingID.String(),
		Amount:      payment.Amount.String(),
		Method:      payment.Method,
		Status:      payment.Status,
		ReferenceNo: payment.ReferenceNo,
		PaidAt:      payment.PaidAt,
		ProofURL:    payment.ProofURL,
		CreatedAt:   payment.CreatedAt,
	}
}
