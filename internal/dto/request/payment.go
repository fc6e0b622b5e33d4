package request

type CreatePaymentRequest struct {
	Method string `json:"method" validate:"required,oneof=QRIS TRANSFER CASH"`
}

// PaymentNotification adalah payload webhook dari gateway. Status di dalamnya
// tidak dipercaya begitu saja; status otoritatif dicek ulang ke gateway.
type PaymentNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}
