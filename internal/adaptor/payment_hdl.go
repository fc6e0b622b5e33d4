package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"service-booking/internal/dto/request"
	"service-booking/internal/usecase"
	"service-booking/pkg/utils"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreatePayment handles POST /api/payments/create/{bookingId} (protected)
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	payment, err := h.service.CreatePayment(r.Context(), userID.String(), chi.URLParam(r, "bookingId"), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseCreated(w, "Payment created", payment)
}

// CheckStatus handles GET /api/payments/{id}/status (protected)
func (h *PaymentHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	payment, err := h.service.CheckStatus(r.Context(), userID.String(), isAdminRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// HandleNotification handles POST /api/payments/notification (webhook gateway).
// Selalu membalas 200 apa pun hasilnya; gagal proses cukup dicatat dan
// menunggu redelivery, balasan non-2xx hanya memicu badai retry.
func (h *PaymentHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	var payload request.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Warn("Webhook payload is not valid JSON", zap.Error(err))
		utils.ResponseSuccess(w, "OK", nil)
		return
	}

	if err := h.service.HandleNotification(r.Context(), &payload); err != nil {
		h.log.Error("Failed to process payment notification",
			zap.Error(err), zap.String("order_id", payload.OrderID))
	}

	utils.ResponseSuccess(w, "OK", nil)
}
