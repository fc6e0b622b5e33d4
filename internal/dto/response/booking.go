package response

import (
	"time"

	"service-booking/internal/data/entity"
)

type BookingItemResponse struct {
	ID        string  `json:"id"`
	ServiceID string  `json:"service_id"`
	PackageID *string `json:"package_id,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Subtotal  string  `json:"subtotal"`
}

type BookingResponse struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	StartDate    string                `json:"start_date"`
	EndDate      string                `json:"end_date"`
	DurationDays int                   `json:"duration_days"`
	TotalAmount  string                `json:"total_amount"`
	Status       entity.BookingStatus  `json:"status"`
	Notes        string                `json:"notes,omitempty"`
	ApproverID   *string               `json:"approver_id,omitempty"`
	Items        []BookingItemResponse `json:"items,omitempty"`
	Payment      *PaymentResponse      `json:"payment,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// Helper converters
func BookingItemToResponse(item *entity.BookingItem) BookingItemResponse {
	resp := BookingItemResponse{
		ID:        item.ID.String(),
		ServiceID: item.ServiceID.String(),
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice.String(),
		Subtotal:  item.Subtotal.String(),
	}

	if item.PackageID != nil {
		packageID := item.PackageID.String()
		resp.PackageID = &packageID
	}

	return resp
}

func BookingToResponse(booking *entity.Booking, items []*entity.BookingItem, durationDays int, payment *PaymentResponse) BookingResponse {
	resp := BookingResponse{
		ID:           booking.ID.String(),
		UserID:       booking.UserID.String(),
		StartDate:    booking.StartDate.Format("2006-01-02"),
		EndDate:      booking.EndDate.Format("2006-01-02"),
		DurationDays: durationDays,
		TotalAmount:  booking.TotalAmount.String(),
		Status:       booking.Status,
		Notes:        booking.Notes,
		Payment:      payment,
		CreatedAt:    booking.CreatedAt,
	}

	if booking.ApproverID != nil {
		approverID := booking.ApproverID.String()
		resp.ApproverID = &approverID
	}

	for _, item := range items {
		resp.Items = append(resp.Items, BookingItemToResponse(item))
	}

	return resp
}
