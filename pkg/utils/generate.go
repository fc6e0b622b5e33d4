package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== PAYMENT REFERENCE ====================

// maxReferenceLength is the gateway's order_id cap.
const maxReferenceLength = 50

// GeneratePaymentReference builds the order reference handed to the payment
// gateway: a deterministic truncation of the booking id plus a time-based
// suffix. Format: PAY-XXXXXXXX-1700000000000
func GeneratePaymentReference(bookingID uuid.UUID) string {
	idPart := strings.ToUpper(strings.ReplaceAll(bookingID.String(), "-", ""))[:8]
	ref := fmt.Sprintf("PAY-%s-%d", idPart, time.Now().UnixMilli())

	if len(ref) > maxReferenceLength {
		ref = ref[:maxReferenceLength]
	}
	return ref
}
