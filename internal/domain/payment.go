package domain

// PaymentStatus tracks the payment side of a booking or delivery order.
// Payment processing itself happens in the payment service; this service
// only records the outcome it is told about.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentApproved  PaymentStatus = "approved"
	PaymentCancelled PaymentStatus = "cancelled"
)

// IsValid returns true if the payment status is recognized.
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentApproved, PaymentCancelled:
		return true
	}
	return false
}
