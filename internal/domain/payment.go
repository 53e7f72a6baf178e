package domain

import "time"

// TransactionStatus enumerates payment transaction states.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusVerified  TransactionStatus = "VERIFIED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
	TransactionStatusEscalated TransactionStatus = "ESCALATED"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
)

// ParseTransactionStatus returns the status matching the given value and
// whether the value was recognised.
func ParseTransactionStatus(value string) (TransactionStatus, bool) {
	switch TransactionStatus(value) {
	case TransactionStatusPending, TransactionStatusVerified, TransactionStatusRejected,
		TransactionStatusEscalated, TransactionStatusCompleted:
		return TransactionStatus(value), true
	}
	return "", false
}

// PaymentTransaction represents a student fee payment tracked through the
// payment portal. TransactionNumber is generated server-side in the form
// TXN-YYYY-NNNN, monotonically increasing per year. Status and the Verified
// flag must agree: VERIFIED implies verified=true, REJECTED implies
// verified=false.
type PaymentTransaction struct {
	ID                string
	TransactionNumber string
	StudentName       string
	StudentID         string
	StudentEmail      string
	CategoryID        *string
	Amount            float64
	Method            string
	Status            TransactionStatus
	Verified          bool
	VerifiedBy        *string
	VerifiedAt        *time.Time
	LastModifiedBy    *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
