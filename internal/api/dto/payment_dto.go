package dto

import "time"

// CreateTransactionRequest records a new payment.
type CreateTransactionRequest struct {
	StudentName  string  `json:"student_name"`
	StudentID    string  `json:"student_id"`
	StudentEmail string  `json:"student_email"`
	CategoryID   *string `json:"category_id,omitempty"`
	Amount       float64 `json:"amount"`
	Method       string  `json:"method"`
}

// VerifyTransactionRequest records the verifier's decision. The configured
// strategy only recommends; this flag decides.
type VerifyTransactionRequest struct {
	Approved bool `json:"approved"`
}

// UpdateTransactionStatusRequest sets an explicit status.
type UpdateTransactionStatusRequest struct {
	Status string `json:"status"`
}

// TransactionResponse is the API shape of a payment transaction.
type TransactionResponse struct {
	ID                string     `json:"id"`
	TransactionNumber string     `json:"transaction_number"`
	StudentName       string     `json:"student_name"`
	StudentID         string     `json:"student_id"`
	StudentEmail      string     `json:"student_email"`
	CategoryID        *string    `json:"category_id,omitempty"`
	Amount            float64    `json:"amount"`
	Method            string     `json:"method"`
	Status            string     `json:"status"`
	Verified          bool       `json:"verified"`
	VerifiedBy        *string    `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// VerificationResponse pairs the updated transaction with the strategy
// recommendation that was computed for it.
type VerificationResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	Recommendation bool                `json:"strategy_recommendation"`
}
