package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/events"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	"github.com/campus-helpdesk/helpdesk-service/internal/strategy"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

const transactionNumberPrefix = "TXN"

// PaymentService manages standalone payment transactions recorded by the
// business office: creation with sequential transaction numbers, strategy
// assisted verification, and aggregate stats.
type PaymentService struct {
	payments   repository.PaymentRepository
	categories repository.CategoryRepository
	settings   *strategy.Settings
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPaymentService constructs the service.
func NewPaymentService(
	payments repository.PaymentRepository,
	categories repository.CategoryRepository,
	settings *strategy.Settings,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:   payments,
		categories: categories,
		settings:   settings,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// TransactionInput describes a new payment record.
type TransactionInput struct {
	StudentName  string
	StudentID    string
	StudentEmail string
	CategoryID   *string
	Amount       float64
	Method       string
}

// CreateTransaction records a PENDING, unverified transaction with a
// freshly generated transaction number.
func (s *PaymentService) CreateTransaction(ctx context.Context, input TransactionInput, createdBy string) (*domain.PaymentTransaction, error) {
	if strings.TrimSpace(input.StudentName) == "" {
		return nil, apperrors.NewValidationError("student name is required", nil)
	}
	if strings.TrimSpace(input.StudentID) == "" {
		return nil, apperrors.NewValidationError("student id is required", nil)
	}
	if input.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", map[string]any{"amount": input.Amount})
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	number, err := s.generateTransactionNumber(ctx)
	if err != nil {
		return nil, err
	}

	modifier := createdBy
	txn := &domain.PaymentTransaction{
		TransactionNumber: number,
		StudentName:       strings.TrimSpace(input.StudentName),
		StudentID:         strings.TrimSpace(input.StudentID),
		StudentEmail:      strings.ToLower(strings.TrimSpace(input.StudentEmail)),
		CategoryID:        input.CategoryID,
		Amount:            input.Amount,
		Method:            strings.TrimSpace(input.Method),
		Status:            domain.TransactionStatusPending,
		Verified:          false,
		LastModifiedBy:    &modifier,
	}
	if err := s.payments.Create(ctx, txn); err != nil {
		return nil, apperrors.MapError(err)
	}
	return txn, nil
}

// generateTransactionNumber produces TXN-<year>-<seq> with a zero-padded
// four digit sequence that is monotonic within the year. A malformed
// predecessor restarts the sequence at 0001 rather than failing intake.
func (s *PaymentService) generateTransactionNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", transactionNumberPrefix, year)

	latest, err := s.payments.LatestTransactionNumber(ctx, prefix)
	if err != nil {
		return "", apperrors.MapError(err)
	}

	next := 1
	if latest != "" {
		suffix := strings.TrimPrefix(latest, prefix)
		if seq, parseErr := strconv.Atoi(suffix); parseErr == nil && seq > 0 {
			next = seq + 1
		} else if s.logger != nil {
			s.logger.Warn("malformed transaction number, restarting sequence",
				zap.String("latest", latest))
		}
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

// VerifyTransaction runs the configured payment strategy for a
// recommendation, then records the caller's decision as final. The status
// and verified flag always agree: VERIFIED pairs with true, REJECTED with
// false. Returns the updated transaction and the strategy recommendation.
func (s *PaymentService) VerifyTransaction(ctx context.Context, id string, approved bool, verifiedBy string) (*domain.PaymentTransaction, bool, error) {
	txn, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	verifier := s.settings.Payment()
	amount := txn.Amount
	recommendation := verifier.Verify(&amount)
	if s.logger != nil {
		s.logger.Info("payment verification decision",
			zap.String("transaction_number", txn.TransactionNumber),
			zap.String("strategy", verifier.Name()),
			zap.Bool("recommendation", recommendation),
			zap.Bool("final_decision", approved))
	}

	now := time.Now()
	txn.Verified = approved
	txn.VerifiedBy = &verifiedBy
	txn.VerifiedAt = &now
	txn.LastModifiedBy = &verifiedBy
	if approved {
		txn.Status = domain.TransactionStatusVerified
	} else {
		txn.Status = domain.TransactionStatusRejected
	}
	if err := s.payments.Update(ctx, txn); err != nil {
		return nil, recommendation, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPaymentVerified,
			SubjectID: txn.ID,
			Timestamp: now,
			Payload: events.PaymentVerifiedPayload{
				TransactionNumber: txn.TransactionNumber,
				Recommendation:    recommendation,
				FinalDecision:     approved,
				Status:            txn.Status,
			},
		})
	}
	return txn, recommendation, nil
}

// UpdateStatus sets an explicit transaction status, keeping the verified
// flag in agreement for the terminal verification states.
func (s *PaymentService) UpdateStatus(ctx context.Context, id, statusValue, modifiedBy string) (*domain.PaymentTransaction, error) {
	status, ok := domain.ParseTransactionStatus(statusValue)
	if !ok {
		return nil, apperrors.NewValidationError("unknown transaction status", map[string]any{"status": statusValue})
	}

	txn, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	txn.Status = status
	switch status {
	case domain.TransactionStatusVerified:
		txn.Verified = true
	case domain.TransactionStatusRejected:
		txn.Verified = false
	}
	txn.LastModifiedBy = &modifiedBy
	if err := s.payments.Update(ctx, txn); err != nil {
		return nil, apperrors.MapError(err)
	}
	return txn, nil
}

// GetByID fetches one transaction.
func (s *PaymentService) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	txn, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("transaction", map[string]any{"transaction_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return txn, nil
}

// GetByTransactionNumber fetches one transaction by its business key.
func (s *PaymentService) GetByTransactionNumber(ctx context.Context, number string) (*domain.PaymentTransaction, error) {
	txn, err := s.payments.GetByTransactionNumber(ctx, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("transaction", map[string]any{"transaction_number": number})
		}
		return nil, apperrors.MapError(err)
	}
	return txn, nil
}

// List returns transactions matching the filter.
func (s *PaymentService) List(ctx context.Context, filter repository.TransactionFilter) ([]domain.PaymentTransaction, error) {
	txns, err := s.payments.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return txns, nil
}

// Delete removes a transaction record.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if err := s.payments.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("transaction", map[string]any{"transaction_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// PaymentStats aggregates transaction counters for the finance dashboard.
type PaymentStats struct {
	PendingCount        int64   `json:"pending_count"`
	VerifiedCount       int64   `json:"verified_count"`
	RejectedCount       int64   `json:"rejected_count"`
	EscalatedCount      int64   `json:"escalated_count"`
	TotalVerifiedAmount float64 `json:"total_verified_amount"`
	TotalPendingAmount  float64 `json:"total_pending_amount"`
}

// Stats computes aggregate counters.
func (s *PaymentService) Stats(ctx context.Context) (*PaymentStats, error) {
	stats := &PaymentStats{}
	var err error
	if stats.PendingCount, err = s.payments.CountByStatus(ctx, domain.TransactionStatusPending); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.VerifiedCount, err = s.payments.CountByStatus(ctx, domain.TransactionStatusVerified); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.RejectedCount, err = s.payments.CountByStatus(ctx, domain.TransactionStatusRejected); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.EscalatedCount, err = s.payments.CountByStatus(ctx, domain.TransactionStatusEscalated); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.TotalVerifiedAmount, err = s.payments.SumAmountByVerified(ctx, true); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.TotalPendingAmount, err = s.payments.SumAmountByStatus(ctx, domain.TransactionStatusPending); err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}
