package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/strategy"
)

type paymentFixture struct {
	service  *PaymentService
	payments *fakePaymentRepo
	settings *strategy.Settings
}

func newPaymentFixture(t *testing.T, paymentStrategy string) *paymentFixture {
	t.Helper()
	settings, err := strategy.NewSettings(paymentStrategy, "strict", nil)
	require.NoError(t, err)
	payments := newFakePaymentRepo()
	svc := NewPaymentService(payments, newFakeCategoryRepo(), settings, nil, nil)
	return &paymentFixture{service: svc, payments: payments, settings: settings}
}

func validTransactionInput() TransactionInput {
	return TransactionInput{
		StudentName:  "Alice Chen",
		StudentID:    "S123456",
		StudentEmail: "alice@university.example",
		Amount:       250.0,
		Method:       "bank_transfer",
	}
}

func TestCreateTransactionGeneratesSequentialNumbers(t *testing.T) {
	f := newPaymentFixture(t, "manual")
	year := time.Now().Year()

	first, err := f.service.CreateTransaction(context.Background(), validTransactionInput(), "clerk")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TXN-%d-0001", year), first.TransactionNumber)
	assert.Equal(t, domain.TransactionStatusPending, first.Status)
	assert.False(t, first.Verified)

	second, err := f.service.CreateTransaction(context.Background(), validTransactionInput(), "clerk")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TXN-%d-0002", year), second.TransactionNumber)
}

func TestCreateTransactionMalformedPredecessorRestartsSequence(t *testing.T) {
	f := newPaymentFixture(t, "manual")
	year := time.Now().Year()

	// Seed a record whose suffix cannot be parsed.
	require.NoError(t, f.payments.Create(context.Background(), &domain.PaymentTransaction{
		TransactionNumber: fmt.Sprintf("TXN-%d-ZZZZ", year),
		StudentName:       "Legacy",
		StudentID:         "S0",
		Amount:            10,
		Status:            domain.TransactionStatusPending,
	}))

	txn, err := f.service.CreateTransaction(context.Background(), validTransactionInput(), "clerk")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TXN-%d-0001", year), txn.TransactionNumber)
}

func TestCreateTransactionValidation(t *testing.T) {
	f := newPaymentFixture(t, "manual")

	input := validTransactionInput()
	input.Amount = 0
	_, err := f.service.CreateTransaction(context.Background(), input, "clerk")
	assert.Error(t, err)

	input = validTransactionInput()
	input.StudentName = " "
	_, err = f.service.CreateTransaction(context.Background(), input, "clerk")
	assert.Error(t, err)

	input = validTransactionInput()
	missing := "missing-category"
	input.CategoryID = &missing
	_, err = f.service.CreateTransaction(context.Background(), input, "clerk")
	assert.Error(t, err)
}

func TestVerifyTransactionDecisionOverridesRecommendation(t *testing.T) {
	f := newPaymentFixture(t, "automated")

	input := validTransactionInput()
	input.Amount = 600.0
	txn, err := f.service.CreateTransaction(context.Background(), input, "clerk")
	require.NoError(t, err)

	// Automated strategy recommends approval above the threshold, but the
	// verifier rejects: the human decision is final.
	updated, recommendation, err := f.service.VerifyTransaction(context.Background(), txn.ID, false, "Dana")
	require.NoError(t, err)
	assert.True(t, recommendation)
	assert.Equal(t, domain.TransactionStatusRejected, updated.Status)
	assert.False(t, updated.Verified)
	require.NotNil(t, updated.VerifiedBy)
	assert.Equal(t, "Dana", *updated.VerifiedBy)
	assert.NotNil(t, updated.VerifiedAt)
}

func TestVerifyTransactionApproval(t *testing.T) {
	f := newPaymentFixture(t, "automated")

	input := validTransactionInput()
	input.Amount = 100.0
	txn, err := f.service.CreateTransaction(context.Background(), input, "clerk")
	require.NoError(t, err)

	updated, recommendation, err := f.service.VerifyTransaction(context.Background(), txn.ID, true, "Dana")
	require.NoError(t, err)
	// Below threshold the strategy recommends escalation, approval still wins.
	assert.False(t, recommendation)
	assert.Equal(t, domain.TransactionStatusVerified, updated.Status)
	assert.True(t, updated.Verified)
}

func TestUpdateStatusKeepsVerifiedAgreement(t *testing.T) {
	f := newPaymentFixture(t, "manual")
	txn, err := f.service.CreateTransaction(context.Background(), validTransactionInput(), "clerk")
	require.NoError(t, err)

	updated, err := f.service.UpdateStatus(context.Background(), txn.ID, "VERIFIED", "Dana")
	require.NoError(t, err)
	assert.True(t, updated.Verified)

	updated, err = f.service.UpdateStatus(context.Background(), txn.ID, "REJECTED", "Dana")
	require.NoError(t, err)
	assert.False(t, updated.Verified)

	updated, err = f.service.UpdateStatus(context.Background(), txn.ID, "ESCALATED", "Dana")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusEscalated, updated.Status)

	_, err = f.service.UpdateStatus(context.Background(), txn.ID, "NOT_A_STATUS", "Dana")
	assert.Error(t, err)
}

func TestPaymentStats(t *testing.T) {
	f := newPaymentFixture(t, "manual")

	first, err := f.service.CreateTransaction(context.Background(), validTransactionInput(), "clerk")
	require.NoError(t, err)
	_, err = f.service.CreateTransaction(context.Background(), validTransactionInput(), "clerk")
	require.NoError(t, err)

	_, _, err = f.service.VerifyTransaction(context.Background(), first.ID, true, "Dana")
	require.NoError(t, err)

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingCount)
	assert.Equal(t, int64(1), stats.VerifiedCount)
	assert.Equal(t, int64(0), stats.RejectedCount)
	assert.InDelta(t, 250.0, stats.TotalVerifiedAmount, 0.001)
	assert.InDelta(t, 250.0, stats.TotalPendingAmount, 0.001)
}
