package strategy

import "go.uber.org/zap"

// AutoApproveThreshold is the fixed currency threshold above which the
// automated strategy approves without staff involvement.
const AutoApproveThreshold = 500.0

// PaymentStrategy decides whether a payment amount is approved. The result
// is a recommendation only; the final decision is always recorded separately
// by the calling service.
type PaymentStrategy interface {
	// Verify returns true when the amount passes the strategy's policy.
	// A nil amount always fails.
	Verify(amount *float64) bool
	Name() string
}

// ManualPaymentStrategy accepts any positive amount for staff review.
type ManualPaymentStrategy struct {
	logger *zap.Logger
}

// NewManualPaymentStrategy builds the manual strategy.
func NewManualPaymentStrategy(logger *zap.Logger) *ManualPaymentStrategy {
	return &ManualPaymentStrategy{logger: logger}
}

// Verify accepts any amount greater than zero; staff verify before final
// approval.
func (s *ManualPaymentStrategy) Verify(amount *float64) bool {
	accepted := amount != nil && *amount > 0
	if s.logger != nil {
		s.logger.Info("manual payment verification",
			zap.Float64p("amount", amount),
			zap.Bool("accepted_for_review", accepted))
	}
	return accepted
}

// Name implements PaymentStrategy.
func (s *ManualPaymentStrategy) Name() string {
	return "Manual"
}

// AutomatedPaymentStrategy auto-approves amounts above the fixed threshold;
// anything else requires manual escalation.
type AutomatedPaymentStrategy struct {
	logger *zap.Logger
}

// NewAutomatedPaymentStrategy builds the automated strategy.
func NewAutomatedPaymentStrategy(logger *zap.Logger) *AutomatedPaymentStrategy {
	return &AutomatedPaymentStrategy{logger: logger}
}

// Verify auto-approves strictly above AutoApproveThreshold.
func (s *AutomatedPaymentStrategy) Verify(amount *float64) bool {
	approved := amount != nil && *amount > AutoApproveThreshold
	if s.logger != nil {
		s.logger.Info("automated payment verification",
			zap.Float64p("amount", amount),
			zap.Float64("threshold", AutoApproveThreshold),
			zap.Bool("auto_approved", approved))
	}
	return approved
}

// Name implements PaymentStrategy.
func (s *AutomatedPaymentStrategy) Name() string {
	return "Automated"
}
