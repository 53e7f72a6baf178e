package strategy

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// Settings is the process-wide strategy selection. The payment and category
// strategies are chosen at startup from configuration; an admin may switch
// them at runtime, which takes effect for subsequent requests only. All
// reads and writes go through a single mutex.
type Settings struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	payment  PaymentStrategy
	category CategoryStrategy
}

// NewSettings resolves the initial strategies from their configured names.
func NewSettings(paymentName, categoryName string, logger *zap.Logger) (*Settings, error) {
	s := &Settings{logger: logger}
	if err := s.SetPaymentStrategy(paymentName); err != nil {
		return nil, err
	}
	if err := s.SetCategoryStrategy(categoryName); err != nil {
		return nil, err
	}
	return s, nil
}

// Payment returns the current payment strategy.
func (s *Settings) Payment() PaymentStrategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payment
}

// Category returns the current category strategy.
func (s *Settings) Category() CategoryStrategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// SetPaymentStrategy switches the payment strategy by name
// ("manual" or "automated").
func (s *Settings) SetPaymentStrategy(name string) error {
	var next PaymentStrategy
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "manual":
		next = NewManualPaymentStrategy(s.logger)
	case "automated":
		next = NewAutomatedPaymentStrategy(s.logger)
	default:
		return apperrors.NewValidationError("unknown payment strategy", map[string]any{"strategy": name})
	}
	s.mu.Lock()
	s.payment = next
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Info("payment strategy selected", zap.String("strategy", next.Name()))
	}
	return nil
}

// SetCategoryStrategy switches the category strategy by name
// ("strict" or "lenient").
func (s *Settings) SetCategoryStrategy(name string) error {
	var next CategoryStrategy
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		next = NewStrictCategoryStrategy()
	case "lenient":
		next = NewLenientCategoryStrategy()
	default:
		return apperrors.NewValidationError("unknown category strategy", map[string]any{"strategy": name})
	}
	s.mu.Lock()
	s.category = next
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Info("category strategy selected", zap.String("strategy", next.Name()))
	}
	return nil
}
