package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func amount(v float64) *float64 {
	return &v
}

func TestManualPaymentStrategy(t *testing.T) {
	s := NewManualPaymentStrategy(zap.NewNop())

	assert.Equal(t, "Manual", s.Name())
	assert.True(t, s.Verify(amount(0.01)))
	assert.True(t, s.Verify(amount(10000)))
	assert.False(t, s.Verify(amount(0)))
	assert.False(t, s.Verify(amount(-5)))
	assert.False(t, s.Verify(nil))
}

func TestAutomatedPaymentStrategy(t *testing.T) {
	s := NewAutomatedPaymentStrategy(zap.NewNop())

	assert.Equal(t, "Automated", s.Name())
	assert.True(t, s.Verify(amount(500.01)))
	assert.True(t, s.Verify(amount(750)))
	// Threshold is strict: exactly 500 is not auto-approved.
	assert.False(t, s.Verify(amount(AutoApproveThreshold)))
	assert.False(t, s.Verify(amount(499.99)))
	assert.False(t, s.Verify(amount(0)))
	assert.False(t, s.Verify(nil))
}
