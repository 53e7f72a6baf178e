package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictCategoryValidate(t *testing.T) {
	s := NewStrictCategoryStrategy()

	assert.NoError(t, s.Validate("Fees"))
	assert.NoError(t, s.Validate(strings.Repeat("a", MaxCategoryNameLength)))
	assert.Error(t, s.Validate(""))
	assert.Error(t, s.Validate("   "))
	assert.Error(t, s.Validate(strings.Repeat("a", MaxCategoryNameLength+1)))
}

func TestStrictCategoryCheckDuplicate(t *testing.T) {
	s := NewStrictCategoryStrategy()
	existing := []string{"Fees", "Housing", "IT Support"}

	assert.Error(t, s.CheckDuplicate("", "Fees", existing))
	assert.NoError(t, s.CheckDuplicate("", "Library", existing))

	// Renaming a category to its own current name is not a duplicate.
	assert.NoError(t, s.CheckDuplicate("Fees", "Fees", existing))
	assert.Error(t, s.CheckDuplicate("Housing", "Fees", existing))
}

func TestLenientCategoryStrategy(t *testing.T) {
	s := NewLenientCategoryStrategy()
	existing := []string{"Fees"}

	assert.Error(t, s.Validate(""))
	assert.NoError(t, s.Validate(strings.Repeat("a", 300)))
	assert.NoError(t, s.CheckDuplicate("", "Fees", existing))
}

func TestSettingsSwitching(t *testing.T) {
	settings, err := NewSettings("manual", "strict", nil)
	require.NoError(t, err)

	assert.Equal(t, "Manual", settings.Payment().Name())
	assert.Equal(t, "Strict", settings.Category().Name())

	require.NoError(t, settings.SetPaymentStrategy("automated"))
	assert.Equal(t, "Automated", settings.Payment().Name())

	require.NoError(t, settings.SetCategoryStrategy("lenient"))
	assert.Equal(t, "Lenient", settings.Category().Name())

	// Unknown names are rejected and leave the current selection alone.
	assert.Error(t, settings.SetPaymentStrategy("psychic"))
	assert.Equal(t, "Automated", settings.Payment().Name())
	assert.Error(t, settings.SetCategoryStrategy(""))
	assert.Equal(t, "Lenient", settings.Category().Name())
}

func TestNewSettingsUnknownStrategy(t *testing.T) {
	_, err := NewSettings("bogus", "strict", nil)
	assert.Error(t, err)

	_, err = NewSettings("manual", "bogus", nil)
	assert.Error(t, err)
}
