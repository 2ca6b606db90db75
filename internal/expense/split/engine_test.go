package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDefaults_FillsMissingOnly(t *testing.T) {
	inputs := Inputs{}
	inputs.SetPercentage("a", 50)

	inputs, err := InitializeDefaults(1000, ids("a", "b", "c"), TypePercentages, inputs)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, *inputs["a"].Percentage, 0.001)
	assert.InDelta(t, 100.0/3, *inputs["b"].Percentage, 0.001)
	assert.InDelta(t, 100.0/3, *inputs["c"].Percentage, 0.001)
}

func TestInitializeDefaults_Idempotent(t *testing.T) {
	inputs, err := InitializeDefaults(1000, ids("a", "b", "c"), TypeShares, nil)
	require.NoError(t, err)
	inputs.SetShares("b", 7)

	again, err := InitializeDefaults(1000, ids("a", "b", "c"), TypeShares, inputs)
	require.NoError(t, err)

	assert.Equal(t, 7, *again["b"].Shares)
	assert.Equal(t, 1, *again["a"].Shares)
}

func TestInitializeDefaults_ExactAmountsStartBalanced(t *testing.T) {
	participants := ids("a", "b", "c")
	inputs, err := InitializeDefaults(100, participants, TypeExactAmounts, nil)
	require.NoError(t, err)

	assert.True(t, IsBalanced(100, participants, TypeExactAmounts, inputs))
	// Same remainder distribution as an equal split: first in canonical
	// order gets the extra cent.
	assert.EqualValues(t, 34, *inputs["a"].Amount)
}

func TestInitializeDefaults_AdjustmentsSeedZero(t *testing.T) {
	inputs, err := InitializeDefaults(500, ids("a", "b"), TypeAdjustments, nil)
	require.NoError(t, err)

	assert.Zero(t, *inputs["a"].Adjustment)
	assert.Zero(t, *inputs["b"].Adjustment)
}

func TestInitializeDefaults_EqualNeedsNoInput(t *testing.T) {
	inputs, err := InitializeDefaults(500, ids("a", "b"), TypeEqual, nil)
	require.NoError(t, err)
	assert.Empty(t, inputs)
}

func TestIsBalanced_AlwaysBalancedStrategies(t *testing.T) {
	participants := ids("a", "b", "c")
	assert.True(t, IsBalanced(1000, participants, TypeEqual, nil))
	assert.True(t, IsBalanced(1000, participants, TypeShares, Inputs{}))
	assert.True(t, IsBalanced(1000, participants, TypeAdjustments, Inputs{}))
}

func TestRemainingAmount_ExactAmounts(t *testing.T) {
	inputs := Inputs{}
	inputs.SetAmount("a", 40)
	inputs.SetAmount("b", 40)

	assert.EqualValues(t, 20, RemainingAmount(100, ids("a", "b"), TypeExactAmounts, inputs))
}

func TestSetters_Clamp(t *testing.T) {
	inputs := Inputs{}

	inputs.SetAmount("a", -5)
	assert.Zero(t, *inputs["a"].Amount)

	inputs.SetPercentage("a", 120)
	assert.EqualValues(t, 100, *inputs["a"].Percentage)
	inputs.SetPercentage("a", -3)
	assert.Zero(t, *inputs["a"].Percentage)

	inputs.SetShares("a", 0)
	assert.Equal(t, MinShares, *inputs["a"].Shares)
	inputs.SetShares("a", 500)
	assert.Equal(t, MaxShares, *inputs["a"].Shares)

	// Adjustments stay signed.
	inputs.SetAdjustment("a", -250)
	assert.EqualValues(t, -250, *inputs["a"].Adjustment)
}
