package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tokens ...string) []ParticipantID {
	out := make([]ParticipantID, len(tokens))
	for i, s := range tokens {
		out[i] = ParticipantID(s)
	}
	return out
}

func amounts(t *testing.T, res *Result) map[ParticipantID]int64 {
	t.Helper()
	out := make(map[ParticipantID]int64, len(res.Details))
	for id, d := range res.Details {
		out[id] = d.Amount
	}
	return out
}

func TestEqual_RemainderGoesToFirstInCanonicalOrder(t *testing.T) {
	res, err := Calculate(100, ids("a", "b", "c"), TypeEqual, nil)
	require.NoError(t, err)

	assert.Equal(t, map[ParticipantID]int64{"a": 34, "b": 33, "c": 33}, amounts(t, res))
	assert.True(t, res.Balanced)
	assert.Zero(t, res.Remaining)
	for _, d := range res.Details {
		assert.InDelta(t, 33.33, d.Percentage, 0.01)
	}
}

func TestEqual_IndependentOfIterationOrder(t *testing.T) {
	first, err := Calculate(100, ids("c", "a", "b"), TypeEqual, nil)
	require.NoError(t, err)
	second, err := Calculate(100, ids("b", "c", "a"), TypeEqual, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 34, first.Details["a"].Amount)
}

func TestEqual_SumsToTotalExactly(t *testing.T) {
	participants := ids("p1", "p2", "p3", "p4", "p5", "p6", "p7")
	for _, total := range []int64{0, 1, 6, 7, 8, 99, 100, 1000003} {
		res, err := Calculate(total, participants, TypeEqual, nil)
		require.NoError(t, err)

		var sum int64
		for _, d := range res.Details {
			assert.GreaterOrEqual(t, d.Amount, int64(0))
			sum += d.Amount
		}
		assert.Equal(t, total, sum, "total %d", total)
	}
}

func TestExactAmounts_Unbalanced(t *testing.T) {
	inputs := Inputs{}
	inputs.SetAmount("a", 40)
	inputs.SetAmount("b", 40)

	res, err := Calculate(100, ids("a", "b"), TypeExactAmounts, inputs)
	require.NoError(t, err)

	assert.False(t, res.Balanced)
	assert.EqualValues(t, 20, res.Remaining)
	assert.EqualValues(t, 40, res.Details["a"].Amount)
	assert.InDelta(t, 40.0, res.Details["a"].Percentage, 0.001)
}

func TestExactAmounts_MissingKeyDefaultsToZero(t *testing.T) {
	inputs := Inputs{}
	inputs.SetAmount("a", 100)

	res, err := Calculate(100, ids("a", "b"), TypeExactAmounts, inputs)
	require.NoError(t, err)

	assert.True(t, res.Balanced)
	assert.Zero(t, res.Details["b"].Amount)
}

func TestExactAmounts_OverAllocatedReportsZeroRemaining(t *testing.T) {
	inputs := Inputs{}
	inputs.SetAmount("a", 90)
	inputs.SetAmount("b", 90)

	res, err := Calculate(100, ids("a", "b"), TypeExactAmounts, inputs)
	require.NoError(t, err)

	assert.False(t, res.Balanced)
	assert.Zero(t, res.Remaining)
}

func TestExactAmounts_ZeroTotalPercentages(t *testing.T) {
	res, err := Calculate(0, ids("a", "b"), TypeExactAmounts, Inputs{})
	require.NoError(t, err)

	assert.True(t, res.Balanced)
	assert.Zero(t, res.Details["a"].Percentage)
}

func TestPercentages_BoundaryRoundingDriftAccepted(t *testing.T) {
	inputs := Inputs{}
	inputs.SetPercentage("a", 33.3)
	inputs.SetPercentage("b", 33.3)
	inputs.SetPercentage("c", 33.4)

	res, err := Calculate(100, ids("a", "b", "c"), TypePercentages, inputs)
	require.NoError(t, err)

	assert.True(t, res.Balanced)

	// Each amount rounds independently, so the sum may drift from the
	// total by a few minor units; that is documented behavior.
	var sum int64
	for _, d := range res.Details {
		sum += d.Amount
	}
	assert.InDelta(t, 100, sum, 3)
}

func TestPercentages_HalfUpRounding(t *testing.T) {
	inputs := Inputs{}
	inputs.SetPercentage("a", 50.5)
	inputs.SetPercentage("b", 49.5)

	res, err := Calculate(101, ids("a", "b"), TypePercentages, inputs)
	require.NoError(t, err)

	// 50.5% of 101 = 51.005 -> 51; 49.5% of 101 = 49.995 -> 50.
	assert.EqualValues(t, 51, res.Details["a"].Amount)
	assert.EqualValues(t, 50, res.Details["b"].Amount)
}

func TestPercentages_UnbalancedReportsPercentPointsShort(t *testing.T) {
	inputs := Inputs{}
	inputs.SetPercentage("a", 50)
	inputs.SetPercentage("b", 30)

	res, err := Calculate(1000, ids("a", "b"), TypePercentages, inputs)
	require.NoError(t, err)

	assert.False(t, res.Balanced)
	assert.InDelta(t, 20.0, res.RemainingPercent, 0.001)
	assert.EqualValues(t, 200, res.Remaining)
}

func TestShares_LastParticipantAbsorbsRounding(t *testing.T) {
	inputs := Inputs{}
	inputs.SetShares("a", 1)
	inputs.SetShares("b", 2)
	inputs.SetShares("c", 1)

	res, err := Calculate(1000, ids("a", "b", "c"), TypeShares, inputs)
	require.NoError(t, err)

	assert.Equal(t, map[ParticipantID]int64{"a": 250, "b": 500, "c": 250}, amounts(t, res))
	assert.True(t, res.Balanced)
	assert.InDelta(t, 50.0, res.Details["b"].Percentage, 0.001)
	assert.Equal(t, 2, res.Details["b"].Shares)
}

func TestShares_SumsToTotalExactly(t *testing.T) {
	inputs := Inputs{}
	inputs.SetShares("a", 1)
	inputs.SetShares("b", 2)
	inputs.SetShares("c", 3)

	for _, total := range []int64{0, 1, 7, 100, 1001, 999999} {
		res, err := Calculate(total, ids("a", "b", "c"), TypeShares, inputs)
		require.NoError(t, err)

		var sum int64
		for _, d := range res.Details {
			assert.GreaterOrEqual(t, d.Amount, int64(0))
			sum += d.Amount
		}
		assert.Equal(t, total, sum, "total %d", total)
	}
}

func TestShares_MissingKeyDefaultsToOneShare(t *testing.T) {
	inputs := Inputs{}
	inputs.SetShares("b", 3)

	res, err := Calculate(400, ids("a", "b"), TypeShares, inputs)
	require.NoError(t, err)

	// a defaults to 1 share of 4: floor(1/4*400) = 100; b absorbs the rest.
	assert.EqualValues(t, 100, res.Details["a"].Amount)
	assert.EqualValues(t, 300, res.Details["b"].Amount)
	assert.Equal(t, 1, res.Details["a"].Shares)
}

func TestAdjustments_BasePlusAdjustment(t *testing.T) {
	inputs := Inputs{}
	inputs.SetAdjustment("a", 10)
	inputs.SetAdjustment("b", 0)
	inputs.SetAdjustment("c", -10)

	res, err := Calculate(90, ids("a", "b", "c"), TypeAdjustments, inputs)
	require.NoError(t, err)

	assert.Equal(t, map[ParticipantID]int64{"a": 40, "b": 30, "c": 20}, amounts(t, res))
	assert.True(t, res.Balanced)
	assert.EqualValues(t, -10, res.Details["c"].Adjustment)
}

func TestAdjustments_FlooredAtZero(t *testing.T) {
	inputs := Inputs{}
	inputs.SetAdjustment("c", -100)

	res, err := Calculate(30, ids("a", "b", "c"), TypeAdjustments, inputs)
	require.NoError(t, err)

	// base = (30 + 100) / 3 = 43.33; c would owe -56.67, clamped to 0.
	assert.Zero(t, res.Details["c"].Amount)
	for _, d := range res.Details {
		assert.GreaterOrEqual(t, d.Amount, int64(0))
	}
	// Clamping makes the literal sum diverge from the total; the strategy
	// still reports balanced by construction.
	assert.True(t, res.Balanced)
}

func TestAllStrategies_PreserveParticipantSet(t *testing.T) {
	participants := ids("x", "m", "a", "q")
	for _, typ := range []Type{TypeEqual, TypeExactAmounts, TypePercentages, TypeShares, TypeAdjustments} {
		res, err := Calculate(777, participants, typ, Inputs{})
		require.NoError(t, err, "strategy %s", typ)

		assert.Len(t, res.Details, len(participants), "strategy %s", typ)
		for _, id := range participants {
			assert.Contains(t, res.Details, id, "strategy %s", typ)
		}
	}
}

func TestAllStrategies_Deterministic(t *testing.T) {
	participants := ids("a", "b", "c")
	inputs := Inputs{}
	inputs.SetAmount("a", 100)
	inputs.SetPercentage("b", 40)
	inputs.SetShares("c", 5)
	inputs.SetAdjustment("a", -20)

	for _, typ := range []Type{TypeEqual, TypeExactAmounts, TypePercentages, TypeShares, TypeAdjustments} {
		first, err := Calculate(12345, participants, typ, inputs)
		require.NoError(t, err)
		second, err := Calculate(12345, participants, typ, inputs)
		require.NoError(t, err)

		assert.Equal(t, first, second, "strategy %s", typ)
	}
}

func TestCalculate_EmptyParticipantSet(t *testing.T) {
	for _, typ := range []Type{TypeEqual, TypeExactAmounts, TypePercentages, TypeShares, TypeAdjustments} {
		res, err := Calculate(100, nil, typ, nil)
		require.NoError(t, err, "strategy %s", typ)

		assert.Empty(t, res.Details, "strategy %s", typ)
		assert.True(t, res.Balanced, "strategy %s", typ)
	}
}

func TestCalculate_NegativeTotal(t *testing.T) {
	_, err := Calculate(-1, ids("a"), TypeEqual, nil)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestFactory_UnknownType(t *testing.T) {
	_, err := NewFactory().CreateFromString("VIBES")
	assert.Error(t, err)
}

func TestRequiresBalance(t *testing.T) {
	assert.True(t, RequiresBalance(TypeExactAmounts))
	assert.True(t, RequiresBalance(TypePercentages))
	assert.False(t, RequiresBalance(TypeEqual))
	assert.False(t, RequiresBalance(TypeShares))
	assert.False(t, RequiresBalance(TypeAdjustments))
}
