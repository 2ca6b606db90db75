// Package split computes per-participant allocations of a total amount
// under several allocation strategies. All money is int64 minor units
// (cents); results are deterministic for identical inputs, remainders are
// distributed in canonical participant-id order, and the engine itself is
// a pure computation with no state between calls.
package split

// Calculate dispatches to the strategy for t and computes the allocation.
// A zero-participant set yields an empty balanced result and no error.
func Calculate(totalMinor int64, participants []ParticipantID, t Type, inputs Inputs) (*Result, error) {
	strategy, err := NewFactory().Create(t)
	if err != nil {
		return nil, err
	}
	return strategy.Calculate(totalMinor, participants, inputs)
}

// IsBalanced reports whether the allocation for t reconciles with the
// total. EQUAL, SHARES and ADJUSTMENTS are balanced by construction;
// false is also returned for unknown types or precondition violations.
func IsBalanced(totalMinor int64, participants []ParticipantID, t Type, inputs Inputs) bool {
	res, err := Calculate(totalMinor, participants, t, inputs)
	if err != nil {
		return false
	}
	return res.Balanced
}

// RemainingAmount returns the unallocated portion of the total in minor
// units (0 when balanced or on error). For PERCENTAGES it is the minor-unit
// equivalent of the percentage points short of 100.
func RemainingAmount(totalMinor int64, participants []ParticipantID, t Type, inputs Inputs) int64 {
	res, err := Calculate(totalMinor, participants, t, inputs)
	if err != nil {
		return 0
	}
	return res.Remaining
}

// InitializeDefaults fills missing raw inputs with the strategy's neutral
// default (equal share of the amount or percentage, one share, zero
// adjustment) and returns the map. Existing caller-set values are never
// overwritten, so calling it twice is a no-op the second time. A nil map
// is allocated first.
func InitializeDefaults(totalMinor int64, participants []ParticipantID, t Type, inputs Inputs) (Inputs, error) {
	strategy, err := NewFactory().Create(t)
	if err != nil {
		return inputs, err
	}
	if inputs == nil {
		inputs = make(Inputs, len(participants))
	}
	strategy.Seed(totalMinor, participants, inputs)
	return inputs, nil
}
