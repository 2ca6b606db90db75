package split

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Type identifies an allocation strategy.
type Type string

const (
	TypeEqual        Type = "EQUAL"
	TypeExactAmounts Type = "EXACT_AMOUNTS"
	TypePercentages  Type = "PERCENTAGES"
	TypeShares       Type = "SHARES"
	TypeAdjustments  Type = "ADJUSTMENTS"
)

// ParticipantID is an opaque token identifying a person in a split.
// Canonical order over a participant set is ascending lexicographic
// byte order of the token, which makes remainder distribution repeatable
// regardless of map iteration order.
type ParticipantID string

// Detail is the computed allocation for a single participant. Amount is
// in minor units (cents) and never negative. Shares and Adjustment carry
// the raw caller input back for display.
type Detail struct {
	ParticipantID ParticipantID `json:"participant_id"`
	Amount        int64         `json:"amount"`
	Percentage    float64       `json:"percentage"`
	Shares        int           `json:"shares,omitempty"`
	Adjustment    int64         `json:"adjustment,omitempty"`
}

// Result holds the allocation for every participant in the input set.
// Balanced reports whether the allocations reconcile with the total under
// the strategy's own convention; it is never an error. An in-progress
// split is routinely unbalanced while the user edits, and the caller
// decides whether that blocks a save.
type Result struct {
	Details map[ParticipantID]Detail `json:"details"`

	Balanced bool `json:"balanced"`
	// Remaining is the unallocated portion in minor units (0 when balanced).
	Remaining int64 `json:"remaining"`
	// RemainingPercent is the percentage points short of 100 when the
	// PERCENTAGES strategy is unbalanced; 0 for every other strategy.
	RemainingPercent float64 `json:"remaining_percent,omitempty"`
}

// Strategy is the interface all allocation strategies implement.
type Strategy interface {
	// Type returns the strategy identifier.
	Type() Type

	// Calculate computes every participant's allocation. The result set
	// always contains exactly the input participants; an empty participant
	// set yields an empty result and no error.
	Calculate(totalMinor int64, participants []ParticipantID, inputs Inputs) (*Result, error)

	// Validate checks the preconditions shared by all strategies.
	Validate(totalMinor int64, participants []ParticipantID) error

	// Seed fills missing raw inputs with the strategy's neutral default.
	// Keys already present are left untouched, so seeding is idempotent.
	Seed(totalMinor int64, participants []ParticipantID, inputs Inputs)
}

// Factory creates allocation strategies by type.
type Factory struct{}

// NewFactory creates a new strategy factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the given type.
func (f *Factory) Create(t Type) (Strategy, error) {
	switch t {
	case TypeEqual:
		return &EqualStrategy{}, nil
	case TypeExactAmounts:
		return &ExactAmountsStrategy{}, nil
	case TypePercentages:
		return &PercentagesStrategy{}, nil
	case TypeShares:
		return &SharesStrategy{}, nil
	case TypeAdjustments:
		return &AdjustmentsStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split type: %s", t)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests).
func (f *Factory) CreateFromString(t string) (Strategy, error) {
	return f.Create(Type(t))
}

// RequiresBalance reports whether the strategy demands exact reconciliation
// before a split may be persisted. EQUAL, SHARES and ADJUSTMENTS are
// balanced by construction.
func RequiresBalance(t Type) bool {
	return t == TypeExactAmounts || t == TypePercentages
}

var (
	ErrNoParticipants = errors.New("at least one participant is required")
	ErrNegativeAmount = errors.New("amounts cannot be negative")
)

// sortedIDs returns the participant set in canonical (ascending byte) order.
func sortedIDs(participants []ParticipantID) []ParticipantID {
	ids := slices.Clone(participants)
	slices.Sort(ids)
	return ids
}

// roundHalfUp rounds to the nearest integer, ties upward (0.5 -> 1, -0.5 -> 0).
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// validateCommon covers the preconditions every strategy shares.
func validateCommon(totalMinor int64, participants []ParticipantID) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalMinor < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// emptyResult is returned for the degenerate zero-participant calculation.
func emptyResult() *Result {
	return &Result{Details: map[ParticipantID]Detail{}, Balanced: true}
}
