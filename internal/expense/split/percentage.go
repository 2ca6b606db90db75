package split

import "math"

// =============================================================================
// PERCENTAGES STRATEGY
// Divides the total according to caller-supplied percentages, each amount
// rounded half-up independently
// =============================================================================

// percentageTolerance is how far the percentage sum may drift from 100
// and still count as balanced.
const percentageTolerance = 0.1

// PercentagesStrategy implements the Strategy interface for percentage splits.
type PercentagesStrategy struct{}

// Type returns the split type identifier.
func (s *PercentagesStrategy) Type() Type {
	return TypePercentages
}

// Validate checks if the inputs are valid for a percentage split.
func (s *PercentagesStrategy) Validate(totalMinor int64, participants []ParticipantID) error {
	return validateCommon(totalMinor, participants)
}

// Calculate computes each amount as round(percentage / 100 * total) with
// half-up rounding, independently per participant. Because the roundings
// are independent, the amounts may sum to a few minor units off the total
// even when the percentages sum to exactly 100; that drift is accepted and
// not corrected. Balanced only reflects whether the percentages reach 100
// within tolerance.
func (s *PercentagesStrategy) Calculate(totalMinor int64, participants []ParticipantID, inputs Inputs) (*Result, error) {
	if len(participants) == 0 {
		return emptyResult(), nil
	}
	if err := s.Validate(totalMinor, participants); err != nil {
		return nil, err
	}

	details := make(map[ParticipantID]Detail, len(participants))
	var pctSum float64
	for _, id := range participants {
		pct := inputs.percentageOrZero(id)
		pctSum += pct

		amount := roundHalfUp(pct / 100 * float64(totalMinor))
		if amount < 0 {
			amount = 0
		}
		details[id] = Detail{
			ParticipantID: id,
			Amount:        amount,
			Percentage:    pct,
		}
	}

	balanced := math.Abs(pctSum-100) < percentageTolerance
	var remainingPct float64
	var remaining int64
	if !balanced {
		remainingPct = 100 - pctSum
		if remainingPct < 0 {
			remainingPct = 0
		}
		remaining = roundHalfUp(remainingPct / 100 * float64(totalMinor))
	}
	return &Result{
		Details:          details,
		Balanced:         balanced,
		Remaining:        remaining,
		RemainingPercent: remainingPct,
	}, nil
}

// Seed fills missing percentages with an even 100/n so a fresh percentage
// split starts out balanced. Existing entries are never overwritten.
func (s *PercentagesStrategy) Seed(_ int64, participants []ParticipantID, inputs Inputs) {
	if len(participants) == 0 {
		return
	}
	pct := 100 / float64(len(participants))
	for _, id := range participants {
		if raw, ok := inputs[id]; ok && raw.Percentage != nil {
			continue
		}
		inputs.SetPercentage(id, pct)
	}
}
