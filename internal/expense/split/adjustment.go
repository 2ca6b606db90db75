package split

// =============================================================================
// ADJUSTMENTS STRATEGY
// Splits the total evenly after setting aside signed per-participant
// adjustments, then adds each adjustment back
// =============================================================================

// AdjustmentsStrategy implements the Strategy interface for adjustment splits.
type AdjustmentsStrategy struct{}

// Type returns the split type identifier.
func (s *AdjustmentsStrategy) Type() Type {
	return TypeAdjustments
}

// Validate checks if the inputs are valid for an adjustment split.
func (s *AdjustmentsStrategy) Validate(totalMinor int64, participants []ParticipantID) error {
	return validateCommon(totalMinor, participants)
}

// Calculate computes base = (total - sum(adjustments)) / n as a real value,
// then each participant owes round(base + adjustment), floored at zero.
// The strategy is balanced by construction; the zero floor can make the
// literal sum diverge from the total when an adjustment is more negative
// than the base, which is accepted.
func (s *AdjustmentsStrategy) Calculate(totalMinor int64, participants []ParticipantID, inputs Inputs) (*Result, error) {
	if len(participants) == 0 {
		return emptyResult(), nil
	}
	if err := s.Validate(totalMinor, participants); err != nil {
		return nil, err
	}

	var totalAdjustments int64
	for _, id := range participants {
		totalAdjustments += inputs.adjustmentOrZero(id)
	}
	base := float64(totalMinor-totalAdjustments) / float64(len(participants))

	details := make(map[ParticipantID]Detail, len(participants))
	for _, id := range participants {
		adj := inputs.adjustmentOrZero(id)
		amount := roundHalfUp(base + float64(adj))
		if amount < 0 {
			amount = 0
		}
		var pct float64
		if totalMinor > 0 {
			pct = float64(amount) / float64(totalMinor) * 100
		}
		details[id] = Detail{
			ParticipantID: id,
			Amount:        amount,
			Percentage:    pct,
			Adjustment:    adj,
		}
	}

	return &Result{Details: details, Balanced: true}, nil
}

// Seed fills missing adjustments with the neutral zero.
// Existing entries are never overwritten.
func (s *AdjustmentsStrategy) Seed(_ int64, participants []ParticipantID, inputs Inputs) {
	for _, id := range participants {
		if raw, ok := inputs[id]; ok && raw.Adjustment != nil {
			continue
		}
		inputs.SetAdjustment(id, 0)
	}
}
