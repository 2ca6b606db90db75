package split

// =============================================================================
// EXACT AMOUNTS STRATEGY
// Each participant owes the caller-supplied amount; the engine reports
// whether the amounts reconcile with the total instead of forcing it
// =============================================================================

// ExactAmountsStrategy implements the Strategy interface for exact amount splits.
type ExactAmountsStrategy struct{}

// Type returns the split type identifier.
func (s *ExactAmountsStrategy) Type() Type {
	return TypeExactAmounts
}

// Validate checks if the inputs are valid for an exact amounts split.
func (s *ExactAmountsStrategy) Validate(totalMinor int64, participants []ParticipantID) error {
	return validateCommon(totalMinor, participants)
}

// Calculate passes the supplied amounts through untouched (missing keys
// count as 0). It never normalizes: an in-progress split is routinely
// unbalanced while the user edits, so imbalance is a reported state, not
// an error. The caller gates persistence on Balanced.
func (s *ExactAmountsStrategy) Calculate(totalMinor int64, participants []ParticipantID, inputs Inputs) (*Result, error) {
	if len(participants) == 0 {
		return emptyResult(), nil
	}
	if err := s.Validate(totalMinor, participants); err != nil {
		return nil, err
	}

	details := make(map[ParticipantID]Detail, len(participants))
	var allocated int64
	for _, id := range participants {
		amount := inputs.amountOrZero(id)
		if amount < 0 {
			amount = 0
		}
		allocated += amount

		var pct float64
		if totalMinor > 0 {
			pct = float64(amount) / float64(totalMinor) * 100
		}
		details[id] = Detail{
			ParticipantID: id,
			Amount:        amount,
			Percentage:    pct,
		}
	}

	remaining := totalMinor - allocated
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Details:   details,
		Balanced:  allocated == totalMinor,
		Remaining: remaining,
	}, nil
}

// Seed fills missing amounts with an equal share of the total, distributed
// the same way an equal split would be, so a fresh exact split starts out
// balanced. Existing entries are never overwritten.
func (s *ExactAmountsStrategy) Seed(totalMinor int64, participants []ParticipantID, inputs Inputs) {
	if len(participants) == 0 || totalMinor < 0 {
		return
	}
	ids := sortedIDs(participants)
	n := int64(len(ids))
	base := totalMinor / n
	remainder := totalMinor % n
	for i, id := range ids {
		if raw, ok := inputs[id]; ok && raw.Amount != nil {
			continue
		}
		amount := base
		if int64(i) < remainder {
			amount++
		}
		inputs.SetAmount(id, amount)
	}
}
