package split

// =============================================================================
// EQUAL STRATEGY
// Divides the total evenly among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for even splits.
type EqualStrategy struct{}

// Type returns the split type identifier.
func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

// Validate checks if the inputs are valid for an equal split.
func (s *EqualStrategy) Validate(totalMinor int64, participants []ParticipantID) error {
	return validateCommon(totalMinor, participants)
}

// Calculate divides the total evenly. Integer division leaves a remainder of
// up to n-1 minor units; one extra unit goes to each of the first `remainder`
// participants in canonical id order, so the amounts always reconstruct the
// total exactly and the assignment does not depend on set iteration order.
func (s *EqualStrategy) Calculate(totalMinor int64, participants []ParticipantID, _ Inputs) (*Result, error) {
	if len(participants) == 0 {
		return emptyResult(), nil
	}
	if err := s.Validate(totalMinor, participants); err != nil {
		return nil, err
	}

	ids := sortedIDs(participants)
	n := int64(len(ids))
	base := totalMinor / n
	remainder := totalMinor % n
	pct := 100 / float64(n)

	details := make(map[ParticipantID]Detail, len(ids))
	for i, id := range ids {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		details[id] = Detail{
			ParticipantID: id,
			Amount:        amount,
			Percentage:    pct,
		}
	}

	return &Result{Details: details, Balanced: true}, nil
}

// Seed is a no-op: equal splits take no per-participant input.
func (s *EqualStrategy) Seed(int64, []ParticipantID, Inputs) {}
