package split

// =============================================================================
// SHARES STRATEGY
// Divides the total proportionally to integer share counts, with the last
// participant in canonical order absorbing all rounding
// =============================================================================

// Share count bounds enforced by the input setters. UI-derived limits
// rather than domain invariants.
const (
	MinShares = 1
	MaxShares = 99
)

// SharesStrategy implements the Strategy interface for share-based splits.
type SharesStrategy struct{}

// Type returns the split type identifier.
func (s *SharesStrategy) Type() Type {
	return TypeShares
}

// Validate checks if the inputs are valid for a share split.
func (s *SharesStrategy) Validate(totalMinor int64, participants []ParticipantID) error {
	return validateCommon(totalMinor, participants)
}

// Calculate assigns floor(share/totalShares * total) to every participant
// except the last in canonical id order; the last receives whatever is left.
// That guarantees the amounts reconstruct the total exactly no matter how
// the floor divisions round.
func (s *SharesStrategy) Calculate(totalMinor int64, participants []ParticipantID, inputs Inputs) (*Result, error) {
	if len(participants) == 0 {
		return emptyResult(), nil
	}
	if err := s.Validate(totalMinor, participants); err != nil {
		return nil, err
	}

	ids := sortedIDs(participants)
	var totalShares int64
	shares := make(map[ParticipantID]int, len(ids))
	for _, id := range ids {
		c := inputs.sharesOrDefault(id)
		shares[id] = c
		totalShares += int64(c)
	}

	details := make(map[ParticipantID]Detail, len(ids))
	var allocated int64
	for i, id := range ids {
		c := shares[id]
		var amount int64
		if i == len(ids)-1 {
			amount = totalMinor - allocated
		} else {
			amount = int64(c) * totalMinor / totalShares
		}
		allocated += amount
		details[id] = Detail{
			ParticipantID: id,
			Amount:        amount,
			Percentage:    float64(c) / float64(totalShares) * 100,
			Shares:        c,
		}
	}

	return &Result{Details: details, Balanced: true}, nil
}

// Seed fills missing share counts with the neutral single share.
// Existing entries are never overwritten.
func (s *SharesStrategy) Seed(_ int64, participants []ParticipantID, inputs Inputs) {
	for _, id := range participants {
		if raw, ok := inputs[id]; ok && raw.Shares != nil {
			continue
		}
		inputs.SetShares(id, MinShares)
	}
}
