package split

// RawInput carries a participant's caller-supplied value for the selected
// strategy. Only the field matching the strategy is consulted; the others
// are ignored. A nil field means "not set" and falls back to the strategy's
// neutral default (0 amount, 0 percent, 1 share, 0 adjustment).
type RawInput struct {
	Amount     *int64   `json:"amount,omitempty"`     // minor units, EXACT_AMOUNTS
	Percentage *float64 `json:"percentage,omitempty"` // 0-100, PERCENTAGES
	Shares     *int     `json:"shares,omitempty"`     // SHARES
	Adjustment *int64   `json:"adjustment,omitempty"` // signed minor units, ADJUSTMENTS
}

// Inputs maps each participant to their raw input. The engine never mutates
// an Inputs value during Calculate; the setters below are for the staging
// layer that owns the map between recomputations.
type Inputs map[ParticipantID]RawInput

// SetAmount stores an exact amount for the participant, clamped to >= 0.
func (in Inputs) SetAmount(id ParticipantID, amount int64) {
	if amount < 0 {
		amount = 0
	}
	raw := in[id]
	raw.Amount = &amount
	in[id] = raw
}

// SetPercentage stores a percentage for the participant, clamped to [0, 100].
func (in Inputs) SetPercentage(id ParticipantID, pct float64) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	raw := in[id]
	raw.Percentage = &pct
	in[id] = raw
}

// SetShares stores a share count for the participant, clamped to
// [MinShares, MaxShares].
func (in Inputs) SetShares(id ParticipantID, shares int) {
	if shares < MinShares {
		shares = MinShares
	}
	if shares > MaxShares {
		shares = MaxShares
	}
	raw := in[id]
	raw.Shares = &shares
	in[id] = raw
}

// SetAdjustment stores a signed adjustment for the participant. Adjustments
// are deliberately unclamped; the final amount is floored at zero instead.
func (in Inputs) SetAdjustment(id ParticipantID, adj int64) {
	raw := in[id]
	raw.Adjustment = &adj
	in[id] = raw
}

// amountOrZero returns the participant's exact amount, defaulting to 0.
func (in Inputs) amountOrZero(id ParticipantID) int64 {
	if raw, ok := in[id]; ok && raw.Amount != nil {
		return *raw.Amount
	}
	return 0
}

// percentageOrZero returns the participant's percentage, defaulting to 0.
func (in Inputs) percentageOrZero(id ParticipantID) float64 {
	if raw, ok := in[id]; ok && raw.Percentage != nil {
		return *raw.Percentage
	}
	return 0
}

// sharesOrDefault returns the participant's share count, defaulting to
// MinShares when unset or below the minimum.
func (in Inputs) sharesOrDefault(id ParticipantID) int {
	if raw, ok := in[id]; ok && raw.Shares != nil && *raw.Shares >= MinShares {
		return *raw.Shares
	}
	return MinShares
}

// adjustmentOrZero returns the participant's adjustment, defaulting to 0.
func (in Inputs) adjustmentOrZero(id ParticipantID) int64 {
	if raw, ok := in[id]; ok && raw.Adjustment != nil {
		return *raw.Adjustment
	}
	return 0
}
