// Package ledger maintains running per-participant balances. A positive
// balance means others owe you; a negative balance means you owe. Every
// expense or settlement is applied as a set of signed deltas in a single
// transaction so concurrent reads never observe a half-applied split.
package ledger

import (
	"errors"
	"slices"
	"time"

	"github.com/akyildz/divvy/internal/expense/split"
)

var (
	ErrNoDeltas      = errors.New("no deltas to apply")
	ErrUnbalancedSet = errors.New("deltas must sum to zero")
)

// Delta is a signed change to one participant's running balance, in minor units.
type Delta struct {
	ParticipantID split.ParticipantID `json:"participant_id"`
	Amount        int64               `json:"amount"`
}

// Entry is a persisted delta, tied to the expense or settlement that caused it.
type Entry struct {
	ID            int64               `json:"id"`
	ParticipantID split.ParticipantID `json:"participant_id"`
	Amount        int64               `json:"amount"`
	ExpenseID     *string             `json:"expense_id,omitempty"`
	SettlementID  *string             `json:"settlement_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// DeltasFromSplit converts a computed split into balance deltas: every
// participant except the payer owes their allocated amount (negative
// delta), and the payer is owed the sum of all the others (positive
// delta). The payer's own allocated share cancels out, since they paid it to
// themselves. Deltas come back in canonical participant order with the
// payer last, and always sum to zero.
func DeltasFromSplit(payer split.ParticipantID, details map[split.ParticipantID]split.Detail) []Delta {
	ids := make([]split.ParticipantID, 0, len(details))
	for id := range details {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	deltas := make([]Delta, 0, len(details))
	var owedToPayer int64
	for _, id := range ids {
		if id == payer {
			continue
		}
		amount := details[id].Amount
		owedToPayer += amount
		deltas = append(deltas, Delta{ParticipantID: id, Amount: -amount})
	}
	if _, ok := details[payer]; ok || len(deltas) > 0 {
		deltas = append(deltas, Delta{ParticipantID: payer, Amount: owedToPayer})
	}
	return deltas
}

// DeltasFromSettlement records payer handing amount to receiver: the
// payer's debt shrinks, the receiver's credit shrinks by the same amount.
func DeltasFromSettlement(payer, receiver split.ParticipantID, amount int64) []Delta {
	return []Delta{
		{ParticipantID: payer, Amount: amount},
		{ParticipantID: receiver, Amount: -amount},
	}
}

// validateDeltas enforces the zero-sum invariant before anything is written.
func validateDeltas(deltas []Delta) error {
	if len(deltas) == 0 {
		return ErrNoDeltas
	}
	var sum int64
	for _, d := range deltas {
		sum += d.Amount
	}
	if sum != 0 {
		return ErrUnbalancedSet
	}
	return nil
}
