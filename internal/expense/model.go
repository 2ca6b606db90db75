package expense

import (
	"time"

	"github.com/akyildz/divvy/internal/expense/split"
)

// SplitStatus represents the lifecycle of a persisted split row.
type SplitStatus string

const (
	SplitStatusPending SplitStatus = "PENDING"
	SplitStatusSettled SplitStatus = "SETTLED"
)

// Expense represents a shared expense. Amounts are minor units (cents).
type Expense struct {
	ID          string              `json:"id"`
	GroupID     string              `json:"group_id"`
	PayerID     split.ParticipantID `json:"payer_id"`
	Description string              `json:"description"`
	AmountMinor int64               `json:"amount_minor"`
	SplitType   split.Type          `json:"split_type"`
	CreatedAt   time.Time           `json:"created_at"`

	// Populated via JOIN
	PayerName string `json:"payer_name,omitempty"`
}

// Split is one participant's persisted allocation from an expense. The raw
// shares/adjustment inputs are retained so the original entry can be
// re-edited and displayed.
type Split struct {
	ID              int64               `json:"id"`
	ExpenseID       string              `json:"expense_id"`
	ParticipantID   split.ParticipantID `json:"participant_id"`
	AmountMinor     int64               `json:"amount_minor"`
	Percentage      float64             `json:"percentage"`
	Shares          int                 `json:"shares,omitempty"`
	AdjustmentMinor int64               `json:"adjustment_minor,omitempty"`
	Status          SplitStatus         `json:"status"`
	SettlementID    *string             `json:"settlement_id,omitempty"`
	UpdatedAt       time.Time           `json:"updated_at"`

	// Populated via JOIN
	ParticipantName string `json:"participant_name,omitempty"`
}

// ExpenseWithSplits combines an expense with its persisted splits.
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*Split
}

// splitFromDetail builds a persisted split row from an engine detail.
func splitFromDetail(expenseID string, d split.Detail) *Split {
	return &Split{
		ExpenseID:       expenseID,
		ParticipantID:   d.ParticipantID,
		AmountMinor:     d.Amount,
		Percentage:      d.Percentage,
		Shares:          d.Shares,
		AdjustmentMinor: d.Adjustment,
		Status:          SplitStatusPending,
	}
}
