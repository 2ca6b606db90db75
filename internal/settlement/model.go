package settlement

import (
	"time"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Status represents the lifecycle of a settlement.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Settlement is a settle-up between two participants. The amount is the
// pairwise net at creation time, in minor units; the payer is whoever owes
// under that net. Balance deltas are only applied once the receiver
// confirms.
type Settlement struct {
	ID          string              `json:"id"`
	PayerID     split.ParticipantID `json:"payer_id"`
	ReceiverID  split.ParticipantID `json:"receiver_id"`
	AmountMinor int64               `json:"amount_minor"`
	Status      Status              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Populated via JOIN
	PayerName    string `json:"payer_name,omitempty"`
	ReceiverName string `json:"receiver_name,omitempty"`
}
