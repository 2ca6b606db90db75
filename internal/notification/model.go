package notification

import (
	"time"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Notification is an in-app message delivered to a single participant.
type Notification struct {
	ID                int64               `json:"id"`
	RecipientID       split.ParticipantID `json:"recipient_id"`
	Message           string              `json:"message"`
	IsRead            bool                `json:"is_read"`
	RelatedEntityType *string             `json:"related_entity_type,omitempty"` // e.g., "EXPENSE", "SETTLEMENT", "GROUP"
	RelatedEntityID   *string             `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

const (
	entityTypeExpense    = "EXPENSE"
	entityTypeSettlement = "SETTLEMENT"
	entityTypeGroup      = "GROUP"
)
