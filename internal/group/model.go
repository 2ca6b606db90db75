package group

import (
	"time"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Group is a set of participants that share expenses.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsTemporary bool      `json:"is_temporary"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member is a participant's membership in a group. The member list is the
// participant set handed to the allocation engine when a group expense is
// split.
type Member struct {
	GroupID       string              `json:"group_id"`
	ParticipantID split.ParticipantID `json:"participant_id"`
	JoinedAt      time.Time           `json:"joined_at"`

	// Populated via JOIN
	DisplayName string `json:"display_name,omitempty"`
}
