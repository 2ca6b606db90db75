package participant

import (
	"time"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Participant is a person that can take part in splits. The ID is the
// opaque token the allocation engine and ledger key on.
type Participant struct {
	ID          split.ParticipantID `json:"id"`
	DisplayName string              `json:"display_name"`
	Email       string              `json:"email"`
	AvatarURL   *string             `json:"avatar_url,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}
