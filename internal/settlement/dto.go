package settlement

import "github.com/akyildz/divvy/internal/money"

// CreateSettlementRequest asks to settle up with another participant. The
// service computes the pairwise net and decides who pays whom.
type CreateSettlementRequest struct {
	OtherParticipantID string `json:"other_participant_id" validate:"required"`
}

// SettlementResponse represents the response for a settlement.
type SettlementResponse struct {
	ID           string `json:"id"`
	PayerID      string `json:"payer_id"`
	PayerName    string `json:"payer_name,omitempty"`
	ReceiverID   string `json:"receiver_id"`
	ReceiverName string `json:"receiver_name,omitempty"`
	Amount       string `json:"amount"`
	AmountMinor  int64  `json:"amount_minor"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO.
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:           s.ID,
		PayerID:      string(s.PayerID),
		PayerName:    s.PayerName,
		ReceiverID:   string(s.ReceiverID),
		ReceiverName: s.ReceiverName,
		Amount:       money.FormatMinor(s.AmountMinor),
		AmountMinor:  s.AmountMinor,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    s.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
