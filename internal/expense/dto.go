package expense

import (
	"slices"

	"github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/internal/money"
)

// SplitParticipant carries one participant's raw input for the selected
// strategy. Money fields are decimal strings ("12.34"); they are converted
// to minor units at this boundary and nowhere else.
type SplitParticipant struct {
	ParticipantID string   `json:"participant_id" validate:"required"`
	Amount        *string  `json:"amount,omitempty"`     // For EXACT_AMOUNTS split
	Percentage    *float64 `json:"percentage,omitempty"` // For PERCENTAGES split
	Shares        *int     `json:"shares,omitempty"`     // For SHARES split
	Adjustment    *string  `json:"adjustment,omitempty"` // For ADJUSTMENTS split, signed
}

// ToRawInput converts to the split package's input type, parsing decimal
// strings into minor units. Clamping is applied by the Inputs setters.
func (p *SplitParticipant) ToRawInput(inputs split.Inputs) error {
	id := split.ParticipantID(p.ParticipantID)
	if p.Amount != nil {
		minor, err := money.ParseDecimalToMinor(*p.Amount)
		if err != nil {
			return err
		}
		inputs.SetAmount(id, minor)
	}
	if p.Percentage != nil {
		inputs.SetPercentage(id, *p.Percentage)
	}
	if p.Shares != nil {
		inputs.SetShares(id, *p.Shares)
	}
	if p.Adjustment != nil {
		minor, err := money.ParseSignedDecimalToMinor(*p.Adjustment)
		if err != nil {
			return err
		}
		inputs.SetAdjustment(id, minor)
	}
	return nil
}

// CreateExpenseRequest represents the request to create an expense.
type CreateExpenseRequest struct {
	GroupID      string              `json:"group_id" validate:"required"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       string              `json:"amount" validate:"required"`
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL EXACT_AMOUNTS PERCENTAGES SHARES ADJUSTMENTS"`
	Participants []*SplitParticipant `json:"participants" validate:"required,min=2"`
}

// PreviewSplitRequest asks for a split computation without persisting
// anything, so the client can show amounts and the balance state while the
// user is still editing.
type PreviewSplitRequest struct {
	Amount       string              `json:"amount" validate:"required"`
	SplitType    string              `json:"split_type" validate:"required"`
	Participants []*SplitParticipant `json:"participants" validate:"required,min=1"`
}

// ExpenseResponse represents the response for an expense.
type ExpenseResponse struct {
	ID          string           `json:"id"`
	GroupID     string           `json:"group_id"`
	PayerID     string           `json:"payer_id"`
	PayerName   string           `json:"payer_name,omitempty"`
	Description string           `json:"description"`
	Amount      string           `json:"amount"`
	AmountMinor int64            `json:"amount_minor"`
	SplitType   string           `json:"split_type"`
	CreatedAt   string           `json:"created_at"`
	Splits      []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for one participant's split.
type SplitResponse struct {
	ID              int64   `json:"id"`
	ExpenseID       string  `json:"expense_id"`
	ParticipantID   string  `json:"participant_id"`
	ParticipantName string  `json:"participant_name,omitempty"`
	Amount          string  `json:"amount"`
	AmountMinor     int64   `json:"amount_minor"`
	Percentage      float64 `json:"percentage"`
	Shares          int     `json:"shares,omitempty"`
	Adjustment      string  `json:"adjustment,omitempty"`
	Status          string  `json:"status"`
	SettlementID    *string `json:"settlement_id,omitempty"`
	UpdatedAt       string  `json:"updated_at"`
}

// PreviewDetailResponse is one participant's computed allocation in a preview.
type PreviewDetailResponse struct {
	ParticipantID string  `json:"participant_id"`
	Amount        string  `json:"amount"`
	AmountMinor   int64   `json:"amount_minor"`
	Percentage    float64 `json:"percentage"`
	Shares        int     `json:"shares,omitempty"`
	Adjustment    string  `json:"adjustment,omitempty"`
}

// PreviewSplitResponse reports a computed split plus its balance state.
// Unbalanced is not an error here: the client uses Remaining to show a
// "still unallocated" hint while the user edits.
type PreviewSplitResponse struct {
	Details          []*PreviewDetailResponse `json:"details"`
	Balanced         bool                     `json:"balanced"`
	Remaining        string                   `json:"remaining"`
	RemainingMinor   int64                    `json:"remaining_minor"`
	RemainingPercent float64                  `json:"remaining_percent,omitempty"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO.
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     string(e.PayerID),
		PayerName:   e.PayerName,
		Description: e.Description,
		Amount:      money.FormatMinor(e.AmountMinor),
		AmountMinor: e.AmountMinor,
		SplitType:   string(e.SplitType),
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Split model to a SplitResponse DTO.
func (s *Split) ToResponse() *SplitResponse {
	resp := &SplitResponse{
		ID:              s.ID,
		ExpenseID:       s.ExpenseID,
		ParticipantID:   string(s.ParticipantID),
		ParticipantName: s.ParticipantName,
		Amount:          money.FormatMinor(s.AmountMinor),
		AmountMinor:     s.AmountMinor,
		Percentage:      s.Percentage,
		Shares:          s.Shares,
		Status:          string(s.Status),
		SettlementID:    s.SettlementID,
		UpdatedAt:       s.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if s.AdjustmentMinor != 0 {
		resp.Adjustment = money.FormatMinor(s.AdjustmentMinor)
	}
	return resp
}

// PreviewResponseFromResult flattens an engine result into a response with
// details in canonical participant order.
func PreviewResponseFromResult(res *split.Result) *PreviewSplitResponse {
	ids := make([]split.ParticipantID, 0, len(res.Details))
	for id := range res.Details {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	details := make([]*PreviewDetailResponse, 0, len(ids))
	for _, id := range ids {
		d := res.Details[id]
		detail := &PreviewDetailResponse{
			ParticipantID: string(id),
			Amount:        money.FormatMinor(d.Amount),
			AmountMinor:   d.Amount,
			Percentage:    d.Percentage,
			Shares:        d.Shares,
		}
		if d.Adjustment != 0 {
			detail.Adjustment = money.FormatMinor(d.Adjustment)
		}
		details = append(details, detail)
	}
	return &PreviewSplitResponse{
		Details:          details,
		Balanced:         res.Balanced,
		Remaining:        money.FormatMinor(res.Remaining),
		RemainingMinor:   res.Remaining,
		RemainingPercent: res.RemainingPercent,
	}
}
