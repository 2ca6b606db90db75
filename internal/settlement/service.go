package settlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/akyildz/divvy/internal/expense"
	"github.com/akyildz/divvy/internal/expense/split"
)

// Common errors
var (
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrAlreadySettled      = errors.New("already settled up - no pending debts")
	ErrNotReceiver         = errors.New("only the receiver can confirm")
	ErrNotParty            = errors.New("only the payer or receiver can cancel")
	ErrInvalidStatusChange = errors.New("invalid status change")
	ErrCannotSettleSelf    = errors.New("cannot create settlement with yourself")
)

// Notifier delivers settlement lifecycle messages to the counterparty.
// A nil Notifier disables delivery.
type Notifier interface {
	NotifySettlementRequested(ctx context.Context, recipientID split.ParticipantID, amountMinor int64, settlementID string)
	NotifySettlementConfirmed(ctx context.Context, recipientID split.ParticipantID, amountMinor int64, settlementID string)
}

// Service handles settlement business logic.
type Service struct {
	repo        *Repository
	expenseRepo *expense.Repository
	notifier    Notifier
	log         *slog.Logger
}

// NewService creates a new settlement service.
func NewService(repo *Repository, expenseRepo *expense.Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{repo: repo, expenseRepo: expenseRepo, notifier: notifier, log: log}
}

// Create starts a settle-up between the initiator and another participant.
// The pairwise net of pending splits decides who pays whom; a zero net
// with pending mutual debts is a valid zero-amount settlement that exists
// only to clear them.
func (s *Service) Create(ctx context.Context, initiatorID split.ParticipantID, req *CreateSettlementRequest) (*Settlement, error) {
	otherID := split.ParticipantID(req.OtherParticipantID)
	if initiatorID == otherID {
		return nil, ErrCannotSettleSelf
	}

	// What the initiator owes the other, and vice versa.
	initiatorOwes, err := s.expenseRepo.PairwiseOwed(ctx, otherID, initiatorID)
	if err != nil {
		return nil, err
	}
	otherOwes, err := s.expenseRepo.PairwiseOwed(ctx, initiatorID, otherID)
	if err != nil {
		return nil, err
	}

	net := initiatorOwes - otherOwes
	var payerID, receiverID split.ParticipantID
	var amount int64
	switch {
	case net > 0:
		payerID, receiverID, amount = initiatorID, otherID, net
	case net < 0:
		payerID, receiverID, amount = otherID, initiatorID, -net
	default:
		if initiatorOwes == 0 && otherOwes == 0 {
			return nil, ErrAlreadySettled
		}
		// Mutual debts cancel out; record a zero settlement to clear them.
		payerID, receiverID, amount = initiatorID, otherID, 0
	}

	created, err := s.repo.Create(ctx, payerID, receiverID, amount)
	if err != nil {
		return nil, err
	}
	s.log.Info("settlement created",
		"settlement_id", created.ID,
		"payer_id", string(payerID),
		"receiver_id", string(receiverID),
		"amount_minor", amount,
	)

	if s.notifier != nil {
		counterparty := payerID
		if initiatorID == payerID {
			counterparty = receiverID
		}
		s.notifier.NotifySettlementRequested(ctx, counterparty, amount, created.ID)
	}
	return created, nil
}

// GetByID retrieves a settlement by its id.
func (s *Service) GetByID(ctx context.Context, id string) (*Settlement, error) {
	stl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stl == nil {
		return nil, ErrSettlementNotFound
	}
	return stl, nil
}

// ListByParticipant retrieves all settlements for a participant.
func (s *Service) ListByParticipant(ctx context.Context, id split.ParticipantID, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.repo.ListByParticipant(ctx, id, perPage, offset)
}

// Confirm lets the receiver acknowledge payment. Confirmation settles the
// pending splits between the pair and applies the offsetting balance
// deltas, all in one transaction.
func (s *Service) Confirm(ctx context.Context, settlementID string, userID split.ParticipantID) (*Settlement, error) {
	stl, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if stl.ReceiverID != userID {
		return nil, ErrNotReceiver
	}
	if stl.Status != StatusPending {
		return nil, ErrInvalidStatusChange
	}

	confirmed, err := s.repo.Confirm(ctx, stl)
	if err != nil {
		return nil, err
	}
	s.log.Info("settlement confirmed", "settlement_id", settlementID, "amount_minor", stl.AmountMinor)

	if s.notifier != nil {
		s.notifier.NotifySettlementConfirmed(ctx, stl.PayerID, stl.AmountMinor, stl.ID)
	}
	return confirmed, nil
}

// Cancel voids a pending settlement. Either party can cancel; no deltas
// were applied yet, and the splits the settlement had locked go back to
// counting toward the pairwise net.
func (s *Service) Cancel(ctx context.Context, settlementID string, userID split.ParticipantID) (*Settlement, error) {
	stl, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if stl.PayerID != userID && stl.ReceiverID != userID {
		return nil, ErrNotParty
	}
	if stl.Status != StatusPending {
		return nil, ErrInvalidStatusChange
	}
	return s.repo.Cancel(ctx, settlementID)
}
