package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/internal/ledger"
	"github.com/akyildz/divvy/internal/money"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrNonPositiveAmount   = errors.New("amount must be greater than zero")
	ErrTooFewParticipants  = errors.New("at least two participants are required")
	ErrUnbalancedSplit     = errors.New("split does not add up to the total")
	ErrNotPayer            = errors.New("only the payer can delete an expense")
	ErrCannotDeleteSettled = errors.New("cannot delete expense with settled splits")
)

// Service handles expense business logic.
// Notifier delivers in-app messages to participants who owe a share of
// a newly created expense. A nil Notifier disables delivery.
type Notifier interface {
	NotifyExpenseAdded(ctx context.Context, recipientID split.ParticipantID, description string, shareMinor int64, expenseID string)
}

type Service struct {
	repo         *Repository
	splitFactory *split.Factory
	notifier     Notifier
	log          *slog.Logger
}

// NewService creates a new expense service with dependencies injected.
func NewService(repo *Repository, splitFactory *split.Factory, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		splitFactory: splitFactory,
		notifier:     notifier,
		log:          log,
	}
}

// computeSplit parses the request amounts, seeds strategy defaults for
// participants without explicit input and runs the allocation engine.
func (s *Service) computeSplit(amount, splitType string, participants []*SplitParticipant) (int64, split.Type, *split.Result, error) {
	strategy, err := s.splitFactory.CreateFromString(splitType)
	if err != nil {
		return 0, "", nil, err
	}

	totalMinor, err := money.ParseDecimalToMinor(amount)
	if err != nil {
		return 0, "", nil, err
	}
	if totalMinor <= 0 {
		return 0, "", nil, ErrNonPositiveAmount
	}

	ids := make([]split.ParticipantID, len(participants))
	inputs := make(split.Inputs, len(participants))
	for i, p := range participants {
		ids[i] = split.ParticipantID(p.ParticipantID)
		if err := p.ToRawInput(inputs); err != nil {
			return 0, "", nil, err
		}
	}
	strategy.Seed(totalMinor, ids, inputs)

	res, err := strategy.Calculate(totalMinor, ids, inputs)
	if err != nil {
		return 0, "", nil, err
	}
	return totalMinor, strategy.Type(), res, nil
}

// PreviewSplit runs the allocation engine without persisting anything.
// An unbalanced result is returned as data, never as an error: the client
// shows the remaining amount while the user is still editing.
func (s *Service) PreviewSplit(ctx context.Context, req *PreviewSplitRequest) (*split.Result, error) {
	_, _, res, err := s.computeSplit(req.Amount, req.SplitType, req.Participants)
	return res, err
}

// CreateExpense calculates the split and persists the expense, its splits
// and the resulting balance deltas in one transaction. Saving is the
// validation gate: strategies that require exact reconciliation are
// rejected while unbalanced.
func (s *Service) CreateExpense(ctx context.Context, payerID split.ParticipantID, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	if len(req.Participants) < 2 {
		return nil, ErrTooFewParticipants
	}

	totalMinor, splitType, res, err := s.computeSplit(req.Amount, req.SplitType, req.Participants)
	if err != nil {
		return nil, err
	}

	if split.RequiresBalance(splitType) && !res.Balanced {
		if splitType == split.TypePercentages {
			return nil, fmt.Errorf("%w: %.1f%% unassigned", ErrUnbalancedSplit, res.RemainingPercent)
		}
		return nil, fmt.Errorf("%w: %s remaining", ErrUnbalancedSplit, money.FormatMinor(res.Remaining))
	}

	exp := &Expense{
		ID:          uuid.NewString(),
		GroupID:     req.GroupID,
		PayerID:     payerID,
		Description: req.Description,
		AmountMinor: totalMinor,
		SplitType:   splitType,
	}

	splits := make([]*Split, 0, len(res.Details))
	for _, id := range sortedResultIDs(res) {
		splits = append(splits, splitFromDetail(exp.ID, res.Details[id]))
	}

	deltas := ledger.DeltasFromSplit(payerID, res.Details)

	created, err := s.repo.CreateWithSplits(ctx, exp, splits, deltas)
	if err != nil {
		return nil, err
	}

	s.log.Info("expense created",
		"expense_id", created.Expense.ID,
		"group_id", created.Expense.GroupID,
		"payer_id", string(payerID),
		"amount_minor", totalMinor,
		"split_type", string(splitType),
		"participants", len(splits),
	)

	if s.notifier != nil {
		for _, sp := range created.Splits {
			if sp.ParticipantID == payerID || sp.AmountMinor == 0 {
				continue
			}
			s.notifier.NotifyExpenseAdded(ctx, sp.ParticipantID, created.Expense.Description, sp.AmountMinor, created.Expense.ID)
		}
	}
	return created, nil
}

// GetExpenseByID retrieves an expense with its splits.
func (s *Service) GetExpenseByID(ctx context.Context, id string) (*ExpenseWithSplits, error) {
	exp, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ExpenseWithSplits{Expense: exp, Splits: splits}, nil
}

// ListExpensesByGroupID retrieves expenses for a group.
func (s *Service) ListExpensesByGroupID(ctx context.Context, groupID string, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByGroupID(ctx, groupID, perPage, offset)
}

// DeleteExpense deletes an expense and reverses its balance deltas. Only
// the payer may delete, and only while no split has been settled.
func (s *Service) DeleteExpense(ctx context.Context, id string, requesterID split.ParticipantID) error {
	exp, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if exp == nil {
		return ErrExpenseNotFound
	}
	if exp.PayerID != requesterID {
		return ErrNotPayer
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return err
	}
	for _, sp := range splits {
		if sp.Status == SplitStatusSettled {
			return ErrCannotDeleteSettled
		}
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.log.Info("expense deleted", "expense_id", id, "payer_id", string(requesterID))
	return nil
}

func sortedResultIDs(res *split.Result) []split.ParticipantID {
	ids := make([]split.ParticipantID, 0, len(res.Details))
	for id := range res.Details {
		ids = append(ids, id)
	}
	// canonical order keeps insert order stable for reads
	slices.Sort(ids)
	return ids
}
