package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/internal/ledger"
)

// Repository handles expense and split data persistence.
type Repository struct {
	db     *sql.DB
	ledger *ledger.Repository
}

// NewRepository creates a new expense repository.
func NewRepository(db *sql.DB, ledgerRepo *ledger.Repository) *Repository {
	return &Repository{db: db, ledger: ledgerRepo}
}

// CreateWithSplits inserts the expense, its splits and the balance deltas
// in a single transaction, so a concurrent balance read never sees a
// half-applied expense.
func (r *Repository) CreateWithSplits(ctx context.Context, exp *Expense, splits []*Split, deltas []ledger.Delta) (*ExpenseWithSplits, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (id, group_id, payer_id, description, amount_minor, split_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := tx.QueryRowContext(ctx, query,
		exp.ID,
		exp.GroupID,
		string(exp.PayerID),
		exp.Description,
		exp.AmountMinor,
		string(exp.SplitType),
	).Scan(&exp.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	splitQuery := `
		INSERT INTO splits (expense_id, participant_id, amount_minor, percentage, shares, adjustment_minor, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, updated_at
	`
	for _, sp := range splits {
		if err := tx.QueryRowContext(ctx, splitQuery,
			sp.ExpenseID,
			string(sp.ParticipantID),
			sp.AmountMinor,
			sp.Percentage,
			sp.Shares,
			sp.AdjustmentMinor,
			string(sp.Status),
		).Scan(&sp.ID, &sp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
	}

	if err := r.ledger.ApplyTx(ctx, tx, &exp.ID, nil, deltas); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}
	return &ExpenseWithSplits{Expense: exp, Splits: splits}, nil
}

// GetExpenseByID retrieves an expense by its ID, or nil when absent.
func (r *Repository) GetExpenseByID(ctx context.Context, id string) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_minor, e.split_type, e.created_at, p.display_name
		FROM expenses e
		JOIN participants p ON p.id = e.payer_id
		WHERE e.id = $1
	`
	exp := &Expense{}
	var payerID, splitType string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&exp.ID,
		&exp.GroupID,
		&payerID,
		&exp.Description,
		&exp.AmountMinor,
		&splitType,
		&exp.CreatedAt,
		&exp.PayerName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	exp.PayerID = split.ParticipantID(payerID)
	exp.SplitType = split.Type(splitType)
	return exp, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense.
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID string) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.participant_id, s.amount_minor, s.percentage, s.shares,
		       s.adjustment_minor, s.status, s.settlement_id, s.updated_at, p.display_name
		FROM splits s
		JOIN participants p ON p.id = s.participant_id
		WHERE s.expense_id = $1
		ORDER BY s.participant_id
	`
	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*Split
	for rows.Next() {
		sp := &Split{}
		var participantID, status string
		if err := rows.Scan(
			&sp.ID,
			&sp.ExpenseID,
			&participantID,
			&sp.AmountMinor,
			&sp.Percentage,
			&sp.Shares,
			&sp.AdjustmentMinor,
			&status,
			&sp.SettlementID,
			&sp.UpdatedAt,
			&sp.ParticipantName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		sp.ParticipantID = split.ParticipantID(participantID)
		sp.Status = SplitStatus(status)
		splits = append(splits, sp)
	}
	return splits, rows.Err()
}

// ListExpensesByGroupID retrieves a page of expenses for a group, newest first.
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_minor, e.split_type, e.created_at, p.display_name
		FROM expenses e
		JOIN participants p ON p.id = e.payer_id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		exp := &Expense{}
		var payerID, splitType string
		if err := rows.Scan(
			&exp.ID,
			&exp.GroupID,
			&payerID,
			&exp.Description,
			&exp.AmountMinor,
			&splitType,
			&exp.CreatedAt,
			&exp.PayerName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.PayerID = split.ParticipantID(payerID)
		exp.SplitType = split.Type(splitType)
		expenses = append(expenses, exp)
	}
	return expenses, total, rows.Err()
}

// PairwiseOwed returns how much ower still owes payer across pending
// splits of expenses payer paid for. Splits already locked to an open
// settlement are excluded so the same debt cannot be settled twice.
func (r *Repository) PairwiseOwed(ctx context.Context, payer, ower split.ParticipantID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(s.amount_minor), 0)
		FROM splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.payer_id = $1 AND s.participant_id = $2
		  AND s.participant_id <> e.payer_id
		  AND s.status = 'PENDING'
		  AND s.settlement_id IS NULL
	`
	var owed int64
	if err := r.db.QueryRowContext(ctx, query, string(payer), string(ower)).Scan(&owed); err != nil {
		return 0, fmt.Errorf("failed to get pairwise owed: %w", err)
	}
	return owed, nil
}

// LockSplitsToSettlementTx stamps the settlement id on every pending,
// unlocked split between the two participants (in both directions), inside
// the caller's transaction. Confirm later settles exactly this set, so the
// settlement's amount and the splits it clears stay in agreement even when
// new expenses arrive in between.
func (r *Repository) LockSplitsToSettlementTx(ctx context.Context, tx *sql.Tx, a, b split.ParticipantID, settlementID string) error {
	query := `
		UPDATE splits s
		SET settlement_id = $3, updated_at = NOW()
		FROM expenses e
		WHERE e.id = s.expense_id
		  AND s.status = 'PENDING'
		  AND s.settlement_id IS NULL
		  AND s.participant_id <> e.payer_id
		  AND ((e.payer_id = $1 AND s.participant_id = $2)
		    OR (e.payer_id = $2 AND s.participant_id = $1))
	`
	if _, err := tx.ExecContext(ctx, query, string(a), string(b), settlementID); err != nil {
		return fmt.Errorf("failed to lock splits to settlement: %w", err)
	}
	return nil
}

// SettleLockedSplitsTx marks the splits locked to the settlement as
// settled, inside the caller's transaction. Only the locked set is
// touched; pending splits created after the settlement keep their debt.
func (r *Repository) SettleLockedSplitsTx(ctx context.Context, tx *sql.Tx, settlementID string) error {
	query := `
		UPDATE splits
		SET status = 'SETTLED', updated_at = NOW()
		WHERE settlement_id = $1 AND status = 'PENDING'
	`
	if _, err := tx.ExecContext(ctx, query, settlementID); err != nil {
		return fmt.Errorf("failed to settle splits: %w", err)
	}
	return nil
}

// UnlockSplitsTx releases the pending splits locked to a cancelled
// settlement so they count toward the pairwise net again.
func (r *Repository) UnlockSplitsTx(ctx context.Context, tx *sql.Tx, settlementID string) error {
	query := `
		UPDATE splits
		SET settlement_id = NULL, updated_at = NOW()
		WHERE settlement_id = $1 AND status = 'PENDING'
	`
	if _, err := tx.ExecContext(ctx, query, settlementID); err != nil {
		return fmt.Errorf("failed to unlock splits: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense with its splits and balance entries in
// one transaction, so deleting reverses every delta the expense applied.
func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM balance_entries WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete balance entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense delete: %w", err)
	}
	return nil
}
