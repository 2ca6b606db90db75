package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akyildz/divvy/internal/expense/split"
)

// Repository persists balance entries and answers balance queries.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new ledger repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Apply writes the deltas in their own transaction. Use ApplyTx when the
// deltas must commit together with other writes (expense + splits).
func (r *Repository) Apply(ctx context.Context, expenseID, settlementID *string, deltas []Delta) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	if err := r.ApplyTx(ctx, tx, expenseID, settlementID, deltas); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	return nil
}

// ApplyTx writes the deltas inside the caller's transaction. The zero-sum
// invariant is checked before the first insert so a bad set never partially
// lands.
func (r *Repository) ApplyTx(ctx context.Context, tx *sql.Tx, expenseID, settlementID *string, deltas []Delta) error {
	if err := validateDeltas(deltas); err != nil {
		return err
	}

	query := `
		INSERT INTO balance_entries (participant_id, amount, expense_id, settlement_id)
		VALUES ($1, $2, $3, $4)
	`
	for _, d := range deltas {
		if _, err := tx.ExecContext(ctx, query, string(d.ParticipantID), d.Amount, expenseID, settlementID); err != nil {
			return fmt.Errorf("failed to insert balance entry: %w", err)
		}
	}
	return nil
}

// NetBalance returns the participant's running balance in minor units.
// Positive means others owe them.
func (r *Repository) NetBalance(ctx context.Context, id split.ParticipantID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM balance_entries
		WHERE participant_id = $1
	`
	var balance int64
	if err := r.db.QueryRowContext(ctx, query, string(id)).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to get net balance: %w", err)
	}
	return balance, nil
}

// AllBalances returns every participant with a nonzero running balance.
func (r *Repository) AllBalances(ctx context.Context) (map[split.ParticipantID]int64, error) {
	query := `
		SELECT participant_id, SUM(amount)
		FROM balance_entries
		GROUP BY participant_id
		HAVING SUM(amount) <> 0
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[split.ParticipantID]int64)
	for rows.Next() {
		var id string
		var amount int64
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[split.ParticipantID(id)] = amount
	}
	return balances, rows.Err()
}

// ListEntries returns a participant's balance history, newest first.
func (r *Repository) ListEntries(ctx context.Context, id split.ParticipantID, limit, offset int) ([]*Entry, error) {
	query := `
		SELECT id, participant_id, amount, expense_id, settlement_id, created_at
		FROM balance_entries
		WHERE participant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, string(id), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var pid string
		if err := rows.Scan(&e.ID, &pid, &e.Amount, &e.ExpenseID, &e.SettlementID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance entry: %w", err)
		}
		e.ParticipantID = split.ParticipantID(pid)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
