package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/akyildz/divvy/internal/expense"
	"github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/internal/ledger"
)

// Repository handles settlement data persistence.
type Repository struct {
	db          *sql.DB
	expenseRepo *expense.Repository
	ledgerRepo  *ledger.Repository
}

// NewRepository creates a new settlement repository.
func NewRepository(db *sql.DB, expenseRepo *expense.Repository, ledgerRepo *ledger.Repository) *Repository {
	return &Repository{db: db, expenseRepo: expenseRepo, ledgerRepo: ledgerRepo}
}

// Create inserts a pending settlement and, in the same transaction, locks
// the pending splits between the pair to it. Confirm settles exactly the
// locked set, so splits from expenses created after this point are never
// swept into a settlement whose amount predates them.
func (r *Repository) Create(ctx context.Context, payer, receiver split.ParticipantID, amountMinor int64) (*Settlement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO settlements (id, payer_id, receiver_id, amount_minor, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, payer_id, receiver_id, amount_minor, status, created_at, updated_at
	`
	created, err := scanSettlement(tx.QueryRowContext(ctx, query,
		uuid.NewString(), string(payer), string(receiver), amountMinor, string(StatusPending)))
	if err != nil {
		return nil, err
	}

	if err := r.expenseRepo.LockSplitsToSettlementTx(ctx, tx, payer, receiver, created.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return created, nil
}

// GetByID retrieves a settlement by id, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*Settlement, error) {
	query := `
		SELECT s.id, s.payer_id, s.receiver_id, s.amount_minor, s.status, s.created_at, s.updated_at,
		       pp.display_name, pr.display_name
		FROM settlements s
		JOIN participants pp ON pp.id = s.payer_id
		JOIN participants pr ON pr.id = s.receiver_id
		WHERE s.id = $1
	`
	s := &Settlement{}
	var payerID, receiverID, status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &payerID, &receiverID, &s.AmountMinor, &status, &s.CreatedAt, &s.UpdatedAt,
		&s.PayerName, &s.ReceiverName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	s.PayerID = split.ParticipantID(payerID)
	s.ReceiverID = split.ParticipantID(receiverID)
	s.Status = Status(status)
	return s, nil
}

// ListByParticipant retrieves a page of settlements the participant is part
// of, newest first.
func (r *Repository) ListByParticipant(ctx context.Context, id split.ParticipantID, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM settlements WHERE payer_id = $1 OR receiver_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, string(id)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT id, payer_id, receiver_id, amount_minor, status, created_at, updated_at
		FROM settlements
		WHERE payer_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, string(id), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s := &Settlement{}
		var payerID, receiverID, status string
		if err := rows.Scan(&s.ID, &payerID, &receiverID, &s.AmountMinor, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		s.PayerID = split.ParticipantID(payerID)
		s.ReceiverID = split.ParticipantID(receiverID)
		s.Status = Status(status)
		settlements = append(settlements, s)
	}
	return settlements, total, rows.Err()
}

// Confirm marks the settlement confirmed and, in the same transaction,
// settles the splits locked to it and applies the offsetting balance
// deltas.
func (r *Repository) Confirm(ctx context.Context, s *Settlement) (*Settlement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE settlements
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, payer_id, receiver_id, amount_minor, status, created_at, updated_at
	`
	updated, err := scanSettlement(tx.QueryRowContext(ctx, query, s.ID, string(StatusConfirmed)))
	if err != nil {
		return nil, err
	}

	if err := r.expenseRepo.SettleLockedSplitsTx(ctx, tx, s.ID); err != nil {
		return nil, err
	}

	if s.AmountMinor > 0 {
		deltas := ledger.DeltasFromSettlement(s.PayerID, s.ReceiverID, s.AmountMinor)
		if err := r.ledgerRepo.ApplyTx(ctx, tx, nil, &s.ID, deltas); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return updated, nil
}

// Cancel voids the settlement and releases its locked splits in one
// transaction, so the underlying debts count toward the pairwise net
// again.
func (r *Repository) Cancel(ctx context.Context, id string) (*Settlement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE settlements
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, payer_id, receiver_id, amount_minor, status, created_at, updated_at
	`
	updated, err := scanSettlement(tx.QueryRowContext(ctx, query, id, string(StatusCancelled)))
	if err != nil {
		return nil, err
	}

	if err := r.expenseRepo.UnlockSplitsTx(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement cancel: %w", err)
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row rowScanner) (*Settlement, error) {
	s := &Settlement{}
	var payerID, receiverID, status string
	if err := row.Scan(&s.ID, &payerID, &receiverID, &s.AmountMinor, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan settlement: %w", err)
	}
	s.PayerID = split.ParticipantID(payerID)
	s.ReceiverID = split.ParticipantID(receiverID)
	s.Status = Status(status)
	return s, nil
}
