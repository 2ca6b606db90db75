package expense

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/internal/ledger"
)

func testService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db, ledger.NewRepository(db))
	return NewService(repo, split.NewFactory(), nil, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func strptr(s string) *string { return &s }

func TestPreviewSplit_UnbalancedIsDataNotError(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.PreviewSplit(context.Background(), &PreviewSplitRequest{
		Amount:    "1.00",
		SplitType: "EXACT_AMOUNTS",
		Participants: []*SplitParticipant{
			{ParticipantID: "alice", Amount: strptr("0.40")},
			{ParticipantID: "bob", Amount: strptr("0.40")},
		},
	})
	require.NoError(t, err)

	assert.False(t, res.Balanced)
	assert.EqualValues(t, 20, res.Remaining)
}

func TestPreviewSplit_SeedsDefaultsForMissingInput(t *testing.T) {
	svc, _ := testService(t)

	res, err := svc.PreviewSplit(context.Background(), &PreviewSplitRequest{
		Amount:    "10.00",
		SplitType: "SHARES",
		Participants: []*SplitParticipant{
			{ParticipantID: "alice"},
			{ParticipantID: "bob", Shares: intptr(3)},
		},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 250, res.Details["alice"].Amount)
	assert.EqualValues(t, 750, res.Details["bob"].Amount)
}

func intptr(n int) *int { return &n }

func TestCreateExpense_RejectsUnbalancedExactAmounts(t *testing.T) {
	svc, mock := testService(t)

	_, err := svc.CreateExpense(context.Background(), "alice", &CreateExpenseRequest{
		GroupID:     "g1",
		Description: "dinner",
		Amount:      "1.00",
		SplitType:   "EXACT_AMOUNTS",
		Participants: []*SplitParticipant{
			{ParticipantID: "alice", Amount: strptr("0.40")},
			{ParticipantID: "bob", Amount: strptr("0.40")},
		},
	})

	assert.ErrorIs(t, err, ErrUnbalancedSplit)
	assert.ErrorContains(t, err, "0.20 remaining")
	require.NoError(t, mock.ExpectationsWereMet()) // nothing persisted
}

func TestCreateExpense_RejectsUnbalancedPercentages(t *testing.T) {
	svc, _ := testService(t)

	pct := 40.0
	_, err := svc.CreateExpense(context.Background(), "alice", &CreateExpenseRequest{
		GroupID:     "g1",
		Description: "dinner",
		Amount:      "10.00",
		SplitType:   "PERCENTAGES",
		Participants: []*SplitParticipant{
			{ParticipantID: "alice", Percentage: &pct},
			{ParticipantID: "bob", Percentage: &pct},
		},
	})

	assert.ErrorIs(t, err, ErrUnbalancedSplit)
	assert.ErrorContains(t, err, "20.0% unassigned")
}

func TestCreateExpense_RequiresTwoParticipants(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.CreateExpense(context.Background(), "alice", &CreateExpenseRequest{
		GroupID:      "g1",
		Description:  "solo",
		Amount:       "5.00",
		SplitType:    "EQUAL",
		Participants: []*SplitParticipant{{ParticipantID: "alice"}},
	})
	assert.ErrorIs(t, err, ErrTooFewParticipants)
}

func TestCreateExpense_RejectsNonPositiveAmount(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.CreateExpense(context.Background(), "alice", &CreateExpenseRequest{
		GroupID:     "g1",
		Description: "free lunch",
		Amount:      "0",
		SplitType:   "EQUAL",
		Participants: []*SplitParticipant{
			{ParticipantID: "alice"},
			{ParticipantID: "bob"},
		},
	})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestCreateExpense_PersistsSplitsAndDeltasAtomically(t *testing.T) {
	svc, mock := testService(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO expenses").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	// Splits insert in canonical participant order: alice, then bob.
	mock.ExpectQuery("INSERT INTO splits").
		WithArgs(sqlmock.AnyArg(), "alice", int64(5000), 50.0, 0, int64(0), "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(int64(1), now))
	mock.ExpectQuery("INSERT INTO splits").
		WithArgs(sqlmock.AnyArg(), "bob", int64(5000), 50.0, 0, int64(0), "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(int64(2), now))
	// Ledger deltas: the non-payer owes, the payer is owed, same transaction.
	mock.ExpectExec("INSERT INTO balance_entries").
		WithArgs("bob", int64(-5000), sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO balance_entries").
		WithArgs("alice", int64(5000), sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	result, err := svc.CreateExpense(context.Background(), "alice", &CreateExpenseRequest{
		GroupID:     "g1",
		Description: "dinner",
		Amount:      "100.00",
		SplitType:   "EQUAL",
		Participants: []*SplitParticipant{
			{ParticipantID: "alice"},
			{ParticipantID: "bob"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.NotEmpty(t, result.Expense.ID)
	assert.EqualValues(t, 10000, result.Expense.AmountMinor)
	require.Len(t, result.Splits, 2)
	assert.Equal(t, split.ParticipantID("alice"), result.Splits[0].ParticipantID)
	assert.EqualValues(t, 5000, result.Splits[0].AmountMinor)
}
