package settlement

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyildz/divvy/internal/expense"
	"github.com/akyildz/divvy/internal/ledger"
)

func testService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ledgerRepo := ledger.NewRepository(db)
	expenseRepo := expense.NewRepository(db, ledgerRepo)
	repo := NewRepository(db, expenseRepo, ledgerRepo)
	return NewService(repo, expenseRepo, nil, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func expectPairwise(mock sqlmock.Sqlmock, payer, ower string, owed int64) {
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(payer, ower).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(owed))
}

// expectCreateTx covers the creation transaction: the settlement row plus
// locking the pair's pending splits to it.
func expectCreateTx(mock sqlmock.Sqlmock, id, payer, receiver string, amount int64) {
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO settlements").
		WithArgs(sqlmock.AnyArg(), payer, receiver, amount, "PENDING").
		WillReturnRows(settlementRows(id, payer, receiver, amount, "PENDING"))
	mock.ExpectExec("UPDATE splits s").
		WithArgs(payer, receiver, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func settlementRows(id, payer, receiver string, amount int64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "payer_id", "receiver_id", "amount_minor", "status", "created_at", "updated_at"}).
		AddRow(id, payer, receiver, amount, status, now, now)
}

func settlementDetailRows(id, payer, receiver string, amount int64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "payer_id", "receiver_id", "amount_minor", "status", "created_at", "updated_at", "payer_name", "receiver_name"}).
		AddRow(id, payer, receiver, amount, status, now, now, "Alice", "Bob")
}

func TestCreate_InitiatorOwesMore(t *testing.T) {
	svc, mock := testService(t)

	// alice owes bob 500, bob owes alice 200: alice pays the 300 net.
	expectPairwise(mock, "bob", "alice", 500)
	expectPairwise(mock, "alice", "bob", 200)
	expectCreateTx(mock, "st1", "alice", "bob", 300)

	stl, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{OtherParticipantID: "bob"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.EqualValues(t, 300, stl.AmountMinor)
	assert.EqualValues(t, "alice", stl.PayerID)
	assert.EqualValues(t, "bob", stl.ReceiverID)
}

func TestCreate_OtherOwesMore(t *testing.T) {
	svc, mock := testService(t)

	expectPairwise(mock, "bob", "alice", 100)
	expectPairwise(mock, "alice", "bob", 400)
	expectCreateTx(mock, "st2", "bob", "alice", 300)

	stl, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{OtherParticipantID: "bob"})
	require.NoError(t, err)
	assert.EqualValues(t, "bob", stl.PayerID)
}

func TestCreate_MutualDebtsCancelToZeroSettlement(t *testing.T) {
	svc, mock := testService(t)

	expectPairwise(mock, "bob", "alice", 250)
	expectPairwise(mock, "alice", "bob", 250)
	expectCreateTx(mock, "st3", "alice", "bob", 0)

	stl, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{OtherParticipantID: "bob"})
	require.NoError(t, err)
	assert.Zero(t, stl.AmountMinor)
}

func TestCreate_NothingToSettle(t *testing.T) {
	svc, mock := testService(t)

	expectPairwise(mock, "bob", "alice", 0)
	expectPairwise(mock, "alice", "bob", 0)

	_, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{OtherParticipantID: "bob"})
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestCreate_SelfSettlement(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Create(context.Background(), "alice", &CreateSettlementRequest{OtherParticipantID: "alice"})
	assert.ErrorIs(t, err, ErrCannotSettleSelf)
}

// Confirm must settle only the splits locked to the settlement at creation
// time. A debt from an expense created after the settlement keeps its
// pending split and its ledger entry, so the amounts the deltas reverse
// and the splits marked settled always describe the same set.
func TestConfirm_SettlesOnlyLockedSplits(t *testing.T) {
	svc, mock := testService(t)

	mock.ExpectQuery("SELECT s.id, s.payer_id").
		WithArgs("st1").
		WillReturnRows(settlementDetailRows("st1", "alice", "bob", 300, "PENDING"))

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE settlements").
		WithArgs("st1", "CONFIRMED").
		WillReturnRows(settlementRows("st1", "alice", "bob", 300, "CONFIRMED"))
	// The settle statement is keyed on the settlement id alone, never on
	// the participant pair.
	mock.ExpectExec("UPDATE splits").
		WithArgs("st1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO balance_entries").
		WithArgs("alice", int64(300), nil, "st1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO balance_entries").
		WithArgs("bob", int64(-300), nil, "st1").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	stl, err := svc.Confirm(context.Background(), "st1", "bob")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, StatusConfirmed, stl.Status)
}

func TestConfirm_ReceiverOnly(t *testing.T) {
	svc, mock := testService(t)

	mock.ExpectQuery("SELECT s.id, s.payer_id").
		WithArgs("st1").
		WillReturnRows(settlementDetailRows("st1", "alice", "bob", 300, "PENDING"))

	_, err := svc.Confirm(context.Background(), "st1", "alice")
	assert.ErrorIs(t, err, ErrNotReceiver)
}

// Cancelling releases the locked splits so the debts count toward the
// pairwise net again and can back a fresh settlement.
func TestCancel_ReleasesLockedSplits(t *testing.T) {
	svc, mock := testService(t)

	mock.ExpectQuery("SELECT s.id, s.payer_id").
		WithArgs("st1").
		WillReturnRows(settlementDetailRows("st1", "alice", "bob", 300, "PENDING"))

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE settlements").
		WithArgs("st1", "CANCELLED").
		WillReturnRows(settlementRows("st1", "alice", "bob", 300, "CANCELLED"))
	mock.ExpectExec("UPDATE splits").
		WithArgs("st1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	stl, err := svc.Cancel(context.Background(), "st1", "alice")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, StatusCancelled, stl.Status)
}
