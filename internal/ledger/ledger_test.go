package ledger

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akyildz/divvy/internal/expense/split"
)

func detail(id split.ParticipantID, amount int64) split.Detail {
	return split.Detail{ParticipantID: id, Amount: amount}
}

func TestDeltasFromSplit(t *testing.T) {
	details := map[split.ParticipantID]split.Detail{
		"alice": detail("alice", 40),
		"bob":   detail("bob", 30),
		"carol": detail("carol", 30),
	}

	deltas := DeltasFromSplit("bob", details)

	require.Len(t, deltas, 3)
	assert.Equal(t, Delta{ParticipantID: "alice", Amount: -40}, deltas[0])
	assert.Equal(t, Delta{ParticipantID: "carol", Amount: -30}, deltas[1])
	// Payer comes last and is owed the sum of the others; their own share
	// cancels out.
	assert.Equal(t, Delta{ParticipantID: "bob", Amount: 70}, deltas[2])

	var sum int64
	for _, d := range deltas {
		sum += d.Amount
	}
	assert.Zero(t, sum)
}

func TestDeltasFromSplit_PayerNotInSet(t *testing.T) {
	details := map[split.ParticipantID]split.Detail{
		"alice": detail("alice", 60),
		"bob":   detail("bob", 40),
	}

	deltas := DeltasFromSplit("payer", details)

	require.Len(t, deltas, 3)
	assert.Equal(t, Delta{ParticipantID: "payer", Amount: 100}, deltas[2])
}

func TestDeltasFromSettlement(t *testing.T) {
	deltas := DeltasFromSettlement("debtor", "creditor", 250)

	require.Len(t, deltas, 2)
	assert.Equal(t, Delta{ParticipantID: "debtor", Amount: 250}, deltas[0])
	assert.Equal(t, Delta{ParticipantID: "creditor", Amount: -250}, deltas[1])
}

func TestValidateDeltas(t *testing.T) {
	assert.ErrorIs(t, validateDeltas(nil), ErrNoDeltas)
	assert.ErrorIs(t, validateDeltas([]Delta{{ParticipantID: "a", Amount: 5}}), ErrUnbalancedSet)
	assert.NoError(t, validateDeltas([]Delta{
		{ParticipantID: "a", Amount: 5},
		{ParticipantID: "b", Amount: -5},
	}))
}

func TestRepository_Apply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expenseID := "exp-1"
	deltas := []Delta{
		{ParticipantID: "alice", Amount: -40},
		{ParticipantID: "bob", Amount: 40},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO balance_entries").
		WithArgs("alice", int64(-40), expenseID, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO balance_entries").
		WithArgs("bob", int64(40), expenseID, nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := NewRepository(db)
	require.NoError(t, repo.Apply(context.Background(), &expenseID, nil, deltas))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Apply_RejectsUnbalancedSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := NewRepository(db)
	err = repo.Apply(context.Background(), nil, nil, []Delta{{ParticipantID: "a", Amount: 1}})
	assert.ErrorIs(t, err, ErrUnbalancedSet)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_NetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(-120)))

	repo := NewRepository(db)
	balance, err := repo.NetBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.EqualValues(t, -120, balance)
}
