package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(NewRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func notificationRow(id int64, recipientID string, read bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "recipient_id", "message", "is_read", "related_entity_type", "related_entity_id", "created_at"}).
		AddRow(id, recipientID, "msg", read, nil, nil, time.Now())
}

func TestMarkAsRead_OnlyRecipient(t *testing.T) {
	svc, mock := testService(t)

	mock.ExpectQuery("SELECT id, recipient_id").
		WithArgs(int64(7)).
		WillReturnRows(notificationRow(7, "alice", false))

	err := svc.MarkAsRead(context.Background(), 7, "bob")
	assert.ErrorIs(t, err, ErrNotRecipient)
}

func TestMarkAsRead_Recipient(t *testing.T) {
	svc, mock := testService(t)

	mock.ExpectQuery("SELECT id, recipient_id").
		WithArgs(int64(7)).
		WillReturnRows(notificationRow(7, "alice", false))
	mock.ExpectExec("UPDATE notifications SET is_read = true").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.MarkAsRead(context.Background(), 7, "alice"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsRead_NotFound(t *testing.T) {
	svc, mock := testService(t)

	mock.ExpectQuery("SELECT id, recipient_id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipient_id", "message", "is_read", "related_entity_type", "related_entity_id", "created_at"}))

	err := svc.MarkAsRead(context.Background(), 9, "alice")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestGetUnreadCount(t *testing.T) {
	svc, mock := testService(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := svc.GetUnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNotifyFailureIsSwallowed(t *testing.T) {
	svc, mock := testService(t)

	mock.ExpectQuery("INSERT INTO notifications").
		WillReturnError(context.DeadlineExceeded)

	// Delivery failure must not propagate to the triggering operation.
	svc.NotifyExpenseAdded(context.Background(), "alice", "Dinner", 1250, "exp-1")
	require.NoError(t, mock.ExpectationsWereMet())
}
