package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/akyildz/divvy/internal/expense/split"
	"github.com/akyildz/divvy/internal/money"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
	log  *slog.Logger
}

// NewService creates a new notification service
func NewService(repo *Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

// ListByRecipientID retrieves notifications for a participant.
func (s *Service) ListByRecipientID(ctx context.Context, recipientID split.ParticipantID, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read. Only the recipient may do so.
func (s *Service) MarkAsRead(ctx context.Context, id int64, userID split.ParticipantID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.RecipientID != userID {
		return ErrNotRecipient
	}
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all of a participant's notifications as read.
func (s *Service) MarkAllAsRead(ctx context.Context, userID split.ParticipantID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID split.ParticipantID) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// Helper methods for creating specific notification types. Failures are
// logged and swallowed so a missed notification never fails the operation
// that triggered it.

// NotifyExpenseAdded tells a participant they owe a share of a new expense.
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientID split.ParticipantID, description string, shareMinor int64, expenseID string) {
	message := "New expense \"" + description + "\": your share is " + money.FormatMinor(shareMinor)
	s.create(ctx, recipientID, message, entityTypeExpense, expenseID)
}

// NotifySettlementRequested tells a participant someone wants to settle up.
func (s *Service) NotifySettlementRequested(ctx context.Context, recipientID split.ParticipantID, amountMinor int64, settlementID string) {
	message := "A settle-up of " + money.FormatMinor(amountMinor) + " was started with you"
	s.create(ctx, recipientID, message, entityTypeSettlement, settlementID)
}

// NotifySettlementConfirmed tells the payer their settlement was confirmed.
func (s *Service) NotifySettlementConfirmed(ctx context.Context, recipientID split.ParticipantID, amountMinor int64, settlementID string) {
	message := "Your settlement of " + money.FormatMinor(amountMinor) + " was confirmed"
	s.create(ctx, recipientID, message, entityTypeSettlement, settlementID)
}

// NotifyAddedToGroup tells a participant they were added to a group.
func (s *Service) NotifyAddedToGroup(ctx context.Context, recipientID split.ParticipantID, groupName, groupID string) {
	message := "You have been added to group: " + groupName
	s.create(ctx, recipientID, message, entityTypeGroup, groupID)
}

func (s *Service) create(ctx context.Context, recipientID split.ParticipantID, message, entityType, entityID string) {
	if _, err := s.repo.Create(ctx, recipientID, message, &entityType, &entityID); err != nil {
		s.log.Warn("failed to create notification",
			"recipient_id", string(recipientID),
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}
