package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/entity"
)

// MessageService handles direct user-to-user messaging. Sending a message
// also drops a new_message notification for the recipient, in the same
// transaction.
type MessageService interface {
	Send(ctx context.Context, senderID, recipientID int64, subject, body string) (*entity.Message, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

type messageServiceImpl struct {
	messageRepo      port.MessageRepository
	notificationRepo port.NotificationRepository
	userRepo         port.UserRepository
	txManager        port.TransactionManager
	logger           Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messageRepo port.MessageRepository,
	notificationRepo port.NotificationRepository,
	userRepo port.UserRepository,
	txManager port.TransactionManager,
	logger Logger,
) MessageService {
	return &messageServiceImpl{
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Send validates and delivers a message, notifying the recipient.
func (s *messageServiceImpl) Send(ctx context.Context, senderID, recipientID int64, subject, body string) (*entity.Message, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" {
		return nil, apperror.Validation("subject is required")
	}
	if body == "" {
		return nil, apperror.Validation("message body is required")
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil || !recipient.IsActive {
		return nil, apperror.Validation("unknown recipient")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, apperror.NotFound("user %d", senderID)
	}

	message := &entity.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.messageRepo.Create(txCtx, message); err != nil {
			return err
		}
		messageID := message.ID
		return s.notificationRepo.Create(txCtx, &entity.Notification{
			RecipientID:   recipientID,
			Title:         "New Message",
			Message:       fmt.Sprintf("You have received a new message from %s: %s", sender.FullName, subject),
			Type:          entity.NotificationNewMessage,
			ReferenceID:   &messageID,
			ReferenceType: "message",
		})
	})
	if err != nil {
		s.logger.Error("Failed to send message", "error", err, "sender_id", senderID)
		return nil, err
	}

	s.logger.Info("Message sent", "id", message.ID, "sender_id", senderID, "recipient_id", recipientID)
	return message, nil
}

// ListForUser returns messages the user sent or received, newest first.
func (s *messageServiceImpl) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Message, error) {
	return s.messageRepo.ListForUser(ctx, userID, limit, offset)
}

// MarkRead marks a message read. Either participant may do so.
func (s *messageServiceImpl) MarkRead(ctx context.Context, id, userID int64) error {
	return s.messageRepo.MarkRead(ctx, id, userID)
}
