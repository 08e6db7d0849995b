package usecase

import (
	"context"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type messageUsecase struct {
	messageRepo domain.MessageRepository
	userRepo    domain.UserRepository
	validate    *validator.Validate
}

func NewMessageUsecase(messageRepo domain.MessageRepository, userRepo domain.UserRepository, validate *validator.Validate) domain.MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		validate:    validate,
	}
}

// Send accepts both authenticated and anonymous senders. Authenticated
// senders are identified by their account; anonymous ones must supply a
// display name.
func (u *messageUsecase) Send(ctx context.Context, input domain.SendMessageInput) (*domain.UserMessage, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	recipient, err := u.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil || recipient.IsDeactivated {
		return nil, apperror.NotFound("Recipient not found")
	}

	msg := &domain.UserMessage{
		RecipientID: input.RecipientID,
		Body:        input.Body,
	}

	senderID, _ := ctx.Value(domain.KeyUserID).(string)
	if senderID != "" {
		sender, err := u.userRepo.GetByID(ctx, senderID)
		if err != nil {
			return nil, err
		}
		if sender == nil {
			return nil, apperror.Unauthorized("User not authenticated")
		}
		if sender.ID == input.RecipientID {
			return nil, apperror.BadRequest("You cannot message yourself")
		}
		msg.SenderID = &sender.ID
		msg.SenderName = sender.FirstName + " " + sender.LastName
		msg.SenderEmail = sender.Email
	} else {
		if input.SenderName == "" {
			return nil, apperror.BadRequest("Sender name is required")
		}
		msg.SenderName = input.SenderName
		msg.SenderEmail = input.SenderEmail
	}

	if err := u.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (u *messageUsecase) Inbox(ctx context.Context, limit, offset int) ([]domain.UserMessage, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.messageRepo.ListInbox(ctx, userID, limit, offset)
}

func (u *messageUsecase) UnreadCount(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return 0, apperror.Unauthorized("User not authenticated")
	}
	return u.messageRepo.CountUnread(ctx, userID)
}

// recipientMessage loads the message and verifies the caller is its
// recipient. Foreign messages answer 404, not 403.
func (u *messageUsecase) recipientMessage(ctx context.Context, id int64) (*domain.UserMessage, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	msg, err := u.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.RecipientID != userID {
		return nil, apperror.NotFound("Message not found")
	}
	return msg, nil
}

func (u *messageUsecase) MarkRead(ctx context.Context, id int64) error {
	msg, err := u.recipientMessage(ctx, id)
	if err != nil {
		return err
	}
	if msg.IsRead {
		// Idempotent: the first read timestamp stays
		return nil
	}
	return u.messageRepo.MarkRead(ctx, id)
}

func (u *messageUsecase) Delete(ctx context.Context, id int64) error {
	if _, err := u.recipientMessage(ctx, id); err != nil {
		return err
	}
	return u.messageRepo.Delete(ctx, id)
}
