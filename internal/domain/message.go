package domain

import (
	"context"
	"time"
)

// UserMessage is the inbox-style direct message. Anonymous senders carry a
// display name and email instead of a sender id.
type UserMessage struct {
	ID          int64      `json:"id"`
	RecipientID string     `json:"recipient_id"`
	SenderID    *string    `json:"sender_id,omitempty"`
	SenderName  string     `json:"sender_name"`
	SenderEmail string     `json:"sender_email,omitempty"`
	Body        string     `json:"body"`
	IsRead      bool       `json:"is_read"`
	SentAt      time.Time  `json:"sent_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

type SendMessageInput struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Body        string `json:"body" validate:"required,max=4000"`
	// Required for anonymous senders only
	SenderName  string `json:"sender_name" validate:"omitempty,max=100,valid_name,no_emoji"`
	SenderEmail string `json:"sender_email" validate:"omitempty,email,max=254"`
}

// Deprecated thread model. The tables exist for schema compatibility and are
// cleaned up by the account deletion workflow, but no flow writes to them.
type Conversation struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationParticipant struct {
	ConversationID int64  `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

type DirectMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sent_at"`
}

type MessageRepository interface {
	Create(ctx context.Context, msg *UserMessage) error
	GetByID(ctx context.Context, id int64) (*UserMessage, error)
	ListInbox(ctx context.Context, recipientID string, limit, offset int) ([]UserMessage, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type MessageUsecase interface {
	Send(ctx context.Context, input SendMessageInput) (*UserMessage, error)
	Inbox(ctx context.Context, limit, offset int) ([]UserMessage, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
