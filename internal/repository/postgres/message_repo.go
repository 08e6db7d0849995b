package postgres

import (
	"context"
	"errors"

	"go-cvnetwork-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type messageRepo struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) domain.MessageRepository {
	return &messageRepo{db: db}
}

const messageColumns = `id, recipient_id, sender_id, sender_name, sender_email,
	body, is_read, sent_at, read_at`

func (r *messageRepo) Create(ctx context.Context, msg *domain.UserMessage) error {
	query := `
		INSERT INTO user_messages (recipient_id, sender_id, sender_name, sender_email, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, sent_at`
	return r.db.QueryRow(ctx, query,
		msg.RecipientID, msg.SenderID, msg.SenderName, msg.SenderEmail, msg.Body,
	).Scan(&msg.ID, &msg.SentAt)
}

func (r *messageRepo) GetByID(ctx context.Context, id int64) (*domain.UserMessage, error) {
	var m domain.UserMessage
	err := r.db.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM user_messages WHERE id = $1`, id,
	).Scan(&m.ID, &m.RecipientID, &m.SenderID, &m.SenderName, &m.SenderEmail,
		&m.Body, &m.IsRead, &m.SentAt, &m.ReadAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *messageRepo) ListInbox(ctx context.Context, recipientID string, limit, offset int) ([]domain.UserMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `
		SELECT ` + messageColumns + `
		FROM user_messages
		WHERE recipient_id = $1
		ORDER BY is_read, sent_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.UserMessage{}
	for rows.Next() {
		var m domain.UserMessage
		err := rows.Scan(&m.ID, &m.RecipientID, &m.SenderID, &m.SenderName, &m.SenderEmail,
			&m.Body, &m.IsRead, &m.SentAt, &m.ReadAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_messages WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID,
	).Scan(&count)
	return count, err
}

// MarkRead sets the read timestamp once; re-reading keeps the original time.
func (r *messageRepo) MarkRead(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE user_messages
		SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1`, id)
	return err
}

func (r *messageRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_messages WHERE id = $1`, id)
	return err
}
