package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.ChatMessage) (domain.ChatMessage, error)
	ListBySessionID(ctx context.Context, sessionID int64) ([]domain.ChatMessage, error)
	ListContentsByType(ctx context.Context, sessionID int64, messageType string) ([]string, error)
	CountByType(ctx context.Context, sessionID int64, messageType string) (int, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Create asigna message_order como el siguiente numero de la sesion.
func (r *PgMessageRepository) Create(ctx context.Context, message domain.ChatMessage) (domain.ChatMessage, error) {
	const query = `
		INSERT INTO chat_messages (session_id, message_type, content, message_order)
		SELECT $1, $2, $3, COALESCE(MAX(message_order), 0) + 1
		FROM chat_messages
		WHERE session_id = $1
		RETURNING id, message_order, sent_at
	`
	err := r.pool.QueryRow(ctx, query,
		message.SessionID,
		message.MessageType,
		message.Content,
	).Scan(&message.ID, &message.MessageOrder, &message.SentAt)
	if err != nil {
		return domain.ChatMessage{}, mapError(err)
	}
	return message, nil
}

func (r *PgMessageRepository) ListBySessionID(ctx context.Context, sessionID int64) ([]domain.ChatMessage, error) {
	const query = `
		SELECT id, session_id, message_type, content, message_order, sent_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY message_order ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var msg domain.ChatMessage
		err = rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.MessageType,
			&msg.Content,
			&msg.MessageOrder,
			&msg.SentAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// ListContentsByType devuelve el contenido de los mensajes de un tipo en el
// orden en que fueron enviados.
func (r *PgMessageRepository) ListContentsByType(ctx context.Context, sessionID int64, messageType string) ([]string, error) {
	const query = `
		SELECT content
		FROM chat_messages
		WHERE session_id = $1 AND message_type = $2
		ORDER BY message_order ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID, messageType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func (r *PgMessageRepository) CountByType(ctx context.Context, sessionID int64, messageType string) (int, error) {
	const query = `SELECT COUNT(*) FROM chat_messages WHERE session_id = $1 AND message_type = $2`
	var n int
	if err := r.pool.QueryRow(ctx, query, sessionID, messageType).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
