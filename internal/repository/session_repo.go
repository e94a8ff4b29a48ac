package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

// SessionRepository persiste las sesiones de chat.
type SessionRepository interface {
	Create(ctx context.Context, session domain.ChatSession) (domain.ChatSession, error)
	GetByID(ctx context.Context, id int64) (domain.ChatSession, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.ChatSession, error)
	Update(ctx context.Context, session domain.ChatSession) error
	Delete(ctx context.Context, id int64) error
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

const sessionColumns = `id, user_id, chat_mode, current_question_id, conversation_stage, status, started_at, last_activity`

func (r *PgSessionRepository) Create(ctx context.Context, session domain.ChatSession) (domain.ChatSession, error) {
	const query = `
		INSERT INTO chat_sessions (user_id, chat_mode, conversation_stage, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, started_at, last_activity
	`
	err := r.pool.QueryRow(ctx, query,
		session.UserID,
		session.ChatMode,
		session.ConversationStage,
		session.Status,
	).Scan(&session.ID, &session.StartedAt, &session.LastActivity)
	if err != nil {
		return domain.ChatSession{}, mapError(err)
	}
	return session, nil
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id int64) (domain.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = $1`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

func (r *PgSessionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE user_id = $1 ORDER BY started_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.ChatSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Update guarda la pregunta actual, la etapa y el estado, y refresca last_activity.
func (r *PgSessionRepository) Update(ctx context.Context, session domain.ChatSession) error {
	const query = `
		UPDATE chat_sessions
		SET current_question_id = $1, conversation_stage = $2, status = $3, last_activity = NOW()
		WHERE id = $4
	`
	tag, err := r.pool.Exec(ctx, query,
		session.CurrentQuestionID,
		session.ConversationStage,
		session.Status,
		session.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete borra la sesion junto con todo lo que cuelga de ella: mensajes,
// evaluacion, respuestas, resultado, feedback y comentarios.
func (r *PgSessionRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM evaluator_comments WHERE evaluation_id IN (SELECT id FROM evaluations WHERE session_id = $1)`,
		`DELETE FROM student_feedback WHERE evaluation_id IN (SELECT id FROM evaluations WHERE session_id = $1)`,
		`DELETE FROM evaluation_results WHERE evaluation_id IN (SELECT id FROM evaluations WHERE session_id = $1)`,
		`DELETE FROM user_answers WHERE evaluation_id IN (SELECT id FROM evaluations WHERE session_id = $1)`,
		`DELETE FROM evaluations WHERE session_id = $1`,
		`DELETE FROM chat_messages WHERE session_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete session %d: %w", id, err)
		}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func scanSession(row rowScanner) (domain.ChatSession, error) {
	var s domain.ChatSession
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.ChatMode,
		&s.CurrentQuestionID,
		&s.ConversationStage,
		&s.Status,
		&s.StartedAt,
		&s.LastActivity,
	)
	if err != nil {
		return domain.ChatSession{}, mapError(err)
	}
	return s, nil
}
